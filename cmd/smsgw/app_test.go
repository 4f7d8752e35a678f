package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rendau/smsgw/adapters/cache/mem"
	"github.com/rendau/smsgw/adapters/gateway"
	"github.com/rendau/smsgw/adapters/gateway/mock"
	journalMock "github.com/rendau/smsgw/adapters/journal/mock"
	"github.com/rendau/smsgw/adapters/logger/zap"
	"github.com/rendau/smsgw/client"
	"github.com/rendau/smsgw/gwErrs"
	"github.com/rendau/smsgw/gwTypes"
)

const testBatchId = "3fa85f64-5717-4562-b3fc-2c963f66afa6"

const connectOkXml = `<SMS><GET_CONNECTION><CODE>0</CODE><SESSION_KEY>K1</SESSION_KEY><DESCRIPTION>ok</DESCRIPTION></GET_CONNECTION></SMS>`

func newTestApp(t *testing.T) (*appSt, *mock.St, *journalMock.St, *bytes.Buffer) {
	t.Helper()

	lg := zap.NewNop()
	tr := mock.New(lg)
	jr := journalMock.New()
	out := &bytes.Buffer{}

	conf := defaultConf
	conf.SmsAccount = "acc"
	conf.SmsPassword = "psw"

	tr.SetResponse(gateway.OpGetConnection, connectOkXml)
	tr.SetResponse(gateway.OpCloseConnection, "1")

	app := (&appSt{}).init(&conf, lg, tr, mem.New(), jr, out)

	return app, tr, jr, out
}

func TestRunSend(t *testing.T) {
	ctx := context.Background()

	app, tr, jr, out := newTestApp(t)

	tr.SetResponse(gateway.OpSendSMS, "90,2,2,0,"+testBatchId)

	err := app.run(ctx, []string{"send", "-subject", "hi", "-content", "hello", "-to", "0912345678, 0922333444", "-at", "20240102030405"})
	if err != nil {
		t.Fatal(err)
	}

	call, ok := tr.LastCall(gateway.OpSendSMS)
	if !ok {
		t.Fatal("sendSMS was not called")
	}
	if call.Args[0] != "K1" {
		t.Errorf("session = %q", call.Args[0])
	}
	if call.Args[3] != "0912345678,0922333444" {
		t.Errorf("recipients = %q", call.Args[3])
	}
	if call.Args[4] != "20240102030405" {
		t.Errorf("send time = %q", call.Args[4])
	}

	if _, ok = tr.LastCall(gateway.OpCloseConnection); !ok {
		t.Error("session was not closed")
	}

	rep := map[string]any{}
	if err = json.Unmarshal(out.Bytes(), &rep); err != nil {
		t.Fatal(err)
	}
	if rep["status"] != "success" {
		t.Errorf("status = %v", rep["status"])
	}

	if jr.Len() != 1 {
		t.Errorf("journal len = %d", jr.Len())
	}
}

func TestRunSendFailure(t *testing.T) {
	app, tr, _, out := newTestApp(t)

	tr.SetResponse(gateway.OpSendSMS, "-99,server busy")

	err := app.run(context.Background(), []string{"send", "-to", "0912345678"})
	if !errors.Is(err, ErrOperationFailed) {
		t.Fatalf("err = %v", err)
	}
	if !strings.Contains(out.String(), `"failure"`) {
		t.Errorf("out = %s", out.String())
	}
	if _, ok := tr.LastCall(gateway.OpCloseConnection); !ok {
		t.Error("session was not closed")
	}
}

func TestRunNotConnected(t *testing.T) {
	app, tr, _, _ := newTestApp(t)

	tr.SetResponse(gateway.OpGetConnection, `<SMS><GET_CONNECTION><CODE>-1</CODE><SESSION_KEY></SESSION_KEY><DESCRIPTION>denied</DESCRIPTION></GET_CONNECTION></SMS>`)

	err := app.run(context.Background(), []string{"status", "-batch", testBatchId})
	if !errors.Is(err, ErrNotConnected) {
		t.Fatalf("err = %v", err)
	}
	if _, ok := tr.LastCall(gateway.OpGetDeliveryStatus); ok {
		t.Error("status was queried without a session")
	}
	if _, ok := tr.LastCall(gateway.OpCloseConnection); ok {
		t.Error("close was called without a session")
	}
}

func TestRunSendParam(t *testing.T) {
	app, tr, _, _ := newTestApp(t)

	tr.SetResponse(gateway.OpSendParamSMS, "10,1,1,0,"+testBatchId)

	path := filepath.Join(t.TempDir(), "msgs.json")

	err := os.WriteFile(path, []byte(`[{"name":"A","mobile":"0912345678","content":"hi"}]`), 0o600)
	if err != nil {
		t.Fatal(err)
	}

	err = app.run(context.Background(), []string{"send-param", "-subject", "s", "-file", path})
	if err != nil {
		t.Fatal(err)
	}

	call, _ := tr.LastCall(gateway.OpSendParamSMS)
	if !strings.Contains(call.Args[2], `MOBILE="+886912345678"`) {
		t.Errorf("payload = %s", call.Args[2])
	}
}

func TestRunStatus(t *testing.T) {
	app, tr, _, out := newTestApp(t)

	tr.SetResponse(gateway.OpGetDeliveryStatus, "<ROWS/>")

	err := app.run(context.Background(), []string{"status", "-batch", testBatchId, "-page", "2"})
	if err != nil {
		t.Fatal(err)
	}

	call, _ := tr.LastCall(gateway.OpGetDeliveryStatus)
	if call.Args[1] != testBatchId || call.Args[2] != "2" {
		t.Errorf("args = %v", call.Args)
	}
	if !strings.Contains(out.String(), "ROWS") {
		t.Errorf("out = %s", out.String())
	}
}

func TestRunJournal(t *testing.T) {
	ctx := context.Background()

	app, tr, _, out := newTestApp(t)

	tr.SetResponse(gateway.OpSendSMS, "90,1,1,0,"+testBatchId)

	if err := app.run(ctx, []string{"send", "-to", "0912345678"}); err != nil {
		t.Fatal(err)
	}

	out.Reset()

	if err := app.run(ctx, []string{"journal", "-limit", "5"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), testBatchId) {
		t.Errorf("out = %s", out.String())
	}

	out.Reset()

	if err := app.run(ctx, []string{"journal", "-batch", testBatchId}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), `"kind": "sms"`) {
		t.Errorf("out = %s", out.String())
	}

	err := app.run(ctx, []string{"journal", "-batch", "00000000-0000-0000-0000-000000000001"})
	if !errors.Is(err, gwErrs.ObjectNotFound) {
		t.Errorf("err = %v", err)
	}

	if err = app.run(ctx, []string{"journal", "-batch", "nope"}); !errors.Is(err, gwErrs.InvalidArgument) {
		t.Errorf("err = %v", err)
	}

	app.journal = nil

	if err := app.run(ctx, []string{"journal"}); !errors.Is(err, gwErrs.ServiceNA) {
		t.Errorf("err = %v", err)
	}
}

func TestRunBadArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want error
	}{
		{name: "no command", args: nil, want: ErrUnknownCommand},
		{name: "unknown command", args: []string{"bogus"}, want: ErrUnknownCommand},
		{name: "send without to", args: []string{"send"}, want: gwErrs.InvalidArgument},
		{name: "bad time", args: []string{"send", "-to", "1", "-at", "tomorrow"}, want: gwErrs.InvalidArgument},
		{name: "status without batch", args: []string{"status"}, want: gwErrs.InvalidArgument},
		{name: "send-param without file", args: []string{"send-param"}, want: gwErrs.InvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, tr, _, _ := newTestApp(t)

			err := app.run(context.Background(), tt.args)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
			if len(tr.Calls()) != 0 {
				t.Errorf("gateway calls = %v", tr.Calls())
			}
		})
	}
}

func TestRunServeStops(t *testing.T) {
	app, _, _, _ := newTestApp(t)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	if err := app.run(ctx, []string{"serve", "-addr", "127.0.0.1:0"}); err != nil {
		t.Fatal(err)
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" a, ,b ,")
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("splitList = %v", got)
	}
}

// sessionTransport hands out a fresh key per login and rejects sends on a key
// that was already closed, the way the real gateway does.
type sessionTransport struct {
	mu   sync.Mutex
	seq  int
	open map[string]bool
}

func (s *sessionTransport) GetConnection(_ context.Context, _, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	key := fmt.Sprintf("K%d", s.seq)
	s.open[key] = true

	return `<SMS><GET_CONNECTION><CODE>0</CODE><SESSION_KEY>` + key + `</SESSION_KEY><DESCRIPTION>ok</DESCRIPTION></GET_CONNECTION></SMS>`, nil
}

func (s *sessionTransport) CloseConnection(_ context.Context, session string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.open, session)

	return "1", nil
}

func (s *sessionTransport) SendSMS(_ context.Context, session, _, _, _, _ string) (string, error) {
	// let other requests log in and out meanwhile
	time.Sleep(5 * time.Millisecond)

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open[session] {
		return "-301,Session invalid", nil
	}

	return "90,1,1,0," + testBatchId, nil
}

func (s *sessionTransport) SendParamSMS(context.Context, string, string, string, string) (string, error) {
	return "", errors.New("not used")
}

func (s *sessionTransport) GetDeliveryStatus(context.Context, string, string, string) (*gateway.DeliveryStatusRep, error) {
	return nil, errors.New("not used")
}

func TestConcurrentRequestsKeepOwnSession(t *testing.T) {
	const workers = 20

	tr := &sessionTransport{open: map[string]bool{}}

	conf := defaultConf
	app := (&appSt{}).init(&conf, zap.NewNop(), tr, mem.New(), nil, &bytes.Buffer{})

	results := make([]*gwTypes.Result[*gwTypes.SendResult], workers)
	errs := make([]error, workers)

	wg := sync.WaitGroup{}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = app.SendSms(context.Background(), gwTypes.Message{Content: "hi"}, []string{"0912345678"}, nil)
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		if errs[i] != nil {
			t.Errorf("request %d: err = %v", i, errs[i])
			continue
		}
		if !results[i].Ok() {
			t.Errorf("request %d: status = %v, message = %q", i, results[i].Status, results[i].Message)
		}
	}

	if tr.seq != workers {
		t.Errorf("logins = %d, want %d", tr.seq, workers)
	}
	if len(tr.open) != 0 {
		t.Errorf("sessions left open: %v", tr.open)
	}
}

func TestNewAppBasicAuth(t *testing.T) {
	tests := []struct {
		name     string
		user     string
		password string
		wantAuth bool
	}{
		{name: "off", wantAuth: false},
		{name: "on", user: "proxy", password: "secret", wantAuth: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var (
				mu     sync.Mutex
				calls  int
				badReq []string
			)

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				user, password, ok := r.BasicAuth()

				mu.Lock()
				calls++
				if ok != tt.wantAuth || user != tt.user || password != tt.password {
					badReq = append(badReq, fmt.Sprintf("%s: auth = %q/%q/%v", r.Header.Get("Soapaction"), user, password, ok))
				}
				mu.Unlock()

				op, result := gateway.OpCloseConnection, "1"
				if strings.Contains(r.Header.Get("Soapaction"), gateway.OpGetConnection) {
					op = gateway.OpGetConnection
					result = `&lt;SMS&gt;&lt;GET_CONNECTION&gt;&lt;CODE&gt;0&lt;/CODE&gt;&lt;SESSION_KEY&gt;K&lt;/SESSION_KEY&gt;&lt;DESCRIPTION&gt;ok&lt;/DESCRIPTION&gt;&lt;/GET_CONNECTION&gt;&lt;/SMS&gt;`
				}

				w.Header().Set("Content-Type", "text/xml; charset=utf-8")
				_, _ = w.Write([]byte(`<?xml version="1.0" encoding="utf-8"?>` +
					`<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/"><soap:Body>` +
					`<` + op + `Response><` + op + `Result>` + result + `</` + op + `Result></` + op + `Response>` +
					`</soap:Body></soap:Envelope>`))
			}))
			defer srv.Close()

			conf := defaultConf
			conf.SmsUrl = srv.URL
			conf.SmsHttpUser = tt.user
			conf.SmsHttpPassword = tt.password

			app, err := newApp(context.Background(), &conf, zap.NewNop(), &bytes.Buffer{})
			if err != nil {
				t.Fatal(err)
			}
			defer app.close()

			err = app.withSession(context.Background(), func(*client.St) error { return nil })
			if err != nil {
				t.Fatal(err)
			}

			mu.Lock()
			defer mu.Unlock()

			if calls != 2 {
				t.Errorf("calls = %d, want 2", calls)
			}
			for _, v := range badReq {
				t.Error(v)
			}
		})
	}
}
