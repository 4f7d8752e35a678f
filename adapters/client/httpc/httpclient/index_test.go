package httpclient

import (
	"context"
	"encoding/xml"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rendau/smsgw/adapters/client/httpc"
	"github.com/rendau/smsgw/adapters/logger/zap"
	"github.com/rendau/smsgw/gwErrs"
)

type pingSt struct {
	XMLName xml.Name `xml:"ping"`
	Value   string   `xml:"value"`
}

type pongSt struct {
	XMLName xml.Name `xml:"pong"`
	Value   string   `xml:"value"`
}

func TestSendXmlRecvXml(t *testing.T) {
	var gotContentType, gotAction, gotBody string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		gotAction = r.Header.Get("SOAPAction")
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)

		_, _ = w.Write([]byte(`<pong><value>world</value></pong>`))
	}))
	defer srv.Close()

	c := New(zap.NewNop(), httpc.OptionsSt{
		BaseUrl:     srv.URL,
		BaseHeaders: http.Header{"Soapaction": {`"urn:ping"`}},
	})

	rep := pongSt{}

	_, statusCode, err := c.SendXmlRecvXml(context.Background(), pingSt{Value: "hello"}, &rep, httpc.OptionsSt{})
	if err != nil {
		t.Fatal(err)
	}

	if statusCode != http.StatusOK {
		t.Errorf("status code = %d", statusCode)
	}
	if rep.Value != "world" {
		t.Errorf("rep.Value = %q", rep.Value)
	}
	if gotContentType != httpc.ContentTypeXml {
		t.Errorf("Content-Type = %q", gotContentType)
	}
	if gotAction != `"urn:ping"` {
		t.Errorf("SOAPAction = %q", gotAction)
	}
	if !strings.HasPrefix(gotBody, xml.Header) || !strings.Contains(gotBody, "<value>hello</value>") {
		t.Errorf("body = %q", gotBody)
	}
}

func TestSendBadStatus(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		wantErr    error
	}{
		{name: "server error", statusCode: http.StatusInternalServerError, wantErr: gwErrs.BadStatusCode},
		{name: "unauthorized", statusCode: http.StatusUnauthorized, wantErr: gwErrs.NotAuthorized},
		{name: "forbidden", statusCode: http.StatusForbidden, wantErr: gwErrs.NotAuthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte("fault body"))
			}))
			defer srv.Close()

			c := New(zap.NewNop(), httpc.OptionsSt{BaseUrl: srv.URL})

			body, statusCode, err := c.Send(context.Background(), []byte("x"), httpc.OptionsSt{})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
			if statusCode != tt.statusCode {
				t.Errorf("status code = %d, want %d", statusCode, tt.statusCode)
			}
			if string(body) != "fault body" {
				t.Errorf("body = %q", body)
			}
		})
	}
}

func TestSendTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	c := New(zap.NewNop(), httpc.OptionsSt{BaseUrl: srv.URL, Timeout: 50 * time.Millisecond})

	_, _, err := c.Send(context.Background(), nil, httpc.OptionsSt{LogFlags: httpc.NoLogError})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want deadline exceeded", err)
	}
}

func TestSendUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(zap.NewNop(), httpc.OptionsSt{BaseUrl: url})

	_, _, err := c.Send(context.Background(), nil, httpc.OptionsSt{LogFlags: httpc.NoLogError})
	if !errors.Is(err, gwErrs.ServiceNA) {
		t.Errorf("err = %v, want service_not_available", err)
	}
}

func TestSendBadXml(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<pong><value>`))
	}))
	defer srv.Close()

	c := New(zap.NewNop(), httpc.OptionsSt{BaseUrl: srv.URL})

	_, _, err := c.SendXmlRecvXml(context.Background(), pingSt{}, &pongSt{}, httpc.OptionsSt{})
	if !errors.Is(err, gwErrs.BadXml) {
		t.Errorf("err = %v, want bad_xml", err)
	}
}
