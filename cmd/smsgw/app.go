package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rendau/smsgw/adapters/cache"
	"github.com/rendau/smsgw/adapters/cache/mem"
	"github.com/rendau/smsgw/adapters/cache/redis"
	"github.com/rendau/smsgw/adapters/client/httpc"
	"github.com/rendau/smsgw/adapters/client/httpc/httpclient"
	"github.com/rendau/smsgw/adapters/gateway"
	"github.com/rendau/smsgw/adapters/gateway/soap"
	"github.com/rendau/smsgw/adapters/journal"
	"github.com/rendau/smsgw/adapters/journal/pg"
	"github.com/rendau/smsgw/adapters/logger"
	"github.com/rendau/smsgw/adapters/server/https"
	"github.com/rendau/smsgw/adapters/server/rest"
	"github.com/rendau/smsgw/client"
	"github.com/rendau/smsgw/gwErrs"
	"github.com/rendau/smsgw/gwTypes"
)

const (
	ErrUnknownCommand  = gwErrs.Err("unknown_command")
	ErrNotConnected    = gwErrs.Err("not_connected")
	ErrOperationFailed = gwErrs.Err("operation_failed")
)

const closeSessionTimeout = 10 * time.Second

type appSt struct {
	lg         logger.Lite
	conf       *ConfSt
	transport  gateway.Transport
	clientOpts client.OptionsSt
	journal    journal.Journal
	out        io.Writer

	closers []func()
}

var _ rest.Core = (*appSt)(nil)

func newApp(ctx context.Context, conf *ConfSt, lg logger.Full, out io.Writer) (*appSt, error) {
	var logFlags int
	if conf.SmsLogHttp {
		logFlags = httpc.LogRequest | httpc.LogResponse
	}

	hcOpts := httpc.OptionsSt{
		BaseUrl:       conf.SmsUrl,
		BaseLogPrefix: "smsgw: ",
		Timeout:       conf.SmsTimeout,
		LogFlags:      logFlags,
	}
	if conf.SmsHttpUser != "" {
		hcOpts.BasicAuthCreds = &httpc.BasicAuthCredsSt{
			Username: conf.SmsHttpUser,
			Password: conf.SmsHttpPassword,
		}
	}

	hc := httpclient.New(lg, hcOpts)

	app := &appSt{}

	var statusCache cache.Cache = mem.New()

	if conf.RedisUrl != "" {
		rc := redis.New(lg, conf.RedisUrl, conf.RedisPsw, conf.RedisDb, conf.RedisKeyPfx)
		app.closers = append(app.closers, func() { _ = rc.Close() })

		if err := rc.Ping(ctx); err != nil {
			app.close()
			return nil, fmt.Errorf("redis: %w", err)
		}

		statusCache = rc
	}

	var jr journal.Journal

	if conf.PgDsn != "" {
		db, err := pg.New(conf.Debug, lg, pg.OptionsSt{Dsn: conf.PgDsn})
		if err != nil {
			app.close()
			return nil, err
		}
		app.closers = append(app.closers, db.Close)

		if err = db.Migrate(ctx); err != nil {
			app.close()
			return nil, err
		}

		jr = db
	}

	transport := soap.New(lg, hc, conf.SmsNamespace)

	return app.init(conf, lg, transport, statusCache, jr, out), nil
}

func (a *appSt) init(conf *ConfSt, lg logger.Lite, transport gateway.Transport, statusCache cache.Cache, jr journal.Journal, out io.Writer) *appSt {
	a.lg = lg
	a.conf = conf
	a.transport = transport
	a.journal = jr
	a.out = out
	a.clientOpts = client.OptionsSt{
		PhoneRegion:    conf.SmsPhoneRegion,
		StatusCache:    statusCache,
		StatusCacheTtl: conf.StatusCacheTtl,
		Journal:        jr,
	}

	return a
}

func (a *appSt) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func (a *appSt) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return gwErrs.ErrWithDesc{Err: ErrUnknownCommand, Desc: "expected one of: send, send-param, status, journal, serve"}
	}

	switch args[0] {
	case "send":
		return a.cmdSend(ctx, args[1:])
	case "send-param":
		return a.cmdSendParam(ctx, args[1:])
	case "status":
		return a.cmdStatus(ctx, args[1:])
	case "journal":
		return a.cmdJournal(ctx, args[1:])
	case "serve":
		return a.cmdServe(ctx, args[1:])
	}

	return gwErrs.ErrWithDesc{Err: ErrUnknownCommand, Desc: args[0]}
}

// core

func (a *appSt) SendSms(ctx context.Context, msg gwTypes.Message, recipients []string, sendTime *time.Time) (*gwTypes.Result[*gwTypes.SendResult], error) {
	var result *gwTypes.Result[*gwTypes.SendResult]

	err := a.withSession(ctx, func(c *client.St) (err error) {
		result, err = c.SendSms(ctx, msg, recipients, sendTime)
		return err
	})

	return result, err
}

func (a *appSt) SendPersonalizedSms(ctx context.Context, msgs []gwTypes.PersonalizedMessage, subject string, sendTime *time.Time) (*gwTypes.Result[*gwTypes.SendResult], error) {
	var result *gwTypes.Result[*gwTypes.SendResult]

	err := a.withSession(ctx, func(c *client.St) (err error) {
		result, err = c.SendPersonalizedSms(ctx, msgs, subject, sendTime)
		return err
	})

	return result, err
}

func (a *appSt) QueryStatus(ctx context.Context, batchId string, page int) (*gateway.DeliveryStatusRep, error) {
	var rep *gateway.DeliveryStatusRep

	err := a.withSession(ctx, func(c *client.St) (err error) {
		rep, err = c.QueryStatus(ctx, batchId, page)
		return err
	})

	return rep, err
}

func (a *appSt) ListJournal(ctx context.Context, limit int) ([]*journal.EntrySt, error) {
	if a.journal == nil {
		return nil, gwErrs.ErrWithDesc{Err: gwErrs.ServiceNA, Desc: "journal is not configured, set PG_DSN"}
	}

	return a.journal.List(ctx, limit)
}

func (a *appSt) GetJournalEntry(ctx context.Context, batchId string) (*journal.EntrySt, error) {
	if a.journal == nil {
		return nil, gwErrs.ErrWithDesc{Err: gwErrs.ServiceNA, Desc: "journal is not configured, set PG_DSN"}
	}

	id, err := uuid.Parse(batchId)
	if err != nil {
		return nil, gwErrs.ErrWithDesc{Err: gwErrs.InvalidArgument, Desc: "bad batch id"}
	}

	return a.journal.Get(ctx, id)
}

// withSession gives f a client with a session of its own and closes that
// session afterwards. Concurrent callers never see each other's token.
func (a *appSt) withSession(ctx context.Context, f func(c *client.St) error) error {
	c := client.New(a.lg, a.transport, a.clientOpts)

	conn, err := c.Connect(ctx, a.conf.SmsAccount, a.conf.SmsPassword)
	if err != nil {
		return err
	}

	if !conn.Ok() {
		return gwErrs.ErrWithDesc{Err: ErrNotConnected, Desc: conn.Message}
	}

	defer func() {
		// ctx may be done already
		dCtx, cancel := context.WithTimeout(context.Background(), closeSessionTimeout)
		defer cancel()

		rep, err := c.Disconnect(dCtx, conn.Payload)
		if err != nil {
			a.lg.Warnw("Fail to close session", "error", err)
		} else if !rep.Ok() {
			a.lg.Warnw("Session was not closed", "message", rep.Message)
		}
	}()

	return f(c)
}

// commands

func (a *appSt) cmdSend(ctx context.Context, args []string) error {
	fs := newFlagSet("send")
	subject := fs.String("subject", "", "message subject")
	content := fs.String("content", "", "message text")
	to := fs.String("to", "", "comma separated recipients")
	at := fs.String("at", "", "send time, yyyyMMddHHmmss local")

	if err := fs.Parse(args); err != nil {
		return err
	}

	recipients := splitList(*to)
	if len(recipients) == 0 {
		return gwErrs.ErrWithDesc{Err: gwErrs.InvalidArgument, Desc: "-to is required"}
	}

	sendTime, err := rest.ParseSendTime(*at)
	if err != nil {
		return err
	}

	result, err := a.SendSms(ctx, gwTypes.Message{Subject: *subject, Content: *content}, recipients, sendTime)
	if err != nil {
		return err
	}

	return a.writeResult(result, result.Ok())
}

func (a *appSt) cmdSendParam(ctx context.Context, args []string) error {
	fs := newFlagSet("send-param")
	subject := fs.String("subject", "", "message subject")
	file := fs.String("file", "", "json file with a list of personalized messages, - for stdin")
	at := fs.String("at", "", "send time, yyyyMMddHHmmss local")

	if err := fs.Parse(args); err != nil {
		return err
	}

	msgs, err := readMessages(*file)
	if err != nil {
		return err
	}

	sendTime, err := rest.ParseSendTime(*at)
	if err != nil {
		return err
	}

	result, err := a.SendPersonalizedSms(ctx, msgs, *subject, sendTime)
	if err != nil {
		return err
	}

	return a.writeResult(result, result.Ok())
}

func (a *appSt) cmdStatus(ctx context.Context, args []string) error {
	fs := newFlagSet("status")
	batchId := fs.String("batch", "", "batch id")
	page := fs.Int("page", client.DefaultPage, "page, starting at 1")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *batchId == "" {
		return gwErrs.ErrWithDesc{Err: gwErrs.InvalidArgument, Desc: "-batch is required"}
	}

	rep, err := a.QueryStatus(ctx, *batchId, *page)
	if err != nil {
		return err
	}

	return a.writeResult(rep, true)
}

func (a *appSt) cmdJournal(ctx context.Context, args []string) error {
	fs := newFlagSet("journal")
	limit := fs.Int("limit", rest.DefaultJournalLimit, "max entries")
	batchId := fs.String("batch", "", "show one batch")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *batchId != "" {
		entry, err := a.GetJournalEntry(ctx, *batchId)
		if err != nil {
			return err
		}

		return a.writeResult(entry, true)
	}

	entries, err := a.ListJournal(ctx, *limit)
	if err != nil {
		return err
	}

	return a.writeResult(entries, true)
}

func (a *appSt) cmdServe(ctx context.Context, args []string) error {
	fs := newFlagSet("serve")
	addr := fs.String("addr", a.conf.HttpListen, "listen address")

	if err := fs.Parse(args); err != nil {
		return err
	}

	return https.Serve(ctx, a.lg, *addr, rest.GetHandler(a.lg, a, splitList(a.conf.HttpCorsOrigins)))
}

func (a *appSt) writeResult(v any, ok bool) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")

	if err := enc.Encode(v); err != nil {
		return err
	}

	if !ok {
		return ErrOperationFailed
	}

	return nil
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func readMessages(path string) ([]gwTypes.PersonalizedMessage, error) {
	var (
		data []byte
		err  error
	)

	switch path {
	case "":
		return nil, gwErrs.ErrWithDesc{Err: gwErrs.InvalidArgument, Desc: "-file is required"}
	case "-":
		data, err = io.ReadAll(os.Stdin)
	default:
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}

	reqs := make([]rest.MessageReqSt, 0)

	if err = json.Unmarshal(data, &reqs); err != nil {
		return nil, gwErrs.ErrWithDesc{Err: gwErrs.InvalidArgument, Desc: "bad messages file: " + err.Error()}
	}

	return rest.ToMessages(reqs)
}

func splitList(v string) []string {
	result := make([]string, 0)

	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			result = append(result, s)
		}
	}

	return result
}

func isUsageErr(err error) bool {
	return errors.Is(err, flag.ErrHelp) || errors.Is(err, ErrUnknownCommand)
}
