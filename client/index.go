package client

import (
	"context"
	"encoding/xml"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/rendau/smsgw/adapters/cache"
	"github.com/rendau/smsgw/adapters/gateway"
	"github.com/rendau/smsgw/adapters/journal"
	"github.com/rendau/smsgw/adapters/logger"
	"github.com/rendau/smsgw/gwErrs"
	"github.com/rendau/smsgw/gwTools"
	"github.com/rendau/smsgw/gwTypes"
)

const (
	connectionSuccessCode = "0"
	disconnectSuccessRep  = "1"
)

// St talks to one gateway account. The session token is guarded, so one St
// may be shared, but a Connect racing with sends decides which token those
// sends carry.
type St struct {
	lg        logger.Lite
	transport gateway.Transport
	opts      OptionsSt

	session string
	mu      sync.RWMutex
}

type OptionsSt struct {
	// PhoneRegion is the default region for personalized-send mobiles, "TW" when empty.
	PhoneRegion string

	StatusCache    cache.Cache
	StatusCacheTtl time.Duration

	Journal journal.Journal

	Now func() time.Time
}

func New(lg logger.Lite, transport gateway.Transport, opts OptionsSt) *St {
	if opts.PhoneRegion == "" {
		opts.PhoneRegion = gwTools.DefaultPhoneRegion
	}
	if opts.StatusCacheTtl <= 0 {
		opts.StatusCacheTtl = time.Minute
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &St{
		lg:        lg,
		transport: transport,
		opts:      opts,
	}
}

type connectionRepSt struct {
	XMLName xml.Name `xml:"SMS"`
	Conn    *struct {
		Code        *string `xml:"CODE"`
		SessionKey  *string `xml:"SESSION_KEY"`
		Description *string `xml:"DESCRIPTION"`
	} `xml:"GET_CONNECTION"`
}

// Connect logs in. The returned payload is the session key even on failure,
// but only a successful login makes it the active session.
func (c *St) Connect(ctx context.Context, account, password string) (*gwTypes.Result[string], error) {
	raw, err := c.transport.GetConnection(ctx, account, password)
	if err != nil {
		c.lg.Errorw("Fail to get connection", err, "account", account)
		return nil, err
	}

	rep := connectionRepSt{}

	err = decodeXml(raw, &rep)
	if err != nil {
		c.lg.Errorw("Fail to parse connection response", err, "raw", raw)
		return nil, gwErrs.ErrWithDesc{Err: gwErrs.BadResponse, Desc: err.Error()}
	}

	if rep.Conn == nil || rep.Conn.Code == nil || rep.Conn.SessionKey == nil || rep.Conn.Description == nil {
		c.lg.Errorw("Bad connection response", nil, "raw", raw)
		return nil, gwErrs.ErrWithDesc{Err: gwErrs.BadResponse, Desc: "incomplete GET_CONNECTION"}
	}

	code, key, desc := *rep.Conn.Code, *rep.Conn.SessionKey, *rep.Conn.Description

	result := &gwTypes.Result[string]{
		Payload: key,
		Message: code + ":" + desc,
	}

	if code != connectionSuccessCode {
		c.lg.Warnw("Connection refused", "account", account, "code", code, "desc", desc)
		return result, nil
	}

	result.Status = gwTypes.StatusSuccess
	c.SetSession(key)

	return result, nil
}

// SetSession adopts a token obtained earlier, it is not validated.
func (c *St) SetSession(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.session = token
}

func (c *St) Session() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.session
}

// Disconnect closes the given session. The active session is left as is.
func (c *St) Disconnect(ctx context.Context, token string) (*gwTypes.Result[struct{}], error) {
	raw, err := c.transport.CloseConnection(ctx, token)
	if err != nil {
		c.lg.Errorw("Fail to close connection", err)
		return nil, err
	}

	result := &gwTypes.Result[struct{}]{}

	if raw == disconnectSuccessRep {
		result.Status = gwTypes.StatusSuccess
	} else {
		result.Message = raw
		c.lg.Warnw("Close connection refused", "rep", raw)
	}

	return result, nil
}

// decodeXml reads an xml document that arrived as a string inside the soap
// envelope. Its text is already decoded, so whatever encoding the prolog
// declares (the gateway says utf-16) is ignored.
func decodeXml(raw string, dst any) error {
	dec := xml.NewDecoder(strings.NewReader(raw))
	dec.CharsetReader = func(_ string, in io.Reader) (io.Reader, error) {
		return in, nil
	}

	return dec.Decode(dst)
}
