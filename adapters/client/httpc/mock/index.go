package mock

import (
	"context"
	"encoding/xml"
	"net/http"
	"strings"
	"sync"

	"github.com/rendau/smsgw/adapters/client/httpc"
	"github.com/rendau/smsgw/adapters/logger"
	"github.com/rendau/smsgw/gwErrs"
)

const (
	ErrPageNotFound = gwErrs.Err("page_not_found")
)

type St struct {
	lg logger.Lite

	requests  []*RequestSt
	responses map[string]ResponseSt
	mu        sync.Mutex
}

type RequestSt struct {
	Opts httpc.OptionsSt
	Raw  []byte
}

type ResponseSt struct {
	StatusCode int
	Raw        []byte
}

func New(lg logger.Lite) *St {
	return &St{
		lg: lg,

		requests:  []*RequestSt{},
		responses: map[string]ResponseSt{},
	}
}

// Key identifies a request: the SOAPAction header when present, else the path.
func Key(opts httpc.OptionsSt) string {
	if action := opts.AllHeaders().Get("SOAPAction"); action != "" {
		return strings.Trim(action, `"`)
	}

	return opts.Path
}

func (c *St) SetResponse(key string, response ResponseSt) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if response.StatusCode == 0 {
		response.StatusCode = http.StatusOK
	}

	c.responses[key] = response
}

func (c *St) Send(ctx context.Context, reqBody []byte, opts httpc.OptionsSt) ([]byte, int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	c.requests = append(c.requests, &RequestSt{
		Opts: opts,
		Raw:  reqBody,
	})

	key := Key(opts)

	response, ok := c.responses[key]
	if !ok {
		c.lg.Infow("Httpc-mock, key not found", "key", key)
		return nil, http.StatusNotFound, ErrPageNotFound
	}

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return response.Raw, response.StatusCode, gwErrs.BadStatusCode
	}

	return response.Raw, response.StatusCode, nil
}

func (c *St) SendXml(ctx context.Context, reqObj any, opts httpc.OptionsSt) ([]byte, int, error) {
	reqBody, err := xml.Marshal(reqObj)
	if err != nil {
		return nil, 0, err
	}

	headers := http.Header{}
	for k, v := range opts.Headers {
		headers[k] = v
	}
	headers.Set("Content-Type", httpc.ContentTypeXml)
	opts.Headers = headers

	return c.Send(ctx, reqBody, opts)
}

func (c *St) SendXmlRecvXml(ctx context.Context, reqObj, repObj any, opts httpc.OptionsSt) ([]byte, int, error) {
	repBody, statusCode, err := c.SendXml(ctx, reqObj, opts)
	if err != nil {
		return repBody, statusCode, err
	}

	if len(repBody) > 0 && repObj != nil {
		err = xml.Unmarshal(repBody, repObj)
		if err != nil {
			return repBody, statusCode, gwErrs.ErrWithDesc{Err: gwErrs.BadXml, Desc: err.Error()}
		}
	}

	return repBody, statusCode, nil
}

func (c *St) GetRequests() []*RequestSt {
	c.mu.Lock()
	defer c.mu.Unlock()

	result := make([]*RequestSt, len(c.requests))
	copy(result, c.requests)

	return result
}

// GetRequest finds the first request with the key and decodes its body into obj.
func (c *St) GetRequest(key string, obj any) (*RequestSt, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, req := range c.requests {
		if Key(req.Opts) != key {
			continue
		}

		if len(req.Raw) > 0 && obj != nil {
			err := xml.Unmarshal(req.Raw, obj)
			if err != nil {
				c.lg.Errorw("Fail to unmarshal xml", err)
				return nil, false
			}
		}

		return req, true
	}

	return nil, false
}

func (c *St) Clean() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.requests = []*RequestSt{}
	c.responses = map[string]ResponseSt{}
}
