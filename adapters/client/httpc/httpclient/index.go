package httpclient

import (
	"bytes"
	"context"
	"encoding/xml"
	"io"
	"net/http"
	"strings"

	"github.com/rendau/smsgw/adapters/client/httpc"
	"github.com/rendau/smsgw/adapters/logger"
	"github.com/rendau/smsgw/gwErrs"
)

type St struct {
	lg   logger.Lite
	opts httpc.OptionsSt
}

func New(lg logger.Lite, opts httpc.OptionsSt) *St {
	if opts.Client == nil {
		opts.Client = http.DefaultClient
	}
	if opts.Method == "" {
		opts.Method = http.MethodPost
	}
	if opts.BaseUrl != "" && opts.Path != "" {
		opts.BaseUrl = strings.TrimRight(opts.BaseUrl, "/") + "/"
	}

	return &St{
		lg:   lg,
		opts: opts,
	}
}

// Send returns the response body with the status code. For a non-2xx status
// the body is still returned alongside the error, SOAP faults travel that way.
func (c *St) Send(ctx context.Context, reqBody []byte, opts httpc.OptionsSt) ([]byte, int, error) {
	var err error

	opts = c.opts.GetMergedWith(opts)

	uri := opts.BaseUrl + opts.Path
	logPrefix := opts.BaseLogPrefix + opts.LogPrefix
	logError := opts.LogFlags&httpc.NoLogError <= 0

	if opts.LogFlags&httpc.LogRequest > 0 {
		c.lg.Infow(logPrefix+"request",
			"uri", uri,
			"body", string(reqBody),
		)
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, opts.Method, uri, bytes.NewReader(reqBody))
	if err != nil {
		if logError {
			c.lg.Errorw(logPrefix+"Fail to create http-request", err)
		}
		return nil, 0, err
	}

	req.Header = opts.AllHeaders()

	if opts.BasicAuthCreds != nil {
		req.SetBasicAuth(opts.BasicAuthCreds.Username, opts.BasicAuthCreds.Password)
	}

	rep, err := opts.Client.Do(req)
	if err != nil {
		if logError {
			c.lg.Errorw(
				logPrefix+"Fail to send http-request", err,
				"uri", uri,
				"req_body", string(reqBody),
			)
		}
		if ctx.Err() == nil {
			err = gwErrs.ErrWithDesc{Err: gwErrs.ServiceNA, Desc: err.Error()}
		}
		return nil, 0, err
	}
	defer rep.Body.Close()

	repBody, err := io.ReadAll(rep.Body)
	if err != nil {
		if logError {
			c.lg.Errorw(
				logPrefix+"Fail to read body", err,
				"uri", uri,
				"req_body", string(reqBody),
			)
		}
		return nil, rep.StatusCode, err
	}

	if rep.StatusCode < 200 || rep.StatusCode > 299 {
		if rep.StatusCode == http.StatusUnauthorized || rep.StatusCode == http.StatusForbidden {
			if logError && opts.LogFlags&httpc.NoLogNotAuthorized <= 0 {
				c.lg.Errorw(
					logPrefix+"Bad status code", nil,
					"status_code", rep.StatusCode,
					"rep_body", string(repBody),
					"uri", uri,
				)
			}
			return repBody, rep.StatusCode, gwErrs.NotAuthorized
		}
		if logError && opts.LogFlags&httpc.NoLogBadStatus <= 0 {
			c.lg.Errorw(
				logPrefix+"Bad status code", nil,
				"status_code", rep.StatusCode,
				"rep_body", string(repBody),
				"uri", uri,
				"req_body", string(reqBody),
			)
		}
		return repBody, rep.StatusCode, gwErrs.BadStatusCode
	}

	if opts.LogFlags&httpc.LogResponse > 0 {
		c.lg.Infow(logPrefix+"response",
			"uri", uri,
			"body", string(repBody),
		)
	}

	return repBody, rep.StatusCode, nil
}

func (c *St) SendXml(ctx context.Context, reqObj any, opts httpc.OptionsSt) ([]byte, int, error) {
	reqBody, err := marshalXml(reqObj)
	if err != nil {
		if opts.LogFlags&httpc.NoLogError <= 0 {
			c.lg.Errorw(opts.LogPrefix+"Fail to marshal xml", err)
		}
		return nil, 0, err
	}

	return c.Send(ctx, reqBody, withXmlHeaders(opts))
}

func (c *St) SendXmlRecvXml(ctx context.Context, reqObj, repObj any, opts httpc.OptionsSt) ([]byte, int, error) {
	repBody, statusCode, err := c.SendXml(ctx, reqObj, opts)
	if err != nil {
		return repBody, statusCode, err
	}

	if len(repBody) > 0 && repObj != nil {
		err = xml.Unmarshal(repBody, repObj)
		if err != nil {
			if opts.LogFlags&httpc.NoLogError <= 0 {
				c.lg.Errorw(
					opts.LogPrefix+"Fail to unmarshal body", err,
					"rep_body", string(repBody),
				)
			}
			return repBody, statusCode, gwErrs.ErrWithDesc{Err: gwErrs.BadXml, Desc: err.Error()}
		}
	}

	return repBody, statusCode, nil
}

func marshalXml(obj any) ([]byte, error) {
	body, err := xml.Marshal(obj)
	if err != nil {
		return nil, err
	}

	return append([]byte(xml.Header), body...), nil
}

func withXmlHeaders(opts httpc.OptionsSt) httpc.OptionsSt {
	headers := http.Header{}
	for k, v := range opts.Headers {
		headers[k] = v
	}

	headers.Set("Content-Type", httpc.ContentTypeXml)
	opts.Headers = headers

	return opts
}
