package httpc

import (
	"net/http"
	"time"
)

type OptionsSt struct {
	Client         *http.Client
	BaseUrl        string
	BaseHeaders    http.Header
	BaseLogPrefix  string
	BasicAuthCreds *BasicAuthCredsSt

	Method    string
	Path      string
	Headers   http.Header
	LogFlags  int
	LogPrefix string
	Timeout   time.Duration
}

type BasicAuthCredsSt struct {
	Username string
	Password string
}

// GetMergedWith overlays v on o. A "-" string or a negative number in v
// resets the field to empty.
func (o OptionsSt) GetMergedWith(v OptionsSt) OptionsSt {
	res := o

	if v.Client != nil {
		res.Client = v.Client
	}
	if v.BaseUrl != "" {
		res.BaseUrl = resetOr(v.BaseUrl)
	}
	if v.BaseHeaders != nil {
		res.BaseHeaders = v.BaseHeaders
	}
	if v.BaseLogPrefix != "" {
		res.BaseLogPrefix = resetOr(v.BaseLogPrefix)
	}
	if v.BasicAuthCreds != nil {
		res.BasicAuthCreds = v.BasicAuthCreds
	}
	if v.Method != "" {
		res.Method = resetOr(v.Method)
	}
	if v.Path != "" {
		res.Path = resetOr(v.Path)
	}
	if v.Headers != nil {
		res.Headers = v.Headers
	}
	if v.LogFlags != 0 {
		if v.LogFlags < 0 {
			res.LogFlags = 0
		} else {
			res.LogFlags = v.LogFlags
		}
	}
	if v.LogPrefix != "" {
		res.LogPrefix = resetOr(v.LogPrefix)
	}
	if v.Timeout != 0 {
		if v.Timeout < 0 {
			res.Timeout = 0
		} else {
			res.Timeout = v.Timeout
		}
	}

	return res
}

// AllHeaders returns base headers overlaid with per-call headers.
func (o OptionsSt) AllHeaders() http.Header {
	res := http.Header{}

	for k, v := range o.BaseHeaders {
		res[k] = v
	}
	for k, v := range o.Headers {
		res[k] = v
	}

	return res
}

func resetOr(v string) string {
	if v == "-" {
		return ""
	}
	return v
}
