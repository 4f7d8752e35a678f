package httpc

const (
	LogRequest         = 1
	LogResponse        = 2
	NoLogError         = 4
	NoLogNotAuthorized = 8
	NoLogBadStatus     = 16
)

const (
	ContentTypeXml = "text/xml; charset=utf-8"
)
