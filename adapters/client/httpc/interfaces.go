package httpc

import "context"

type HttpC interface {
	Send(ctx context.Context, reqBody []byte, opts OptionsSt) ([]byte, int, error)
	SendXml(ctx context.Context, reqObj any, opts OptionsSt) ([]byte, int, error)
	SendXmlRecvXml(ctx context.Context, reqObj, repObj any, opts OptionsSt) ([]byte, int, error)
}
