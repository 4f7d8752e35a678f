package gateway

import "context"

// Transport is the remote SMS gateway: five SOAP operations, no local logic.
type Transport interface {
	GetConnection(ctx context.Context, account, password string) (string, error)
	CloseConnection(ctx context.Context, session string) (string, error)
	SendSMS(ctx context.Context, session, subject, content, recipients, sendTime string) (string, error)
	SendParamSMS(ctx context.Context, session, subject, xmlPayload, sendTime string) (string, error)
	GetDeliveryStatus(ctx context.Context, session, batchId, page string) (*DeliveryStatusRep, error)
}
