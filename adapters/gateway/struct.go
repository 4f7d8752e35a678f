package gateway

const (
	OpGetConnection     = "getConnection"
	OpCloseConnection   = "closeConnection"
	OpSendSMS           = "sendSMS"
	OpSendParamSMS      = "sendParamSMS"
	OpGetDeliveryStatus = "getDeliveryStatus"
)

// DeliveryStatusRep is whatever the provider returned for getDeliveryStatus.
type DeliveryStatusRep struct {
	Result string `json:"result"`
}
