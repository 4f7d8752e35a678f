package client

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rendau/smsgw/gwErrs"
	"github.com/rendau/smsgw/gwTypes"
)

const (
	CreditSessionInvalid = -301
	CreditServerError    = -99
)

const (
	MsgSessionInvalid = "session does not exist, please connect again"
	MsgServerError    = "unknown server-side error, contact the provider"
	MsgUnknownError   = "unknown error"

	serverMsgSep = "\nserver msg: "
)

// ParseCreditResponse decodes "credit,sent,cost,unsent,batchId" or
// "credit,message". The shape is told apart by the field count only.
func ParseCreditResponse(raw string) (*gwTypes.SendResult, error) {
	values := strings.Split(raw, ",")

	if len(values) < 2 {
		return nil, badCreditResponse(raw, "too few fields")
	}

	credit, err := strconv.ParseFloat(strings.TrimSpace(values[0]), 64)
	if err != nil {
		return nil, badCreditResponse(raw, "credit")
	}

	result := &gwTypes.SendResult{
		Credit: credit,
	}

	if len(values) == 2 {
		result.Message = values[1]
		return result, nil
	}

	if len(values) < 5 {
		return nil, badCreditResponse(raw, "too few fields")
	}

	if result.Sent, err = strconv.Atoi(strings.TrimSpace(values[1])); err != nil {
		return nil, badCreditResponse(raw, "sent")
	}
	if result.Cost, err = strconv.ParseFloat(strings.TrimSpace(values[2]), 64); err != nil {
		return nil, badCreditResponse(raw, "cost")
	}
	if result.Unsent, err = strconv.Atoi(strings.TrimSpace(values[3])); err != nil {
		return nil, badCreditResponse(raw, "unsent")
	}
	if result.BatchId, err = uuid.Parse(strings.TrimSpace(values[4])); err != nil {
		return nil, badCreditResponse(raw, "batch id")
	}

	return result, nil
}

// DecodeSendResponse parses raw and maps the credit to a status. With
// withServerMsg the server diagnostic is appended to failure messages.
func DecodeSendResponse(raw string, withServerMsg bool) *gwTypes.Result[*gwTypes.SendResult] {
	rep, err := ParseCreditResponse(raw)
	if err != nil {
		return &gwTypes.Result[*gwTypes.SendResult]{
			Status:  gwTypes.StatusFailure,
			Message: err.Error(),
		}
	}

	result := &gwTypes.Result[*gwTypes.SendResult]{
		Payload: rep,
	}

	switch {
	case rep.Credit >= 0:
		result.Status = gwTypes.StatusSuccess
		return result
	case rep.Credit == CreditSessionInvalid:
		result.Status = gwTypes.StatusUnauthorized
		result.Message = MsgSessionInvalid
	case rep.Credit == CreditServerError:
		result.Message = MsgServerError
	default:
		result.Message = MsgUnknownError
	}

	if withServerMsg {
		result.Message += serverMsgSep + rep.Message
	}

	return result
}

func badCreditResponse(raw, desc string) error {
	return gwErrs.ErrWithDesc{
		Err:  gwErrs.BadResponse,
		Desc: desc + ": " + strconv.Quote(raw),
	}
}
