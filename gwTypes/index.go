package gwTypes

import (
	"time"

	"github.com/google/uuid"
)

// Status is the outcome class of a gateway operation.
// The zero value is StatusFailure.
type Status int

const (
	StatusFailure Status = iota
	StatusSuccess
	StatusUnauthorized
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusUnauthorized:
		return "unauthorized"
	default:
		return "failure"
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

type Result[T any] struct {
	Status  Status `json:"status"`
	Payload T      `json:"payload"`
	Message string `json:"message,omitempty"`
}

func (r *Result[T]) Ok() bool {
	return r != nil && r.Status == StatusSuccess
}

// SendResult is the decoded reply of sendSMS / sendParamSMS.
// Credit below zero is an error code, not a balance.
type SendResult struct {
	Credit  float64   `json:"credit"`
	Sent    int       `json:"sent"`
	Cost    float64   `json:"cost"`
	Unsent  int       `json:"unsent"`
	BatchId uuid.UUID `json:"batch_id"`
	Message string    `json:"message,omitempty"`
}

type Message struct {
	Subject string `json:"subject"`
	Content string `json:"content"`
}

// PersonalizedMessage has no json shape of its own, callers decode into
// rest.MessageReqSt so every send time on the wire uses one layout.
type PersonalizedMessage struct {
	Name     string
	Mobile   string
	Email    string
	SendTime *time.Time
	Content  string
}

// ErrRep is the http error body.
type ErrRep struct {
	ErrorCode string `json:"error_code"`
	Desc      string `json:"desc,omitempty"`
}
