package journal

import (
	"time"

	"github.com/google/uuid"
)

const (
	KindSms      = "sms"
	KindParamSms = "param_sms"
)

// EntrySt is one accepted batch.
type EntrySt struct {
	BatchId    uuid.UUID `json:"batch_id"`
	Kind       string    `json:"kind"`
	Subject    string    `json:"subject"`
	Recipients int       `json:"recipients"`
	Credit     float64   `json:"credit"`
	Sent       int       `json:"sent"`
	Cost       float64   `json:"cost"`
	Unsent     int       `json:"unsent"`
	CreatedAt  time.Time `json:"created_at"`
}
