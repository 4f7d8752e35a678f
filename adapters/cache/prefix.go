package cache

import "strings"

type Prefix string

const (
	DeliveryStatus Prefix = "delivery_status"
)

func (p Prefix) Key(parts ...string) string {
	return string(p) + ":" + strings.Join(parts, ":")
}
