package mock

import (
	"context"
	"sync"

	"github.com/rendau/smsgw/adapters/gateway"
	"github.com/rendau/smsgw/adapters/logger"
	"github.com/rendau/smsgw/gwErrs"
)

const (
	ErrNoResponse = gwErrs.Err("mock_no_response")
)

type St struct {
	lg logger.Lite

	calls     []CallSt
	responses map[string]ResponseSt
	mu        sync.Mutex
}

type CallSt struct {
	Op   string
	Args []string
}

type ResponseSt struct {
	Raw string
	Err error
}

var _ gateway.Transport = (*St)(nil)

func New(lg logger.Lite) *St {
	return &St{
		lg:        lg,
		calls:     []CallSt{},
		responses: map[string]ResponseSt{},
	}
}

func (m *St) SetResponse(op string, raw string) {
	m.SetResponseSt(op, ResponseSt{Raw: raw})
}

func (m *St) SetError(op string, err error) {
	m.SetResponseSt(op, ResponseSt{Err: err})
}

func (m *St) SetResponseSt(op string, rep ResponseSt) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.responses[op] = rep
}

func (m *St) GetConnection(ctx context.Context, account, password string) (string, error) {
	return m.call(ctx, gateway.OpGetConnection, account, password)
}

func (m *St) CloseConnection(ctx context.Context, session string) (string, error) {
	return m.call(ctx, gateway.OpCloseConnection, session)
}

func (m *St) SendSMS(ctx context.Context, session, subject, content, recipients, sendTime string) (string, error) {
	return m.call(ctx, gateway.OpSendSMS, session, subject, content, recipients, sendTime)
}

func (m *St) SendParamSMS(ctx context.Context, session, subject, xmlPayload, sendTime string) (string, error) {
	return m.call(ctx, gateway.OpSendParamSMS, session, subject, xmlPayload, sendTime)
}

func (m *St) GetDeliveryStatus(ctx context.Context, session, batchId, page string) (*gateway.DeliveryStatusRep, error) {
	raw, err := m.call(ctx, gateway.OpGetDeliveryStatus, session, batchId, page)
	if err != nil {
		return nil, err
	}

	return &gateway.DeliveryStatusRep{Result: raw}, nil
}

func (m *St) call(ctx context.Context, op string, args ...string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}

	m.calls = append(m.calls, CallSt{Op: op, Args: args})

	rep, ok := m.responses[op]
	if !ok {
		m.lg.Infow("Gateway-mock, no response", "op", op)
		return "", ErrNoResponse
	}

	return rep.Raw, rep.Err
}

func (m *St) Calls() []CallSt {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]CallSt, len(m.calls))
	copy(result, m.calls)

	return result
}

// LastCall returns the most recent call of op.
func (m *St) LastCall(op string) (CallSt, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := len(m.calls) - 1; i >= 0; i-- {
		if m.calls[i].Op == op {
			return m.calls[i], true
		}
	}

	return CallSt{}, false
}

func (m *St) Clean() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = []CallSt{}
	m.responses = map[string]ResponseSt{}
}
