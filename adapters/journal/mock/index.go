package mock

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/rendau/smsgw/adapters/journal"
	"github.com/rendau/smsgw/gwErrs"
)

type St struct {
	entries map[uuid.UUID]journal.EntrySt
	err     error
	mu      sync.Mutex
}

var _ journal.Journal = (*St)(nil)

func New() *St {
	return &St{
		entries: map[uuid.UUID]journal.EntrySt{},
	}
}

// SetError makes every following call fail with err, nil restores.
func (m *St) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.err = err
}

func (m *St) Add(_ context.Context, e *journal.EntrySt) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return m.err
	}

	if _, ok := m.entries[e.BatchId]; !ok {
		m.entries[e.BatchId] = *e
	}

	return nil
}

func (m *St) Get(_ context.Context, batchId uuid.UUID) (*journal.EntrySt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}

	e, ok := m.entries[batchId]
	if !ok {
		return nil, gwErrs.ObjectNotFound
	}

	return &e, nil
}

func (m *St) List(_ context.Context, limit int) ([]*journal.EntrySt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}
	if limit <= 0 {
		return nil, gwErrs.ErrWithDesc{Err: gwErrs.InvalidArgument, Desc: "limit"}
	}

	result := make([]*journal.EntrySt, 0, len(m.entries))
	for _, e := range m.entries {
		e := e
		result = append(result, &e)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if len(result) > limit {
		result = result[:limit]
	}

	return result, nil
}

func (m *St) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.entries)
}
