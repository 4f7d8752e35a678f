package journal

import (
	"context"

	"github.com/google/uuid"
)

type Journal interface {
	Add(ctx context.Context, e *EntrySt) error
	Get(ctx context.Context, batchId uuid.UUID) (*EntrySt, error)
	List(ctx context.Context, limit int) ([]*EntrySt, error)
}
