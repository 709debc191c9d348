package pipeline

import (
	"context"
	"fmt"
)

// FanOut loads every batch into each loader in order. A failure stops the
// batch so the pipeline retries it against all loaders; loaders must
// tolerate replays of the same report ID.
type FanOut []BatchLoader

func (f FanOut) LoadBatch(ctx context.Context, reports []Report) error {
	for i, l := range f {
		if err := l.LoadBatch(ctx, reports); err != nil {
			return fmt.Errorf("loader %d: %w", i, err)
		}
	}
	return nil
}
