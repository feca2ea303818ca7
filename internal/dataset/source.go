// Package dataset loads the engagement table from a configured source and
// owns the single in-memory copy shared by the rest of the process.
package dataset

import (
	"context"

	"engagement/internal/core"
)

// Source reads every post from an outbound store.
type Source interface {
	// Name identifies the source in logs and errors.
	Name() string
	// ReadPosts returns all rows in source order. Failures are *core.LoadError.
	ReadPosts(ctx context.Context) ([]core.Post, error)
}
