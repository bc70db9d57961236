// Package ingest loads the transaction feed into a transactions.Dataset.
//
// A Loader is the only thing the analyzers' callers need. SourceLoader reads
// and parses a Source on every call; CachedLoader keeps the parsed dataset
// in a SQLite snapshot and only goes back to the source when the snapshot is
// missing, stale, or explicitly invalidated.
package ingest

import (
	"context"
	"fmt"

	"github.com/blackwell-systems/retailmetrics/internal/logger"
	"github.com/blackwell-systems/retailmetrics/internal/transactions"
)

// Loader produces a populated, validated dataset or fails with an error
// matching transactions.ErrDataUnavailable or transactions.ErrDataError.
type Loader interface {
	Load(ctx context.Context) (*transactions.Dataset, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(ctx context.Context) (*transactions.Dataset, error)

func (f LoaderFunc) Load(ctx context.Context) (*transactions.Dataset, error) {
	return f(ctx)
}

// SourceLoader fetches and parses Source on every Load.
type SourceLoader struct {
	Source  Source
	Layouts []string
}

func (l *SourceLoader) Load(ctx context.Context) (*transactions.Dataset, error) {
	log := logger.FromContext(ctx)

	rc, err := l.Source.Open(ctx)
	if err != nil {
		return nil, transactions.NewFieldError(transactions.ErrDataUnavailable, "source", l.Source.URI(), err)
	}
	defer rc.Close()

	ds, err := ParseCSV(rc, l.Layouts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", l.Source.URI(), err)
	}

	log.Debug().Str("source", l.Source.URI()).Int("records", ds.Len()).Msg("parsed transaction feed")
	return ds, nil
}
