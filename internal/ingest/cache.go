package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/blackwell-systems/retailmetrics/internal/logger"
	"github.com/blackwell-systems/retailmetrics/internal/store"
	"github.com/blackwell-systems/retailmetrics/internal/transactions"
)

// CachedLoader serves datasets from a SQLite snapshot of Source.
//
// A snapshot is reused only while all of these hold:
//   - its fingerprint equals the source's current one (when Source implements Fingerprinter)
//   - it is younger than MaxAge (MaxAge 0 disables expiry)
//
// Otherwise Next is called and its result replaces the snapshot.
type CachedLoader struct {
	Store  *store.Store
	Source Source
	Next   Loader
	MaxAge time.Duration

	now func() time.Time
}

// NewCachedLoader wraps next with a snapshot cache keyed by src.
func NewCachedLoader(st *store.Store, src Source, next Loader, maxAge time.Duration) *CachedLoader {
	return &CachedLoader{Store: st, Source: src, Next: next, MaxAge: maxAge, now: time.Now}
}

func (c *CachedLoader) Load(ctx context.Context) (*transactions.Dataset, error) {
	log := logger.FromContext(ctx).With().Str("source", c.Source.URI()).Logger()

	fingerprint, err := c.fingerprint(ctx)
	if err != nil {
		return nil, transactions.NewFieldError(transactions.ErrDataUnavailable, "source", c.Source.URI(), err)
	}

	ds, reason, err := c.cached(fingerprint)
	if err != nil {
		return nil, err
	}
	if ds != nil {
		log.Debug().Int("records", ds.Len()).Msg("using cached snapshot")
		return ds, nil
	}
	log.Info().Str("reason", reason).Msg("loading transaction feed")

	ds, err = c.Next.Load(ctx)
	if err != nil {
		return nil, err
	}

	info, err := c.Store.SaveDataset(c.Source.URI(), fingerprint, ds)
	if err != nil {
		return nil, fmt.Errorf("failed to cache dataset: %w", err)
	}
	log.Info().Str("dataset_id", info.ID).Int("records", info.RecordCount).Str("fingerprint", fingerprint).
		Msg("cached snapshot")

	return ds, nil
}

// Invalidate drops the snapshot so the next Load reads the source.
func (c *CachedLoader) Invalidate() error {
	return c.Store.DeleteDataset(c.Source.URI())
}

// cached returns the snapshot dataset when it is still valid, otherwise nil
// and the reason it was not used.
func (c *CachedLoader) cached(fingerprint string) (*transactions.Dataset, string, error) {
	info, err := c.Store.GetDatasetInfo(c.Source.URI())
	if errors.Is(err, store.ErrNoSnapshot) {
		return nil, "no snapshot", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to read cache: %w", err)
	}

	if fingerprint != "" && info.Fingerprint != fingerprint {
		return nil, "source changed", nil
	}
	if c.MaxAge > 0 && c.clock().Sub(info.LoadedAt) > c.MaxAge {
		return nil, "snapshot expired", nil
	}

	ds, err := c.Store.LoadDataset(info.ID)
	if errors.Is(err, store.ErrNoSnapshot) {
		return nil, "snapshot empty", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to read cache: %w", err)
	}
	return ds, "", nil
}

func (c *CachedLoader) fingerprint(ctx context.Context) (string, error) {
	fp, ok := c.Source.(Fingerprinter)
	if !ok {
		return "", nil
	}
	return fp.Fingerprint(ctx)
}

func (c *CachedLoader) clock() time.Time {
	if c.now == nil {
		return time.Now()
	}
	return c.now()
}
