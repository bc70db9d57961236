package store

import "time"

// DatasetInfo describes one cached dataset snapshot.
type DatasetInfo struct {
	ID          string
	Source      string
	Fingerprint string // empty when the source cannot be fingerprinted
	LoadedAt    time.Time
	RecordCount int
}
