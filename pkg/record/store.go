package record

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"time"
)

// Snapshot is one fully ingested dataset. Snapshots are never modified
// after they are installed in a Store.
type Snapshot struct {
	Records  []Record
	Warnings []Warning
	Source   string
	LoadedAt time.Time
}

// Store holds the current dataset. Ingestion swaps the snapshot
// atomically, so readers see either the old or the new dataset.
type Store struct {
	opts    Options
	logger  *slog.Logger
	current atomic.Pointer[Snapshot]
}

// NewStore creates a store holding an empty dataset
func NewStore(opts Options, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{opts: opts, logger: logger}
	s.current.Store(&Snapshot{})
	return s
}

// Ingest parses raw text and replaces the current dataset with it. On
// error the previous dataset stays in place.
func (s *Store) Ingest(raw io.Reader) ([]Record, error) {
	snap, err := s.ingest(raw, "")
	if err != nil {
		return nil, err
	}
	return snap.Records, nil
}

// Load opens src, ingests its contents and installs the result
func (s *Store) Load(ctx context.Context, src Source) (*Snapshot, error) {
	start := time.Now()
	rc, err := src.Open(ctx)
	if err != nil {
		s.logger.Error("dataset fetch failed", "source", src.String(), "error", err)
		return nil, fmt.Errorf("failed to open dataset %s: %w", src, err)
	}
	defer rc.Close()

	snap, err := s.ingest(rc, src.String())
	if err != nil {
		s.logger.Error("dataset ingest failed", "source", src.String(), "error", err)
		return nil, err
	}

	s.logger.Info("dataset loaded",
		"source", src.String(),
		"records", len(snap.Records),
		"warnings", len(snap.Warnings),
		"duration", time.Since(start).Round(time.Millisecond))
	return snap, nil
}

func (s *Store) ingest(raw io.Reader, source string) (*Snapshot, error) {
	records, warnings, err := Parse(raw, s.opts)
	if err != nil {
		return nil, err
	}
	snap := &Snapshot{
		Records:  records,
		Warnings: warnings,
		Source:   source,
		LoadedAt: time.Now(),
	}
	s.current.Store(snap)
	return snap, nil
}

// Records returns the records of the current snapshot
func (s *Store) Records() []Record {
	return s.current.Load().Records
}

// Snapshot returns the current snapshot
func (s *Store) Snapshot() *Snapshot {
	return s.current.Load()
}
