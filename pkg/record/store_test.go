package record

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Ingest(t *testing.T) {
	store := NewStore(Options{}, nil)
	assert.Empty(t, store.Records())

	records, err := store.Ingest(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	assert.Len(t, records, 3)
	assert.Len(t, store.Records(), 3)

	// A fresh ingest replaces the dataset wholesale
	_, err = store.Ingest(strings.NewReader("Ticker\nZZZ\n"))
	require.NoError(t, err)
	require.Len(t, store.Records(), 1)
	assert.Equal(t, "ZZZ", store.Records()[0].Get(Ticker))
}

func TestStore_IngestFailureKeepsPreviousDataset(t *testing.T) {
	store := NewStore(Options{}, nil)
	_, err := store.Ingest(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	before := store.Snapshot()

	_, err = store.Ingest(strings.NewReader(""))
	require.Error(t, err)

	var parseErr *ParseError
	assert.True(t, errors.As(err, &parseErr))
	assert.Same(t, before, store.Snapshot())
	assert.Len(t, store.Records(), 3)
}

func TestStore_LoadFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "all_stocks.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0600))

	store := NewStore(Options{}, nil)
	snap, err := store.Load(context.Background(), FileSource{Path: path})
	require.NoError(t, err)
	assert.Len(t, snap.Records, 3)
	assert.Equal(t, path, snap.Source)
	assert.False(t, snap.LoadedAt.IsZero())
	assert.Same(t, snap, store.Snapshot())

	_, err = store.Load(context.Background(), FileSource{Path: filepath.Join(tmpDir, "missing.csv")})
	require.Error(t, err)
	assert.Same(t, snap, store.Snapshot())
}

func TestStore_LoadHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/all_stocks.csv" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		fmt.Fprint(w, sampleCSV)
	}))
	defer srv.Close()

	store := NewStore(Options{}, nil)
	snap, err := store.Load(context.Background(), HTTPSource{URL: srv.URL + "/all_stocks.csv"})
	require.NoError(t, err)
	assert.Len(t, snap.Records, 3)

	_, err = store.Load(context.Background(), HTTPSource{URL: srv.URL + "/missing.csv"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assert.Len(t, store.Records(), 3)
}

func TestStore_LoadCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := NewStore(Options{}, nil)
	_, err := store.Load(ctx, FileSource{Path: "unused.csv"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestStore_ConcurrentReadersSeeWholeSnapshots(t *testing.T) {
	small := "Ticker\nA\n"
	large := "Ticker\nA\nB\nC\nD\n"

	store := NewStore(Options{}, nil)
	_, err := store.Ingest(strings.NewReader(small))
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			input := small
			if i%2 == 0 {
				input = large
			}
			_, _ = store.Ingest(strings.NewReader(input))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			n := len(store.Records())
			if n != 1 && n != 4 {
				t.Errorf("observed partial dataset with %d records", n)
				return
			}
		}
	}()
	wg.Wait()
}
