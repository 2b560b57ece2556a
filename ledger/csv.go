package ledger

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/ray-remotestate/comandas/models"
	"github.com/sirupsen/logrus"
)

// CSVStore keeps the ledger as a comma separated file with a header row.
// Appends from this process are serialized; other processes are not coordinated.
type CSVStore struct {
	path string
	mu   sync.Mutex
}

func NewCSVStore(path string) *CSVStore {
	return &CSVStore{path: path}
}

// Initialize is safe to call on every startup.
func (s *CSVStore) Initialize(_ context.Context) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: create %s: %w", ErrStorageUnavailable, dir, err)
	}

	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: create %s: %w", ErrStorageUnavailable, s.path, err)
	}
	defer f.Close()

	line, err := encodeRow(Header)
	if err != nil {
		return err
	}
	if _, err := f.Write(line); err != nil {
		return fmt.Errorf("%w: write header: %w", ErrStorageUnavailable, err)
	}
	return nil
}

func (s *CSVStore) Append(_ context.Context, rec models.OrderRecord) error {
	line, err := encodeRow([]string{rec.Timestamp, rec.Table, rec.Detail, rec.Total})
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}
	// one write per record so a row is never split across calls
	if _, err := f.Write(line); err != nil {
		f.Close()
		return fmt.Errorf("write ledger: %w", err)
	}
	return f.Close()
}

// ReadAll skips the header and any row with fewer than four fields. A missing
// file reads as an empty ledger.
func (s *CSVStore) ReadAll(_ context.Context) ([]models.OrderRecord, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []models.OrderRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records := []models.OrderRecord{}
	header := true
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				logrus.WithError(err).Warn("skipping malformed ledger row")
				header = false
				continue
			}
			return nil, fmt.Errorf("read ledger: %w", err)
		}
		if header {
			header = false
			continue
		}
		if len(row) < 4 {
			continue
		}
		records = append(records, models.OrderRecord{
			Timestamp: row[0],
			Table:     row[1],
			Detail:    row[2],
			Total:     row[3],
		})
	}
	return records, nil
}

func encodeRow(fields []string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.UseCRLF = true
	if err := w.Write(fields); err != nil {
		return nil, fmt.Errorf("encode ledger row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("encode ledger row: %w", err)
	}
	return buf.Bytes(), nil
}
