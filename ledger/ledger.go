// Package ledger is the append-only order history plus the cutoff used to hide
// old orders from the history view without deleting them.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ray-remotestate/comandas/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// ErrStorageUnavailable means the ledger location cannot be created or accessed.
var ErrStorageUnavailable = errors.New("ledger storage unavailable")

// Header names the four fields of every record, in order.
var Header = []string{"fecha_hora", "mesa", "detalle", "total"}

// RecordStore persists order records. Append must never rewrite or reorder what
// is already stored.
type RecordStore interface {
	Initialize(ctx context.Context) error
	Append(ctx context.Context, rec models.OrderRecord) error
	ReadAll(ctx context.Context) ([]models.OrderRecord, error)
}

// CutoffStore holds the single raw cutoff value. Read returns "" when unset.
type CutoffStore interface {
	Read(ctx context.Context) (string, error)
	Write(ctx context.Context, value string) error
}

type Ledger struct {
	records  RecordStore
	cutoff   CutoffStore
	location *time.Location
}

func New(records RecordStore, cutoff CutoffStore) *Ledger {
	return &Ledger{
		records:  records,
		cutoff:   cutoff,
		location: time.Local,
	}
}

func (l *Ledger) Initialize(ctx context.Context) error {
	return l.records.Initialize(ctx)
}

// Append writes one order. The detail column is a display snapshot of the items.
func (l *Ledger) Append(ctx context.Context, timestamp, table string, items []models.OrderItem, total decimal.Decimal) error {
	rec := models.OrderRecord{
		Timestamp: timestamp,
		Table:     table,
		Detail:    FormatDetail(items),
		Total:     total.StringFixed(2),
	}
	if err := l.records.Append(ctx, rec); err != nil {
		return fmt.Errorf("append order: %w", err)
	}
	return nil
}

func (l *Ledger) ReadAll(ctx context.Context) ([]models.OrderRecord, error) {
	return l.records.ReadAll(ctx)
}

// ReadCutoff never fails: an unreadable or malformed value means no cutoff.
func (l *Ledger) ReadCutoff(ctx context.Context) (time.Time, bool) {
	raw, err := l.cutoff.Read(ctx)
	if err != nil {
		logrus.WithError(err).Warn("failed to read history cutoff, showing full history")
		return time.Time{}, false
	}
	if raw == "" {
		return time.Time{}, false
	}
	t, err := l.parse(raw)
	if err != nil {
		logrus.WithField("cutoff", raw).Warn("malformed history cutoff ignored")
		return time.Time{}, false
	}
	return t, true
}

func (l *Ledger) SetCutoff(ctx context.Context, t time.Time) error {
	if err := l.cutoff.Write(ctx, t.In(l.location).Format(models.TimestampLayout)); err != nil {
		return fmt.Errorf("write history cutoff: %w", err)
	}
	return nil
}

// ReadVisible returns the records after the cutoff. Records whose timestamp does
// not parse are always visible.
func (l *Ledger) ReadVisible(ctx context.Context) ([]models.OrderRecord, error) {
	all, err := l.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	cutoff, ok := l.ReadCutoff(ctx)
	if !ok {
		return all, nil
	}

	visible := make([]models.OrderRecord, 0, len(all))
	for _, rec := range all {
		ts, err := l.parse(rec.Timestamp)
		if err == nil && !ts.After(cutoff) {
			continue
		}
		visible = append(visible, rec)
	}
	return visible, nil
}

// Timestamp formats t the way order timestamps are stored.
func (l *Ledger) Timestamp(t time.Time) string {
	return t.In(l.location).Format(models.TimestampLayout)
}

func (l *Ledger) parse(s string) (time.Time, error) {
	return time.ParseInLocation(models.TimestampLayout, s, l.location)
}

// FormatDetail renders items as "<name> x<qty> = <subtotal>" joined by " | ".
func FormatDetail(items []models.OrderItem) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, fmt.Sprintf("%s x%d = %s", it.Name, it.Quantity, it.Subtotal.StringFixed(2)))
	}
	return strings.Join(parts, " | ")
}
