package ledger

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ray-remotestate/comandas/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// DefaultTableLabel is used for offline orders that arrive without a table.
// A label that is present is stored as sent, blank or not.
const DefaultTableLabel = "N/A"

// SyncResult reports an offline batch. Synced counts every order attempted,
// including the ones skipped for having no usable items.
type SyncResult struct {
	Synced   int `json:"synced_count"`
	Appended int `json:"appended_count"`
	Skipped  int `json:"skipped_count"`
}

// SyncOffline appends a batch of orders buffered by a disconnected client.
// Orders that do not decode or carry no items are skipped without failing the
// batch. The stored total is the sum of the item subtotals.
func (l *Ledger) SyncOffline(ctx context.Context, orders []json.RawMessage, now time.Time) (SyncResult, error) {
	res := SyncResult{Synced: len(orders)}

	for i, raw := range orders {
		order, items, ok := decodeOfflineOrder(raw)
		if !ok {
			logrus.WithField("index", i).Debug("skipping offline order without items")
			res.Skipped++
			continue
		}

		ts := order.Timestamp
		if ts == "" {
			ts = l.Timestamp(now)
		}
		table := DefaultTableLabel
		if order.TableLabel != nil {
			table = *order.TableLabel
		}

		total := decimal.Zero
		for _, it := range items {
			total = total.Add(it.Subtotal)
		}
		if err := l.Append(ctx, ts, table, items, total); err != nil {
			return res, err
		}
		res.Appended++
	}
	return res, nil
}

func decodeOfflineOrder(raw json.RawMessage) (models.OfflineOrder, []models.OrderItem, bool) {
	var order models.OfflineOrder
	if err := json.Unmarshal(raw, &order); err != nil {
		return order, nil, false
	}
	var items []models.OrderItem
	if len(order.Items) == 0 || json.Unmarshal(order.Items, &items) != nil || len(items) == 0 {
		return order, nil, false
	}
	return order, items, true
}
