package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// TimestampLayout is the on-disk format of order timestamps and the history cutoff.
const TimestampLayout = "2006-01-02 15:04:05"

// OrderItem is one line as written into a ledger record.
type OrderItem struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

type OrderRecord struct {
	Timestamp string `db:"fecha_hora" json:"timestamp"`
	Table     string `db:"mesa" json:"table_label"`
	Detail    string `db:"detalle" json:"detail"`
	Total     string `db:"total" json:"total"`
}

// OfflineOrder is an order buffered by a client while it had no connection.
// Items is kept raw so a malformed list only skips this order. A client supplied
// total is not decoded: the ledger total is always the sum of the item subtotals.
// TableLabel is nil only when the client sent no label at all.
type OfflineOrder struct {
	Timestamp  string          `json:"timestamp"`
	TableLabel *string         `json:"table_label"`
	Items      json.RawMessage `json:"items"`
}
