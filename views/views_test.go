package views

import (
	"bytes"
	"io/fs"
	"testing"

	"github.com/ray-remotestate/comandas/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderPages(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	lines := []models.PricedLineItem{{
		ID: 4, Name: "Clásica", Quantity: 2,
		UnitPrice: decimal.NewFromInt(7), Subtotal: decimal.NewFromInt(14),
	}}

	var buf bytes.Buffer
	require.NoError(t, r.Index(&buf, IndexPage{
		Flashes: []string{"Producto agregado al pedido."},
		Lines:   lines,
		Total:   decimal.NewFromInt(14),
	}))
	assert.Contains(t, buf.String(), "Producto agregado al pedido.")
	assert.Contains(t, buf.String(), `data-total="14.00"`)

	buf.Reset()
	require.NoError(t, r.Receipt(&buf, ReceiptPage{Timestamp: "2024-01-01 10:00:00", Table: "5", Lines: lines, Total: decimal.NewFromInt(14)}))
	assert.Contains(t, buf.String(), "Mesa: 5")

	buf.Reset()
	require.NoError(t, r.History(&buf, HistoryPage{Orders: []models.OrderRecord{{Timestamp: "2024-01-01 10:00:00", Table: "5", Detail: "Clásica x2 = 14.00", Total: "14.00"}}}))
	assert.Contains(t, buf.String(), "Clásica x2 = 14.00")
}

func TestStaticAssets(t *testing.T) {
	for _, name := range []string{"offline.js", "sw.js"} {
		data, err := fs.ReadFile(Static(), name)
		require.NoError(t, err, name)
		assert.NotEmpty(t, data)
	}
}
