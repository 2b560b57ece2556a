package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/ray-remotestate/comandas/cart"
	"github.com/ray-remotestate/comandas/ledger"
	"github.com/ray-remotestate/comandas/menu"
	"github.com/ray-remotestate/comandas/middlewares"
	"github.com/ray-remotestate/comandas/models"
	"github.com/ray-remotestate/comandas/session"
	"github.com/ray-remotestate/comandas/views"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// brokenSaveStore fails every Save while broken is set.
type brokenSaveStore struct {
	*session.MemoryStore
	broken bool
}

func (s *brokenSaveStore) Save(ctx context.Context, id string, data session.Data) error {
	if s.broken {
		return errors.New("session backend down")
	}
	return s.MemoryStore.Save(ctx, id, data)
}

type fixture struct {
	h        *Handler
	ledger   *ledger.Ledger
	sessions *brokenSaveStore
	router  *mux.Router
	clock   time.Time
	cookies []*http.Cookie
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()

	catalog, err := menu.Default()
	require.NoError(t, err)
	l := ledger.New(ledger.NewCSVStore(filepath.Join(dir, "pedidos.csv")), ledger.NewFileCutoff(filepath.Join(dir, "corte.txt")))
	require.NoError(t, l.Initialize(context.Background()))
	renderer, err := views.NewRenderer()
	require.NoError(t, err)

	f := &fixture{ledger: l, sessions: &brokenSaveStore{MemoryStore: session.NewMemoryStore()}}
	f.clock = time.Date(2024, 1, 1, 10, 0, 0, 0, time.Local)
	f.h = New(catalog, l, f.sessions, renderer)
	f.h.now = func() time.Time { return f.clock }

	f.router = mux.NewRouter()
	f.router.Use(middlewares.SessionMiddleware)
	f.router.HandleFunc("/", f.h.Index).Methods("GET")
	f.router.HandleFunc("/", f.h.AddItem).Methods("POST")
	f.router.HandleFunc("/cart/clear", f.h.ClearCart).Methods("GET")
	f.router.HandleFunc("/cart/remove/{item_id}", f.h.RemoveItem).Methods("GET")
	f.router.HandleFunc("/orders/confirm", f.h.ConfirmOrder).Methods("POST")
	f.router.HandleFunc("/orders/history", f.h.History).Methods("GET")
	f.router.HandleFunc("/orders/history/clear", f.h.ClearHistory).Methods("GET")
	f.router.HandleFunc("/api/orders/sync-offline", f.h.SyncOffline).Methods("POST")
	return f
}

func (f *fixture) do(t *testing.T, method, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, c := range f.cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	if c := rec.Result().Cookies(); len(c) > 0 {
		f.cookies = c
	}
	return rec
}

func (f *fixture) sync(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/orders/sync-offline", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestAddAndConfirmOrder(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/", url.Values{"item_id": {"4"}, "quantity": {"2"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	rec = f.do(t, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Producto agregado al pedido.")
	assert.Contains(t, rec.Body.String(), `data-total="14.00"`)

	rec = f.do(t, http.MethodPost, "/orders/confirm", url.Values{"table_label": {" 5 "}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Mesa: 5")
	assert.Contains(t, rec.Body.String(), "2024-01-01 10:00:00")

	records, err := f.ledger.ReadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, models.OrderRecord{
		Timestamp: "2024-01-01 10:00:00",
		Table:     "5",
		Detail:    "Clásica x2 = 14.00",
		Total:     "14.00",
	}, records[0])

	// cart is emptied after confirmation
	rec = f.do(t, http.MethodGet, "/", nil)
	assert.Contains(t, rec.Body.String(), "No hay productos en el pedido.")
}

func TestConfirmEmptyCartRedirects(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/orders/confirm", url.Values{"table_label": {"3"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	records, err := f.ledger.ReadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestConfirmCartOfUnknownItemsIsNotWritten(t *testing.T) {
	f := newFixture(t)

	f.do(t, http.MethodPost, "/", url.Values{"item_id": {"404"}})
	rec := f.do(t, http.MethodPost, "/orders/confirm", url.Values{"table_label": {"3"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	records, err := f.ledger.ReadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestAddItemRejectsBadInput(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/", url.Values{"item_id": {"abc"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/", url.Values{"item_id": {"4"}, "quantity": {"dos"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/", url.Values{"item_id": {"4"}, "quantity": {strconv.Itoa(cart.MaxQuantity + 1)}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/", url.Values{"item_id": {"4"}, "quantity": {"9223372036854775807"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRepeatedAddsStayCapped(t *testing.T) {
	f := newFixture(t)

	full := strconv.Itoa(cart.MaxQuantity)
	rec := f.do(t, http.MethodPost, "/", url.Values{"item_id": {"4"}, "quantity": {full}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	rec = f.do(t, http.MethodPost, "/", url.Values{"item_id": {"4"}, "quantity": {full}})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	rec = f.do(t, http.MethodPost, "/orders/confirm", url.Values{"table_label": {"2"}})
	require.Equal(t, http.StatusOK, rec.Code)

	records, err := f.ledger.ReadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Clásica x999 = 6993.00", records[0].Detail)
	assert.Equal(t, "6993.00", records[0].Total)
}

func TestConfirmRendersReceiptWhenSessionSaveFails(t *testing.T) {
	f := newFixture(t)

	f.do(t, http.MethodPost, "/", url.Values{"item_id": {"4"}})
	f.sessions.broken = true

	rec := f.do(t, http.MethodPost, "/orders/confirm", url.Values{"table_label": {"7"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Mesa: 7")

	records, err := f.ledger.ReadAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestRemoveAndClearCart(t *testing.T) {
	f := newFixture(t)

	f.do(t, http.MethodPost, "/", url.Values{"item_id": {"4"}})
	f.do(t, http.MethodPost, "/", url.Values{"item_id": {"9"}})

	rec := f.do(t, http.MethodGet, "/cart/remove/4", nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	rec = f.do(t, http.MethodGet, "/", nil)
	assert.NotContains(t, rec.Body.String(), `data-name="Clásica"`)
	assert.Contains(t, rec.Body.String(), `data-name="Chicha Morada 1 lt"`)

	rec = f.do(t, http.MethodGet, "/cart/clear", nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	rec = f.do(t, http.MethodGet, "/", nil)
	assert.Contains(t, rec.Body.String(), "Carrito vaciado.")
	assert.NotContains(t, rec.Body.String(), "cart-row")
}

func TestClearHistoryHidesEarlierOrders(t *testing.T) {
	f := newFixture(t)

	f.do(t, http.MethodPost, "/", url.Values{"item_id": {"4"}, "quantity": {"2"}})
	f.do(t, http.MethodPost, "/orders/confirm", url.Values{"table_label": {"5"}})

	f.clock = time.Date(2024, 1, 1, 12, 0, 0, 0, time.Local)
	rec := f.do(t, http.MethodGet, "/orders/history/clear", nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/orders/history", rec.Header().Get("Location"))

	f.clock = time.Date(2024, 1, 1, 13, 0, 0, 0, time.Local)
	f.do(t, http.MethodPost, "/", url.Values{"item_id": {"7"}})
	f.do(t, http.MethodPost, "/orders/confirm", url.Values{"table_label": {"6"}})

	rec = f.do(t, http.MethodGet, "/orders/history", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Historial de pedidos vaciado")
	assert.Contains(t, body, "2024-01-01 13:00:00")
	assert.NotContains(t, body, "2024-01-01 10:00:00")

	all, err := f.ledger.ReadAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestSyncOfflineResponses(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		status   int
		want     map[string]interface{}
		appended int
	}{
		{
			name:   "empty items skipped but counted",
			body:   `{"orders":[{"items":[]}]}`,
			status: http.StatusOK,
			want:   map[string]interface{}{"status": "ok", "synced_count": 1.0, "appended_count": 0.0, "skipped_count": 1.0},
		},
		{
			name:   "missing orders is an empty batch",
			body:   `{}`,
			status: http.StatusOK,
			want:   map[string]interface{}{"status": "ok", "synced_count": 0.0, "appended_count": 0.0, "skipped_count": 0.0},
		},
		{
			name:     "valid orders appended",
			body:     `{"orders":[{"table_label":"2","items":[{"name":"Surfer","quantity":1,"subtotal":12}]},{"items":[{"name":"Clásica","quantity":2,"subtotal":14}]}]}`,
			status:   http.StatusOK,
			want:     map[string]interface{}{"status": "ok", "synced_count": 2.0, "appended_count": 2.0, "skipped_count": 0.0},
			appended: 2,
		},
		{
			name:   "orders not a list",
			body:   `{"orders":{"items":[]}}`,
			status: http.StatusBadRequest,
			want:   map[string]interface{}{"status": "error", "message": "orders must be a list"},
		},
		{
			name:   "not json",
			body:   `pedidos`,
			status: http.StatusBadRequest,
			want:   map[string]interface{}{"status": "error", "message": "invalid JSON body"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			rec := f.sync(t, tt.body)

			require.Equal(t, tt.status, rec.Code)
			var got map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, tt.want, got)

			records, err := f.ledger.ReadAll(context.Background())
			require.NoError(t, err)
			assert.Len(t, records, tt.appended)
		})
	}
}

func TestSyncOfflineDefaults(t *testing.T) {
	f := newFixture(t)

	rec := f.sync(t, `{"orders":[{"items":[{"name":"Clásica","quantity":1,"subtotal":7}]}]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	records, err := f.ledger.ReadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "2024-01-01 10:00:00", records[0].Timestamp)
	assert.Equal(t, ledger.DefaultTableLabel, records[0].Table)
}
