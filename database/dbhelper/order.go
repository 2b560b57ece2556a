package dbhelper

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ray-remotestate/comandas/database"
	"github.com/ray-remotestate/comandas/ledger"
	"github.com/ray-remotestate/comandas/models"
)

type SQLExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func InsertOrder(ctx context.Context, exec SQLExecutor, rec models.OrderRecord) error {
	_, err := exec.ExecContext(ctx, `INSERT INTO orders (fecha_hora, mesa, detalle, total) VALUES ($1, $2, $3, $4)`,
		rec.Timestamp, rec.Table, rec.Detail, rec.Total)
	return err
}

func ListOrders(ctx context.Context, db *sql.DB) ([]models.OrderRecord, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT fecha_hora, mesa, detalle, total
		FROM orders
		ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []models.OrderRecord{}
	for rows.Next() {
		var rec models.OrderRecord
		if err := rows.Scan(&rec.Timestamp, &rec.Table, &rec.Detail, &rec.Total); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func GetCutoff(ctx context.Context, db *sql.DB) (string, error) {
	var cutoff string
	err := db.QueryRowContext(ctx, `SELECT cutoff FROM history_cutoff WHERE id = 1`).Scan(&cutoff)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return cutoff, err
}

func UpsertCutoff(ctx context.Context, exec SQLExecutor, cutoff string) error {
	_, err := exec.ExecContext(ctx, `
		INSERT INTO history_cutoff (id, cutoff) VALUES (1, $1)
		ON CONFLICT (id) DO UPDATE SET cutoff = EXCLUDED.cutoff`, cutoff)
	return err
}

// OrderStore is the postgres ledger.RecordStore.
type OrderStore struct {
	db *sql.DB
}

func NewOrderStore(db *sql.DB) *OrderStore {
	return &OrderStore{db: db}
}

func (s *OrderStore) Initialize(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %w", ledger.ErrStorageUnavailable, err)
	}
	return nil
}

func (s *OrderStore) Append(ctx context.Context, rec models.OrderRecord) error {
	return database.Tx(ctx, s.db, func(tx *sql.Tx) error {
		if err := InsertOrder(ctx, tx, rec); err != nil {
			return fmt.Errorf("insert order: %w", err)
		}
		return nil
	})
}

func (s *OrderStore) ReadAll(ctx context.Context) ([]models.OrderRecord, error) {
	records, err := ListOrders(ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return records, nil
}

// CutoffStore is the postgres ledger.CutoffStore, a single row table.
type CutoffStore struct {
	db *sql.DB
}

func NewCutoffStore(db *sql.DB) *CutoffStore {
	return &CutoffStore{db: db}
}

func (s *CutoffStore) Read(ctx context.Context) (string, error) {
	return GetCutoff(ctx, s.db)
}

func (s *CutoffStore) Write(ctx context.Context, value string) error {
	if err := UpsertCutoff(ctx, s.db, value); err != nil {
		return fmt.Errorf("upsert cutoff: %w", err)
	}
	return nil
}
