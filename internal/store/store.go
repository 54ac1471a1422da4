// Package store is the PostgreSQL persistence layer behind the importer's
// Store boundary: reference-entity snapshots, duplicate lookups, and the
// atomic batch insert.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"frotafuel/internal/importer"
)

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx, so queries can run
// inside or outside a transaction.
type DBTX interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Query(context.Context, string, ...any) (pgx.Rows, error)
	QueryRow(context.Context, string, ...any) pgx.Row
}

// Store wraps the connection pool.
type Store struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// LoadSnapshot reads the active reference entities into the case-insensitive
// lookup tables one import run validates against.
func (s *Store) LoadSnapshot(ctx context.Context) (*importer.Snapshot, error) {
	vehicles, err := collect[importer.Vehicle](ctx, s.pool,
		`SELECT id, plate FROM vehicles WHERE active`)
	if err != nil {
		return nil, fmt.Errorf("load vehicles: %w", err)
	}
	drivers, err := collect[importer.Driver](ctx, s.pool,
		`SELECT id, name FROM drivers WHERE active`)
	if err != nil {
		return nil, fmt.Errorf("load drivers: %w", err)
	}
	stations, err := collect[importer.Station](ctx, s.pool,
		`SELECT id, name FROM fuel_stations WHERE active`)
	if err != nil {
		return nil, fmt.Errorf("load stations: %w", err)
	}
	costCenters, err := collect[importer.CostCenter](ctx, s.pool,
		`SELECT id, name FROM cost_centers WHERE active`)
	if err != nil {
		return nil, fmt.Errorf("load cost centers: %w", err)
	}

	return importer.NewSnapshot(vehicles, drivers, stations, costCenters), nil
}

func collect[T any](ctx context.Context, db DBTX, query string) ([]T, error) {
	rows, err := db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[T])
}

// Begin opens the transaction one import batch commits through.
func (s *Store) Begin(ctx context.Context) (importer.Batch, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &batch{tx: tx}, nil
}

// batch implements importer.Batch on a single pgx transaction.
type batch struct {
	tx pgx.Tx
}

func (b *batch) FindMatching(ctx context.Context, vehicleID uuid.UUID, purchasedAt time.Time, liters decimal.Decimal) (*importer.Existing, error) {
	var (
		id        uuid.UUID
		totalCost string
	)
	err := b.tx.QueryRow(ctx,
		`SELECT id, total_cost::text
		   FROM fuel_transactions
		  WHERE vehicle_id = $1 AND purchased_at = $2 AND liters = $3::numeric
		  LIMIT 1`,
		vehicleID, purchasedAt, liters.StringFixed(3),
	).Scan(&id, &totalCost)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	total, err := decimal.NewFromString(totalCost)
	if err != nil {
		return nil, fmt.Errorf("stored total_cost %q: %w", totalCost, err)
	}
	return &importer.Existing{ID: id, TotalCost: total}, nil
}

func (b *batch) Insert(ctx context.Context, row importer.ValidatedRow) (uuid.UUID, error) {
	id := uuid.New()

	var driverID, stationID, costCenterID any
	if row.Driver != nil {
		driverID = row.Driver.ID
	}
	if row.Station != nil {
		stationID = row.Station.ID
	}
	if row.CostCenter != nil {
		costCenterID = row.CostCenter.ID
	}

	_, err := b.tx.Exec(ctx,
		`INSERT INTO fuel_transactions
		   (id, vehicle_id, driver_id, station_id, cost_center_id,
		    purchased_at, liters, unit_price, total_cost,
		    odometer_km, fuel_type, notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7::numeric, $8::numeric, $9::numeric, $10, $11, $12)`,
		id, row.Vehicle.ID, driverID, stationID, costCenterID,
		row.PurchasedAt, row.Liters.StringFixed(3), row.UnitPrice.StringFixed(4),
		row.TotalCost.StringFixed(2), row.OdometerKm, string(row.FuelType), row.Notes,
	)
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

func (b *batch) Commit(ctx context.Context) error {
	return b.tx.Commit(ctx)
}

func (b *batch) Rollback(ctx context.Context) error {
	return b.tx.Rollback(ctx)
}
