package store

import (
	"context"
	"fmt"
)

// schema is applied at startup. Reference tables are owned by the wider
// fleet backend; the DDL here is idempotent so the service can run against
// a fresh database. The dedup index is deliberately non-unique: matching
// (vehicle, purchased_at, liters) rows with a different total cost are
// legitimate inserts.
const schema = `
CREATE TABLE IF NOT EXISTS vehicles (
	id     uuid PRIMARY KEY,
	plate  text NOT NULL UNIQUE,
	active boolean NOT NULL DEFAULT true
);

CREATE TABLE IF NOT EXISTS drivers (
	id     uuid PRIMARY KEY,
	name   text NOT NULL,
	active boolean NOT NULL DEFAULT true
);

CREATE TABLE IF NOT EXISTS fuel_stations (
	id     uuid PRIMARY KEY,
	name   text NOT NULL,
	active boolean NOT NULL DEFAULT true
);

CREATE TABLE IF NOT EXISTS cost_centers (
	id     uuid PRIMARY KEY,
	name   text NOT NULL,
	active boolean NOT NULL DEFAULT true
);

CREATE TABLE IF NOT EXISTS fuel_transactions (
	id             uuid PRIMARY KEY,
	vehicle_id     uuid NOT NULL REFERENCES vehicles(id),
	driver_id      uuid REFERENCES drivers(id),
	station_id     uuid REFERENCES fuel_stations(id),
	cost_center_id uuid REFERENCES cost_centers(id),
	purchased_at   timestamptz NOT NULL,
	liters         numeric(8,3) NOT NULL CHECK (liters > 0),
	unit_price     numeric(8,4) NOT NULL CHECK (unit_price > 0),
	total_cost     numeric(10,2) NOT NULL,
	odometer_km    integer NOT NULL CHECK (odometer_km >= 0),
	fuel_type      text NOT NULL,
	notes          text NOT NULL DEFAULT '',
	created_at     timestamptz NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_fuel_transactions_dedup
	ON fuel_transactions (vehicle_id, purchased_at, liters);
`

// Init applies the schema.
func (s *Store) Init(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
