// Package importer implements the fuel-transaction CSV import pipeline:
// decoding, locale-aware field parsing, row validation against reference
// entities, and deduplicated all-or-nothing batch commit.
//
// The pipeline is fail-closed: a single invalid row blocks every write for
// the whole file. Duplicates are not errors; they are skipped and reported.
package importer

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FuelType is the normalized fuel classification stored on a transaction.
type FuelType string

const (
	FuelGasoline FuelType = "GASOLINE"
	FuelEthanol  FuelType = "ETHANOL"
	FuelDiesel   FuelType = "DIESEL"
)

// Reference entities, owned by external storage and read-only here.
// The importer only needs stable ids plus the natural key it matches on.

type Vehicle struct {
	ID    uuid.UUID
	Plate string
}

type Driver struct {
	ID   uuid.UUID
	Name string
}

type Station struct {
	ID   uuid.UUID
	Name string
}

type CostCenter struct {
	ID   uuid.UUID
	Name string
}

// Snapshot is an in-memory copy of the active reference entities, keyed by
// trimmed, uppercased natural identifier. It is built once per import call
// and never mutated afterwards.
type Snapshot struct {
	vehicles    map[string]Vehicle
	drivers     map[string]Driver
	stations    map[string]Station
	costCenters map[string]CostCenter
}

// NewSnapshot builds the case-insensitive lookup tables for one import run.
// Callers must pass only active entities.
func NewSnapshot(vehicles []Vehicle, drivers []Driver, stations []Station, costCenters []CostCenter) *Snapshot {
	s := &Snapshot{
		vehicles:    make(map[string]Vehicle, len(vehicles)),
		drivers:     make(map[string]Driver, len(drivers)),
		stations:    make(map[string]Station, len(stations)),
		costCenters: make(map[string]CostCenter, len(costCenters)),
	}
	for _, v := range vehicles {
		s.vehicles[normalizeKey(v.Plate)] = v
	}
	for _, d := range drivers {
		s.drivers[normalizeKey(d.Name)] = d
	}
	for _, st := range stations {
		s.stations[normalizeKey(st.Name)] = st
	}
	for _, c := range costCenters {
		s.costCenters[normalizeKey(c.Name)] = c
	}
	return s
}

func normalizeKey(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Vehicle looks up an active vehicle by plate (trimmed, case-insensitive).
func (s *Snapshot) Vehicle(plate string) (Vehicle, bool) {
	v, ok := s.vehicles[normalizeKey(plate)]
	return v, ok
}

func (s *Snapshot) Driver(name string) (Driver, bool) {
	d, ok := s.drivers[normalizeKey(name)]
	return d, ok
}

func (s *Snapshot) Station(name string) (Station, bool) {
	st, ok := s.stations[normalizeKey(name)]
	return st, ok
}

func (s *Snapshot) CostCenter(name string) (CostCenter, bool) {
	c, ok := s.costCenters[normalizeKey(name)]
	return c, ok
}

// RawRow is one decoded CSV line: normalized column name to raw cell value.
// Row numbers are 1-indexed with the header as row 1, so data starts at 2.
type RawRow struct {
	Num    int
	Fields map[string]string
}

// Get returns the first non-empty value among the given column names.
// Alias columns (data_hora for data, km for odometro, ...) resolve here.
func (r RawRow) Get(names ...string) string {
	for _, name := range names {
		if v := r.Fields[name]; v != "" {
			return v
		}
	}
	return ""
}

// ValidatedRow is a normalized candidate transaction that passed every
// field-level check. Optional references are nil when absent or unmatched.
type ValidatedRow struct {
	Num         int
	Vehicle     Vehicle
	Driver      *Driver
	Station     *Station
	CostCenter  *CostCenter
	PurchasedAt time.Time
	Liters      decimal.Decimal
	UnitPrice   decimal.Decimal
	TotalCost   decimal.Decimal
	OdometerKm  int
	FuelType    FuelType
	Notes       string
}

// ImportError is a single validation failure. Row 0 with column "file"
// marks a file-level failure (bad encoding, missing header).
type ImportError struct {
	Row     int    `json:"row"`
	Column  string `json:"column"`
	Value   string `json:"value"`
	Message string `json:"message"`
}

// ImportedTransaction summarizes one successfully written row.
type ImportedTransaction struct {
	Row           int    `json:"row"`
	TransactionID string `json:"transaction_id"`
	VehiclePlate  string `json:"vehicle_plate"`
	PurchasedAt   string `json:"purchased_at"`
	Liters        string `json:"liters"`
	TotalCost     string `json:"total_cost"`
}

// SkippedRow records a duplicate that was deliberately not written.
type SkippedRow struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ImportResult is the structured report for one import call.
// Success is true iff no error was recorded; skips do not affect it.
type ImportResult struct {
	Success       bool                  `json:"success"`
	TotalRows     int                   `json:"total_rows"`
	ImportedCount int                   `json:"imported_count"`
	SkippedCount  int                   `json:"skipped_count"`
	ErrorCount    int                   `json:"error_count"`
	Errors        []ImportError         `json:"errors"`
	Imported      []ImportedTransaction `json:"imported"`
	Skipped       []SkippedRow          `json:"skipped"`
}

func newImportResult() *ImportResult {
	return &ImportResult{
		Success:  true,
		Errors:   []ImportError{},
		Imported: []ImportedTransaction{},
		Skipped:  []SkippedRow{},
	}
}

func (r *ImportResult) addError(row int, column, value, message string) {
	r.Errors = append(r.Errors, ImportError{Row: row, Column: column, Value: value, Message: message})
	r.ErrorCount++
	r.Success = false
}

func (r *ImportResult) addImported(row ValidatedRow, id uuid.UUID) {
	r.Imported = append(r.Imported, ImportedTransaction{
		Row:           row.Num,
		TransactionID: id.String(),
		VehiclePlate:  row.Vehicle.Plate,
		PurchasedAt:   row.PurchasedAt.Format("02/01/2006 15:04"),
		Liters:        row.Liters.StringFixed(3),
		TotalCost:     row.TotalCost.StringFixed(2),
	})
	r.ImportedCount++
}

func (r *ImportResult) addSkipped(row int, reason string) {
	r.Skipped = append(r.Skipped, SkippedRow{Row: row, Reason: reason})
	r.SkippedCount++
}
