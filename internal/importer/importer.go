package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// costTolerance is how far an existing transaction's total cost may sit from
// a candidate's before the candidate stops counting as a duplicate. One cent
// either way absorbs rounding differences between systems.
var costTolerance = decimal.New(2, -2)

// Existing is the slice of a stored transaction the dedup check needs.
type Existing struct {
	ID        uuid.UUID
	TotalCost decimal.Decimal
}

// Store is the transactional persistence boundary the importer commits
// through. Implementations must make Batch all-or-nothing.
type Store interface {
	// LoadSnapshot reads the active reference entities for one import run.
	LoadSnapshot(ctx context.Context) (*Snapshot, error)

	// Begin opens the atomic batch the committer writes into.
	Begin(ctx context.Context) (Batch, error)
}

// Batch is one open storage transaction. Rollback after Commit is a no-op.
type Batch interface {
	// FindMatching returns the stored transaction with the same vehicle,
	// purchase timestamp and exact liters, or nil when none exists.
	FindMatching(ctx context.Context, vehicleID uuid.UUID, purchasedAt time.Time, liters decimal.Decimal) (*Existing, error)

	// Insert writes one candidate and returns the new transaction id.
	Insert(ctx context.Context, row ValidatedRow) (uuid.UUID, error)

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Importer runs the four-stage pipeline for fuel-transaction CSV files.
type Importer struct {
	store Store
	loc   *time.Location
}

// New creates an Importer that commits through store and resolves naive
// timestamps in loc.
func New(store Store, loc *time.Location) *Importer {
	if loc == nil {
		loc = time.Local
	}
	return &Importer{store: store, loc: loc}
}

// Import decodes, validates and commits one CSV file.
//
// Validation problems are reported inside the ImportResult and never as a Go
// error; the batch is only written when every row validated cleanly. A
// non-nil error means the run itself failed (storage down, commit rolled
// back) and nothing was written.
func (imp *Importer) Import(ctx context.Context, data []byte) (*ImportResult, error) {
	result := newImportResult()

	content, err := DecodeContent(data)
	if err != nil {
		result.addError(0, "file", "", "Encoding nao suportado. Use UTF-8 ou ISO-8859-1.")
		return result, nil
	}

	rows, err := NewRowReader(content)
	if err != nil {
		result.addError(0, "file", "", "Arquivo CSV vazio ou sem cabecalho.")
		return result, nil
	}

	snap, err := imp.store.LoadSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("load reference snapshot: %w", err)
	}

	var candidates []ValidatedRow
	for {
		row, err := rows.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", result.TotalRows+2, err)
		}

		result.TotalRows++
		validated, rowErrs := ValidateRow(row, snap, imp.loc)
		if len(rowErrs) > 0 {
			result.Errors = append(result.Errors, rowErrs...)
			result.ErrorCount += len(rowErrs)
			result.Success = false
			continue
		}
		candidates = append(candidates, *validated)
	}

	// Fail-closed: one bad row blocks the whole file.
	if result.ErrorCount > 0 {
		return result, nil
	}

	if err := imp.commit(ctx, candidates, result); err != nil {
		return nil, err
	}

	slog.Info("fuel csv imported",
		"total_rows", result.TotalRows,
		"imported", result.ImportedCount,
		"skipped", result.SkippedCount,
	)
	return result, nil
}

// commit deduplicates the candidates against storage and writes the rest in
// one atomic batch.
func (imp *Importer) commit(ctx context.Context, candidates []ValidatedRow, result *ImportResult) error {
	if len(candidates) == 0 {
		return nil
	}

	batch, err := imp.store.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin import batch: %w", err)
	}
	defer batch.Rollback(ctx)

	for _, row := range candidates {
		existing, err := batch.FindMatching(ctx, row.Vehicle.ID, row.PurchasedAt, row.Liters)
		if err != nil {
			return fmt.Errorf("duplicate lookup (row %d): %w", row.Num, err)
		}
		if existing != nil && existing.TotalCost.Sub(row.TotalCost).Abs().LessThan(costTolerance) {
			result.addSkipped(row.Num, fmt.Sprintf("Duplicado: %s em %s",
				row.Vehicle.Plate, row.PurchasedAt.Format("02/01/2006 15:04")))
			continue
		}
		// A match whose total cost differs beyond the tolerance imports as
		// a new transaction: same-slot refuels with different totals are
		// assumed legitimate.

		id, err := batch.Insert(ctx, row)
		if err != nil {
			return fmt.Errorf("insert transaction (row %d): %w", row.Num, err)
		}
		result.addImported(row, id)
	}

	if err := batch.Commit(ctx); err != nil {
		return fmt.Errorf("commit import batch: %w", err)
	}
	return nil
}
