package importer

// validate.go turns one RawRow into a ValidatedRow or a list of row errors,
// never both. Every field is checked before the row is rejected so a bad
// file surfaces all of its problems in a single pass. Messages are the
// Portuguese strings fleet operators see in the import report.

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ValidateRow resolves references against the snapshot and applies the
// field-level business rules. The returned errors carry the row number of
// the input row.
func ValidateRow(row RawRow, snap *Snapshot, loc *time.Location) (*ValidatedRow, []ImportError) {
	var errs []ImportError
	fail := func(column, value, message string) {
		errs = append(errs, ImportError{Row: row.Num, Column: column, Value: value, Message: message})
	}

	dateValue := row.Get("data", "data_hora")
	purchasedAt, dateOK := ParseDate(dateValue, loc)
	if !dateOK {
		fail("data", dateValue, "Data invalida. Use DD/MM/YYYY ou DD/MM/YYYY HH:MM.")
	}

	plate := strings.ToUpper(strings.TrimSpace(row.Get("placa")))
	var vehicle Vehicle
	var vehicleOK bool
	if plate == "" {
		fail("placa", "", "Placa e obrigatoria.")
	} else if vehicle, vehicleOK = snap.Vehicle(plate); !vehicleOK {
		fail("placa", plate, fmt.Sprintf("Veiculo com placa %q nao encontrado.", plate))
	}

	litersValue := row.Get("litros")
	liters, litersOK := ParseDecimal(litersValue)
	if !litersOK {
		fail("litros", litersValue, "Litros invalido. Use formato numerico (ex: 45,5 ou 45.5).")
	} else if liters.Sign() <= 0 {
		fail("litros", litersValue, "Litros deve ser maior que zero.")
	}

	priceValue := row.Get("preco_litro", "preco")
	unitPrice, priceOK := ParseDecimal(priceValue)
	if !priceOK {
		fail("preco_litro", priceValue, "Preco por litro invalido.")
	} else if unitPrice.Sign() <= 0 {
		fail("preco_litro", priceValue, "Preco deve ser maior que zero.")
	}

	// Optional total: an unparseable value is treated like an absent one
	// and recomputed from liters and price.
	var totalCost *decimal.Decimal
	if v := row.Get("total", "valor_total"); strings.TrimSpace(v) != "" {
		if t, ok := ParseDecimal(v); ok {
			totalCost = &t
		}
	}

	odometerValue := row.Get("odometro", "km")
	odometerKm, odoOK := ParseInt(odometerValue)
	if !odoOK {
		fail("odometro", odometerValue, "Odometro invalido. Use numero inteiro.")
	} else if odometerKm < 0 {
		fail("odometro", odometerValue, "Odometro nao pode ser negativo.")
	}

	fuelType := ParseFuelType(row.Get("combustivel", "tipo_combustivel"))

	// Unmatched optional references stay nil rather than erroring.
	var driver *Driver
	if name := strings.TrimSpace(row.Get("motorista")); name != "" {
		if d, ok := snap.Driver(name); ok {
			driver = &d
		}
	}
	var station *Station
	if name := strings.TrimSpace(row.Get("posto")); name != "" {
		if st, ok := snap.Station(name); ok {
			station = &st
		}
	}
	var costCenter *CostCenter
	if name := strings.TrimSpace(row.Get("centro_custo", "cc")); name != "" {
		if c, ok := snap.CostCenter(name); ok {
			costCenter = &c
		}
	}

	notes := strings.TrimSpace(row.Get("observacoes", "obs"))

	if len(errs) > 0 {
		return nil, errs
	}

	// A computed total truncates the sub-cent tail (45.5 * 5.89 = 267.995
	// stores as 267.99); a supplied total is rounded conventionally.
	total := liters.Mul(unitPrice).RoundDown(2)
	if totalCost != nil {
		total = totalCost.Round(2)
	}

	return &ValidatedRow{
		Num:         row.Num,
		Vehicle:     vehicle,
		Driver:      driver,
		Station:     station,
		CostCenter:  costCenter,
		PurchasedAt: purchasedAt,
		Liters:      liters,
		UnitPrice:   unitPrice,
		TotalCost:   total,
		OdometerKm:  odometerKm,
		FuelType:    fuelType,
		Notes:       notes,
	}, nil
}
