package importer

// parse.go holds the pure field parsers. Each returns (value, ok) rather
// than an error so the validator can collect every problem in a row without
// unwinding. Empty and invalid input both report ok=false; the caller knows
// from the field's requiredness which message applies.

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// currencyPattern strips the R$ currency marker and embedded whitespace
// before decimal parsing.
var currencyPattern = regexp.MustCompile(`[R$\s]`)

// integerJunkPattern strips whitespace and dots used as thousands
// separators in odometer readings.
var integerJunkPattern = regexp.MustCompile(`[.\s]`)

var fuelTypeAliases = map[string]FuelType{
	"GASOLINA": FuelGasoline,
	"GASOLINE": FuelGasoline,
	"GAS":      FuelGasoline,
	"G":        FuelGasoline,
	"ETANOL":   FuelEthanol,
	"ETHANOL":  FuelEthanol,
	"ALCOOL":   FuelEthanol,
	"E":        FuelEthanol,
	"DIESEL":   FuelDiesel,
	"D":        FuelDiesel,
}

var dateLayouts = []string{
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006",
	"02-01-2006 15:04:05",
	"02-01-2006 15:04",
	"02-01-2006",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseDecimal parses a decimal in Brazilian (1.234,56) or international
// (1,234.56) notation. When both separators appear, the one further right
// is the decimal point. A lone comma followed by one to three digits is a
// decimal point; anything else makes it a thousands separator. Three digits
// after the comma stay fractional because liters are quoted to 3 places.
func ParseDecimal(value string) (decimal.Decimal, bool) {
	v := currencyPattern.ReplaceAllString(strings.TrimSpace(value), "")
	if v == "" {
		return decimal.Decimal{}, false
	}

	hasComma := strings.Contains(v, ",")
	hasDot := strings.Contains(v, ".")

	switch {
	case hasComma && hasDot:
		if strings.LastIndex(v, ",") > strings.LastIndex(v, ".") {
			// Brazilian: 1.234,56
			v = strings.ReplaceAll(v, ".", "")
			v = strings.ReplaceAll(v, ",", ".")
		} else {
			// International: 1,234.56
			v = strings.ReplaceAll(v, ",", "")
		}
	case hasComma:
		parts := strings.Split(v, ",")
		if len(parts) == 2 && len(parts[1]) >= 1 && len(parts[1]) <= 3 {
			v = strings.ReplaceAll(v, ",", ".")
		} else {
			v = strings.ReplaceAll(v, ",", "")
		}
	}

	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// ParseDate tries the supported layouts in order, first match wins. Naive
// timestamps are placed in loc, the fleet's configured timezone.
func ParseDate(value string, loc *time.Location) (time.Time, bool) {
	v := strings.TrimSpace(value)
	if v == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, v, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseInt parses a base-10 integer, tolerating dots and spaces as
// formatting artifacts ("125.430" reads as 125430).
func ParseInt(value string) (int, bool) {
	v := integerJunkPattern.ReplaceAllString(strings.TrimSpace(value), "")
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ParseFuelType maps a raw fuel description to its canonical type. Unknown
// or empty input defaults to gasoline rather than erroring; typos therefore
// classify silently, which product has so far chosen to keep.
func ParseFuelType(value string) FuelType {
	normalized := strings.ToUpper(strings.TrimSpace(value))
	if ft, ok := fuelTypeAliases[normalized]; ok {
		return ft
	}
	return FuelGasoline
}
