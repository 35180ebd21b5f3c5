package usecase

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/ctacte/internal/domain"
)

// Column headers of the delivery-note export.
const (
	ColumnDeliveryDate = "FECHA_REMITO"
	ColumnDeliveryNote = "REMITO"
	ColumnTaxID        = "CUIT_CLIENTE"
	ColumnCustomerName = "CLIENTE"
	ColumnArticle      = "ARTICULO"
	ColumnQuantity     = "CANTIDAD"
	ColumnWeight       = "KILOS"
)

// RequiredColumns lists the columns every row must carry.
var RequiredColumns = []string{
	ColumnDeliveryDate,
	ColumnDeliveryNote,
	ColumnTaxID,
	ColumnCustomerName,
	ColumnArticle,
	ColumnQuantity,
	ColumnWeight,
}

// ImportRow is one spreadsheet row keyed by column header. Values may be
// strings, numbers, time.Time or nil.
type ImportRow map[string]any

// MissingColumns returns the required columns absent from the row.
func (r ImportRow) MissingColumns() []string {
	var missing []string
	for _, c := range RequiredColumns {
		if _, ok := r[c]; !ok {
			missing = append(missing, c)
		}
	}
	return missing
}

// Text returns the trimmed string form of a cell; nil is empty.
func (r ImportRow) Text(column string) string {
	return strings.TrimSpace(cellString(r[column]))
}

var (
	dayFirstDate = regexp.MustCompile(`^(\d{1,2})[/\-.](\d{1,2})[/\-.](\d{2}|\d{4})(?:\s+(\d{1,2}):(\d{2})(?::(\d{2}))?)?$`)
	serialNumber = regexp.MustCompile(`^\d+(\.\d+)?$`)

	isoLayouts = []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04",
		"2006-01-02 15:04",
		domain.DateLayout,
	}

	excelEpoch   = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)
	lotusEpoch   = time.Date(1899, 12, 31, 0, 0, 0, 0, time.UTC)
	lotusLeapDay = time.Date(1900, 3, 1, 0, 0, 0, 0, time.UTC)
)

// maxExcelSerial is 9999-12-31.
const maxExcelSerial = 2958465

// ParseDeliveryDate accepts a time.Time, an Excel serial day count (number or
// numeric string), an ISO date or date-time, or a day-first date with "/",
// "-" or "." separators and an optional time. Two-digit years are 20xx. The
// result is a calendar date in UTC.
func ParseDeliveryDate(v any) (time.Time, bool) {
	switch t := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		if t.IsZero() {
			return time.Time{}, false
		}
		return domain.DateOnly(t), true
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return ParseDeliveryDate(*t)
	}

	if f, ok := cellNumber(v); ok {
		return excelSerialDate(f)
	}

	s := strings.TrimSpace(cellString(v))
	if s == "" {
		return time.Time{}, false
	}

	if serialNumber.MatchString(s) {
		f, err := strconv.ParseFloat(s, 64)
		if err == nil {
			return excelSerialDate(f)
		}
	}

	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return domain.DateOnly(t), true
		}
	}

	m := dayFirstDate.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	if year < 100 {
		year += 2000
	}
	hour, minute, second := 0, 0, 0
	if m[4] != "" {
		hour, _ = strconv.Atoi(m[4])
		minute, _ = strconv.Atoi(m[5])
	}
	if m[6] != "" {
		second, _ = strconv.Atoi(m[6])
	}
	if hour > 23 || minute > 59 || second > 59 {
		return time.Time{}, false
	}

	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalises 31/02 into March; reject instead.
	if d.Year() != year || int(d.Month()) != month || d.Day() != day {
		return time.Time{}, false
	}
	return d, true
}

// excelSerialDate converts a spreadsheet serial day number. Serial 60 is the
// fictitious 1900-02-29 of the Lotus calendar and rolls over to 1900-03-01.
func excelSerialDate(serial float64) (time.Time, bool) {
	if math.IsNaN(serial) || math.IsInf(serial, 0) || serial < 1 || serial > maxExcelSerial {
		return time.Time{}, false
	}
	days := int(math.Floor(serial))
	switch {
	case days < 60:
		return lotusEpoch.AddDate(0, 0, days), true
	case days == 60:
		return lotusLeapDay, true
	default:
		return excelEpoch.AddDate(0, 0, days), true
	}
}

// ParseImportDecimal reads a quantity or weight cell. A comma decimal
// separator is accepted; anything unparseable or non-finite becomes zero.
// The result is rounded to scale places.
func ParseImportDecimal(v any, scale int32) decimal.Decimal {
	switch t := v.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return t.Round(scale)
	}

	if f, ok := cellNumber(v); ok {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return decimal.Zero
		}
		return decimal.NewFromFloat(f).Round(scale)
	}

	s := strings.TrimSpace(strings.Replace(cellString(v), ",", ".", 1))
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d.Round(scale)
}

func cellNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func cellString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case json.Number:
		return s.String()
	case fmt.Stringer:
		return s.String()
	default:
		return fmt.Sprint(v)
	}
}
