package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/blackwell-systems/retailmetrics/internal/transactions"
)

// column identifies one required CSV column.
type column int

const (
	colRetailer column = iota
	colBrand
	colHousehold
	colUnits
	colDollars
	colDate
	numColumns
)

var columnNames = [numColumns]string{
	colRetailer:  "retailer",
	colBrand:     "parent_brand",
	colHousehold: "household_id",
	colUnits:     "item_units",
	colDollars:   "item_dollars",
	colDate:      "date",
}

// headerAliases maps normalized header text to a column.
var headerAliases = map[string]column{
	"retailer":     colRetailer,
	"parent_brand": colBrand,
	"brand":        colBrand,
	"user_id":      colHousehold,
	"household_id": colHousehold,
	"household":    colHousehold,
	"item_units":   colUnits,
	"units":        colUnits,
	"item_dollars": colDollars,
	"dollars":      colDollars,
	"date":         colDate,
}

// ParseCSV reads a header row followed by one transaction per row.
// Malformed units or dates fail with ErrDataError naming the column and
// line; a file with no data rows fails with ErrDataUnavailable.
func ParseCSV(r io.Reader, layouts []string) (*transactions.Dataset, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err == io.EOF {
		return nil, transactions.NewFieldError(transactions.ErrDataUnavailable, "header", "", errors.New("empty file"))
	}
	if err != nil {
		return nil, readError("header", err)
	}

	index, err := mapHeaders(headers)
	if err != nil {
		return nil, err
	}

	var records []transactions.Record
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, readError("row", err)
		}
		line, _ := reader.FieldPos(0)

		rec, err := parseRow(row, index, layouts, line)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, transactions.NewFieldError(transactions.ErrDataUnavailable, "records", "", errors.New("no data rows"))
	}

	return transactions.NewDataset(records)
}

// readError classifies a csv.Reader failure: malformed CSV is bad data, any
// other error means the stream itself failed.
func readError(field string, err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return transactions.NewFieldError(transactions.ErrDataError, field, "", err)
	}
	return transactions.NewFieldError(transactions.ErrDataUnavailable, field, "", err)
}

func mapHeaders(headers []string) ([numColumns]int, error) {
	var index [numColumns]int
	for i := range index {
		index[i] = -1
	}

	for i, h := range headers {
		if c, ok := headerAliases[normalizeHeader(h)]; ok && index[c] < 0 {
			index[c] = i
		}
	}

	for c, i := range index {
		if i < 0 {
			return index, transactions.NewFieldError(transactions.ErrDataError, columnNames[c], "",
				errors.New("missing column in header"))
		}
	}
	return index, nil
}

func parseRow(row []string, index [numColumns]int, layouts []string, line int) (transactions.Record, error) {
	field := func(c column) string {
		if index[c] >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[index[c]])
	}
	fail := func(c column, value string, cause error) error {
		return transactions.NewFieldError(transactions.ErrDataError, columnNames[c], value,
			fmt.Errorf("line %d: %w", line, cause))
	}

	rec := transactions.Record{
		Retailer:    field(colRetailer),
		ParentBrand: field(colBrand),
		HouseholdID: field(colHousehold),
		ItemDollars: field(colDollars),
	}

	for _, c := range []column{colRetailer, colBrand, colHousehold, colDollars} {
		if field(c) == "" {
			return rec, fail(c, "", errors.New("empty value"))
		}
	}

	units := field(colUnits)
	n, err := strconv.ParseInt(units, 10, 64)
	if err != nil {
		// Some exports write whole units as "3.0".
		f, ferr := strconv.ParseFloat(units, 64)
		if ferr != nil || f != float64(int64(f)) {
			return rec, fail(colUnits, units, errors.New("not an integer"))
		}
		n = int64(f)
	}
	if n < 0 {
		return rec, fail(colUnits, units, errors.New("negative units"))
	}
	rec.ItemUnits = n

	date := field(colDate)
	rec.Date, err = transactions.ParseDate(date, layouts)
	if err != nil {
		var fe *transactions.FieldError
		if errors.As(err, &fe) {
			err = fe.Err
		}
		return rec, fail(colDate, date, err)
	}

	return rec, nil
}

// normalizeHeader turns "Parent Brand" or "parentBrand" into "parent_brand".
func normalizeHeader(h string) string {
	h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	var b strings.Builder
	for i, r := range h {
		switch {
		case r == ' ' || r == '-' || r == '.':
			b.WriteByte('_')
		case r >= 'A' && r <= 'Z':
			if i > 0 && h[i-1] >= 'a' && h[i-1] <= 'z' {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
