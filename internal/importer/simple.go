package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// SimpleParser reads a three-column export: date (YYYY-MM-DD), description,
// signed amount. Decimal commas are accepted.
type SimpleParser struct{}

var simpleHeader = []string{"date", "description", "amount"}

var errSimpleHeader = errors.New("header must be date,description,amount")

func (p *SimpleParser) Format() string { return "simple" }

func (p *SimpleParser) Parse(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(simpleHeader)
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	for i, h := range simpleHeader {
		if !strings.EqualFold(strings.TrimSpace(records[0][i]), h) {
			return nil, errSimpleHeader
		}
	}

	var rows []Row
	for i, rec := range records[1:] {
		date, err := time.Parse(time.DateOnly, rec[0])
		if err != nil {
			return nil, fmt.Errorf("row %d: parsing date %q: %w", i+2, rec[0], err)
		}
		raw := strings.ReplaceAll(strings.TrimSpace(rec[2]), ",", ".")
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("row %d: parsing amount %q: %w", i+2, rec[2], err)
		}
		desc := strings.TrimSpace(rec[1])
		rows = append(rows, Row{
			Date:        date,
			Description: desc,
			Amount:      amount,
			Reference:   reference("simple", date, desc),
		})
	}
	return rows, nil
}
