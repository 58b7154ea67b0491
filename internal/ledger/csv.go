package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Header is the CSV header of an exported projection.
const Header = "row,group,count,id,name,date,amount,consumed,percentage,balance"

const (
	numFields  = 10
	dateFormat = "2006-01-02"
	colRow     = 0
	colGroup   = 1
	colCount   = 2
	colID      = 3
	colName    = 4
	colDate    = 5
	colAmount  = 6
	colConsum  = 7
	colPercent = 8
	colBalance = 9
)

// WriteCSV writes rows to w, header first.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, r := range rows {
		if err := cw.Write(MarshalRow(r)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalRow converts a Row to a CSV record. Headers only fill row, group
// and count.
func MarshalRow(r Row) []string {
	rec := make([]string, numFields)
	rec[colRow] = string(r.Kind)
	rec[colGroup] = string(r.Group)

	if r.Kind == RowHeader {
		rec[colCount] = strconv.Itoa(r.Count)
		return rec
	}

	rec[colID] = r.ID()
	rec[colName] = r.Name()
	rec[colAmount] = r.Amount.StringFixed(2)
	rec[colBalance] = r.Balance.StringFixed(2)

	switch {
	case r.Line != nil:
		if !r.Line.CreatedAt.IsZero() {
			rec[colDate] = r.Line.CreatedAt.Format(dateFormat)
		}
		rec[colConsum] = r.Consumption.Consumed.StringFixed(2)
		rec[colPercent] = strconv.FormatInt(r.Consumption.Percentage, 10)
	case r.Transaction != nil:
		if d := r.Transaction.EffectiveDate(); !d.IsZero() {
			rec[colDate] = d.Format(dateFormat)
		}
	}
	return rec
}
