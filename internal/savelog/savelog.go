// Package savelog keeps a CSV history of bulk saves next to a snapshot.
package savelog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Outcomes of a save.
const (
	OutcomeSaved     = "saved"
	OutcomeFailed    = "failed"
	OutcomeCancelled = "cancelled"
)

// Entry is one row in the save log.
type Entry struct {
	Timestamp time.Time
	Command   string
	BudgetID  string
	Outcome   string
	Saved     int
	Deleted   int
	Message   string
}

// Header is the CSV header for save-log.csv.
const Header = "timestamp,command,budget_id,outcome,saved,deleted,message"

const (
	numFields    = 7
	logDir       = "logs"
	logFile      = "save-log.csv"
	colTimestamp = 0
	colCommand   = 1
	colBudgetID  = 2
	colOutcome   = 3
	colSaved     = 4
	colDeleted   = 5
	colMessage   = 6
)

// Path returns the log file used for snapshots stored in dir.
func Path(dir string) string {
	return filepath.Join(dir, logDir, logFile)
}

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.UTC().Format(time.RFC3339)
	row[colCommand] = e.Command
	row[colBudgetID] = e.BudgetID
	row[colOutcome] = e.Outcome
	row[colSaved] = strconv.Itoa(e.Saved)
	row[colDeleted] = strconv.Itoa(e.Deleted)
	row[colMessage] = e.Message
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}
	saved, err := strconv.Atoi(record[colSaved])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing saved count %q: %w", record[colSaved], err)
	}
	deleted, err := strconv.Atoi(record[colDeleted])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing deleted count %q: %w", record[colDeleted], err)
	}

	return Entry{
		Timestamp: ts,
		Command:   record[colCommand],
		BudgetID:  record[colBudgetID],
		Outcome:   record[colOutcome],
		Saved:     saved,
		Deleted:   deleted,
		Message:   record[colMessage],
	}, nil
}

// Append writes entries to <dir>/logs/save-log.csv, creating the file and
// header if needed.
func Append(dir string, entries ...Entry) error {
	if err := os.MkdirAll(filepath.Join(dir, logDir), 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := Path(dir)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening save log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read returns all entries logged for dir, oldest first. A missing log
// yields nil.
func Read(dir string) ([]Entry, error) {
	f, err := os.Open(Path(dir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening save log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading save log CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	entries := make([]Entry, 0, len(records)-1)
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
