package ratestatus

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/oshokin/extranet-bot/internal/constants"
)

// Column names of the rate plan CSV.
const (
	ColumnRoomID    = "Room ID"
	ColumnDateRange = "Date Range"
	ColumnPrice     = "Price"
	ColumnStatus    = "Status"
)

// Status is the progress of one record.
type Status string

// Known statuses.
const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// Record is one row of the rate plan.
type Record struct {
	RoomID    string `json:"room_id"    yaml:"room_id"`
	DateRange string `json:"date_range" yaml:"date_range"`
	Price     string `json:"price"      yaml:"price"`
	Status    Status `json:"status"     yaml:"status"`
}

// DisplayPrice formats a numeric price with thousands separators and two decimals.
// Prices that are not numbers are returned as is.
func (r Record) DisplayPrice() string {
	value, err := strconv.ParseFloat(strings.TrimSpace(r.Price), 64)
	if err != nil {
		return r.Price
	}

	return humanize.CommafWithDigits(value, 2)
}

// Summary is the progress over the whole file.
type Summary struct {
	Total      int     `json:"total_records"       yaml:"total_records"`
	Completed  int     `json:"completed_records"   yaml:"completed_records"`
	Pending    int     `json:"pending_records"     yaml:"pending_records"`
	Percentage float64 `json:"progress_percentage" yaml:"progress_percentage"`
}

// Tracker holds a rate plan file in memory.
// Columns other than the known ones are kept and written back unchanged.
type Tracker struct {
	path   string
	header []string
	rows   [][]string

	roomIDColumn    int
	dateRangeColumn int
	priceColumn     int
	statusColumn    int
}

// Load reads the rate plan from path.
func Load(path string) (*Tracker, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open rate file: %w", err)
	}

	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: %s", ErrEmptyFile, path)
		}

		return nil, fmt.Errorf("failed to read rate file header: %w", err)
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read rate file: %w", err)
	}

	t := &Tracker{
		path:   path,
		header: header,
		rows:   rows,
	}

	if err = t.indexColumns(); err != nil {
		return nil, err
	}

	return t, nil
}

// Path returns the file the tracker persists to.
func (t *Tracker) Path() string {
	return t.path
}

// Records returns every record in file order.
func (t *Tracker) Records() []Record {
	records := make([]Record, 0, len(t.rows))
	for _, row := range t.rows {
		records = append(records, t.record(row))
	}

	return records
}

// ProgressSummary counts completed and pending records.
func (t *Tracker) ProgressSummary() Summary {
	var summary Summary

	for _, row := range t.rows {
		summary.Total++

		if t.record(row).Status == StatusCompleted {
			summary.Completed++
		}
	}

	summary.Pending = summary.Total - summary.Completed

	if summary.Total > 0 {
		summary.Percentage = math.Round(float64(summary.Completed)*1000/float64(summary.Total)) / 10
	}

	return summary
}

// PendingForRoom returns the pending records of one room.
func (t *Tracker) PendingForRoom(roomID string) []Record {
	roomID = strings.TrimSpace(roomID)

	var pending []Record

	for _, row := range t.rows {
		record := t.record(row)
		if record.RoomID == roomID && record.Status != StatusCompleted {
			pending = append(pending, record)
		}
	}

	return pending
}

// MarkCompleted marks the rows with the record's room and date range as completed and saves the file.
func (t *Tracker) MarkCompleted(record Record) error {
	found := false

	for i, row := range t.rows {
		current := t.record(row)
		if current.RoomID == strings.TrimSpace(record.RoomID) &&
			current.DateRange == strings.TrimSpace(record.DateRange) {
			t.setStatus(i, StatusCompleted)

			found = true
		}
	}

	if !found {
		return fmt.Errorf("%w: room %s, date range %s", ErrRecordNotFound, record.RoomID, record.DateRange)
	}

	return t.save()
}

// ResetAll marks every record as pending and saves the file.
func (t *Tracker) ResetAll() error {
	for i := range t.rows {
		t.setStatus(i, StatusPending)
	}

	return t.save()
}

func (t *Tracker) indexColumns() error {
	t.statusColumn = -1

	required := map[string]*int{
		ColumnRoomID:    &t.roomIDColumn,
		ColumnDateRange: &t.dateRangeColumn,
		ColumnPrice:     &t.priceColumn,
	}

	for _, target := range required {
		*target = -1
	}

	for i, name := range t.header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		t.header[i] = name

		if target, ok := required[name]; ok && *target < 0 {
			*target = i
		}

		if name == ColumnStatus && t.statusColumn < 0 {
			t.statusColumn = i
		}
	}

	for _, name := range []string{ColumnRoomID, ColumnDateRange, ColumnPrice} {
		if *required[name] < 0 {
			return fmt.Errorf("%w: %q", ErrMissingColumn, name)
		}
	}

	if t.statusColumn < 0 {
		t.statusColumn = len(t.header)
		t.header = append(t.header, ColumnStatus)
	}

	return nil
}

func (t *Tracker) record(row []string) Record {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}

		return ""
	}

	status := Status(strings.ToLower(cell(t.statusColumn)))
	if status == "" {
		status = StatusPending
	}

	return Record{
		RoomID:    cell(t.roomIDColumn),
		DateRange: cell(t.dateRangeColumn),
		Price:     cell(t.priceColumn),
		Status:    status,
	}
}

// setStatus writes status into row i, growing it when the status cell is missing.
func (t *Tracker) setStatus(i int, status Status) {
	for len(t.rows[i]) <= t.statusColumn {
		t.rows[i] = append(t.rows[i], "")
	}

	t.rows[i][t.statusColumn] = string(status)
}

// save writes the file through a temporary sibling so a crash never leaves it half written.
func (t *Tracker) save() error {
	tmp, err := os.CreateTemp(filepath.Dir(t.path), filepath.Base(t.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary rate file: %w", err)
	}

	defer os.Remove(tmp.Name()) //nolint:errcheck // Already renamed on success.

	writer := csv.NewWriter(tmp)

	if err = writer.Write(t.header); err == nil {
		err = writer.WriteAll(t.rows)
	}

	if err != nil {
		tmp.Close()

		return fmt.Errorf("failed to write rate file: %w", err)
	}

	if err = tmp.Chmod(constants.DefaultFilePermissions); err != nil {
		tmp.Close()

		return fmt.Errorf("failed to set rate file permissions: %w", err)
	}

	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temporary rate file: %w", err)
	}

	if err = os.Rename(tmp.Name(), t.path); err != nil {
		return fmt.Errorf("failed to replace rate file: %w", err)
	}

	return nil
}
