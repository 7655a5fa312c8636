package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"gopkg.in/yaml.v3"

	"github.com/oshokin/extranet-bot/internal/service/extranet"
	"github.com/oshokin/extranet-bot/internal/service/ratestatus"
)

// OutputFormat selects how command results are printed.
type OutputFormat string

// Supported output formats.
const (
	OutputFormatTable OutputFormat = "table"
	OutputFormatJSON  OutputFormat = "json"
	OutputFormatYAML  OutputFormat = "yaml"
)

// ErrUnknownOutputFormat is returned for formats other than table, json and yaml.
var ErrUnknownOutputFormat = errors.New("unknown output format")

// ParseOutputFormat resolves a case-insensitive format name.
func ParseOutputFormat(value string) (OutputFormat, error) {
	format := OutputFormat(strings.ToLower(strings.TrimSpace(value)))

	switch format {
	case OutputFormatTable, OutputFormatJSON, OutputFormatYAML:
		return format, nil
	case "":
		return OutputFormatTable, nil
	default:
		return "", fmt.Errorf("%w: %q, expected table, json or yaml", ErrUnknownOutputFormat, value)
	}
}

// WriteReservations prints reservations in the given format.
func WriteReservations(w io.Writer, reservations []extranet.Reservation, format OutputFormat) error {
	if reservations == nil {
		reservations = []extranet.Reservation{}
	}

	if format != OutputFormatTable {
		return writeEncoded(w, reservations, format)
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"Reservation", "Guest", "Check-in", "Check-out", "Status"})

	for _, r := range reservations {
		t.AppendRow(table.Row{r.ReservationID, r.GuestName, r.CheckIn, r.CheckOut, r.Status})
	}

	t.AppendFooter(table.Row{"", "", "", "Total", len(reservations)})
	t.Render()

	return nil
}

// WritePageInfo prints a page description in the given format.
func WritePageInfo(w io.Writer, info *extranet.PageInfo, format OutputFormat) error {
	if format != OutputFormatTable {
		return writeEncoded(w, info, format)
	}

	t := newTable(w)
	t.AppendRows([]table.Row{
		{"URL", info.URL},
		{"Title", info.Title},
		{"Calendar", info.HasCalendar},
		{"Elements", strings.Join(info.VisibleElements, "\n")},
	})
	t.Render()

	return nil
}

// WriteRateRecords prints rate plan records in the given format.
func WriteRateRecords(w io.Writer, records []ratestatus.Record, format OutputFormat) error {
	if records == nil {
		records = []ratestatus.Record{}
	}

	if format != OutputFormatTable {
		return writeEncoded(w, records, format)
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"Room ID", "Date Range", "Price", "Status"})

	for _, r := range records {
		t.AppendRow(table.Row{r.RoomID, r.DateRange, r.DisplayPrice(), r.Status})
	}

	t.SetColumnConfigs([]table.ColumnConfig{{Name: "Price", Align: text.AlignRight}})
	t.Render()

	return nil
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)

	return t
}

func writeEncoded(w io.Writer, value any, format OutputFormat) error {
	switch format {
	case OutputFormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")

		if err := encoder.Encode(value); err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
	case OutputFormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)

		if err := encoder.Encode(value); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}

		if err := encoder.Close(); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
	case OutputFormatTable:
		return fmt.Errorf("%w: table is not an encoding", ErrUnknownOutputFormat)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOutputFormat, format)
	}

	return nil
}
