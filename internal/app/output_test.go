package app

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/oshokin/extranet-bot/internal/service/extranet"
)

// TestParseOutputFormat tests the ParseOutputFormat function.
func TestParseOutputFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input       string
		expected    OutputFormat
		expectError bool
	}{
		{input: "table", expected: OutputFormatTable},
		{input: "JSON", expected: OutputFormatJSON},
		{input: " yaml ", expected: OutputFormatYAML},
		{input: "", expected: OutputFormatTable},
		{input: "xml", expectError: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			format, err := ParseOutputFormat(tt.input)
			if tt.expectError {
				require.ErrorIs(t, err, ErrUnknownOutputFormat)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, format)
		})
	}
}

//nolint:gochecknoglobals // Shared test fixture.
var testReservations = []extranet.Reservation{
	{ReservationID: "4001", GuestName: "Ada Lovelace", CheckIn: "2026-10-18", CheckOut: "2026-10-20", Status: "OK"},
	{ReservationID: "4002", GuestName: "Alan Turing", CheckIn: "2026-10-19", CheckOut: "2026-10-21", Status: "Cancelled"},
}

// TestWriteReservations tests every output format.
func TestWriteReservations(t *testing.T) {
	t.Parallel()

	t.Run("table", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		require.NoError(t, WriteReservations(&buf, testReservations, OutputFormatTable))

		out := buf.String()
		assert.Contains(t, out, "RESERVATION")
		assert.Contains(t, out, "Ada Lovelace")
		assert.Contains(t, out, "Cancelled")
		assert.Contains(t, out, "TOTAL")
	})

	t.Run("json", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		require.NoError(t, WriteReservations(&buf, testReservations, OutputFormatJSON))

		var decoded []extranet.Reservation
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, testReservations, decoded)
		assert.Contains(t, buf.String(), `"guest_name": "Ada Lovelace"`)
	})

	t.Run("yaml", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		require.NoError(t, WriteReservations(&buf, testReservations, OutputFormatYAML))

		var decoded []extranet.Reservation
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, testReservations, decoded)
		assert.Contains(t, buf.String(), "guest_name: Ada Lovelace")
	})

	t.Run("empty json is an array", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		require.NoError(t, WriteReservations(&buf, nil, OutputFormatJSON))
		assert.Equal(t, "[]\n", buf.String())
	})

	t.Run("unknown format", func(t *testing.T) {
		t.Parallel()

		err := WriteReservations(&bytes.Buffer{}, testReservations, "xml")
		require.ErrorIs(t, err, ErrUnknownOutputFormat)
	})
}

// TestWritePageInfo tests the page description output.
func TestWritePageInfo(t *testing.T) {
	t.Parallel()

	info := &extranet.PageInfo{
		URL:             "https://admin.booking.com/hotel/hoteladmin/extranet_ng/manage/calendar.html",
		Title:           "Calendar",
		HasCalendar:     true,
		VisibleElements: []string{"rate-calendar", "availability-grid"},
	}

	var buf bytes.Buffer
	require.NoError(t, WritePageInfo(&buf, info, OutputFormatTable))
	assert.Contains(t, buf.String(), "calendar.html")
	assert.Contains(t, buf.String(), "availability-grid")

	buf.Reset()
	require.NoError(t, WritePageInfo(&buf, info, OutputFormatJSON))
	assert.Contains(t, buf.String(), `"has_calendar": true`)
}
