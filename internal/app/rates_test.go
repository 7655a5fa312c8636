package app

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/extranet-bot/internal/constants"
	"github.com/oshokin/extranet-bot/internal/service/ratestatus"
)

func loadTestTracker(t *testing.T, content string) *ratestatus.Tracker {
	t.Helper()

	path := filepath.Join(t.TempDir(), "rates.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), constants.DefaultFilePermissions))

	tracker, err := ratestatus.Load(path)
	require.NoError(t, err)

	return tracker
}

// TestWriteRateStatus tests the rates status output.
func TestWriteRateStatus(t *testing.T) {
	t.Parallel()

	const content = `Room ID,Date Range,Price,Status
101,week 1,1200,completed
101,week 2,1300,
102,week 1,900.5,
`

	t.Run("table", func(t *testing.T) {
		t.Parallel()

		tracker := loadTestTracker(t, content)

		var buf bytes.Buffer
		require.NoError(t, WriteRateStatus(&buf, tracker, "", OutputFormatTable))

		out := buf.String()
		assert.Contains(t, out, "Rates applied")
		assert.Contains(t, out, "Total: 3, completed: 1, pending: 2 (33.3%)")
		assert.Contains(t, out, "1,300")
		assert.Contains(t, out, "900.5")
		assert.NotContains(t, out, "1,200")
	})

	t.Run("json for one room", func(t *testing.T) {
		t.Parallel()

		tracker := loadTestTracker(t, content)

		var buf bytes.Buffer
		require.NoError(t, WriteRateStatus(&buf, tracker, "102", OutputFormatJSON))

		var report RateStatusReport
		require.NoError(t, json.Unmarshal(buf.Bytes(), &report))
		assert.Equal(t, 3, report.Summary.Total)
		require.Len(t, report.Pending, 1)
		assert.Equal(t, "900.5", report.Pending[0].Price)
	})

	t.Run("nothing pending", func(t *testing.T) {
		t.Parallel()

		tracker := loadTestTracker(t, "Room ID,Date Range,Price,Status\n101,week 1,1200,completed\n")

		var buf bytes.Buffer
		require.NoError(t, WriteRateStatus(&buf, tracker, "", OutputFormatTable))
		assert.Contains(t, buf.String(), "Nothing pending.")
	})
}
