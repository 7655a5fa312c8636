package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"

	"github.com/oshokin/extranet-bot/internal/logger"
	"github.com/oshokin/extranet-bot/internal/service/ratestatus"
)

// RateStatusReport is the machine readable form of the rates status command.
type RateStatusReport struct {
	File    string              `json:"file"    yaml:"file"`
	Summary ratestatus.Summary  `json:"summary" yaml:"summary"`
	Pending []ratestatus.Record `json:"pending" yaml:"pending"`
}

// ExecuteRatesStatusCommand prints the progress of a rate plan and its pending records.
// A non-empty roomID limits the pending records to that room.
func ExecuteRatesStatusCommand(ctx context.Context, filename, roomID string, format OutputFormat) {
	tracker, err := ratestatus.Load(filename)
	if err != nil {
		logger.Fatalf(ctx, "Failed to load rate plan: %v", err)
	}

	if err = WriteRateStatus(os.Stdout, tracker, roomID, format); err != nil {
		logger.Fatalf(ctx, "Failed to print rate status: %v", err)
	}
}

// ExecuteRatesCompleteCommand marks the records of a room and date range as completed.
func ExecuteRatesCompleteCommand(ctx context.Context, filename, roomID, dateRange string) {
	tracker, err := ratestatus.Load(filename)
	if err != nil {
		logger.Fatalf(ctx, "Failed to load rate plan: %v", err)
	}

	err = tracker.MarkCompleted(ratestatus.Record{RoomID: roomID, DateRange: dateRange})
	if err != nil {
		logger.Fatalf(ctx, "Failed to mark record as completed: %v", err)
	}

	summary := tracker.ProgressSummary()
	logger.Infof(ctx, "Marked room %s, %s as completed (%d/%d, %.1f%%)",
		roomID, dateRange, summary.Completed, summary.Total, summary.Percentage)
}

// ExecuteRatesResetCommand marks every record of a rate plan as pending.
func ExecuteRatesResetCommand(ctx context.Context, filename string) {
	tracker, err := ratestatus.Load(filename)
	if err != nil {
		logger.Fatalf(ctx, "Failed to load rate plan: %v", err)
	}

	if err = tracker.ResetAll(); err != nil {
		logger.Fatalf(ctx, "Failed to reset rate plan: %v", err)
	}

	logger.Infof(ctx, "Reset %d records in %s to pending", tracker.ProgressSummary().Total, tracker.Path())
}

// WriteRateStatus prints the progress bar, the counters and the pending records.
func WriteRateStatus(w io.Writer, tracker *ratestatus.Tracker, roomID string, format OutputFormat) error {
	report := RateStatusReport{
		File:    tracker.Path(),
		Summary: tracker.ProgressSummary(),
		Pending: pendingRecords(tracker, roomID),
	}

	if format != OutputFormatTable {
		return writeEncoded(w, report, format)
	}

	if report.Summary.Total > 0 {
		if err := renderProgress(w, report.Summary); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "Total: %d, completed: %d, pending: %d (%.1f%%)\n",
		report.Summary.Total, report.Summary.Completed, report.Summary.Pending, report.Summary.Percentage)
	if err != nil {
		return err
	}

	if len(report.Pending) == 0 {
		_, err = fmt.Fprintln(w, "Nothing pending.")

		return err
	}

	return WriteRateRecords(w, report.Pending, OutputFormatTable)
}

func pendingRecords(tracker *ratestatus.Tracker, roomID string) []ratestatus.Record {
	if roomID != "" {
		return tracker.PendingForRoom(roomID)
	}

	var pending []ratestatus.Record

	for _, record := range tracker.Records() {
		if record.Status != ratestatus.StatusCompleted {
			pending = append(pending, record)
		}
	}

	return pending
}

// renderProgress draws a one-shot progress bar of completed records.
func renderProgress(w io.Writer, summary ratestatus.Summary) error {
	bar := progressbar.NewOptions(summary.Total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("Rates applied"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionSetRenderBlankState(true),
	)

	if err := bar.Set(summary.Completed); err != nil {
		return fmt.Errorf("failed to render progress: %w", err)
	}

	_, err := fmt.Fprintln(w)

	return err
}
