package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oshokin/extranet-bot/internal/app"
)

var (
	//nolint:gochecknoglobals // Cobra command requires a global definition.
	ratesCmd = &cobra.Command{
		Use:   "rates",
		Short: "Rate plan progress tracking",
		Long: `Track which rows of a rate plan CSV were already applied in the extranet.

The CSV has the columns "Room ID", "Date Range", "Price" and an optional "Status".`,
	}

	//nolint:gochecknoglobals // Cobra command requires a global definition.
	ratesStatusCmd = &cobra.Command{
		Use:   "status",
		Short: "Show progress and pending records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}

			roomID, _ := cmd.Flags().GetString("room")

			app.ExecuteRatesStatusCommand(cmd.Context(), rateStatusFile(cmd), roomID, format)

			return nil
		},
	}

	//nolint:gochecknoglobals // Cobra command requires a global definition.
	ratesCompleteCmd = &cobra.Command{
		Use:   "complete <room-id> <date-range>",
		Short: "Mark the records of a room and date range as completed",
		Args:  cobra.ExactArgs(2), //nolint:mnd // Room ID and date range.
		Run: func(cmd *cobra.Command, args []string) {
			app.ExecuteRatesCompleteCommand(cmd.Context(), rateStatusFile(cmd), args[0], args[1])
		},
	}

	//nolint:gochecknoglobals // Cobra command requires a global definition.
	ratesResetCmd = &cobra.Command{
		Use:   "reset",
		Short: "Mark every record as pending",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			app.ExecuteRatesResetCommand(cmd.Context(), rateStatusFile(cmd))
		},
	}
)

//nolint:gochecknoinits // Cobra requires the init function to set up commands.
func init() {
	ratesCmd.PersistentFlags().StringP(
		"file",
		"f",
		"",
		"rate plan CSV (default from configuration)")

	ratesStatusCmd.Flags().StringP("room", "r", "", "only show pending records of this room")
	addOutputFlag(ratesStatusCmd)

	ratesCmd.AddCommand(ratesStatusCmd, ratesCompleteCmd, ratesResetCmd)
	rootCmd.AddCommand(ratesCmd)
}

// rateStatusFile returns --file or the configured rate status file.
func rateStatusFile(cmd *cobra.Command) string {
	if filename, _ := cmd.Flags().GetString("file"); filename != "" {
		return filename
	}

	return appConfig.RateStatusFile
}
