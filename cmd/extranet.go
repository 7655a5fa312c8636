package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oshokin/extranet-bot/internal/app"
	"github.com/oshokin/extranet-bot/internal/service/extranet"
)

var (
	//nolint:gochecknoglobals // Cobra command requires a global definition.
	loginCmd = &cobra.Command{
		Use:   "login",
		Short: "Sign in to the extranet and close the browser",
		Long: `Signs in to the extranet to check credentials and 2FA setup.

When PULSE_TOTP_SECRET is set the 2FA code is generated automatically,
otherwise the code shown in the Pulse app is requested in the terminal.`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			app.ExecuteLoginCommand(cmd.Context(), appConfig, envFilenameFromFlag)
		},
	}

	//nolint:gochecknoglobals // Cobra command requires a global definition.
	reservationsCmd = &cobra.Command{
		Use:   "reservations",
		Short: "List upcoming reservations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}

			daysAhead := int(appConfig.ReservationsDaysAhead)
			if flag := cmd.Flags().Lookup("days"); flag != nil && flag.Changed {
				daysAhead, _ = cmd.Flags().GetInt("days")
			}

			if daysAhead < 0 {
				return fmt.Errorf("--days cannot be negative: %d", daysAhead)
			}

			app.ExecuteReservationsCommand(cmd.Context(), appConfig, envFilenameFromFlag, daysAhead, format)

			return nil
		},
	}

	//nolint:gochecknoglobals // Cobra command requires a global definition.
	navigateCmd = &cobra.Command{
		Use:       "navigate <section>",
		Short:     "Open an extranet section",
		Long:      "Signs in and opens one of the sections: " + strings.Join(sectionNames(), ", ") + ".",
		Args:      cobra.ExactArgs(1),
		ValidArgs: sectionNames(),
		Run: func(cmd *cobra.Command, args []string) {
			app.ExecuteNavigateCommand(cmd.Context(), appConfig, envFilenameFromFlag, args[0])
		},
	}

	//nolint:gochecknoglobals // Cobra command requires a global definition.
	calendarCmd = &cobra.Command{
		Use:   "calendar",
		Short: "Open the rates & availability calendar and describe the page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}

			app.ExecuteCalendarCommand(cmd.Context(), appConfig, envFilenameFromFlag, format)

			return nil
		},
	}
)

//nolint:gochecknoinits // Cobra requires the init function to set up commands.
func init() {
	reservationsCmd.Flags().IntP(
		"days",
		"d",
		0,
		"only reservations checking in within this many days, 0 lists all (default from configuration)")

	addOutputFlag(reservationsCmd)
	addOutputFlag(calendarCmd)

	rootCmd.AddCommand(loginCmd, reservationsCmd, navigateCmd, calendarCmd)
}

func addOutputFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", string(app.OutputFormatTable), "output format: table, json, yaml.")
}

func outputFormat(cmd *cobra.Command) (app.OutputFormat, error) {
	value, err := cmd.Flags().GetString("output")
	if err != nil {
		return "", err
	}

	return app.ParseOutputFormat(value)
}

func sectionNames() []string {
	sections := extranet.Sections()

	names := make([]string, 0, len(sections))
	for _, section := range sections {
		names = append(names, string(section))
	}

	return names
}
