package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oshokin/extranet-bot/internal/app"
)

//nolint:gochecknoglobals // Cobra command requires a global definition.
var codeCmd = &cobra.Command{
	Use:   "code",
	Short: "Print the current Pulse 2FA code",
	Long: `Prints the 6-digit code generated from PULSE_TOTP_SECRET and how long it stays valid.

Compare it with the Pulse app to check that the secret is set up correctly.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		app.ExecuteCodeCommand(cmd.Context(), envFilenameFromFlag)
	},
}

//nolint:gochecknoinits // Cobra requires the init function to set up commands.
func init() {
	rootCmd.AddCommand(codeCmd)
}
