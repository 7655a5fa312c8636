package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/oshokin/extranet-bot/internal/config"
	"github.com/oshokin/extranet-bot/internal/logger"
)

var (
	//nolint:gochecknoglobals // It is required for configuration initialization before the application starts.
	configFilenameFromFlag string

	//nolint:gochecknoglobals // Read once by every command that needs credentials.
	envFilenameFromFlag string

	//nolint:gochecknoglobals,lll // It is initialized once during the application's startup and shared across the command execution logic.
	appConfig *config.Config

	//nolint:gochecknoglobals,lll // Cobra command requires a global definition for proper command-line parsing and execution.
	rootCmd = &cobra.Command{
		Use:   "extranet-bot",
		Short: "Automate the Booking.com partner extranet.",
		Long: `Extranet Bot signs in to the Booking.com partner extranet with a real browser
and automates routine work there:
- Login with automatic Pulse 2FA codes (PULSE_TOTP_SECRET) or manual entry
- Listing upcoming reservations
- Opening extranet sections and the rates & availability calendar
- Tracking progress of a rate plan CSV

Credentials are read from BOOKING_USERNAME, BOOKING_PASSWORD and the optional
PULSE_TOTP_SECRET environment variables, or from a .env file.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: initConfig,
	}
)

// Execute executes the root command.
func Execute() {
	signals := []os.Signal{syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM}
	ctx, stop := signal.NotifyContext(context.Background(), signals...)

	defer func() {
		_ = logger.Logger().Sync()
	}()

	defer stop()

	go func() {
		defer stop()

		err := rootCmd.ExecuteContext(ctx)
		cobra.CheckErr(err)
	}()

	<-ctx.Done()
}

//nolint:gochecknoinits // Cobra requires the init function to set up flags before the command is executed.
func init() {
	flags := rootCmd.PersistentFlags()

	flags.StringVarP(
		&configFilenameFromFlag,
		"config",
		"c",
		"",
		fmt.Sprintf("path to the configuration file (default is '%s')",
			config.DefaultConfigFilename))

	flags.StringVarP(
		&envFilenameFromFlag,
		"env-file",
		"e",
		"",
		fmt.Sprintf("path to a dotenv file with credentials (default is '%s')",
			config.DefaultEnvFilename))

	flags.Bool(
		"headless",
		false,
		"run the browser without a window.")

	flags.String(
		"log-level",
		"",
		"log level: debug, info, warn, error.")

	flags.String(
		"base-url",
		"",
		fmt.Sprintf("extranet base URL (default is '%s')", config.DefaultBaseURL))
}

func initConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig(configFilenameFromFlag)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err = bindFlagsToConfig(cmd.Flags(), cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	appConfig = cfg

	logger.SetLevel(appConfig.ParsedLogLevel)

	return nil
}

func bindFlagsToConfig(flags *pflag.FlagSet, cfg *config.Config) error {
	if flag := flags.Lookup("headless"); flag != nil && flag.Changed {
		cfg.Headless, _ = flags.GetBool("headless")
	}

	if flag := flags.Lookup("log-level"); flag != nil && flag.Changed {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}

	if flag := flags.Lookup("base-url"); flag != nil && flag.Changed {
		cfg.BaseURL, _ = flags.GetString("base-url")
	}

	return config.ValidateConfig(cfg)
}
