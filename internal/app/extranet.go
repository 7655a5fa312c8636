package app

import (
	"context"
	"fmt"
	"os"

	"github.com/oshokin/extranet-bot/internal/config"
	"github.com/oshokin/extranet-bot/internal/logger"
	"github.com/oshokin/extranet-bot/internal/service/extranet"
)

// ExecuteLoginCommand signs in and closes the browser.
func ExecuteLoginCommand(ctx context.Context, cfg *config.Config, envFilename string) {
	ctx = logger.WithRunID(ctx)

	err := withSession(ctx, cfg, envFilename, func(ctx context.Context, _ extranet.Service) error {
		logger.Info(ctx, "Successfully logged in to the extranet")

		return nil
	})
	if err != nil {
		logger.Fatalf(ctx, "Login failed: %v", err)
	}
}

// ExecuteReservationsCommand prints reservations checking in within daysAhead days.
func ExecuteReservationsCommand(
	ctx context.Context,
	cfg *config.Config,
	envFilename string,
	daysAhead int,
	format OutputFormat,
) {
	ctx = logger.WithRunID(ctx)

	err := withSession(ctx, cfg, envFilename, func(ctx context.Context, service extranet.Service) error {
		reservations, err := service.GetReservations(ctx, daysAhead)
		if err != nil {
			return err
		}

		return WriteReservations(os.Stdout, reservations, format)
	})
	if err != nil {
		logger.Fatalf(ctx, "Failed to get reservations: %v", err)
	}
}

// ExecuteNavigateCommand signs in and opens a section.
func ExecuteNavigateCommand(ctx context.Context, cfg *config.Config, envFilename, section string) {
	if _, ok := extranet.ParseSection(section); !ok {
		logger.Fatalf(ctx, "Unknown section %q, expected one of: %v", section, extranet.Sections())
	}

	ctx = logger.WithRunID(ctx)

	err := withSession(ctx, cfg, envFilename, func(ctx context.Context, service extranet.Service) error {
		if err := service.NavigateToSection(ctx, section); err != nil {
			return err
		}

		return printPageInfo(ctx, service, OutputFormatTable)
	})
	if err != nil {
		logger.Fatalf(ctx, "Failed to navigate to %s: %v", section, err)
	}
}

// ExecuteCalendarCommand opens the rates and availability calendar and describes it.
func ExecuteCalendarCommand(ctx context.Context, cfg *config.Config, envFilename string, format OutputFormat) {
	ctx = logger.WithRunID(ctx)

	err := withSession(ctx, cfg, envFilename, func(ctx context.Context, service extranet.Service) error {
		if err := service.NavigateToCalendar(ctx); err != nil {
			return err
		}

		loaded, err := service.CheckCalendarLoaded(ctx)
		if err != nil {
			return err
		}

		if !loaded {
			logger.Warn(ctx, "Calendar did not load, page info may help to update the selectors")
		}

		if err = printPageInfo(ctx, service, format); err != nil {
			return err
		}

		if !loaded {
			return extranet.ErrCalendarNotLoaded
		}

		return nil
	})
	if err != nil {
		logger.Fatalf(ctx, "Calendar check failed: %v", err)
	}
}

func printPageInfo(ctx context.Context, service extranet.Service, format OutputFormat) error {
	info, err := service.GetCurrentPageInfo(ctx)
	if err != nil {
		return fmt.Errorf("failed to describe page: %w", err)
	}

	return WritePageInfo(os.Stdout, info, format)
}
