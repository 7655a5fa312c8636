package extranet

import (
	"context"
	"errors"
	"fmt"

	"github.com/oshokin/extranet-bot/internal/browser"
	"github.com/oshokin/extranet-bot/internal/logger"
)

// pageInfoScript collects the URL, the title and calendar-related class names of the page.
const pageInfoScript = `() => ({
	url: window.location.href,
	title: document.title,
	has_calendar: !!document.querySelector('.calendar, .calendar-container, [data-testid="calendar"]'),
	visible_elements: Array.from(
		document.querySelectorAll('[class*="calendar"], [class*="rate"], [class*="availability"]')
	).map(el => String(el.className)).slice(0, 10)
})`

// NavigateToCalendar opens the rates and availability calendar through the navigation menu.
func (s *ServiceImpl) NavigateToCalendar(ctx context.Context) error {
	if err := s.requireLogin(); err != nil {
		return err
	}

	logger.Info(ctx, "Navigating to rates & availability calendar")

	if err := s.session.Click(ctx, availabilityNavSelector, navMenuTimeout); err != nil {
		return fmt.Errorf("failed to open availability menu: %w", err)
	}

	if err := s.sleep(ctx, menuPause); err != nil {
		return err
	}

	if err := s.session.Click(ctx, calendarLinkSelector, s.cfg.ParsedSelectorTimeout); err != nil {
		return fmt.Errorf("failed to open calendar: %w", err)
	}

	if err := s.session.WaitStable(ctx, s.cfg.ParsedNavigationTimeout); err != nil {
		logger.Debugf(ctx, "Calendar page did not become idle: %v", err)
	}

	logger.Info(ctx, "Successfully navigated to calendar page")

	return nil
}

// CheckCalendarLoaded probes the known calendar selectors one after another.
func (s *ServiceImpl) CheckCalendarLoaded(ctx context.Context) (bool, error) {
	if err := s.requireLogin(); err != nil {
		return false, err
	}

	for _, selector := range calendarSelectors {
		err := s.session.WaitFor(ctx, selector, calendarProbeTimeout)
		if err == nil {
			logger.Infof(ctx, "Calendar loaded, found element: %s", selector)

			return true, nil
		}

		if !errors.Is(err, browser.ErrElementNotFound) {
			return false, fmt.Errorf("failed to check calendar: %w", err)
		}
	}

	logger.Warn(ctx, "Calendar elements not found with standard selectors")

	return false, nil
}

// GetCurrentPageInfo describes the current page.
func (s *ServiceImpl) GetCurrentPageInfo(ctx context.Context) (*PageInfo, error) {
	if err := s.requireLogin(); err != nil {
		return nil, err
	}

	var info PageInfo
	if err := s.session.Evaluate(ctx, pageInfoScript, &info); err != nil {
		return nil, fmt.Errorf("failed to get page info: %w", err)
	}

	logger.DebugKV(ctx, "Current page info",
		"url", info.URL,
		"title", info.Title,
		"has_calendar", info.HasCalendar,
		"visible_elements", info.VisibleElements,
	)

	return &info, nil
}
