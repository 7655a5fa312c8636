package extranet

import (
	"context"
	"fmt"

	"github.com/oshokin/extranet-bot/internal/logger"
)

// NavigateToSection opens a known section and waits for the page to settle.
func (s *ServiceImpl) NavigateToSection(ctx context.Context, name string) error {
	if err := s.requireLogin(); err != nil {
		return err
	}

	section, ok := ParseSection(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSection, name)
	}

	return s.openSection(ctx, section)
}

func (s *ServiceImpl) openSection(ctx context.Context, section Section) error {
	logger.Infof(ctx, "Navigating to %s section", section)

	if err := s.session.Navigate(ctx, s.pageURL(section.Path())); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", section, err)
	}

	if err := s.session.WaitStable(ctx, s.cfg.ParsedNavigationTimeout); err != nil {
		// A page that keeps polling never goes idle, the content is usually there already.
		logger.Debugf(ctx, "Page did not become idle: %v", err)
	}

	logger.Infof(ctx, "Successfully navigated to %s", section)

	return nil
}
