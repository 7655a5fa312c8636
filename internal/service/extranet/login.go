package extranet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oshokin/extranet-bot/internal/browser"
	"github.com/oshokin/extranet-bot/internal/logger"
	"github.com/oshokin/extranet-bot/internal/service/authcode"
)

// Login signs in with the configured credentials and answers the two-factor challenge.
// The whole flow is bounded by the login timeout.
func (s *ServiceImpl) Login(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.ParsedLoginTimeout)
	defer cancel()

	s.loggedIn = false

	logger.Info(ctx, "Starting login process")

	if err := s.submitCredentials(ctx); err != nil {
		return err
	}

	if err := s.openCodeChallenge(ctx); err != nil {
		return err
	}

	if err := s.submitCode(ctx); err != nil {
		return err
	}

	if err := s.retryStaleCode(ctx); err != nil {
		return err
	}

	err := s.session.WaitForURL(ctx, s.isDashboardURL, s.cfg.ParsedNavigationTimeout)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %w", ErrLoginFailed, ctx.Err())
		}

		return fmt.Errorf("%w: still on the login page: %w", ErrLoginFailed, err)
	}

	s.loggedIn = true

	logger.Info(ctx, "Login successful")

	return nil
}

// submitCredentials walks through the two-step username and password form.
func (s *ServiceImpl) submitCredentials(ctx context.Context) error {
	if err := s.session.Navigate(ctx, s.pageURL(loginPath)); err != nil {
		return fmt.Errorf("failed to open login page: %w", err)
	}

	if err := s.session.WaitFor(ctx, usernameSelector, s.cfg.ParsedSelectorTimeout); err != nil {
		return fmt.Errorf("%w: %w", ErrLoginFormNotFound, err)
	}

	if err := s.session.Fill(ctx, usernameSelector, s.creds.Username); err != nil {
		return fmt.Errorf("failed to enter username: %w", err)
	}

	if err := s.session.Click(ctx, submitSelector, s.cfg.ParsedSelectorTimeout); err != nil {
		return fmt.Errorf("failed to submit username: %w", err)
	}

	logger.Debug(ctx, "Username submitted")

	if err := s.sleep(ctx, stepTransitionPause); err != nil {
		return err
	}

	if err := s.session.WaitFor(ctx, passwordSelector, s.cfg.ParsedSelectorTimeout); err != nil {
		return fmt.Errorf("%w: password field: %w", ErrLoginFormNotFound, err)
	}

	if err := s.session.Fill(ctx, passwordSelector, s.creds.Password); err != nil {
		return fmt.Errorf("failed to enter password: %w", err)
	}

	if err := s.session.Click(ctx, submitSelector, s.cfg.ParsedSelectorTimeout); err != nil {
		return fmt.Errorf("failed to submit password: %w", err)
	}

	logger.Debug(ctx, "Password submitted")

	return s.sleep(ctx, challengePause)
}

// openCodeChallenge picks Pulse verification when offered and waits for the code field.
func (s *ServiceImpl) openCodeChallenge(ctx context.Context) error {
	err := s.session.Click(ctx, pulseLinkSelector, pulseLinkTimeout)

	switch {
	case err == nil:
		logger.Info(ctx, "Clicked Pulse app verification link")

		if err = s.sleep(ctx, verificationPause); err != nil {
			return err
		}
	case errors.Is(err, browser.ErrElementNotFound):
		logger.Info(ctx, "Pulse app verification link not found, continuing")
	default:
		return fmt.Errorf("failed to choose Pulse verification: %w", err)
	}

	if err = s.session.WaitFor(ctx, codeSelector, codeFieldTimeout); err != nil {
		return fmt.Errorf("%w: %w", ErrCodeFieldNotFound, err)
	}

	logger.Info(ctx, "2FA code input field found")

	return nil
}

// submitCode obtains one code, fills it and submits the form.
func (s *ServiceImpl) submitCode(ctx context.Context) error {
	codeCtx, cancel := context.WithTimeout(ctx, s.cfg.ParsedCodeInputTimeout)
	defer cancel()

	code, err := s.codes.ObtainCode(codeCtx, s.now())
	if err != nil {
		if errors.Is(err, authcode.ErrInvalidSecret) {
			logger.Error(ctx, "PULSE_TOTP_SECRET is not valid Base32, fix it or unset it to enter codes manually")
		}

		return fmt.Errorf("failed to obtain 2FA code: %w", err)
	}

	if s.codes.HasSecret() {
		logger.Info(ctx, "2FA code generated from the shared secret")
	} else {
		logger.Info(ctx, "2FA code entered manually")
	}

	if err = s.session.Fill(ctx, codeSelector, code); err != nil {
		return fmt.Errorf("failed to enter 2FA code: %w", err)
	}

	if err = s.session.Click(ctx, submitSelector, s.cfg.ParsedSelectorTimeout); err != nil {
		logger.Debugf(ctx, "Submit button click failed, pressing Enter: %v", err)

		if err = s.session.Press(ctx, codeSelector, browser.KeyEnter); err != nil {
			return fmt.Errorf("failed to submit 2FA code: %w", err)
		}
	}

	logger.Info(ctx, "2FA code submitted")

	return s.sleep(ctx, verificationPause)
}

// retryStaleCode submits one fresh generated code when the first one was rejected,
// which happens when it was generated right before a time step boundary.
func (s *ServiceImpl) retryStaleCode(ctx context.Context) error {
	if !s.codes.HasSecret() {
		return nil
	}

	stillChallenged, err := s.session.Exists(ctx, codeSelector)
	if err != nil {
		return fmt.Errorf("failed to check 2FA result: %w", err)
	}

	if !stillChallenged {
		return nil
	}

	wait := authcode.RemainingValidity(s.now())

	logger.Warnf(ctx, "2FA code was not accepted, retrying with the next code in %s", wait.Round(time.Second))

	if err = s.sleep(ctx, wait); err != nil {
		return err
	}

	return s.submitCode(ctx)
}
