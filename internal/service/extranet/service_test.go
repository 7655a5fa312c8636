package extranet

import (
	"context"
	"time"

	"go.uber.org/mock/gomock"

	mock_browser "github.com/oshokin/extranet-bot/internal/browser/mocks"
	"github.com/oshokin/extranet-bot/internal/config"
	mock_authcode "github.com/oshokin/extranet-bot/internal/service/authcode/mocks"
)

const (
	testBaseURL   = "https://admin.booking.com"
	testDashboard = "https://admin.booking.com/hotel/hoteladmin/extranet_ng/manage/home.html?hotel_id=1"
)

// testNow is ten seconds into a 30-second time step.
//
//nolint:gochecknoglobals // Fixed clock shared by tests.
var testNow = time.Date(2026, time.October, 17, 12, 0, 10, 0, time.UTC)

// testService bundles a service with its mocks and the pauses it requested.
type testService struct {
	*ServiceImpl

	session *mock_browser.MockSession
	codes   *mock_authcode.MockProvider
	pauses  []time.Duration
}

func newTestService(ctrl *gomock.Controller) *testService {
	cfg := &config.Config{
		BaseURL:                 testBaseURL,
		ParsedSelectorTimeout:   5 * time.Second,
		ParsedNavigationTimeout: 15 * time.Second,
		ParsedLoginTimeout:      10 * time.Minute,
		ParsedCodeInputTimeout:  5 * time.Minute,
	}

	creds := &config.Credentials{
		Username: "hotelier",
		Password: "s3cret",
	}

	ts := &testService{
		session: mock_browser.NewMockSession(ctrl),
		codes:   mock_authcode.NewMockProvider(ctrl),
	}

	ts.ServiceImpl = NewService(cfg, creds, ts.session, ts.codes)
	ts.now = func() time.Time { return testNow }
	ts.sleep = func(ctx context.Context, d time.Duration) error {
		ts.pauses = append(ts.pauses, d)

		return ctx.Err()
	}

	return ts
}

// newLoggedInService returns a service that skips the login flow.
func newLoggedInService(ctrl *gomock.Controller) *testService {
	ts := newTestService(ctrl)
	ts.loggedIn = true

	return ts
}
