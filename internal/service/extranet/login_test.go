package extranet

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/oshokin/extranet-bot/internal/browser"
	"github.com/oshokin/extranet-bot/internal/service/authcode"
)

// expectCredentials sets up the username and password steps.
func expectCredentials(ts *testService) {
	ts.session.EXPECT().Navigate(gomock.Any(), testBaseURL+"/hotel/hoteladmin/").Return(nil)
	ts.session.EXPECT().WaitFor(gomock.Any(), usernameSelector, 5*time.Second).Return(nil)
	ts.session.EXPECT().Fill(gomock.Any(), usernameSelector, "hotelier").Return(nil)
	ts.session.EXPECT().WaitFor(gomock.Any(), passwordSelector, 5*time.Second).Return(nil)
	ts.session.EXPECT().Fill(gomock.Any(), passwordSelector, "s3cret").Return(nil)
}

// expectChallenge sets up the Pulse link and the code field.
func expectChallenge(ts *testService, pulseErr error) {
	ts.session.EXPECT().Click(gomock.Any(), pulseLinkSelector, pulseLinkTimeout).Return(pulseErr)
	ts.session.EXPECT().WaitFor(gomock.Any(), codeSelector, codeFieldTimeout).Return(nil)
}

// expectDashboard makes WaitForURL succeed when the matcher accepts the dashboard URL.
func expectDashboard(t *testing.T, ts *testService) {
	t.Helper()

	ts.session.EXPECT().
		WaitForURL(gomock.Any(), gomock.Any(), 15*time.Second).
		DoAndReturn(func(_ context.Context, match func(string) bool, _ time.Duration) error {
			assert.False(t, match(testBaseURL+"/hotel/hoteladmin/login.html"))
			assert.True(t, match(testDashboard))

			return nil
		})
}

// TestLogin_ManualCode tests the full flow with an operator-entered code.
func TestLogin_ManualCode(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ts := newTestService(ctrl)

	expectCredentials(ts)
	expectChallenge(ts, fmt.Errorf("%w: pulse link", browser.ErrElementNotFound))

	// Username, password and code submissions.
	ts.session.EXPECT().Click(gomock.Any(), submitSelector, 5*time.Second).Return(nil).Times(3)
	ts.codes.EXPECT().HasSecret().Return(false).AnyTimes()
	ts.codes.EXPECT().
		ObtainCode(gomock.Any(), testNow).
		DoAndReturn(func(ctx context.Context, _ time.Time) (string, error) {
			deadline, ok := ctx.Deadline()
			require.True(t, ok)
			assert.WithinDuration(t, time.Now().Add(5*time.Minute), deadline, time.Minute)

			return "123456", nil
		})
	ts.session.EXPECT().Fill(gomock.Any(), codeSelector, "123456").Return(nil)
	expectDashboard(t, ts)

	require.NoError(t, ts.Login(context.Background()))
	assert.True(t, ts.IsLoggedIn())
	assert.Equal(t, []time.Duration{stepTransitionPause, challengePause, verificationPause}, ts.pauses)
}

// TestLogin_SubmitFallsBackToEnter tests that Enter submits the code when the button cannot be clicked.
func TestLogin_SubmitFallsBackToEnter(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ts := newTestService(ctrl)

	expectCredentials(ts)
	expectChallenge(ts, nil)

	gomock.InOrder(
		ts.session.EXPECT().Click(gomock.Any(), submitSelector, 5*time.Second).Return(nil).Times(2),
		ts.session.EXPECT().Click(gomock.Any(), submitSelector, 5*time.Second).Return(browser.ErrElementNotFound),
	)

	ts.codes.EXPECT().HasSecret().Return(false).AnyTimes()
	ts.codes.EXPECT().ObtainCode(gomock.Any(), testNow).Return("654321", nil)
	ts.session.EXPECT().Fill(gomock.Any(), codeSelector, "654321").Return(nil)
	ts.session.EXPECT().Press(gomock.Any(), codeSelector, browser.KeyEnter).Return(nil)
	expectDashboard(t, ts)

	require.NoError(t, ts.Login(context.Background()))
	assert.True(t, ts.IsLoggedIn())
	// The Pulse link was clicked, so the extra verification pause is taken.
	assert.Equal(t,
		[]time.Duration{stepTransitionPause, challengePause, verificationPause, verificationPause},
		ts.pauses)
}

// TestLogin_StaleGeneratedCode tests the single retry with a fresh code after a step boundary.
func TestLogin_StaleGeneratedCode(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ts := newTestService(ctrl)

	expectCredentials(ts)
	expectChallenge(ts, browser.ErrElementNotFound)

	ts.session.EXPECT().Click(gomock.Any(), submitSelector, 5*time.Second).Return(nil).Times(4)
	ts.codes.EXPECT().HasSecret().Return(true).AnyTimes()
	gomock.InOrder(
		ts.codes.EXPECT().ObtainCode(gomock.Any(), testNow).Return("111111", nil),
		ts.codes.EXPECT().ObtainCode(gomock.Any(), testNow).Return("222222", nil),
	)
	ts.session.EXPECT().Fill(gomock.Any(), codeSelector, "111111").Return(nil)
	ts.session.EXPECT().Fill(gomock.Any(), codeSelector, "222222").Return(nil)
	// Only checked once: the retry is never repeated.
	ts.session.EXPECT().Exists(gomock.Any(), codeSelector).Return(true, nil)
	expectDashboard(t, ts)

	require.NoError(t, ts.Login(context.Background()))
	assert.True(t, ts.IsLoggedIn())
	assert.Equal(t,
		[]time.Duration{
			stepTransitionPause,
			challengePause,
			verificationPause,
			20 * time.Second,
			verificationPause,
		},
		ts.pauses)
}

// TestLogin_GeneratedCodeAccepted tests that no retry happens when the code field is gone.
func TestLogin_GeneratedCodeAccepted(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ts := newTestService(ctrl)

	expectCredentials(ts)
	expectChallenge(ts, browser.ErrElementNotFound)

	ts.session.EXPECT().Click(gomock.Any(), submitSelector, 5*time.Second).Return(nil).Times(3)
	ts.codes.EXPECT().HasSecret().Return(true).AnyTimes()
	ts.codes.EXPECT().ObtainCode(gomock.Any(), testNow).Return("287082", nil)
	ts.session.EXPECT().Fill(gomock.Any(), codeSelector, "287082").Return(nil)
	ts.session.EXPECT().Exists(gomock.Any(), codeSelector).Return(false, nil)
	expectDashboard(t, ts)

	require.NoError(t, ts.Login(context.Background()))
	assert.True(t, ts.IsLoggedIn())
}

// TestLogin_Failures tests how each failing step is reported.
//
//nolint:funlen // Table-driven test with one setup per failing step.
func TestLogin_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		setup       func(t *testing.T, ts *testService)
		expectError error
	}{
		{
			name: "login page does not load",
			setup: func(_ *testing.T, ts *testService) {
				ts.session.EXPECT().Navigate(gomock.Any(), gomock.Any()).Return(browser.ErrBrowserClosed)
			},
			expectError: browser.ErrBrowserClosed,
		},
		{
			name: "username field missing",
			setup: func(_ *testing.T, ts *testService) {
				ts.session.EXPECT().Navigate(gomock.Any(), gomock.Any()).Return(nil)
				ts.session.EXPECT().
					WaitFor(gomock.Any(), usernameSelector, gomock.Any()).
					Return(browser.ErrElementNotFound)
			},
			expectError: ErrLoginFormNotFound,
		},
		{
			name: "code field missing",
			setup: func(_ *testing.T, ts *testService) {
				expectCredentials(ts)
				ts.session.EXPECT().Click(gomock.Any(), submitSelector, gomock.Any()).Return(nil).Times(2)
				ts.session.EXPECT().Click(gomock.Any(), pulseLinkSelector, gomock.Any()).Return(browser.ErrElementNotFound)
				ts.session.EXPECT().
					WaitFor(gomock.Any(), codeSelector, codeFieldTimeout).
					Return(browser.ErrElementNotFound)
			},
			expectError: ErrCodeFieldNotFound,
		},
		{
			name: "operator did not answer in time",
			setup: func(_ *testing.T, ts *testService) {
				expectCredentials(ts)
				ts.session.EXPECT().Click(gomock.Any(), submitSelector, gomock.Any()).Return(nil).Times(2)
				expectChallenge(ts, browser.ErrElementNotFound)
				ts.codes.EXPECT().
					ObtainCode(gomock.Any(), gomock.Any()).
					Return("", fmt.Errorf("%w: %w", authcode.ErrTimeout, context.DeadlineExceeded))
			},
			expectError: authcode.ErrTimeout,
		},
		{
			name: "invalid shared secret",
			setup: func(_ *testing.T, ts *testService) {
				expectCredentials(ts)
				ts.session.EXPECT().Click(gomock.Any(), submitSelector, gomock.Any()).Return(nil).Times(2)
				expectChallenge(ts, browser.ErrElementNotFound)
				ts.codes.EXPECT().ObtainCode(gomock.Any(), gomock.Any()).Return("", authcode.ErrInvalidSecret)
			},
			expectError: authcode.ErrInvalidSecret,
		},
		{
			name: "dashboard never reached",
			setup: func(_ *testing.T, ts *testService) {
				expectCredentials(ts)
				ts.session.EXPECT().Click(gomock.Any(), submitSelector, gomock.Any()).Return(nil).Times(3)
				expectChallenge(ts, browser.ErrElementNotFound)
				ts.codes.EXPECT().HasSecret().Return(false).AnyTimes()
				ts.codes.EXPECT().ObtainCode(gomock.Any(), gomock.Any()).Return("123456", nil)
				ts.session.EXPECT().Fill(gomock.Any(), codeSelector, "123456").Return(nil)
				ts.session.EXPECT().
					WaitForURL(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(browser.ErrURLNotReached)
			},
			expectError: ErrLoginFailed,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			ts := newTestService(ctrl)
			tt.setup(t, ts)

			err := ts.Login(context.Background())
			require.Error(t, err)
			require.ErrorIs(t, err, tt.expectError)
			assert.False(t, ts.IsLoggedIn())
		})
	}
}

// TestLogin_Cancelled tests that a cancelled context stops the flow during a pause.
func TestLogin_Cancelled(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ts := newTestService(ctrl)

	ctx, cancel := context.WithCancel(context.Background())

	ts.session.EXPECT().Navigate(gomock.Any(), gomock.Any()).Return(nil)
	ts.session.EXPECT().WaitFor(gomock.Any(), usernameSelector, gomock.Any()).Return(nil)
	ts.session.EXPECT().Fill(gomock.Any(), usernameSelector, gomock.Any()).Return(nil)
	ts.session.EXPECT().
		Click(gomock.Any(), submitSelector, gomock.Any()).
		DoAndReturn(func(context.Context, string, time.Duration) error {
			cancel()

			return nil
		})

	err := ts.Login(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.False(t, ts.IsLoggedIn())
}

// TestIsDashboardURL tests the post-login URL check.
func TestIsDashboardURL(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ts := newTestService(ctrl)

	tests := []struct {
		url      string
		expected bool
	}{
		{testDashboard, true},
		{"https://ADMIN.booking.com/hotel/hoteladmin/", true},
		{"https://admin.booking.com/hotel/hoteladmin/login.html", false},
		{"https://account.booking.com/sign-in?op_token=x", false},
		{"https://evil.example.com/hotel/hoteladmin/", false},
		{"https://admin.booking.com/", false},
		{"::not a url", false},
	}

	for _, tt := range tests {
		tt := tt
		assert.Equal(t, tt.expected, ts.isDashboardURL(tt.url), tt.url)
	}
}
