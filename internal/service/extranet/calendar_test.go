package extranet

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/oshokin/extranet-bot/internal/browser"
)

// TestNavigateToCalendar tests opening the calendar through the menu.
func TestNavigateToCalendar(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ts := newLoggedInService(ctrl)

	gomock.InOrder(
		ts.session.EXPECT().Click(gomock.Any(), availabilityNavSelector, navMenuTimeout).Return(nil),
		ts.session.EXPECT().Click(gomock.Any(), calendarLinkSelector, 5*time.Second).Return(nil),
		ts.session.EXPECT().WaitStable(gomock.Any(), 15*time.Second).Return(nil),
	)

	require.NoError(t, ts.NavigateToCalendar(context.Background()))
	assert.Equal(t, []time.Duration{menuPause}, ts.pauses)
}

// TestNavigateToCalendar_MenuMissing tests that a missing menu is reported.
func TestNavigateToCalendar_MenuMissing(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ts := newLoggedInService(ctrl)

	ts.session.EXPECT().Click(gomock.Any(), availabilityNavSelector, gomock.Any()).Return(browser.ErrElementNotFound)

	err := ts.NavigateToCalendar(context.Background())
	require.ErrorIs(t, err, browser.ErrElementNotFound)
	assert.Contains(t, err.Error(), "availability menu")
}

// TestCheckCalendarLoaded tests probing the calendar selectors in order.
func TestCheckCalendarLoaded(t *testing.T) {
	t.Parallel()

	t.Run("third selector matches", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		ts := newLoggedInService(ctrl)

		gomock.InOrder(
			ts.session.EXPECT().WaitFor(gomock.Any(), ".calendar", calendarProbeTimeout).Return(browser.ErrElementNotFound),
			ts.session.EXPECT().
				WaitFor(gomock.Any(), ".calendar-container", calendarProbeTimeout).
				Return(browser.ErrElementNotFound),
			ts.session.EXPECT().WaitFor(gomock.Any(), `[data-testid="calendar"]`, calendarProbeTimeout).Return(nil),
		)

		loaded, err := ts.CheckCalendarLoaded(context.Background())
		require.NoError(t, err)
		assert.True(t, loaded)
	})

	t.Run("nothing matches", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		ts := newLoggedInService(ctrl)

		ts.session.EXPECT().
			WaitFor(gomock.Any(), gomock.Any(), calendarProbeTimeout).
			Return(browser.ErrElementNotFound).
			Times(len(calendarSelectors))

		loaded, err := ts.CheckCalendarLoaded(context.Background())
		require.NoError(t, err)
		assert.False(t, loaded)
	})

	t.Run("browser closed", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		ts := newLoggedInService(ctrl)

		ts.session.EXPECT().WaitFor(gomock.Any(), ".calendar", gomock.Any()).Return(browser.ErrBrowserClosed)

		_, err := ts.CheckCalendarLoaded(context.Background())
		require.ErrorIs(t, err, browser.ErrBrowserClosed)
	})
}

// TestGetCurrentPageInfo tests decoding the page description.
func TestGetCurrentPageInfo(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ts := newLoggedInService(ctrl)

	ts.session.EXPECT().
		Evaluate(gomock.Any(), pageInfoScript, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, target any) error {
			info, ok := target.(*PageInfo)
			require.True(t, ok)

			*info = PageInfo{
				URL:             testDashboard,
				Title:           "Calendar",
				HasCalendar:     true,
				VisibleElements: []string{"rate-calendar"},
			}

			return nil
		})

	info, err := ts.GetCurrentPageInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Calendar", info.Title)
	assert.True(t, info.HasCalendar)
	assert.Equal(t, []string{"rate-calendar"}, info.VisibleElements)
}
