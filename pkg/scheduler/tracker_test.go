package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hwine/lookml-generator/internal/testutil"
)

const testTrackerPrefix = "lookml-generator:scheduler:task:"

func newTestTracker(t *testing.T) (scheduleTracker, *miniredis.Miniredis) {
	t.Helper()

	mr, client := testutil.NewMiniredisClient(t)

	return newScheduleTracker(logrus.New(), client, testTrackerPrefix), mr
}

func TestTrackerLastRunRoundTrip(t *testing.T) {
	tracker, _ := newTestTracker(t)
	ctx := context.Background()

	// A task that never ran reports zero time, not an error
	lastRun, err := tracker.GetLastRun(ctx, scheduleTaskID)
	require.NoError(t, err)
	assert.True(t, lastRun.IsZero())

	timestamp := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, tracker.SetLastRun(ctx, scheduleTaskID, timestamp))

	lastRun, err = tracker.GetLastRun(ctx, scheduleTaskID)
	require.NoError(t, err)
	assert.True(t, timestamp.Equal(lastRun))
}

func TestTrackerKeyPrefix(t *testing.T) {
	tracker, mr := newTestTracker(t)

	timestamp := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, tracker.SetLastRun(context.Background(), scheduleTaskID, timestamp))

	val, err := mr.Get(testTrackerPrefix + scheduleTaskID)
	require.NoError(t, err)
	assert.Equal(t, "2025-06-01T12:00:00Z", val)
}

func TestTrackerMalformedTimestamp(t *testing.T) {
	tracker, mr := newTestTracker(t)

	require.NoError(t, mr.Set(testTrackerPrefix+scheduleTaskID, "not-a-timestamp"))

	_, err := tracker.GetLastRun(context.Background(), scheduleTaskID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse timestamp")
}
