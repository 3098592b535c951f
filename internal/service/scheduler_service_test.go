package service

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestScheduleIntervalValidation(t *testing.T) {
	t.Parallel()

	s := NewSchedulerService(time.UTC)
	_, err := s.ScheduleInterval(0, func() {})
	require.Error(t, err)
	_, err = s.ScheduleInterval(-time.Minute, func() {})
	require.Error(t, err)
}

func TestScheduleIntervalRuns(t *testing.T) {
	t.Parallel()

	s := NewSchedulerService(time.UTC)
	var fired atomic.Int32
	_, err := s.ScheduleInterval(time.Second, func() { fired.Add(1) })
	require.NoError(t, err)

	s.Start()
	defer s.Stop()

	require.Eventually(t, func() bool { return fired.Load() >= 1 }, 3*time.Second, 50*time.Millisecond)
}
