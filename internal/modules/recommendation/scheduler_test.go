package recommendation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingService struct {
	Service
	scans chan struct{}
}

func (c *countingService) ScanInventory(ctx context.Context) (int, error) {
	c.scans <- struct{}{}
	return 0, nil
}

func TestSchedulerSetFrequency(t *testing.T) {
	s := NewScheduler(&countingService{}, time.UTC)

	assert.Error(t, s.SetFrequency("hourly"))
	assert.Empty(t, s.Frequency())

	require.NoError(t, s.SetFrequency("medium"))
	assert.Equal(t, "medium", s.Frequency())
	first := s.entry

	require.NoError(t, s.SetFrequency("medium"))
	assert.Equal(t, first, s.entry, "same frequency keeps the entry")

	require.NoError(t, s.SetFrequency("high"))
	assert.NotEqual(t, first, s.entry)
	assert.Len(t, s.cron.Entries(), 1)
}

func TestSchedulerRunsScan(t *testing.T) {
	svc := &countingService{scans: make(chan struct{}, 1)}
	s := NewScheduler(svc, time.UTC)
	s.run()

	select {
	case <-svc.scans:
	default:
		t.Fatal("scan did not run")
	}
}
