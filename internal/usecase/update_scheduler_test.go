package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitwall/f1antasy/internal/platform/logging"
)

func TestNewUpdateScheduler_RejectsBadSpec(t *testing.T) {
	t.Parallel()

	store := newTestStore(newFakeProvider(), &fakeSnapshots{}, 2021)

	_, err := NewUpdateScheduler("not a cron spec", store, logging.NewNop(), time.Minute)
	require.Error(t, err)
}

func TestUpdateScheduler_RunSkipsWhenNoDataLoaded(t *testing.T) {
	t.Parallel()

	provider := newFakeProvider()
	store := newTestStore(provider, &fakeSnapshots{}, 2021)

	scheduler, err := NewUpdateScheduler("@hourly", store, logging.NewNop(), time.Minute)
	require.NoError(t, err)

	scheduler.run()
	assert.Equal(t, 0, provider.fetches, "unloaded store must not hit the provider")
}

func TestUpdateScheduler_RunPerformsUpdate(t *testing.T) {
	t.Parallel()

	provider := newFakeProvider()
	provider.addRound(testEvent(2021, 1, "hamilton", 25))
	store := newTestStore(provider, &fakeSnapshots{}, 2021)
	require.NoError(t, store.Scrape(context.Background(), 2021, 0))

	scheduler, err := NewUpdateScheduler("@hourly", store, logging.NewNop(), time.Minute)
	require.NoError(t, err)

	scheduler.run()
	assert.True(t, store.Loaded())
	assert.Len(t, store.Races(), 1)
}
