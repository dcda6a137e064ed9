package provider

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRegistryListsConfiguredProviders(t *testing.T) {
	reg, err := NewRegistry(zap.NewNop())
	require.NoError(t, err)

	providers := reg.Providers()
	require.Len(t, providers, 4)
	assert.Equal(t, "maccabi", providers[0].ID)
	assert.Equal(t, "Maccabi", providers[0].Name)
}

func TestRegistryUnknownProviderYieldsEmpty(t *testing.T) {
	reg, err := NewRegistry(zap.NewNop())
	require.NoError(t, err)

	slots, err := reg.ListSlots(context.Background(), "nope")
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestRegistryListsBundledSlots(t *testing.T) {
	reg, err := NewRegistry(zap.NewNop())
	require.NoError(t, err)

	for _, p := range reg.Providers() {
		slots, err := reg.ListSlots(context.Background(), p.ID)
		require.NoError(t, err, "provider %s", p.ID)
		assert.NotEmpty(t, slots, "provider %s should ship fixture slots", p.ID)
	}
}

func TestMaccabiFeedMapsAvailabilityFlag(t *testing.T) {
	data := []byte(`{"slots":[
		{"slotId":"m1","doctorId":"d1","startTime":"2026-09-07T09:00:00Z","endTime":"2026-09-07T09:30:00Z","isAvailable":true,
		 "branch":{"id":"b1","name":"Center","address":"1 Main St","city":"Tel Aviv"}},
		{"slotId":"m2","doctorId":"d1","startTime":"2026-09-07T09:30:00Z","endTime":"2026-09-07T10:00:00Z","isAvailable":false,
		 "branch":{"id":"b1","name":"Center","address":"1 Main St","city":"Tel Aviv"}}
	]}`)
	feed := newMaccabiFeed(data, zap.NewNop())

	slots, err := feed.list()
	require.NoError(t, err)
	require.Len(t, slots, 2)

	assert.True(t, slots[0].Available)
	assert.False(t, slots[1].Available)
	assert.Equal(t, "Center", slots[0].Branch.Name)
	assert.Equal(t, time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC), slots[0].StartTime)
	assert.Equal(t, time.Date(2026, 9, 7, 9, 30, 0, 0, time.UTC), slots[0].EndTime)
}

func TestMaccabiFeedSkipsBadTimestamps(t *testing.T) {
	data := []byte(`{"slots":[
		{"slotId":"m1","doctorId":"d1","startTime":"not-a-time","isAvailable":true,"branch":{"id":"b1","name":"Center"}},
		{"slotId":"m2","doctorId":"d1","startTime":"2026-09-07T09:00:00Z","isAvailable":true,"branch":{"id":"b1","name":"Center"}}
	]}`)
	feed := newMaccabiFeed(data, zap.NewNop())

	slots, err := feed.list()
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, "m2", slots[0].SlotID)
}

func TestClalitFeedMapsStatusEnumAndLocation(t *testing.T) {
	data := []byte(`{"slots":[
		{"slotId":"c1","doctorId":"d1","slotDateTime":"2026-09-07T10:00:00Z","status":"Open",
		 "location":{"siteCode":"s9","siteName":"Dizengoff","address":"119 Dizengoff St","city":"Tel Aviv"}},
		{"slotId":"c2","doctorId":"d1","slotDateTime":"2026-09-07T10:30:00Z","status":"Taken",
		 "location":{"siteCode":"s9","siteName":"Dizengoff","address":"119 Dizengoff St","city":"Tel Aviv"}}
	]}`)
	feed := newClalitFeed(data, zap.NewNop())

	slots, err := feed.list()
	require.NoError(t, err)
	require.Len(t, slots, 2)

	// Only status "Open" maps to available.
	assert.True(t, slots[0].Available)
	assert.False(t, slots[1].Available)

	// Nested location flattens into the canonical branch.
	assert.Equal(t, "s9", slots[0].Branch.ID)
	assert.Equal(t, "Dizengoff", slots[0].Branch.Name)
	assert.Equal(t, "Tel Aviv", slots[0].Branch.City)
}

func TestClalitFeedSynthesizesEndTime(t *testing.T) {
	data := []byte(`{"slots":[
		{"slotId":"c1","doctorId":"d1","slotDateTime":"2026-09-07T10:00:00Z","status":"Open",
		 "location":{"siteCode":"s9","siteName":"Dizengoff"}}
	]}`)
	feed := newClalitFeed(data, zap.NewNop())

	slots, err := feed.list()
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, slots[0].StartTime.Add(DefaultSlotDuration), slots[0].EndTime)
}

func TestGenericFeedSynthesizesMissingEndTime(t *testing.T) {
	data := []byte(`{"slots":[
		{"slotId":"u1","doctorId":"d1","startTime":"2026-09-08T13:00:00Z","isAvailable":true,
		 "branch":{"id":"b2","name":"Allenby"}}
	]}`)
	feed := newGenericFeed("meuhedet", data, zap.NewNop())

	slots, err := feed.list()
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, time.Date(2026, 9, 8, 13, 30, 0, 0, time.UTC), slots[0].EndTime)
}
