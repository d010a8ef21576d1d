package realtime

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsgomes9/coordenada-concursos-sub001/internal/models"
)

func setupTestFeed(t *testing.T) *Feed {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(func() { mr.Close() })

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewFeed(rdb)
}

func TestFeed_PublishAndSubscribe(t *testing.T) {
	feed := setupTestFeed(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	events, unsubscribe, err := feed.SubscribeSubscriptionChanges(ctx, "uid-1")
	require.NoError(t, err)
	defer unsubscribe()

	plan := models.PlanAnnual
	want := models.Subscription{Status: models.StatusActive, Plan: &plan}
	require.NoError(t, feed.PublishSubscriptionChange(ctx, "uid-1", want))

	select {
	case got := <-events:
		assert.Equal(t, models.StatusActive, got.Status)
		require.NotNil(t, got.Plan)
		assert.Equal(t, models.PlanAnnual, *got.Plan)
	case <-ctx.Done():
		t.Fatal("timed out waiting for subscription event")
	}
}

func TestFeed_UnsubscribeClosesChannel(t *testing.T) {
	feed := setupTestFeed(t)
	ctx := context.Background()

	events, unsubscribe, err := feed.SubscribeSubscriptionChanges(ctx, "uid-2")
	require.NoError(t, err)

	unsubscribe()

	select {
	case _, open := <-events:
		assert.False(t, open)
	case <-time.After(5 * time.Second):
		t.Fatal("channel was not closed after unsubscribe")
	}
}

func TestFeed_ChannelsAreIsolatedPerUser(t *testing.T) {
	feed := setupTestFeed(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	events, unsubscribe, err := feed.SubscribeSubscriptionChanges(ctx, "uid-3")
	require.NoError(t, err)
	defer unsubscribe()

	require.NoError(t, feed.PublishSubscriptionChange(ctx, "uid-outro", models.Subscription{Status: models.StatusActive}))

	select {
	case got := <-events:
		t.Fatalf("received event for another user: %+v", got)
	case <-time.After(300 * time.Millisecond):
	}
}
