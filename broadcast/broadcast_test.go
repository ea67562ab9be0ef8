// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package broadcast

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/ldr-counter/metrics"
	"github.com/danielhkuo/ldr-counter/models"
	tu "github.com/danielhkuo/ldr-counter/testutil"
)

func TestPublish_Delivers(t *testing.T) {
	rec := &tu.RecordingTrigger{}
	pub := New(rec)

	pub.Publish(context.Background(), models.CounterChannel, models.CounterEvent, models.CounterResponse{Count: 7})

	events := rec.Events()
	require.Len(t, events, 1)
	assert.Equal(t, models.CounterChannel, events[0].Channel)
	assert.Equal(t, models.CounterEvent, events[0].Name)
	assert.Equal(t, models.CounterResponse{Count: 7}, events[0].Data)
}

func TestPublish_SwallowsFailure(t *testing.T) {
	rec := &tu.RecordingTrigger{Err: errors.New("pusher down")}
	pub := New(rec)

	before := testutil.ToFloat64(metrics.BroadcastFailuresTotal.WithLabelValues(models.StoryChannel))
	assert.NotPanics(t, func() {
		pub.Publish(context.Background(), models.StoryChannel, models.StoryEvent, nil)
	})
	after := testutil.ToFloat64(metrics.BroadcastFailuresTotal.WithLabelValues(models.StoryChannel))

	assert.Equal(t, before+1, after)
}

func TestPublish_CancelledContextStillSends(t *testing.T) {
	rec := &tu.RecordingTrigger{}
	pub := New(rec)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	pub.Publish(ctx, models.CounterChannel, models.CounterEvent, models.CounterResponse{Count: 1})

	events := rec.OnChannel(models.CounterChannel)
	require.Len(t, events, 1)
	assert.Equal(t, models.CounterResponse{Count: 1}, events[0].Data)
}

func TestPublish_PreservesCallOrder(t *testing.T) {
	rec := &tu.RecordingTrigger{}
	pub := New(rec)

	for i := int64(1); i <= 3; i++ {
		pub.Publish(context.Background(), models.CounterChannel, models.CounterEvent, models.CounterResponse{Count: i})
	}

	events := rec.OnChannel(models.CounterChannel)
	require.Len(t, events, 3)
	for i, e := range events {
		assert.Equal(t, models.CounterResponse{Count: int64(i + 1)}, e.Data)
	}
}

func TestNewPusherClient(t *testing.T) {
	client := NewPusherClient("app", "key", "secret", "eu", true, 3*time.Second)

	assert.Equal(t, "app", client.AppID)
	assert.Equal(t, "eu", client.Cluster)
	assert.True(t, client.Secure)
	require.NotNil(t, client.HTTPClient)
	assert.Equal(t, 3*time.Second, client.HTTPClient.Timeout)

	var _ Trigger = client
}
