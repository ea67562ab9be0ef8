// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package broadcast

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	pusher "github.com/pusher/pusher-http-go/v5"

	"github.com/danielhkuo/ldr-counter/metrics"
)

// Trigger is the transport. *pusher.Client satisfies it.
type Trigger interface {
	Trigger(channel string, eventName string, data interface{}) error
}

// Publisher fans events out to subscribed browsers, best-effort
type Publisher struct {
	client Trigger
}

func New(client Trigger) *Publisher {
	return &Publisher{client: client}
}

// NewPusherClient builds a Pusher Channels client with a bounded HTTP timeout
func NewPusherClient(appID, key, secret, cluster string, useTLS bool, timeout time.Duration) *pusher.Client {
	return &pusher.Client{
		AppID:      appID,
		Key:        key,
		Secret:     secret,
		Cluster:    cluster,
		Secure:     useTLS,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// Publish sends payload as eventName on channel.
// Failures are logged and counted, never returned. No retries: clients
// treat every payload as the full current state and resync over GET.
// The send is bounded by the transport's own timeout, not by ctx, so an
// event for a committed write is never dropped because a caller went away.
func (p *Publisher) Publish(ctx context.Context, channel, eventName string, payload interface{}) {
	if err := p.client.Trigger(channel, eventName, payload); err != nil {
		slog.ErrorContext(ctx, "broadcast failed", "channel", channel, "event", eventName, "error", err)
		metrics.BroadcastFailuresTotal.WithLabelValues(channel).Inc()
		return
	}

	slog.DebugContext(ctx, "broadcast sent", "channel", channel, "event", eventName)
}
