// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package broadcast pushes state changes to connected browsers.

	client := broadcast.NewPusherClient(appID, key, secret, cluster, true, 5*time.Second)
	pub := broadcast.New(client)
	pub.Publish(ctx, models.CounterChannel, models.CounterEvent, models.CounterResponse{Count: n})

Publishing is fire-and-forget: a failed Trigger is logged and counted in
ldr_broadcast_failures_total but never fails the caller. Payloads carry
the full current state (the total count, or the latest stories), so a
lost or reordered event is corrected by the next one.

Publish does not stop when ctx is cancelled. Events follow committed
writes and are bounded by the client's HTTP timeout instead.
*/
package broadcast
