// Package broadcast fans typed messages out to in-process subscribers.
//
// It backs the live notification stream: each user gets a MemoryBroadcaster
// and every open stream holds a Subscriber.
//
//	b := broadcast.NewMemoryBroadcaster[string](10)
//	defer b.Close()
//
//	sub := b.Subscribe(ctx)
//	_ = b.Broadcast(ctx, broadcast.Message[string]{Data: "hello"})
//	msg := <-sub.Receive(ctx)
//
// Delivery never blocks the sender. A subscriber with a full buffer is
// dropped, and a subscriber is removed when its context is cancelled.
package broadcast
