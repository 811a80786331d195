// Package broadcast provides a minimal in-memory publish/subscribe hub used to
// fan out state-change events (session changes, SDK readiness, page lifecycle)
// to any number of observers without coupling publishers to subscribers.
//
// Delivery is non-blocking: a subscriber whose buffer is full misses the
// message rather than stalling the publisher. Observers that must not miss
// updates should re-read the authoritative state after each event instead of
// treating events as a transaction log.
//
// # Usage
//
//	hub := broadcast.NewHub[string](8)
//	defer hub.Close()
//
//	sub := hub.Subscribe(ctx)
//	go func() {
//	    for msg := range sub.C {
//	        fmt.Println(msg)
//	    }
//	}()
//
//	hub.Publish("hello")
package broadcast
