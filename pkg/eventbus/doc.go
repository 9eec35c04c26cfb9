// Package eventbus provides the in-process publish/subscribe channel that
// connects the client registry, the device manager and their observers.
//
// # Delivery
//
// [Bus.Publish] delivers one [Event] to every handler subscribed to its
// topic, plus every catch-all handler, using a copy of the subscriber list
// taken when Publish is called. Handlers run concurrently and Publish
// returns once all of them have returned. Subscribing or unsubscribing from
// inside a handler is allowed and only affects later publications.
//
// Handler errors and panics are logged and never reach the publisher, so a
// broken observer cannot abort a registry or device operation.
//
// After [Bus.Close], Publish is a no-op.
package eventbus
