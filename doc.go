// Package proxied provides small reactive stores.
//
// A Store owns a key/value Record and a single Handle that reads it through
// an Interceptor. Writes (Assign, Set, Delete, DeleteAll) are applied
// immediately and silently. Emit commits pending writes to subscribers:
// every subscriber is invalidated first, then each one receives the Handle.
//
// Subscribe delivers the current state once before returning, so a new
// subscriber never has to wait for the next Emit.
//
// Notification rounds share a Queue. The round that finds the queue empty
// drains it; rounds started from inside a deliver callback, on this or any
// other Store bound to the same queue, append to it and return. Delivery
// order is therefore breadth first and each subscriber is called once per
// round it was queued in.
//
// Computed is an Interceptor that derives properties from expressions using
// expr (default), CEL or, with the js_eval build tag, goja.
package proxied
