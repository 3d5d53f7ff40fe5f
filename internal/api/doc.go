// Package api implements the HTTP collaborators consumed by the relay
// core: the payload source (fetch) and the downstream sink (forward,
// clear, health).
//
// Every call is bounded by a deadline layered on the caller's context and
// classified into a small error taxonomy: TimeoutError for deadline
// overruns, TransportError for network or HTTP failures, and SinkError
// for non-success sink responses. No call is ever retried here; a flow
// invocation runs each stage exactly once and retry policy belongs to the
// caller at the request level.
package api
