// Package audit carries the engine's security event pipeline: a canonical
// event model, pluggable sinks, and a buffered asynchronous dispatcher that
// keeps audit emission off the request path.
package audit
