// Package server exposes the session lifecycle and chat operations over a
// JSON REST API. It is a thin transport layer: request decoding, response
// envelopes, status mapping and CORS. All session semantics live in the
// session.Registry and agent.Orchestrator it delegates to.
package server
