// Package agent implements the orchestrator that turns user queries into
// conversation turns: it seeds the system instruction, appends the user
// message, drives the model over the full history, appends the assistant
// reply and parses the structured JSON the model is instructed to emit.
// Session persistence is delegated entirely to the session.Registry; the
// orchestrator only triggers best-effort auto-saves around each turn.
package agent
