// Package model defines the minimal contract ChatVault needs from a chat
// completion provider, plus a MockModel for tests. Concrete adapters live in
// sub-packages (openai, anthropic) so the orchestrator never depends on a
// vendor SDK directly.
package model
