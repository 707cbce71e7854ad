// Package core contains the domain contracts of ChatVault: conversation
// messages and the append-only Conversation buffer, the Snapshot wire
// document persisted to blob storage, and the BlobStore interface that
// storage backends implement. Centralizing contracts here keeps higher level
// packages (session, agent, server) independent of any concrete backend.
package core
