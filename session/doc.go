// Package session implements the session lifecycle of ChatVault: the naming
// policy that turns human session names into canonical identifiers and
// timestamped blob keys, and the Registry that owns the single current
// session, its conversation buffer, and all create/switch/save/load/delete
// operations against a core.BlobStore.
//
// The Registry is the source of truth for what is "current"; storage is the
// source of truth for what can be resumed. Deleting a snapshot therefore
// never evicts in-memory state.
package session
