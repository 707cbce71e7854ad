// Package storage contains concrete implementations of the core.BlobStore.
//
// The canonical BlobStore interface lives in the core package to keep domain
// contracts central. This package holds the in-memory store and the shared
// sentinel errors; durable backends live in sub-packages (azure) so that
// only the wiring layer decides which implementation to instantiate.
package storage
