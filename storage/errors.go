package storage

import "errors"

var (
	// ErrNotFound is returned when the referenced blob does not exist in the
	// underlying store.
	ErrNotFound = errors.New("blob not found")

	// ErrWrite wraps connectivity/auth/quota failures while writing a blob.
	ErrWrite = errors.New("storage write failed")

	// ErrRead wraps failures while reading or listing blobs, other than the
	// blob simply being absent.
	ErrRead = errors.New("storage read failed")

	// ErrProvision wraps failures to create or verify the backing container.
	ErrProvision = errors.New("storage provisioning failed")
)
