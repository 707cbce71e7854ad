// Package azure provides a core.BlobStore backed by Azure Blob Storage.
// It adapts the azblob SDK client to the narrow contract the session layer
// needs: idempotent container provisioning plus put/get/list/delete of
// opaque JSON payloads. The adapter never retries; failures are wrapped in
// the storage error taxonomy and propagate to the caller.
package azure

import (
	"context"
	"fmt"
	"io"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"

	"github.com/chatvault-ai/chatvault/core"
	"github.com/chatvault-ai/chatvault/storage"
)

const defaultContainer = "chat-history"

// Options configure the Azure blob store adapter.
type Options struct {
	// Container is the blob container holding session snapshots.
	Container string
}

// Store implements core.BlobStore on top of an Azure storage account.
type Store struct {
	client    *azblob.Client
	container string
}

// NewStore creates a store from a storage account connection string.
func NewStore(connectionString string, optFns ...func(o *Options)) (*Store, error) {
	client, err := azblob.NewClientFromConnectionString(connectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("create azure blob client: %w", err)
	}
	return NewStoreFromClient(client, optFns...), nil
}

// NewStoreFromClient creates a store from an existing azblob client. Useful
// when the host already resolved credentials (e.g. token auth).
func NewStoreFromClient(client *azblob.Client, optFns ...func(o *Options)) *Store {
	opts := Options{Container: defaultContainer}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Store{client: client, container: opts.Container}
}

// Container returns the configured container name.
func (s *Store) Container() string { return s.container }

// EnsureContainer creates the container if it does not exist yet. An
// already-existing container is success.
func (s *Store) EnsureContainer(ctx context.Context) error {
	_, err := s.client.CreateContainer(ctx, s.container, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
			return nil
		}
		return fmt.Errorf("%w: create container %q: %v", storage.ErrProvision, s.container, err)
	}
	return nil
}

// Put uploads the payload under name, overwriting any existing blob.
func (s *Store) Put(ctx context.Context, name string, data []byte) error {
	_, err := s.client.UploadBuffer(ctx, s.container, name, data, &azblob.UploadBufferOptions{
		HTTPHeaders: &blob.HTTPHeaders{BlobContentType: to.Ptr("application/json")},
	})
	if err != nil {
		return fmt.Errorf("%w: upload %q: %v", storage.ErrWrite, name, err)
	}
	return nil
}

// Get downloads the full blob payload.
func (s *Store) Get(ctx context.Context, name string) ([]byte, error) {
	resp, err := s.client.DownloadStream(ctx, s.container, name, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, name)
		}
		return nil, fmt.Errorf("%w: download %q: %v", storage.ErrRead, name, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read %q: %v", storage.ErrRead, name, err)
	}
	return data, nil
}

// List pages through the flat blob listing until exhausted so the result is
// the complete set of matches, not just the first page.
func (s *Store) List(ctx context.Context, prefix string) ([]core.BlobInfo, error) {
	var infos []core.BlobInfo
	pager := s.client.NewListBlobsFlatPager(s.container, &azblob.ListBlobsFlatOptions{
		Prefix: to.Ptr(prefix),
	})
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: list %q: %v", storage.ErrRead, prefix, err)
		}
		for _, item := range page.Segment.BlobItems {
			if item.Name == nil {
				continue
			}
			info := core.BlobInfo{Name: *item.Name}
			if props := item.Properties; props != nil {
				if props.LastModified != nil {
					info.LastModified = *props.LastModified
				}
				if props.ContentLength != nil {
					info.Size = *props.ContentLength
				}
			}
			infos = append(infos, info)
		}
	}
	return infos, nil
}

// Delete removes the blob; once it succeeds the payload is irrecoverable.
func (s *Store) Delete(ctx context.Context, name string) error {
	_, err := s.client.DeleteBlob(ctx, s.container, name, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return fmt.Errorf("%w: %s", storage.ErrNotFound, name)
		}
		return fmt.Errorf("%w: delete %q: %v", storage.ErrWrite, name, err)
	}
	return nil
}

var _ core.BlobStore = (*Store)(nil)
