package models

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"rmcloud/logging"
)

// Client is the cloud collaborator entities use to refresh metadata and to
// download payloads.
type Client interface {
	// GetMetadata fetches fresh metadata for id. With downloadable set the
	// result carries a signed blob URL. Unknown ids fail with ErrNotFound.
	GetMetadata(ctx context.Context, id string, downloadable bool) (Metadata, error)
	// GetBlob downloads the payload behind a signed URL.
	GetBlob(ctx context.Context, url string) ([]byte, error)
}

// Entity is a node of the remote file tree.
type Entity interface {
	Name() string
	ID() string
	// Parent returns the id of the containing folder, or "" for top-level items.
	Parent() string
	ModifiedAt() (time.Time, error)
	IsVirtual() bool
	Kind() Kind
	String() string
}

// Remote is an Entity backed by cloud metadata.
type Remote interface {
	Entity
	Metadata() Metadata
	RefreshMetadata(ctx context.Context, downloadable bool) error
	DownloadURL() (string, error)
	Raw(ctx context.Context) ([]byte, error)
	FetchRaw(ctx context.Context) ([]byte, error)
	RawSize() int
}

// Container is an Entity holding children. Children are assigned by whoever
// assembles the listing; a container never populates itself.
type Container interface {
	Entity
	Children() []Entity
	AddChild(e Entity)
}

// item carries the behaviour shared by all metadata-backed entities.
// It is not safe for concurrent use.
type item struct {
	client   Client
	metadata Metadata
	raw      []byte
}

func newItem(c Client, md Metadata) item {
	return item{client: c, metadata: md.Clone()}
}

func (it *item) Name() string    { return it.metadata.String(FieldName) }
func (it *item) ID() string      { return it.metadata.String(FieldID) }
func (it *item) Parent() string  { return it.metadata.String(FieldParent) }
func (it *item) IsVirtual() bool { return false }

// ModifiedAt returns the client-side modification time.
func (it *item) ModifiedAt() (time.Time, error) {
	return ParseServerTimestamp(it.metadata.String(FieldModifiedClient))
}

// Metadata returns a copy of the current metadata snapshot.
func (it *item) Metadata() Metadata {
	return it.metadata.Clone()
}

// RefreshMetadata replaces the metadata with a fresh copy from the cloud.
// An unknown id is logged and leaves the current metadata in place.
func (it *item) RefreshMetadata(ctx context.Context, downloadable bool) error {
	md, err := it.client.GetMetadata(ctx, it.ID(), downloadable)
	if errors.Is(err, ErrNotFound) {
		logging.Error("could not update metadata",
			logging.String("id", it.ID()),
			logging.String("name", it.Name()),
			logging.Err(err),
		)
		return nil
	}
	if err != nil {
		return fmt.Errorf("refresh metadata for %s: %w", it.ID(), err)
	}

	it.metadata = md.Clone()
	return nil
}

// DownloadURL returns the signed blob URL while it is still valid, "" otherwise.
func (it *item) DownloadURL() (string, error) {
	url := it.metadata.String(FieldBlobURLGet)
	if url == "" {
		return "", nil
	}

	expires, err := ParseServerTimestamp(it.metadata.String(FieldBlobURLGetExpires))
	if err != nil {
		return "", fmt.Errorf("blob url expiry for %s: %w", it.ID(), err)
	}
	if !expires.After(Now()) {
		return "", nil
	}
	return url, nil
}

// Raw returns a copy of the entity's binary payload, downloading it on first
// use. When no download URL can be obtained it returns empty bytes and no
// error; use FetchRaw to tell that case apart.
func (it *item) Raw(ctx context.Context) ([]byte, error) {
	data, err := it.FetchRaw(ctx)
	if errors.Is(err, ErrContentUnavailable) {
		return []byte{}, nil
	}
	return data, err
}

// FetchRaw is Raw reporting ErrContentUnavailable instead of empty bytes.
func (it *item) FetchRaw(ctx context.Context) ([]byte, error) {
	if len(it.raw) > 0 {
		return bytes.Clone(it.raw), nil
	}

	url, err := it.DownloadURL()
	if err != nil {
		return nil, err
	}
	if url == "" {
		if err := it.RefreshMetadata(ctx, true); err != nil {
			return nil, err
		}
		if url, err = it.DownloadURL(); err != nil {
			return nil, err
		}
	}
	if url == "" {
		return nil, fmt.Errorf("%w: %s", ErrContentUnavailable, it.ID())
	}

	data, err := it.client.GetBlob(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", it.ID(), err)
	}
	it.raw = bytes.Clone(data)
	return data, nil
}

// RawSize returns the size of the cached payload. It never downloads.
func (it *item) RawSize() int {
	return len(it.raw)
}

// children stores the child entities of a container.
type children struct {
	entries []Entity
}

func (c *children) Children() []Entity {
	return c.entries
}

func (c *children) AddChild(e Entity) {
	c.entries = append(c.entries, e)
}
