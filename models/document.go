package models

import (
	"context"
	"fmt"
)

// Extractor turns a document's raw payload into readable contents. Payload
// formats live outside this package.
type Extractor interface {
	Extract(ctx context.Context, raw []byte) ([]byte, error)
}

// Document is a leaf entity with a downloadable payload.
type Document struct {
	item
}

// NewDocument creates a Document from metadata.
func NewDocument(c Client, md Metadata) *Document {
	return &Document{item: newItem(c, md)}
}

func (d *Document) Kind() Kind { return KindDocument }

func (d *Document) String() string {
	return fmt.Sprintf("Document %q", d.Name())
}

// Contents extracts the document's contents from its payload.
func (d *Document) Contents(ctx context.Context, ex Extractor) ([]byte, error) {
	if ex == nil {
		return nil, ErrNoExtractor
	}
	raw, err := d.FetchRaw(ctx)
	if err != nil {
		return nil, err
	}
	return ex.Extract(ctx, raw)
}
