package models

import "errors"

var (
	// ErrMalformedTimestamp is returned when a server timestamp cannot be parsed.
	ErrMalformedTimestamp = errors.New("malformed timestamp")

	// ErrNotFound is returned by a Client when the cloud does not know an id.
	ErrNotFound = errors.New("document not found")

	// ErrContentUnavailable is returned by FetchRaw when no usable download URL
	// could be obtained, even after a metadata refresh.
	ErrContentUnavailable = errors.New("content unavailable")

	// ErrNoExtractor is returned by Document.Contents without an Extractor.
	ErrNoExtractor = errors.New("no content extractor")
)
