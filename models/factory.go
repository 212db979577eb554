package models

import "rmcloud/logging"

// FromMetadata builds the entity described by md. It reports false for an
// unrecognised Type so the caller can skip the item and carry on.
func FromMetadata(c Client, md Metadata) (Entity, bool) {
	switch ParseKind(md.String(FieldType)) {
	case KindDocument:
		return NewDocument(c, md), true
	case KindFolder:
		return NewFolder(c, md), true
	}

	logging.Error("unknown document type",
		logging.String("type", md.String(FieldType)),
		logging.String("id", md.String(FieldID)),
	)
	return nil, false
}

var (
	_ Remote    = (*Document)(nil)
	_ Remote    = (*Folder)(nil)
	_ Container = (*Folder)(nil)
	_ Container = (*VirtualFolder)(nil)
)
