package models

// Field names of the metadata returned by the cloud. VissibleName is spelled
// the way the service spells it.
const (
	FieldType              = "Type"
	FieldName              = "VissibleName"
	FieldID                = "ID"
	FieldParent            = "Parent"
	FieldModifiedClient    = "ModifiedClient"
	FieldBlobURLGet        = "BlobURLGet"
	FieldBlobURLGetExpires = "BlobURLGetExpires"
)

// Type discriminators.
const (
	TypeDocument = "DocumentType"
	TypeFolder   = "CollectionType"
)

// Metadata is the attribute set the cloud returns for one item. Entities hold
// a private copy and replace it wholesale on refresh; it is never edited in place.
type Metadata map[string]interface{}

// String returns the string value stored under key, or "" if the key is
// absent or not a string.
func (m Metadata) String(key string) string {
	if m == nil {
		return ""
	}
	v, _ := m[key].(string)
	return v
}

// Clone returns a shallow copy of m.
func (m Metadata) Clone() Metadata {
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Kind identifies the variant an item's metadata describes.
type Kind int

const (
	KindUnknown Kind = iota
	KindDocument
	KindFolder
)

// ParseKind maps a Type discriminator to a Kind.
func ParseKind(tag string) Kind {
	switch tag {
	case TypeDocument:
		return KindDocument
	case TypeFolder:
		return KindFolder
	default:
		return KindUnknown
	}
}

func (k Kind) String() string {
	switch k {
	case KindDocument:
		return "Document"
	case KindFolder:
		return "Folder"
	default:
		return "Unknown"
	}
}
