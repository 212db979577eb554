package models

import (
	"fmt"
	"strings"
	"time"
)

// Well-known virtual folder names.
const (
	RootName  = "Root"
	TrashName = "Trash"
)

// Folder is a metadata-backed collection.
type Folder struct {
	item
	children
}

// NewFolder creates a Folder from metadata with no children.
func NewFolder(c Client, md Metadata) *Folder {
	return &Folder{item: newItem(c, md)}
}

func (f *Folder) Kind() Kind { return KindFolder }

func (f *Folder) String() string {
	return fmt.Sprintf("Folder %q", f.Name())
}

// VirtualFolder is a folder with no remote backing, such as the root or the
// trash. It is always top-level.
type VirtualFolder struct {
	name string
	children
}

// NewVirtualFolder creates a VirtualFolder called name.
func NewVirtualFolder(name string) *VirtualFolder {
	return &VirtualFolder{name: name}
}

func (v *VirtualFolder) Name() string    { return v.name }
func (v *VirtualFolder) ID() string      { return strings.ToLower(v.name) }
func (v *VirtualFolder) Parent() string  { return "" }
func (v *VirtualFolder) IsVirtual() bool { return true }
func (v *VirtualFolder) Kind() Kind      { return KindFolder }

// ModifiedAt always reports the current time.
func (v *VirtualFolder) ModifiedAt() (time.Time, error) {
	return Now(), nil
}

func (v *VirtualFolder) String() string {
	return fmt.Sprintf("VirtualFolder %q", v.name)
}
