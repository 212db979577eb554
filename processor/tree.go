package processor

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"rmcloud/logging"
	"rmcloud/models"
)

// ErrPathNotFound is returned by Tree.Lookup when no entity matches a path.
var ErrPathNotFound = errors.New("path not found")

// trashParent is the Parent value the cloud uses for trashed items.
const trashParent = "trash"

// TrashPrefix starts a Lookup path at Trash instead of Root.
const TrashPrefix = "trash:"

// Tree is an assembled listing: every entity hangs below Root or Trash.
type Tree struct {
	Root  *models.VirtualFolder
	Trash *models.VirtualFolder
	byID  map[string]models.Entity
}

func newTree() *Tree {
	root := models.NewVirtualFolder(models.RootName)
	trash := models.NewVirtualFolder(models.TrashName)
	return &Tree{
		Root:  root,
		Trash: trash,
		byID: map[string]models.Entity{
			root.ID():  root,
			trash.ID(): trash,
		},
	}
}

// assemble converts metadata into entities and links them to their parents.
// Items of unknown type are skipped; the number skipped is returned.
func assemble(client models.Client, items []models.Metadata) (*Tree, int) {
	t := newTree()
	skipped := 0

	var entities []models.Entity
	for _, md := range items {
		e, ok := models.FromMetadata(client, md)
		if !ok {
			skipped++
			continue
		}
		if _, dup := t.byID[e.ID()]; dup {
			logging.Warn("duplicate item id, keeping first",
				logging.String("id", e.ID()),
				logging.String("name", e.Name()),
			)
			skipped++
			continue
		}
		t.byID[e.ID()] = e
		entities = append(entities, e)
	}

	for _, e := range entities {
		t.parentOf(e).AddChild(e)
	}
	return t, skipped
}

func (t *Tree) parentOf(e models.Entity) models.Container {
	switch e.Parent() {
	case "":
		return t.Root
	case trashParent:
		return t.Trash
	}

	if parent, ok := t.byID[e.Parent()].(models.Container); ok && e.Parent() != e.ID() {
		return parent
	}
	logging.Warn("parent not in listing, attaching to root",
		logging.String("id", e.ID()),
		logging.String("name", e.Name()),
		logging.String("parent", e.Parent()),
	)
	return t.Root
}

// Get returns the entity with the given id.
func (t *Tree) Get(id string) (models.Entity, bool) {
	e, ok := t.byID[id]
	return e, ok
}

// Lookup resolves a slash separated path of display names, starting at Root.
// Paths prefixed with TrashPrefix, such as "trash:/Old", start at Trash; a
// plain "/Trash" names a real folder called Trash.
func (t *Tree) Lookup(path string) (models.Entity, error) {
	var current models.Entity = t.Root
	rel := path
	if rest, ok := strings.CutPrefix(path, TrashPrefix); ok {
		current = t.Trash
		rel = rest
	}

	segments := strings.FieldsFunc(rel, func(r rune) bool { return r == '/' })

	for _, name := range segments {
		container, ok := current.(models.Container)
		if !ok {
			return nil, fmt.Errorf("%w: %s is not a folder", ErrPathNotFound, current.Name())
		}
		next := findChild(container, name)
		if next == nil {
			return nil, fmt.Errorf("%w: %s", ErrPathNotFound, path)
		}
		current = next
	}
	return current, nil
}

func findChild(c models.Container, name string) models.Entity {
	for _, child := range c.Children() {
		if child.Name() == name {
			return child
		}
	}
	return nil
}

// WalkFunc is called for each entity visited by Walk with its depth below
// the starting folder.
type WalkFunc func(e models.Entity, depth int) error

// Walk visits the children of c depth first, ordered by name.
func Walk(c models.Container, fn WalkFunc) error {
	return walk(c, 0, fn)
}

func walk(c models.Container, depth int, fn WalkFunc) error {
	for _, child := range sortedChildren(c) {
		if err := fn(child, depth); err != nil {
			return err
		}
		if sub, ok := child.(models.Container); ok {
			if err := walk(sub, depth+1, fn); err != nil {
				return err
			}
		}
	}
	return nil
}

func sortedChildren(c models.Container) []models.Entity {
	children := append([]models.Entity(nil), c.Children()...)
	sort.SliceStable(children, func(i, j int) bool {
		return children[i].Name() < children[j].Name()
	})
	return children
}

// TreeStats counts the entities of a tree.
type TreeStats struct {
	Documents int
	Folders   int
	Trashed   int
}

// Stats counts documents and folders below Root, and everything in Trash.
func (t *Tree) Stats() TreeStats {
	var s TreeStats
	Walk(t.Root, func(e models.Entity, _ int) error {
		switch e.Kind() {
		case models.KindDocument:
			s.Documents++
		case models.KindFolder:
			s.Folders++
		}
		return nil
	})
	Walk(t.Trash, func(models.Entity, int) error {
		s.Trashed++
		return nil
	})
	return s
}
