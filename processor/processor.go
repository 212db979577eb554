package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"rmcloud/logging"
	"rmcloud/models"
)

type cloudClient interface {
	models.Client
	ListItems(ctx context.Context) ([]models.Metadata, error)
}

// Processor assembles cloud listings and pulls document payloads
type Processor struct {
	client cloudClient
}

// Dependencies configuration for creating a processor
type Dependencies struct {
	Client cloudClient
}

// PullConfig holds configuration for a pull
type PullConfig struct {
	TargetDir    string
	IncludeTrash bool
}

// SyncStats pull statistics
type SyncStats struct {
	TotalFiles      int
	DownloadedFiles int
	SkippedFiles    int
	ErrorFiles      int
}

// payloadExt is the extension of pulled payloads, which the cloud serves as zip archives.
const payloadExt = ".zip"

// NewProcessor creates a new processor
func NewProcessor(d *Dependencies) *Processor {
	return &Processor{
		client: d.Client,
	}
}

// BuildTree lists every item in the cloud and assembles it under the
// virtual Root and Trash folders
func (p *Processor) BuildTree(ctx context.Context) (*Tree, error) {
	items, err := p.client.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list cloud items: %w", err)
	}

	tree, skipped := assemble(p.client, items)
	logging.Debug("listing assembled",
		logging.Int("items", len(items)),
		logging.Int("skipped", skipped),
	)
	return tree, nil
}

// Pull mirrors the cloud tree into cfg.TargetDir, writing each document's payload
func (p *Processor) Pull(ctx context.Context, cfg PullConfig) (*SyncStats, error) {
	if cfg.TargetDir == "" {
		return nil, fmt.Errorf("no target directory specified")
	}

	tree, err := p.BuildTree(ctx)
	if err != nil {
		return nil, err
	}

	stats := &SyncStats{}
	if err := p.pullFolder(ctx, tree.Root, cfg.TargetDir, stats); err != nil {
		return stats, err
	}
	if cfg.IncludeTrash {
		trashDir := filepath.Join(cfg.TargetDir, trashDirName(tree))
		if err := p.pullFolder(ctx, tree.Trash, trashDir, stats); err != nil {
			return stats, err
		}
	}

	logging.Info("pull completed",
		logging.Int("total", stats.TotalFiles),
		logging.Int("downloaded", stats.DownloadedFiles),
		logging.Int("skipped", stats.SkippedFiles),
		logging.Int("errors", stats.ErrorFiles),
	)
	return stats, nil
}

// pullFolder pulls the children of folder into dir recursively
func (p *Processor) pullFolder(ctx context.Context, folder models.Container, dir string, stats *SyncStats) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create folder %s: %w", dir, err)
	}

	children := sortedChildren(folder)
	names := localNames(children)

	for i, child := range children {
		if err := ctx.Err(); err != nil {
			return err
		}

		target := filepath.Join(dir, names[i])
		switch e := child.(type) {
		case models.Container:
			if err := p.pullFolder(ctx, e, target, stats); err != nil {
				logging.Error("error pulling folder", logging.String("path", target), logging.Err(err))
			}
		case *models.Document:
			stats.TotalFiles++
			p.pullDocument(ctx, e, target, stats)
		}
	}
	return nil
}

// localNames returns the path element each child is pulled to. Children whose
// names collide within the folder get their id appended.
func localNames(children []models.Entity) []string {
	element := func(e models.Entity, name string) string {
		if e.Kind() == models.KindDocument {
			return name + payloadExt
		}
		return name
	}

	names := make([]string, len(children))
	seen := make(map[string]int, len(children))
	for i, child := range children {
		names[i] = element(child, safeName(child.Name()))
		seen[strings.ToLower(names[i])]++
	}
	for i, child := range children {
		if seen[strings.ToLower(names[i])] > 1 {
			names[i] = element(child, fmt.Sprintf("%s (%s)", safeName(child.Name()), safeName(child.ID())))
		}
	}
	return names
}

// trashDirName names the local directory for Trash so it cannot collide with
// a real root folder of the same name.
func trashDirName(tree *Tree) string {
	name := safeName(tree.Trash.Name())
	for _, taken := range localNames(sortedChildren(tree.Root)) {
		if strings.EqualFold(taken, name) {
			return fmt.Sprintf("%s (%s)", name, tree.Trash.ID())
		}
	}
	return name
}

func (p *Processor) pullDocument(ctx context.Context, doc *models.Document, target string, stats *SyncStats) {
	modified, err := doc.ModifiedAt()
	if err != nil {
		logging.Error("bad modification time", logging.String("id", doc.ID()), logging.Err(err))
		stats.ErrorFiles++
		return
	}

	if info, err := os.Stat(target); err == nil && !modified.After(info.ModTime()) {
		logging.Debug("document is up to date, skipping", logging.String("path", target))
		stats.SkippedFiles++
		return
	}

	if err := writePayload(ctx, doc, target); err != nil {
		logging.Error("error pulling document", logging.String("path", target), logging.Err(err))
		stats.ErrorFiles++
		return
	}

	if err := os.Chtimes(target, modified, modified); err != nil {
		logging.Warn("failed to set modification time", logging.String("path", target), logging.Err(err))
	}
	logging.Info("pulled document", logging.String("path", target), logging.Int("bytes", doc.RawSize()))
	stats.DownloadedFiles++
}

// writePayload writes the document payload to target through a temp file
func writePayload(ctx context.Context, doc *models.Document, target string) error {
	data, err := doc.FetchRaw(ctx)
	if err != nil {
		return err
	}

	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write payload: %w", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename payload: %w", err)
	}
	return nil
}

// safeName makes a display name usable as a single path element
func safeName(name string) string {
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, string(filepath.Separator), "_")
	if name == "" || name == "." || name == ".." {
		return "_"
	}
	return name
}
