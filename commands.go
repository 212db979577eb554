package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"rmcloud/models"
	"rmcloud/processor"

	"github.com/spf13/cobra"
)

var lsCmd = &cobra.Command{
	Use:   "ls [path]",
	Short: "List the cloud tree below a folder",
	Long: `List the cloud tree below a folder.

Paths are display names separated by "/", starting at the root. Prefix a
path with "` + processor.TrashPrefix + `" to start in the trash instead, e.g. "` + processor.TrashPrefix + `/Old notes".
A plain "/Trash" refers to a regular folder named Trash.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "/"
		if len(args) == 1 {
			path = args[0]
		}

		proc, err := newProcessor(cmd.Context())
		if err != nil {
			return err
		}
		tree, err := proc.BuildTree(cmd.Context())
		if err != nil {
			return err
		}
		start, err := tree.Lookup(path)
		if err != nil {
			return err
		}
		return printTree(cmd.OutOrStdout(), start)
	},
}

var catCmd = &cobra.Command{
	Use:   "cat <path>",
	Short: "Write a document's payload to stdout",
	Long: `Write a document's payload to stdout.

The path is resolved like in ls; use the "` + processor.TrashPrefix + `" prefix for trashed documents.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		proc, err := newProcessor(cmd.Context())
		if err != nil {
			return err
		}
		tree, err := proc.BuildTree(cmd.Context())
		if err != nil {
			return err
		}
		entity, err := tree.Lookup(args[0])
		if err != nil {
			return err
		}
		doc, ok := entity.(*models.Document)
		if !ok {
			return fmt.Errorf("%s is not a document", args[0])
		}

		data, err := doc.FetchRaw(cmd.Context())
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var pullCmd = &cobra.Command{
	Use:   "pull <dir>",
	Short: "Download every document payload into a local directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		includeTrash, err := cmd.Flags().GetBool("include-trash")
		if err != nil {
			return err
		}

		proc, err := newProcessor(cmd.Context())
		if err != nil {
			return err
		}
		stats, err := proc.Pull(cmd.Context(), processor.PullConfig{
			TargetDir:    args[0],
			IncludeTrash: includeTrash,
		})
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Files processed: %d, downloaded: %d, skipped: %d, errors: %d\n",
			stats.TotalFiles, stats.DownloadedFiles, stats.SkippedFiles, stats.ErrorFiles)
		return nil
	},
}

func init() {
	pullCmd.Flags().Bool("include-trash", false, "also pull trashed documents")
}

// printTree writes start and everything below it, one entity per line
func printTree(w io.Writer, start models.Entity) error {
	if err := printEntity(w, start, 0); err != nil {
		return err
	}
	container, ok := start.(models.Container)
	if !ok {
		return nil
	}
	return processor.Walk(container, func(e models.Entity, depth int) error {
		return printEntity(w, e, depth+1)
	})
}

func printEntity(w io.Writer, e models.Entity, depth int) error {
	marker := "d"
	if e.Kind() == models.KindFolder {
		marker = "/"
	}

	modified := "-"
	if !e.IsVirtual() {
		if mtime, err := e.ModifiedAt(); err == nil {
			modified = mtime.Format(time.DateTime)
		}
	}

	_, err := fmt.Fprintf(w, "%s%s %s  %s  %s\n", strings.Repeat("  ", depth), marker, e.Name(), e.ID(), modified)
	return err
}
