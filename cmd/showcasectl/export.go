package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/phambaophuc/showcase/internal/models"
	"github.com/phambaophuc/showcase/internal/services/showcase"
	"github.com/spf13/cobra"
)

func newExportCmd(opts *rootOptions) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Save both images of a showcase into a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}

			a, err := opts.open()
			if err != nil {
				return err
			}
			defer a.Close()

			record, err := a.Showcase.Load(cmd.Context(), args[0])
			if errors.Is(err, showcase.ErrNotFound) {
				return errNotFound
			}
			if err != nil {
				return err
			}

			return a.Showcase.ExportPair(cmd.Context(), record, dirSink{dir: dir, out: cmd.OutOrStdout()})
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "output directory")
	return cmd
}

// dirSink writes downloads into dir and echoes each written path.
type dirSink struct {
	dir string
	out io.Writer
}

func (s dirSink) Save(_ context.Context, download models.Download) error {
	path := filepath.Join(s.dir, filepath.Base(download.Filename))
	if err := os.WriteFile(path, download.Data, 0o644); err != nil {
		return err
	}
	fmt.Fprintln(s.out, path)
	return nil
}
