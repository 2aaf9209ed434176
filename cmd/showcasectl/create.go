package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/phambaophuc/showcase/internal/models"
	"github.com/phambaophuc/showcase/internal/services/showcase"
	"github.com/phambaophuc/showcase/pkg/utils"
	"github.com/spf13/cobra"
)

func newCreateCmd(opts *rootOptions) *cobra.Command {
	var name, category, beforePath, afterPath string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a showcase from two image files",
		RunE: func(cmd *cobra.Command, _ []string) error {
			before, err := openCandidate(beforePath)
			if err != nil {
				return err
			}
			defer before.Content.(io.Closer).Close()

			after, err := openCandidate(afterPath)
			if err != nil {
				return err
			}
			defer after.Content.(io.Closer).Close()

			a, err := opts.open()
			if err != nil {
				return err
			}
			defer a.Close()

			record, err := a.Showcase.Create(cmd.Context(), showcase.CreateRequest{
				Name:     name,
				Category: category,
				Before:   before,
				After:    after,
			})
			if err != nil {
				return errors.New(showcase.UserMessage(err))
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "id:   %s\n", record.ID)
			fmt.Fprintf(out, "path: %s\n", record.ShowcasePath())
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "business name")
	cmd.Flags().StringVar(&category, "type", "", "business type, see `showcasectl categories`")
	cmd.Flags().StringVar(&beforePath, "before", "", "path to the before image")
	cmd.Flags().StringVar(&afterPath, "after", "", "path to the after image")
	for _, flag := range []string{"name", "type", "before", "after"} {
		_ = cmd.MarkFlagRequired(flag)
	}
	return cmd
}

// openCandidate opens path as an upload. The MIME type is sniffed from the
// content the way a browser would fill in File.type.
func openCandidate(path string) (models.UploadCandidate, error) {
	file, err := os.Open(path)
	if err != nil {
		return models.UploadCandidate{}, err
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return models.UploadCandidate{}, err
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		file.Close()
		return models.UploadCandidate{}, err
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		file.Close()
		return models.UploadCandidate{}, err
	}

	return models.UploadCandidate{
		Filename: info.Name(),
		MimeType: utils.DetectImageType(path, head[:n]),
		Size:     info.Size(),
		Content:  file,
	}, nil
}
