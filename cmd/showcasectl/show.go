package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/phambaophuc/showcase/internal/models"
	"github.com/phambaophuc/showcase/internal/services/dataurl"
	"github.com/phambaophuc/showcase/internal/services/showcase"
	"github.com/spf13/cobra"
)

var errNotFound = errors.New("showcase not found")

func newShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print a stored showcase without its image payloads",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "id\t%s\n", record.ID)
			fmt.Fprintf(w, "name\t%s\n", record.Name)
			fmt.Fprintf(w, "type\t%s (%s)\n", record.Type.Label(), record.Type)
			fmt.Fprintf(w, "date\t%s\n", record.Date)
			fmt.Fprintf(w, "path\t%s\n", record.ShowcasePath())
			for _, slot := range []models.Slot{models.SlotBefore, models.SlotAfter} {
				fmt.Fprintf(w, "%s\t%s\n", slot, describeImage(record.Image(slot)))
			}
			return w.Flush()
		},
	}
}

func describeImage(img models.EncodedImage) string {
	data, mimeType, err := dataurl.Parse(img)
	if err != nil {
		return "unreadable"
	}
	return fmt.Sprintf("%s, %d bytes", mimeType, len(data))
}
