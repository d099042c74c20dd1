package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"project-gallery/internal/gallery"
)

func newShowCmd(a *app) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show <project>",
		Short: "List the media files of one project",
		Long: `List the media files of one project. The project "root" holds the files
placed directly in the media directory; any other project is named by its
path relative to the media directory and includes its subdirectories.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			detail := gallery.Detail(a.cfg.Gallery(), args[0])
			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), detail)
			}
			return writeDetail(cmd.OutOrStdout(), detail)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output files as JSON")
	return cmd
}

func writeDetail(out io.Writer, detail gallery.ProjectDetail) error {
	if len(detail.Files) == 0 {
		_, err := fmt.Fprintf(out, "Project %q has no media.\n", detail.Name)
		return err
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TYPE\tPATH")
	for _, f := range detail.Files {
		kind := "image"
		if f.IsVideo {
			kind = "video"
		}
		fmt.Fprintf(w, "%s\t%s\n", kind, f.Path)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	images, videos := detail.Counts()
	_, err := fmt.Fprintf(out, "\n%d images, %d videos\n", images, videos)
	return err
}
