package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"project-gallery/internal/gallery"
)

func newListCmd(a *app) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List the projects below the media directory",
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			projects := gallery.Scan(a.cfg.Gallery())
			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), projects)
			}
			return writeProjects(cmd.OutOrStdout(), projects)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output projects as JSON")
	return cmd
}

func writeProjects(out io.Writer, projects []gallery.Project) error {
	if len(projects) == 0 {
		_, err := fmt.Fprintln(out, "No projects found.")
		return err
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tPREVIEW")
	for _, p := range projects {
		fmt.Fprintf(w, "%s\t%s\n", p.Name, p.Preview)
	}
	return w.Flush()
}

func writeJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
