package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"project-gallery/internal/startup"
)

func newVersionCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		// Printing the version needs no configuration.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := startup.GetBuildInfo()
			if !jsonOutput {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), info.String())
				return err
			}
			data, err := json.MarshalIndent(info, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal version info to JSON: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output version information as JSON")
	return cmd
}
