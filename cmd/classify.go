package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/selimozcann/linktracer/internal/classify"
	"github.com/selimozcann/linktracer/internal/output"
)

func newClassifyCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "classify <url>",
		Short: "Classify a URL's domain and query parameters without fetching it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, ok := classify.DescribeURL(args[0])
			if !ok {
				return fmt.Errorf("%q: Invalid URL", args[0])
			}
			w := cmd.OutOrStdout()
			output.PrintHost(w, info)

			output.PrintParameters(w, classify.AnalyzeParameters(args[0]))
			return nil
		},
	}
}
