package main

import (
	"encoding/json"
	"io"
	"os"

	improve "aiupstart.com/go-improve"
	"github.com/spf13/cobra"
)

func newExtractCmd() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "extract [file|-]",
		Short: "Split a saved model reply into code and explanation",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			raw, err := io.ReadAll(in)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if all {
				return enc.Encode(improve.MarkdownCodeExtractor{}.ExtractCodeBlocks(string(raw)))
			}
			return enc.Encode(improve.Extract(string(raw)))
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "list every fenced block instead of the first")
	return cmd
}
