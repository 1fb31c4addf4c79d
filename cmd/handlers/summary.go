package handlers

import (
	"github.com/spf13/cobra"

	"mindscribe/internal/extract"
	"mindscribe/internal/summary"
)

// NewSummaryCmd creates the summary command.
func NewSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary <transcript.json>",
		Short: "Print a human-readable digest of the extracted assessment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			msgs, err := readTranscript(args[0])
			if err != nil {
				return err
			}

			digest := summary.Generate(extract.ParseAll(msgs))
			if digest == "" {
				cmd.Println("nothing to summarize")
				return nil
			}
			cmd.Println(digest)
			return nil
		},
	}
}
