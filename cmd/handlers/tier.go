package handlers

import (
	"github.com/spf13/cobra"

	"mindscribe/internal/summary"
	"mindscribe/internal/tier"
)

// NewTierCmd creates the tier command.
func NewTierCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tier <transcript.json>",
		Short: "Classify transcript content into a quality tier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			msgs, err := readTranscript(args[0])
			if err != nil {
				return err
			}

			analysis := tier.Analyze(msgs)
			return printResult(map[string]any{
				"analysis":                 analysis,
				"meets_analysis_threshold": summary.MeetsAnalysisThreshold(analysis),
			})
		},
	}
}
