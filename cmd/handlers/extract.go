package handlers

import (
	"github.com/spf13/cobra"

	"mindscribe/internal/extract"
	"mindscribe/internal/summary"
)

// NewExtractCmd creates the extract command.
func NewExtractCmd() *cobra.Command {
	var withProvenance bool

	cmd := &cobra.Command{
		Use:   "extract <transcript.json>",
		Short: "Extract a structured CBT assessment from a transcript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			msgs, err := readTranscript(args[0])
			if err != nil {
				return err
			}

			if !extract.HasCBTData(msgs) {
				cmd.Println("no CBT data detected in transcript")
				return nil
			}

			assessment, prov := extract.ParseAllWithProvenance(msgs)
			result := map[string]any{
				"assessment":     assessment,
				"missing_fields": summary.Validate(assessment),
			}
			if withProvenance {
				result["provenance"] = prov
			}
			return printResult(result)
		},
	}

	cmd.Flags().BoolVar(&withProvenance, "provenance", false, "include section provenance in the output")
	return cmd
}
