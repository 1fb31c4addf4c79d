package handlers

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mindscribe/internal/markdown"
	"mindscribe/internal/normalize"
)

// NewDiaryCmd creates the diary command.
func NewDiaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diary <export.md>",
		Short: "Reconstruct a complete CBT form from a diary export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read diary %s: %w", args[0], err)
			}
			return printResult(markdown.ParseDiary(string(data), normalize.DefaultSchemaModes()))
		},
	}
}
