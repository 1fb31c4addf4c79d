// Package handlers wires the CLI commands. Each command reads a transcript
// or diary file, runs the pure extraction core and prints the result.
package handlers

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mindscribe/internal/config"
	"mindscribe/internal/core"
)

var cfgFile string

// NewRootCmd creates the root command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "mindscribe",
		Short: "Extract structured CBT exercise data from chat transcripts",
		Long: `mindscribe converts free-form therapy-chat transcripts into canonical
structured records and grades how much therapeutic signal a conversation
carries. Transcripts are JSON files of {"role","content"} messages; diary
exports are plain markdown documents.`,
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.mindscribe.yaml)")

	rootCmd.AddCommand(NewExtractCmd())
	rootCmd.AddCommand(NewTierCmd())
	rootCmd.AddCommand(NewDiaryCmd())
	rootCmd.AddCommand(NewSummaryCmd())
	rootCmd.AddCommand(NewServeCmd())

	return rootCmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initConfig() {
	if _, err := config.Load(cfgFile); err != nil {
		fmt.Fprintf(os.Stderr, "error loading configuration: %v\n", err)
		os.Exit(1)
	}
}

// readTranscript loads a JSON message list from a file.
func readTranscript(path string) ([]core.Message, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read transcript %s: %w", path, err)
	}
	var msgs []core.Message
	if err := json.Unmarshal(data, &msgs); err != nil {
		return nil, fmt.Errorf("failed to parse transcript %s: %w", path, err)
	}
	return msgs, nil
}

// printResult renders a value according to the configured output settings.
func printResult(v any) error {
	var (
		data []byte
		err  error
	)
	if config.Get().Output.Pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
