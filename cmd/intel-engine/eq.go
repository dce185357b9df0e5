// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/intel-engine/internal/eq"
)

var eqCmd = &cobra.Command{
	Use:   "eq [text]",
	Short: "Score text for emotional intensity",
	Long: `Eq scores a text sample through the three-layer emotional scorer:
industry baseline, emotion-lexicon matching, and keyword density. Text is
taken from the argument, or from stdin when no argument is given.`,
	RunE: runEQ,
}

func init() {
	eqCmd.Flags().String("classification", "", "industry code, e.g. restaurant (generic fallback when omitted)")
	eqCmd.Flags().Float64("confidence", 0.8, "source confidence weighting for lexicon matches")

	rootCmd.AddCommand(eqCmd)
}

func runEQ(cmd *cobra.Command, args []string) error {
	var text string
	if len(args) > 0 {
		text = strings.Join(args, " ")
	} else {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		text = string(data)
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("no text to score: pass it as an argument or on stdin")
	}

	classification, _ := cmd.Flags().GetString("classification")
	confidence, _ := cmd.Flags().GetFloat64("confidence")

	profile := eq.ScoreText(classification, text, confidence)
	out, err := yaml.Marshal(profile)
	if err != nil {
		return fmt.Errorf("marshaling profile: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
