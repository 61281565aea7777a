// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/meshintelligence/lexiflow/internal/cache"
	"github.com/meshintelligence/lexiflow/internal/pipeline"
	"github.com/meshintelligence/lexiflow/internal/provider"
	"github.com/meshintelligence/lexiflow/pkg/types"
)

var translateCmd = &cobra.Command{
	Use:   "translate [file]",
	Short: "Translate a text at the learner's vocabulary level",
	Long: `Translate reads text from a file (or stdin when no file is given),
splits it into paragraphs on blank lines, and annotates each paragraph
for the learner's estimated vocabulary. Previously translated paragraphs
are served from the cache without an upstream call.

In selective mode (the default) only unfamiliar words and difficult
sentences are annotated; --mode full additionally translates every
paragraph in full.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTranslate,
}

func runTranslate(cmd *cobra.Command, args []string) error {
	text, err := readInput(args)
	if err != nil {
		return err
	}
	paragraphs := splitParagraphs(text)
	if len(paragraphs) == 0 {
		return fmt.Errorf("no paragraphs in input")
	}

	cfg := pipelineConfig()
	if mode, _ := cmd.Flags().GetString("mode"); mode != "" {
		cfg.Mode = types.TranslationMode(mode)
	}
	if p, _ := cmd.Flags().GetString("provider"); p != "" {
		cfg.Provider.Provider = types.Provider(p)
	}
	if m, _ := cmd.Flags().GetString("model"); m != "" {
		cfg.Provider.Model = m
	}
	cfg.Provider.APIKey = apiKeyFor(cfg.Provider.Provider, cfg.Provider.APIKey)

	kv, closer := openKV(cfg.Store)
	if closer != nil {
		defer closer.Close()
	}

	c := cache.New(cfg.Batch, kv)
	if err := c.Load(cmd.Context()); err != nil {
		fmt.Fprintf(os.Stderr, "warning: loading cache, starting cold: %v\n", err)
	}
	profile := openProfile(cmd, kv)

	backend, err := provider.New(cmd.Context(), cfg.Provider)
	if err != nil {
		return err
	}

	force, _ := cmd.Flags().GetBool("force")
	p := pipeline.New(cfg, c, profile, backend, os.Stderr)
	out := p.Translate(cmd.Context(), paragraphs, pipeline.Options{Force: force})

	for _, e := range out.Errors {
		fmt.Fprintf(os.Stderr, "warning: batch failed: %v\n", e)
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if err := formatTranslateOutput(paragraphs, out, jsonOutput); err != nil {
		return err
	}

	if len(out.Results) == 0 && len(out.Untranslated) > 0 {
		return fmt.Errorf("translation failed for all %d paragraph(s)", len(out.Untranslated))
	}
	return nil
}

func readInput(args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return string(data), nil
}

// splitParagraphs breaks text into paragraphs on blank lines, assigning
// sequential ids. Whitespace-only paragraphs are dropped.
func splitParagraphs(text string) []types.Paragraph {
	var out []types.Paragraph
	for _, block := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n\n") {
		trimmed := strings.TrimSpace(block)
		if trimmed == "" {
			continue
		}
		out = append(out, types.Paragraph{ID: len(out), Text: trimmed})
	}
	return out
}

// translateReport is the JSON output shape: one element per input
// paragraph, in input order.
type translateReport struct {
	Paragraphs   []paragraphReport `json:"paragraphs"`
	CacheHits    int               `json:"cache_hits"`
	CacheMisses  int               `json:"cache_misses"`
	Untranslated []int             `json:"untranslated,omitempty"`
}

type paragraphReport struct {
	ID     int                      `json:"id"`
	Text   string                   `json:"text"`
	Result *types.TranslationResult `json:"result,omitempty"`
}

func formatTranslateOutput(paragraphs []types.Paragraph, out pipeline.PageResult, jsonOutput bool) error {
	if jsonOutput {
		report := translateReport{CacheHits: out.CacheHits, CacheMisses: out.CacheMisses}
		for _, para := range paragraphs {
			pr := paragraphReport{ID: para.ID, Text: para.Text}
			if result, ok := out.Results[para.ID]; ok {
				pr.Result = &result
			}
			report.Paragraphs = append(report.Paragraphs, pr)
		}
		for _, para := range out.Untranslated {
			report.Untranslated = append(report.Untranslated, para.ID)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	for _, para := range paragraphs {
		result, ok := out.Results[para.ID]
		if !ok {
			fmt.Printf("[%d] (untranslated)\n\n", para.ID+1)
			continue
		}

		source := "fresh"
		if result.Cached {
			source = "cached"
		}
		fmt.Printf("[%d] (%s)\n", para.ID+1, source)

		if result.FullText != "" {
			fmt.Printf("  %s\n", result.FullText)
		}
		for _, w := range result.Words {
			fmt.Printf("  %s → %s (difficulty %d)\n", w.Original, w.Translation, w.Difficulty)
		}
		for _, s := range result.Sentences {
			fmt.Printf("  %s\n    → %s", s.Original, s.Translation)
			if s.GrammarNote != "" {
				fmt.Printf(" [%s]", s.GrammarNote)
			}
			fmt.Println()
		}
		for _, g := range result.GrammarPoints {
			fmt.Printf("  grammar: %s: %s\n", g.Point, g.Explanation)
		}
		fmt.Println()
	}

	fmt.Printf("%d paragraph(s): %d cached, %d translated", len(paragraphs), out.CacheHits, out.CacheMisses-len(out.Untranslated))
	if len(out.Untranslated) > 0 {
		fmt.Printf(", %d failed", len(out.Untranslated))
	}
	fmt.Println()
	return nil
}

func init() {
	translateCmd.Flags().String("mode", "", "translation mode: selective or full (default from config)")
	translateCmd.Flags().String("provider", "", "upstream provider: openai, anthropic, or gemini")
	translateCmd.Flags().String("model", "", "model identifier (default: provider-specific)")
	translateCmd.Flags().Bool("force", false, "re-translate even when cached")
	translateCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(translateCmd)
}
