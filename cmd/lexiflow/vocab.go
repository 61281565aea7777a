// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var vocabCmd = &cobra.Command{
	Use:   "vocab",
	Short: "Manage the vocabulary profile (mark, review, status)",
	Long: `Vocab manages the learner's vocabulary profile: the known and unknown
word lists, the vocabulary-size estimate refined from feedback, and
spaced-repetition review of marked words.`,
}

// --- mark-known subcommand ---

var vocabMarkKnownCmd = &cobra.Command{
	Use:   "mark-known [words...]",
	Short: "Mark words as known",
	Long: `Mark-known records words the learner already knows. Each mark also
nudges the vocabulary estimate: knowing a hard word raises it. Words on
the unknown list move off it.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runVocabMarkKnown,
}

func runVocabMarkKnown(cmd *cobra.Command, args []string) error {
	kv, closer := openKV(pipelineConfig().Store)
	if closer != nil {
		defer closer.Close()
	}
	profile := openProfile(cmd, kv)

	difficulty, _ := cmd.Flags().GetInt("difficulty")
	profile.MarkKnown(cmd.Context(), args...)
	for range args {
		profile.Observe(cmd.Context(), difficulty, true)
	}

	p := profile.Profile()
	fmt.Printf("Marked %d word(s) known. Estimated vocabulary: %d\n", len(args), p.EstimatedVocabulary)
	return nil
}

// --- mark-unknown subcommand ---

var vocabMarkUnknownCmd = &cobra.Command{
	Use:   "mark-unknown [word]",
	Short: "Mark a word as unknown",
	Long: `Mark-unknown records a word the learner did not know, with the context
it appeared in and the translation shown. The word enters the
spaced-repetition review queue, and missing an easy word lowers the
vocabulary estimate.`,
	Args: cobra.ExactArgs(1),
	RunE: runVocabMarkUnknown,
}

func runVocabMarkUnknown(cmd *cobra.Command, args []string) error {
	kv, closer := openKV(pipelineConfig().Store)
	if closer != nil {
		defer closer.Close()
	}
	profile := openProfile(cmd, kv)

	context, _ := cmd.Flags().GetString("context")
	translation, _ := cmd.Flags().GetString("translation")
	difficulty, _ := cmd.Flags().GetInt("difficulty")

	profile.MarkUnknown(cmd.Context(), args[0], context, translation)
	profile.Observe(cmd.Context(), difficulty, false)

	p := profile.Profile()
	fmt.Printf("Marked %q unknown. Estimated vocabulary: %d\n", strings.ToLower(args[0]), p.EstimatedVocabulary)
	return nil
}

// --- review subcommand ---

var vocabReviewCmd = &cobra.Command{
	Use:   "review",
	Short: "List unknown words due for review",
	Long: `Review lists marked words ranked by how overdue they are, following
spaced-repetition intervals of 1, 3, 7, 14, and 30 days. A priority of
1.0 or higher means the word is due.

Use --record to log that a word was reviewed, pushing it to the next
interval.`,
	RunE: runVocabReview,
}

func runVocabReview(cmd *cobra.Command, args []string) error {
	kv, closer := openKV(pipelineConfig().Store)
	if closer != nil {
		defer closer.Close()
	}
	profile := openProfile(cmd, kv)

	if word, _ := cmd.Flags().GetString("record"); word != "" {
		profile.RecordReview(cmd.Context(), word)
		fmt.Printf("Recorded review of %q\n", strings.ToLower(word))
		return nil
	}

	due := profile.DueForReview()
	all, _ := cmd.Flags().GetBool("all")
	if !all {
		kept := due[:0]
		for _, d := range due {
			if d.Priority >= 1 {
				kept = append(kept, d)
			}
		}
		due = kept
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(due)
	}

	if len(due) == 0 {
		fmt.Println("Nothing due for review.")
		return nil
	}

	fmt.Printf("%-20s  %-8s  %-7s  %s\n", "Word", "Priority", "Reviews", "Translation")
	fmt.Println(strings.Repeat("-", 60))
	for _, d := range due {
		fmt.Printf("%-20s  %-8.1f  %-7d  %s\n",
			d.Entry.Word, d.Priority, d.Entry.ReviewCount, d.Entry.Translation)
	}
	return nil
}

// --- status subcommand ---

var vocabStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the vocabulary profile summary",
	RunE:  runVocabStatus,
}

func runVocabStatus(cmd *cobra.Command, args []string) error {
	kv, closer := openKV(pipelineConfig().Store)
	if closer != nil {
		defer closer.Close()
	}
	p := openProfile(cmd, kv).Profile()

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	}

	fmt.Printf("Exam context:         %s\n", p.ExamType)
	fmt.Printf("Estimated vocabulary: %d words\n", p.EstimatedVocabulary)
	fmt.Printf("Estimate confidence:  %.2f\n", p.LevelConfidence)
	fmt.Printf("Known words:          %d\n", len(p.KnownWords))
	fmt.Printf("Unknown words:        %d\n", len(p.UnknownWords))
	return nil
}

// --- export / import subcommands ---

var vocabExportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export the vocabulary profile to YAML or JSON",
	Long: `Export writes the profile (estimate, confidence, word lists) to a file
or stdout, for backup or for moving between machines.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runVocabExport,
}

func runVocabExport(cmd *cobra.Command, args []string) error {
	kv, closer := openKV(pipelineConfig().Store)
	if closer != nil {
		defer closer.Close()
	}
	profile := openProfile(cmd, kv)

	format, _ := cmd.Flags().GetString("format")
	data, err := profile.Export(format)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(args[0], data, 0o644); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}
	fmt.Printf("Exported profile to %s\n", args[0])
	return nil
}

var vocabImportCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Merge an exported vocabulary profile",
	Long: `Import merges an exported profile into the local one: word lists are
unioned with the imported verdict winning on conflict, and the estimate
and confidence are replaced.`,
	Args: cobra.ExactArgs(1),
	RunE: runVocabImport,
}

func runVocabImport(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading import: %w", err)
	}

	kv, closer := openKV(pipelineConfig().Store)
	if closer != nil {
		defer closer.Close()
	}
	profile := openProfile(cmd, kv)

	if err := profile.Import(cmd.Context(), data); err != nil {
		return err
	}
	p := profile.Profile()
	fmt.Printf("Imported profile: %d known, %d unknown, estimate %d\n",
		len(p.KnownWords), len(p.UnknownWords), p.EstimatedVocabulary)
	return nil
}

func init() {
	vocabMarkKnownCmd.Flags().Int("difficulty", 5, "difficulty grade of the marked words (1-10)")

	vocabMarkUnknownCmd.Flags().String("context", "", "sentence the word appeared in")
	vocabMarkUnknownCmd.Flags().String("translation", "", "translation shown to the learner")
	vocabMarkUnknownCmd.Flags().Int("difficulty", 5, "difficulty grade of the word (1-10)")

	vocabReviewCmd.Flags().String("record", "", "record a review of the given word")
	vocabReviewCmd.Flags().Bool("all", false, "include words not yet due")
	vocabReviewCmd.Flags().Bool("json", false, "output as JSON")

	vocabStatusCmd.Flags().Bool("json", false, "output as JSON")

	vocabExportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	vocabCmd.AddCommand(vocabMarkKnownCmd)
	vocabCmd.AddCommand(vocabMarkUnknownCmd)
	vocabCmd.AddCommand(vocabReviewCmd)
	vocabCmd.AddCommand(vocabStatusCmd)
	vocabCmd.AddCommand(vocabExportCmd)
	vocabCmd.AddCommand(vocabImportCmd)

	rootCmd.AddCommand(vocabCmd)
}
