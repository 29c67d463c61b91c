package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/netzero-prep/netzero-quiz/internal/bank"
)

func main() {
	root := &cobra.Command{
		Use:           "bankctl",
		Short:         "Question bank maintenance for the Net Zero exam-prep service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(validateCmd(), statsCmd(), applyCorrectionsCmd())
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <bank.json>",
		Short: "Validate the question bank file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := bank.Load(args[0])
			if err != nil {
				return err
			}
			verified := 0
			for _, q := range b.All() {
				if q.Verified {
					verified++
				}
			}
			fmt.Printf("OK: %d questions\n", b.Len())
			for _, sc := range b.Subjects() {
				fmt.Printf("  %s: %d\n", sc.Name, sc.Count)
			}
			fmt.Printf("verified: %d/%d (%.1f%%)\n", verified, b.Len(),
				100*float64(verified)/float64(b.Len()))
			return nil
		},
	}
}

func statsCmd() *cobra.Command {
	var topKeywords int
	cmd := &cobra.Command{
		Use:   "stats <bank.json>",
		Short: "Summarize the bank by subject, source and keywords",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := bank.Load(args[0])
			if err != nil {
				return err
			}
			bySource := map[string]int{}
			keywords := map[string]int{}
			for _, q := range b.All() {
				src := q.Source
				if src == "" {
					src = "(none)"
				}
				bySource[src]++
				for _, kw := range q.Keywords {
					keywords[kw]++
				}
			}

			fmt.Printf("total: %d\n\nby subject:\n", b.Len())
			for _, sc := range b.Subjects() {
				fmt.Printf("  %-6s %4d  %s\n", sc.Subject, sc.Count, sc.Name)
			}

			fmt.Println("\nby source:")
			for _, src := range sortedKeys(bySource) {
				fmt.Printf("  %-12s %4d\n", src, bySource[src])
			}

			type kwCount struct {
				kw string
				n  int
			}
			ranked := make([]kwCount, 0, len(keywords))
			for kw, n := range keywords {
				ranked = append(ranked, kwCount{kw, n})
			}
			sort.Slice(ranked, func(i, j int) bool {
				if ranked[i].n != ranked[j].n {
					return ranked[i].n > ranked[j].n
				}
				return ranked[i].kw < ranked[j].kw
			})
			if topKeywords > len(ranked) {
				topKeywords = len(ranked)
			}
			fmt.Printf("\ntop %d keywords:\n", topKeywords)
			for _, kc := range ranked[:topKeywords] {
				fmt.Printf("  %-20s %4d\n", kc.kw, kc.n)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&topKeywords, "top", 20, "how many keywords to list")
	return cmd
}

func applyCorrectionsCmd() *cobra.Command {
	var dryRun bool
	var backupDir string
	cmd := &cobra.Command{
		Use:   "apply-corrections <bank.json> <corrections.json>",
		Short: "Patch questions from a corrections file",
		Long: `Applies option/answer/explanation corrections keyed by question id,
backing up the bank file first. The result must still validate or
nothing is written.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			bankPath, corrPath := args[0], args[1]

			raw, err := bank.LoadRaw(bankPath)
			if err != nil {
				return err
			}
			corr, err := bank.LoadCorrections(corrPath)
			if err != nil {
				return err
			}

			updated, unknown := bank.ApplyCorrections(raw, corr)
			for _, id := range unknown {
				fmt.Fprintf(os.Stderr, "warning: correction for unknown question %s\n", id)
			}
			fmt.Printf("%d of %d corrections applied\n", updated, len(corr))

			if dryRun {
				fmt.Println("dry run, nothing written")
				return nil
			}
			if updated == 0 {
				return nil
			}

			bak, err := bank.Backup(bankPath, backupDir)
			if err != nil {
				return fmt.Errorf("backup: %w", err)
			}
			fmt.Printf("backed up to %s\n", bak)

			if err := bank.WriteRaw(bankPath, raw); err != nil {
				return err
			}
			// the patched bank must still pass validation
			if _, err := bank.Load(bankPath); err != nil {
				return fmt.Errorf("patched bank fails validation (backup kept): %w", err)
			}
			fmt.Println("bank updated")
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report changes without writing")
	cmd.Flags().StringVar(&backupDir, "backup-dir", "./backups", "where to keep the pre-update copy")
	return cmd
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
