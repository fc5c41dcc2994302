package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/cartwise/backend/internal/domain"
	"github.com/cartwise/backend/internal/logger"
	"github.com/cartwise/backend/internal/usecase"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

type detectOptions struct {
	file             string
	listID           string
	option           string
	days             int
	threshold        float64
	includeCompleted bool
	noStoreCheck     bool
	asJSON           bool
	now              string
	logLevel         string
}

var detectOpts detectOptions

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Report likely duplicates on a list",
	Long: `Load a snapshot of lists from a JSON or YAML file and report the products of
the current list that already appear on it or on recent lists.

Settings in the file are used as a base; flags given on the command line win.`,
	Example: `  dupecheck detect --file lists.yaml --list weekly
  dupecheck detect -f lists.json --option custom --days 14 --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDetect(cmd.Context(), cmd, detectOpts, cmd.OutOrStdout())
	},
}

func init() {
	f := detectCmd.Flags()
	f.StringVarP(&detectOpts.file, "file", "f", "", "snapshot file (.json, .yaml or .yml)")
	f.StringVarP(&detectOpts.listID, "list", "l", "", "current list id (defaults to the file's currentListId)")
	f.StringVar(&detectOpts.option, "option", "", "lists to compare: last-1, last-3, last-5, all or custom")
	f.IntVar(&detectOpts.days, "days", 0, "day limit for --option custom")
	f.Float64Var(&detectOpts.threshold, "threshold", 0, "similarity threshold between 0 and 1")
	f.BoolVar(&detectOpts.includeCompleted, "include-completed", false, "also match purchased items")
	f.BoolVar(&detectOpts.noStoreCheck, "no-store-check", false, "do not flag same-list items planned at another store")
	f.BoolVar(&detectOpts.asJSON, "json", false, "print the result as JSON")
	f.StringVar(&detectOpts.now, "now", "", "evaluate ages as of this RFC 3339 time")
	f.StringVar(&detectOpts.logLevel, "log-level", "warn", "log level written to stderr")
	_ = detectCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(detectCmd)
}

func runDetect(ctx context.Context, cmd *cobra.Command, opts detectOptions, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	snap, err := loadSnapshot(opts.file)
	if err != nil {
		return err
	}

	listID := opts.listID
	if listID == "" {
		listID = snap.CurrentListID
	}
	if listID == "" {
		return errors.New("no current list: pass --list or set currentListId in the file")
	}
	current, ok := domain.FindSnapshot(snap.Lists, listID)
	if !ok {
		return fmt.Errorf("list %q not found in %s", listID, opts.file)
	}

	settings := domain.DefaultComparisonSettings()
	if snap.Settings != nil {
		settings = *snap.Settings
	}
	applyFlagOverrides(cmd, opts, &settings)

	clock := time.Now
	if opts.now != "" {
		at, err := time.Parse(time.RFC3339, opts.now)
		if err != nil {
			return fmt.Errorf("invalid --now: %w", err)
		}
		clock = func() time.Time { return at }
	}

	log := logger.New(logger.Options{Level: opts.logLevel, Format: "console", Writer: os.Stderr})
	svc := usecase.NewDetectionService(nil, nil, usecase.DetectionServiceConfig{Logger: log}, usecase.WithClock(clock))

	dups, err := svc.DetectDuplicates(ctx, current.Products, snap.Lists, listID, settings)
	if err != nil {
		return err
	}

	result := usecase.DetectionResult{
		CurrentListID: listID,
		Settings:      settings,
		Duplicates:    dups,
		Stats:         svc.GetStats(dups),
	}

	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	printReport(out, current.Name, result)
	return nil
}

// applyFlagOverrides copies explicitly set flags over the base settings
func applyFlagOverrides(cmd *cobra.Command, opts detectOptions, s *domain.ComparisonSettings) {
	changed := func(name string) bool {
		return cmd != nil && cmd.Flags().Changed(name)
	}

	if changed("option") {
		s.Option = domain.CompareOption(opts.option)
	}
	if changed("days") {
		s.CustomDays = domain.Days(opts.days)
	}
	if changed("threshold") {
		s.SimilarityThreshold = opts.threshold
	}
	if changed("include-completed") {
		s.IncludeCompleted = opts.includeCompleted
	}
	if changed("no-store-check") {
		s.CheckDifferentStores = !opts.noStoreCheck
	}
}

// printReport writes a human readable, colored summary of a detection run
func printReport(w io.Writer, listName string, result usecase.DetectionResult) {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()

	title := result.CurrentListID
	if listName != "" {
		title = listName
	}
	fmt.Fprintf(w, "\n%s\n", cyan(fmt.Sprintf("=== Duplicate check: %s ===", title)))
	fmt.Fprintf(w, "%s\n\n", gray(fmt.Sprintf("option=%s threshold=%.2f include-completed=%v",
		result.Settings.Option, result.Settings.SimilarityThreshold, result.Settings.IncludeCompleted)))

	if len(result.Duplicates) == 0 {
		color.New(color.FgGreen).Fprintln(w, "✓ No duplicates found")
		return
	}

	for _, d := range result.Duplicates {
		fmt.Fprintf(w, "%s %s %s\n",
			confidenceColor(d.Confidence).Sprintf("[%-6s]", d.Confidence),
			formatItem(d.ProductName, d.Quantity, d.Units),
			actionLabel(d.SuggestedAction))
		for _, m := range d.Matches {
			fmt.Fprintf(w, "    %s %s in %s, %s, %.0f%% similar%s\n",
				gray("↳"),
				formatItem(m.ProductName, m.Quantity, m.Units),
				m.ListName,
				formatAge(m.DaysAgo),
				m.Similarity*100,
				matchSuffix(m))
		}
	}

	s := result.Stats
	fmt.Fprintf(w, "\n%s %d duplicates, %d high confidence, %d skip, %d reduce, %d different store\n",
		cyan("Summary:"), s.TotalDuplicates, s.HighConfidence, s.SuggestedSkips, s.SuggestedReduces, s.DifferentStores)
}

func confidenceColor(c domain.Confidence) *color.Color {
	switch c {
	case domain.ConfidenceHigh:
		return color.New(color.FgRed, color.Bold)
	case domain.ConfidenceMedium:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgCyan)
	}
}

func actionLabel(a domain.Action) string {
	switch a {
	case domain.ActionSkip:
		return "→ skip, already planned"
	case domain.ActionReduce:
		return "→ consider buying less"
	case domain.ActionDifferentStore:
		return "→ also planned at another store"
	case domain.ActionMerge:
		return "→ merge entries"
	default:
		return "→ bought before"
	}
}

func formatItem(name string, qty float64, units string) string {
	if units == "" {
		return fmt.Sprintf("%s ×%g", name, qty)
	}
	return fmt.Sprintf("%s %g %s", name, qty, units)
}

func formatAge(days int) string {
	switch days {
	case 0:
		return "today"
	case 1:
		return "1 day ago"
	default:
		return fmt.Sprintf("%d days ago", days)
	}
}

func matchSuffix(m domain.MatchEntry) string {
	var s string
	if m.SelectedStore != "" {
		s += " @ " + m.SelectedStore
	}
	if m.IsPurchased {
		s += " (purchased)"
	}
	return s
}
