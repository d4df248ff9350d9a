package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"filetime/internal/config"
	"filetime/internal/content"
	"filetime/internal/git"
	"filetime/internal/models"
	"filetime/internal/resolver"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	output      string
	follow      bool
	onlyMissing bool
	timezone    string
	showDetails bool
	within      string
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [paths...]",
	Short: "Resolve content dates from Git history",
	Long: `Resolve the date and modified timestamps of every content file under the
configured PATH, or under the given files and directories.

A file Git does not track, or has staged but never committed, is dated by
its filesystem change time. A committed file takes its date from its
history, and its modified time from the filesystem when it has uncommitted
changes. Content can opt out with a "gittime: off" metadata entry.

Use --within to only show content modified recently:
  12h  (12 hours)
  30d  (30 days)
  2w   (2 weeks)
  6M   (6 months)
  1y   (1 year)`,
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().StringVarP(&output, "output", "o", "table", "Output format: table or json")
	resolveCmd.Flags().BoolVar(&follow, "follow", false, "Follow renames when reading history (GIT_FILETIME_FOLLOW)")
	resolveCmd.Flags().BoolVar(&onlyMissing, "only-missing", false, "Only fill in dates the content does not set (GIT_FILETIME_ONLY_IF_MISSING)")
	resolveCmd.Flags().StringVar(&timezone, "timezone", "", "Timezone for filesystem times (TIMEZONE)")
	resolveCmd.Flags().BoolVar(&showDetails, "details", false, "Show rendered dates and age")
	resolveCmd.Flags().StringVar(&within, "within", "", "Only show content modified within the duration (e.g., 12h, 30d, 2w, 6M, 1y)")
}

type resolvedDocument struct {
	Path           string     `json:"path"`
	Kind           string     `json:"kind"`
	Status         string     `json:"status"`
	Date           *time.Time `json:"date,omitempty"`
	Modified       *time.Time `json:"modified,omitempty"`
	LocaleDate     string     `json:"locale_date,omitempty"`
	LocaleModified string     `json:"locale_modified,omitempty"`
}

func runResolve(cmd *cobra.Command, args []string) error {
	if output != "table" && output != "json" {
		return fmt.Errorf("invalid --output value: %s (use table or json)", output)
	}

	var cutoff time.Time
	if within != "" {
		d, err := parseDuration(within)
		if err != nil {
			return fmt.Errorf("invalid --within value: %w", err)
		}
		cutoff = time.Now().Add(-d)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyFlags(cmd, cfg)

	opts, err := cfg.Options()
	if err != nil {
		return err
	}

	repo, err := git.Open(".", logger)
	if err != nil {
		return fmt.Errorf("failed to open repository: %w", err)
	}

	paths := args
	if len(paths) == 0 {
		paths = []string{cfg.Path}
	}

	loaderOpts := content.LoaderOptions{
		DateFormat: cfg.DefaultDateFormat,
		Location:   opts.Location,
	}
	docs, err := loadDocuments(paths, loaderOpts)
	if err != nil {
		return err
	}

	pipeline := content.NewPipeline(logger)
	resolver.Register(pipeline, resolver.New(repo, opts, logger))

	if err := pipeline.Run(docs); err != nil {
		return err
	}

	results := summarize(docs, cutoff)

	logger.Debug("Resolved content", zap.Int("documents", len(docs)), zap.Int("shown", len(results)))

	if output == "json" {
		return printJSON(cmd.OutOrStdout(), results)
	}

	if len(results) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No content found matching the criteria.")
		return nil
	}

	printTable(cmd.OutOrStdout(), results, showDetails, time.Now())
	return nil
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("follow") {
		cfg.Follow = follow
	}
	if cmd.Flags().Changed("only-missing") {
		cfg.OnlyIfMissing = onlyMissing
	}
	if cmd.Flags().Changed("timezone") {
		cfg.Timezone = timezone
	}
}

func loadDocuments(paths []string, opts content.LoaderOptions) ([]*models.Document, error) {
	var docs []*models.Document

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", path, err)
		}

		if info.IsDir() {
			loader := content.NewLoader(osfs.New(path), path, opts, logger)
			found, err := loader.Discover(".")
			if err != nil {
				return nil, err
			}
			docs = append(docs, found...)
			continue
		}

		dir := filepath.Dir(path)
		loader := content.NewLoader(osfs.New(dir), dir, opts, logger)
		doc, err := loader.Load(filepath.Base(path))
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	return docs, nil
}

func summarize(docs []*models.Document, cutoff time.Time) []resolvedDocument {
	var results []resolvedDocument

	for _, doc := range docs {
		if !cutoff.IsZero() && (doc.Modified == nil || doc.Modified.Before(cutoff)) {
			continue
		}

		results = append(results, resolvedDocument{
			Path:           doc.SourcePath,
			Kind:           string(doc.Kind),
			Status:         statusOf(doc),
			Date:           doc.Date,
			Modified:       doc.Modified,
			LocaleDate:     doc.LocaleDate,
			LocaleModified: doc.LocaleModified,
		})
	}

	return results
}

func statusOf(doc *models.Document) string {
	if doc.IsStatic() || resolver.OptedOut(doc.Metadata) {
		return "skipped"
	}
	return "resolved"
}

func printJSON(w io.Writer, results []resolvedDocument) error {
	if results == nil {
		results = []resolvedDocument{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}
	return nil
}

func printTable(out io.Writer, results []resolvedDocument, details bool, now time.Time) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	defer w.Flush()

	if details {
		fmt.Fprintln(w, "PATH\tKIND\tDATE\tMODIFIED\tAGE\tSTATUS")
		fmt.Fprintln(w, "----\t----\t----\t--------\t---\t------")
	} else {
		fmt.Fprintln(w, "PATH\tKIND\tDATE\tMODIFIED\tSTATUS")
		fmt.Fprintln(w, "----\t----\t----\t--------\t------")
	}

	for _, r := range results {
		if details {
			age := "unknown"
			if r.Modified != nil {
				age = formatTimeSince(*r.Modified, now)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", r.Path, r.Kind, orDash(r.LocaleDate), orDash(r.LocaleModified), age, r.Status)
		} else {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", r.Path, r.Kind, formatTime(r.Date), formatTime(r.Modified), r.Status)
		}
	}
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("2006-01-02 15:04:05 -0700")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
