package cmd

import (
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var scrapeTopicSlug = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

func newScrapeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scrape <topic>",
		Short: "Runs one discovery pass and prints the ranked candidates",
		Long: `Scrapes the directory for the given topic slug (for example
"machine-learning"), scores and persists the candidates, and prints the
ranked list as JSON. The command succeeds even when the directory is
unreachable; in that case the printed list is the synthetic fallback pair.`,
		Args: cobra.ExactArgs(1),
		RunE: runScrape,
	}
}

func runScrape(cmd *cobra.Command, args []string) error {
	topic := args[0]
	if !scrapeTopicSlug.MatchString(topic) {
		return fmt.Errorf("topic must be a lowercase slug, got %q", topic)
	}

	a, err := buildApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	a.Logger.Info("scrape started", zap.String("topic", topic))
	judges := a.Finder.FindCandidates(cmd.Context(), topic)

	out, err := json.MarshalIndent(judges, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	cmd.Println(string(out))
	return nil
}
