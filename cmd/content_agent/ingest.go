package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/content-pipeline/internal/db"
	"github.com/jonathan/content-pipeline/internal/ingestion"
)

var (
	ingestTitle string
	ingestType  string
	ingestHTML  bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <file>",
	Short: "Create a source from a text or HTML file",
	Long:  `Read a file, optionally extract its text from HTML, and store it as a new source.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestTitle, "title", "", "Source title (defaults to the extracted page title for HTML)")
	ingestCmd.Flags().StringVar(&ingestType, "type", "article", "Source type label")
	ingestCmd.Flags().BoolVar(&ingestHTML, "html", false, "Treat the file as HTML and extract its text")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	title := ingestTitle
	content := strings.TrimSpace(string(data))

	if ingestHTML {
		extracted, err := ingestion.ExtractHTML(string(data))
		if err != nil {
			return err
		}
		content = extracted.Content
		if title == "" {
			title = extracted.Title
		}
	}
	if title == "" {
		return fmt.Errorf("--title is required for plain text files")
	}

	ctx := context.Background()
	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	source, err := database.CreateSource(ctx, title, ingestType, content)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created source %s (%q, %d bytes)\n", source.ID, source.Title, len(source.Content))
	return nil
}
