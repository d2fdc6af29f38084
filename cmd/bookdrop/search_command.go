package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"bookdroplist/internal/books"
	"bookdroplist/internal/catalog"
	"bookdroplist/internal/catalog/googlebooks"
	"bookdroplist/internal/catalog/openlibrary"
	"bookdroplist/internal/config"
	"bookdroplist/internal/logging"
)

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the book catalogs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			searcher, err := buildSearcher(cfg, limit)
			if err != nil {
				return err
			}
			results, err := searcher.Search(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd, map[string]any{"results": results})
			}
			printSearchResults(cmd, results)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of a table")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of results (defaults to configuration)")
	return cmd
}

func buildSearcher(cfg *config.Config, limit int) (*catalog.Searcher, error) {
	googleBooks, err := googlebooks.New(
		cfg.GoogleBooks.APIKey,
		cfg.GoogleBooks.BaseURL,
		time.Duration(cfg.GoogleBooks.TimeoutSeconds)*time.Second)
	if err != nil {
		return nil, fmt.Errorf("googlebooks client: %w", err)
	}
	openLibrary, err := openlibrary.New(
		cfg.OpenLibrary.BaseURL,
		cfg.OpenLibrary.CoversBaseURL,
		time.Duration(cfg.OpenLibrary.TimeoutSeconds)*time.Second)
	if err != nil {
		return nil, fmt.Errorf("openlibrary client: %w", err)
	}
	if limit <= 0 {
		limit = cfg.Search.ResultLimit
	}
	return catalog.NewSearcher(
		[]catalog.Catalog{googleBooks, openLibrary}, limit, logging.NewNop()), nil
}

func printSearchResults(cmd *cobra.Command, results []books.Book) {
	out := cmd.OutOrStdout()
	if len(results) == 0 {
		fmt.Fprintln(out, "No results.")
		return
	}

	if !stdoutIsTerminal() {
		for _, book := range results {
			fmt.Fprintf(out, "%s\t%s\t%s\t%s\n", book.Title, book.Author, yearLabel(book), book.ISBN)
		}
		return
	}

	rows := make([][]string, 0, len(results))
	for i, book := range results {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			book.Title,
			book.Author,
			yearLabel(book),
			book.ISBN,
			book.Publisher,
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"#", "Title", "Author", "Year", "ISBN", "Publisher"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft, alignLeft}))
}

func yearLabel(book books.Book) string {
	if book.PublicationYear == 0 {
		return ""
	}
	return strconv.Itoa(book.PublicationYear)
}

func stdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
