// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/sm2anki/internal/anki"
	"github.com/pdiddy/sm2anki/internal/catalog"
	"github.com/pdiddy/sm2anki/internal/convert"
	"github.com/pdiddy/sm2anki/pkg/types"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the local catalog of converted collections",
	Long: `Catalog keeps converted collections in a local SQLite database. Index a
SuperMemo export once, then list its cards or write a subset of them, filtered
by collection or tag, to an Anki import file.`,
}

// --- index subcommand ---

var catalogIndexCmd = &cobra.Command{
	Use:   "index <source> <media_directory>",
	Short: "Parse a SuperMemo export and store its elements and cards",
	Long: `Index parses a SuperMemo export, renders its items as Anki cards, and stores
both in the catalog under the collection name (default: the source file name
without extension). Indexing the same name again replaces the stored copy.`,
	Args: cobra.ExactArgs(2),
	RunE: runCatalogIndex,
}

func runCatalogIndex(cmd *cobra.Command, args []string) error {
	source, mediaDir := args[0], args[1]
	name, _ := cmd.Flags().GetString("name")
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	}

	records, err := convert.Load(source, viper.GetString("encoding"))
	if err != nil {
		return err
	}

	store, err := catalog.NewStore(catalogConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	exp := anki.NewExporter(records, types.ExportConfig{
		MediaDir: mediaDir,
		Workers:  workersFlag(cmd),
	})
	_, err = store.Ingest(cmd.Context(), name, records, exp, os.Stdout)
	return err
}

// --- cards subcommand ---

var catalogCardsCmd = &cobra.Command{
	Use:   "cards",
	Short: "Print or export stored cards",
	Long: `Cards prints stored cards as Anki import lines. Filter with --collection and
--tag; --output writes the lines to a file instead of stdout.`,
	Args: cobra.NoArgs,
	RunE: runCatalogCards,
}

func runCatalogCards(cmd *cobra.Command, args []string) error {
	collection, _ := cmd.Flags().GetString("collection")
	tag, _ := cmd.Flags().GetString("tag")
	limit, _ := cmd.Flags().GetInt("limit")
	output, _ := cmd.Flags().GetString("output")

	store, err := catalog.NewStore(catalogConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	cards, err := store.Cards(cmd.Context(), catalog.QueryOptions{
		Collection: collection,
		Tag:        tag,
		MaxResults: limit,
	})
	if err != nil {
		return err
	}

	text := anki.JoinLines(cards)
	if output == "" {
		if text != "" {
			fmt.Println(text)
		}
		return nil
	}
	if err := os.WriteFile(output, []byte(text), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}
	fmt.Fprintf(os.Stderr, "wrote %d cards to %s\n", len(cards), output)
	return nil
}

// --- list subcommand ---

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored collections",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := catalog.NewStore(catalogConfig())
		if err != nil {
			return err
		}
		defer store.Close()

		infos, err := store.Collections(cmd.Context())
		if err != nil {
			return err
		}
		writeCollectionTable(os.Stdout, infos)
		return nil
	},
}

func writeCollectionTable(w io.Writer, infos []catalog.CollectionInfo) {
	if len(infos) == 0 {
		fmt.Fprintln(w, "No collections indexed.")
		return
	}
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Name", "Elements", "Cards", "Media directory", "Indexed"})
	for _, ci := range infos {
		t.AppendRow(table.Row{ci.Name, ci.Records, ci.Cards, ci.MediaDir, ci.IndexedAt})
	}
	t.Render()
}

// --- shared helpers ---

func catalogConfig() types.CatalogConfig {
	return types.CatalogConfig{
		CatalogDir: viper.GetString("catalog_dir"),
		MaxResults: viper.GetInt("max_results"),
	}
}

func init() {
	catalogCmd.PersistentFlags().String("catalog-dir", "", "directory holding the catalog database")
	_ = viper.BindPFlag("catalog_dir", catalogCmd.PersistentFlags().Lookup("catalog-dir"))

	catalogIndexCmd.Flags().String("name", "", "collection name (default: source file name)")
	catalogIndexCmd.Flags().Int("workers", 0, "number of elements exported concurrently (default 1)")

	catalogCardsCmd.Flags().String("collection", "", "only cards of this collection")
	catalogCardsCmd.Flags().String("tag", "", "only cards carrying this tag")
	catalogCardsCmd.Flags().Int("limit", 0, "maximum cards (0 = use max_results)")
	catalogCardsCmd.Flags().String("output", "", "write cards to this file instead of stdout")

	catalogCmd.AddCommand(catalogIndexCmd)
	catalogCmd.AddCommand(catalogCardsCmd)
	catalogCmd.AddCommand(catalogListCmd)

	rootCmd.AddCommand(catalogCmd)
}
