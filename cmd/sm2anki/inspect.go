// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/sm2anki/internal/convert"
	"github.com/pdiddy/sm2anki/pkg/types"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <source>",
	Short: "Show the elements parsed from a SuperMemo export",
	Long: `Inspect parses a SuperMemo export and prints its elements without converting
them. The table format lists one element per row with its components; yaml
and json print every parsed field. Use --id to show a single element.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().String("format", "table", "output format: table, yaml, or json")
	inspectCmd.Flags().Int("id", 0, "show only the element with this ID")

	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	id, _ := cmd.Flags().GetInt("id")

	records, err := convert.Load(args[0], viper.GetString("encoding"))
	if err != nil {
		return err
	}

	selected := records.Records()
	if cmd.Flags().Changed("id") {
		r, ok := records.Get(id)
		if !ok {
			return fmt.Errorf("element #%d not found in %s", id, args[0])
		}
		selected = []*types.Record{r}
	}

	return formatRecords(os.Stdout, selected, format)
}

func formatRecords(w io.Writer, records []*types.Record, format string) error {
	switch format {
	case "table", "":
		writeRecordTable(w, records)
		return nil
	case "yaml":
		data, err := yaml.Marshal(records)
		if err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
		_, err = w.Write(data)
		return err
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	default:
		return fmt.Errorf("unsupported format %q: use table, yaml, or json", format)
	}
}

func writeRecordTable(w io.Writer, records []*types.Record) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"ID", "Parent", "Type", "Title", "Components"})

	for _, r := range records {
		parent := r.Properties[types.KeyParent]
		var comps []string
		for _, c := range r.Components {
			comps = append(comps, describeComponent(c))
		}
		t.AppendRow(table.Row{r.ID, parent, r.Info[types.KeyType], r.Info[types.KeyTitle], strings.Join(comps, "\n")})
	}
	t.AppendFooter(table.Row{"", "", "", "Total", strconv.Itoa(len(records))})
	t.Render()
}

func describeComponent(c types.Component) string {
	switch c.Type {
	case types.ComponentSound:
		return fmt.Sprintf("%s %s PlayAt %d", c.Type, c.SoundFile, c.PlayAt)
	case types.ComponentText:
		return fmt.Sprintf("%s %q DisplayAt %d", c.Type, truncate(c.Text, 40), c.DisplayAt)
	default:
		return string(c.Type)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
