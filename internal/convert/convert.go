// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert runs a full SuperMemo-to-Anki conversion: read the export,
// decode it, parse the elements, render the items, and write the import file.
package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pdiddy/sm2anki/internal/anki"
	"github.com/pdiddy/sm2anki/internal/supermemo"
	"github.com/pdiddy/sm2anki/pkg/types"
)

// Summary holds the outcome of a conversion run.
type Summary struct {
	Records int
	Items   int
	Topics  int
}

// Load reads a SuperMemo export from path and parses it.
func Load(path, encoding string) (*types.Collection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading export: %w", err)
	}
	text, err := supermemo.Decode(data, encoding)
	if err != nil {
		return nil, err
	}
	records, err := supermemo.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return records, nil
}

// Run converts cfg.Source into cfg.Target, printing progress to w. The
// target is written only after every item has been rendered; on error no
// output file is created or changed.
func Run(ctx context.Context, cfg types.ConversionConfig, w io.Writer) (Summary, error) {
	if cfg.Source == "" || cfg.Target == "" {
		return Summary{}, errors.New("source and target paths are required")
	}

	fmt.Fprintf(w, "reading %s\n", cfg.Source)
	records, err := Load(cfg.Source, cfg.Encoding)
	if err != nil {
		return Summary{}, err
	}

	exp := anki.NewExporter(records, cfg.ExportConfig)
	cards, err := exp.Cards(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("exporting: %w", err)
	}

	summary := Summary{
		Records: records.Len(),
		Items:   len(cards),
		Topics:  records.Len() - len(cards),
	}
	fmt.Fprintf(w, "parsed %d elements (%d items, %d topics)\n",
		summary.Records, summary.Items, summary.Topics)

	if err := os.WriteFile(cfg.Target, []byte(anki.JoinLines(cards)), 0o644); err != nil {
		return summary, fmt.Errorf("writing %s: %w", cfg.Target, err)
	}
	fmt.Fprintf(w, "wrote %d cards to %s\n", summary.Items, cfg.Target)
	return summary, nil
}
