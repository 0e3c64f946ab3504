// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package anki renders SuperMemo records as lines of Anki's tab-separated
// import format: question, answer, and tags. Category membership in the
// source collection becomes a list of tags, and sound files are referenced
// relative to the collection's media directory.
package anki

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/sm2anki/pkg/types"
)

// ErrParentCycle is returned when following Parent links revisits an element.
var ErrParentCycle = errors.New("parent chain forms a cycle")

// LookupError reports a Parent reference to an element absent from the
// collection, which happens with truncated exports.
type LookupError struct {
	RecordID int
	ParentID int
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("element #%d: parent #%d not found in collection", e.RecordID, e.ParentID)
}

// Exporter converts the records of one collection.
type Exporter struct {
	records  *types.Collection
	mediaDir string
	workers  int
}

// NewExporter returns an Exporter over records. cfg.MediaDir is removed from
// sound file paths.
func NewExporter(records *types.Collection, cfg types.ExportConfig) *Exporter {
	return &Exporter{
		records:  records,
		mediaDir: cfg.MediaDir,
		workers:  cfg.Workers,
	}
}

// MediaDir returns the media directory stripped from sound file paths.
func (e *Exporter) MediaDir() string {
	return e.mediaDir
}

// SanitizeTag turns a category title into a single Anki tag. Anki separates
// tags with spaces.
func SanitizeTag(title string) string {
	tag := strings.ReplaceAll(title, " & ", "&")
	tag = strings.ReplaceAll(tag, "] ", "]")
	tag = strings.ReplaceAll(tag, ",", "")
	return strings.ReplaceAll(tag, " ", "_")
}

// Tags returns the sanitized titles of all ancestors of r, outermost first,
// separated by spaces. r's own title is not included.
func (e *Exporter) Tags(r *types.Record) (string, error) {
	var tags []string
	seen := map[int]bool{r.ID: true}

	cur := r
	for {
		parentID, err := cur.Parent()
		if err != nil {
			return "", err
		}
		if parentID == types.RootParent {
			break
		}
		if seen[parentID] {
			return "", fmt.Errorf("element #%d: %w at #%d", r.ID, ErrParentCycle, parentID)
		}
		seen[parentID] = true

		parent, ok := e.records.Get(parentID)
		if !ok {
			return "", &LookupError{RecordID: cur.ID, ParentID: parentID}
		}
		title, err := parent.Title()
		if err != nil {
			return "", err
		}
		tags = append(tags, SanitizeTag(title))
		cur = parent
	}

	for i, j := 0, len(tags)-1; i < j; i, j = i+1, j-1 {
		tags[i], tags[j] = tags[j], tags[i]
	}
	return strings.Join(tags, " "), nil
}

// RelativeMediaPath removes the first occurrence of mediaRoot from
// fullPath after converting backslashes to slashes in both. SuperMemo stores
// absolute paths; Anki expects paths relative to its media folder. A path
// outside mediaRoot is returned normalized but otherwise unchanged.
func RelativeMediaPath(fullPath, mediaRoot string) string {
	fullPath = strings.ReplaceAll(fullPath, `\`, "/")
	mediaRoot = strings.ReplaceAll(mediaRoot, `\`, "/")
	return strings.Replace(fullPath, mediaRoot, "", 1)
}

// Card builds the Anki fields for a single record.
func (e *Exporter) Card(r *types.Record) (types.Card, error) {
	tags, err := e.Tags(r)
	if err != nil {
		return types.Card{}, err
	}

	question, _ := r.QuestionText()
	answer, _ := r.AnswerText()

	card := types.Card{
		RecordID: r.ID,
		Question: question + soundRef(r.QuestionSound, e.mediaDir),
		Answer:   answer + soundRef(r.AnswerSound, e.mediaDir),
		Tags:     tags,
	}
	card.Line = card.Question + "\t" + card.Answer + "\t" + card.Tags
	return card, nil
}

func soundRef(lookup func() (string, bool), mediaDir string) string {
	path, ok := lookup()
	if ok {
		path = RelativeMediaPath(path, mediaDir)
	}
	return "[sound:" + path + "]"
}

// ExportRecord renders r as one import line:
// question[sound:file]<TAB>answer[sound:file]<TAB>tags.
func (e *Exporter) ExportRecord(r *types.Record) (string, error) {
	card, err := e.Card(r)
	if err != nil {
		return "", err
	}
	return card.Line, nil
}

// Cards exports every item of the collection in collection order. Topics
// only contribute tags. With more than one worker, records are exported
// concurrently; the result order does not change.
func (e *Exporter) Cards(ctx context.Context) ([]types.Card, error) {
	var items []*types.Record
	for _, r := range e.records.Records() {
		isItem, err := r.IsItem()
		if err != nil {
			return nil, err
		}
		if isItem {
			items = append(items, r)
		}
	}

	cards := make([]types.Card, len(items))

	if e.workers < 2 {
		for i, r := range items {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			card, err := e.Card(r)
			if err != nil {
				return nil, err
			}
			cards[i] = card
		}
		return cards, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, r := range items {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			card, err := e.Card(r)
			if err != nil {
				return err
			}
			cards[i] = card
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return cards, nil
}

// ExportAll renders every item of the collection, one line per card, joined
// by newlines with no trailing newline.
func (e *Exporter) ExportAll(ctx context.Context) (string, error) {
	cards, err := e.Cards(ctx)
	if err != nil {
		return "", err
	}
	return JoinLines(cards), nil
}

// JoinLines joins the rendered lines of cards with newlines.
func JoinLines(cards []types.Card) string {
	lines := make([]string, len(cards))
	for i, c := range cards {
		lines[i] = c.Line
	}
	return strings.Join(lines, "\n")
}
