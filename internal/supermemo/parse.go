// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package supermemo reads SuperMemo collection exports: the plain-text
// "Begin Element #N ... End Element #N" format written by SuperMemo's
// export to text.
package supermemo

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pdiddy/sm2anki/pkg/types"
)

// Block markers of the export format.
const (
	beginElement     = "Begin Element "
	endElement       = "End Element "
	beginElementInfo = "Begin ElementInfo"
	endElementInfo   = "End ElementInfo"
	beginComponent   = "Begin Component"
	endComponent     = "End Component"

	blockSeparator = "\n\n"
)

// Component keys whose values are visibility bitmasks.
const (
	keyDisplayAt = "DisplayAt"
	keyPlayAt    = "PlayAt"
	keyText      = "Text"
	keySoundFile = "SoundFile"
	keyType      = "Type"
)

// ParseError reports a line of the export that is neither a block marker
// nor a key=value pair, or an element header without a numeric ID.
type ParseError struct {
	// Line is the 1-based line number in the parsed text, or 0 when the
	// error concerns a whole block.
	Line int
	Text string
	Msg  string
	Err  error
}

func (e *ParseError) Error() string {
	var b strings.Builder
	if e.Line > 0 {
		fmt.Fprintf(&b, "line %d: ", e.Line)
	}
	b.WriteString(e.Msg)
	if e.Text != "" {
		fmt.Fprintf(&b, ": %q", e.Text)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parse reads every element block in text and returns them keyed by ID.
// Blocks are separated by a blank line. A later block with an ID already
// seen replaces the earlier one. Any malformed line aborts the parse.
func Parse(text string) (*types.Collection, error) {
	text = normalizeNewlines(text)
	records := types.NewCollection()

	// Track the line each block starts on so errors point into the input.
	lineNo := 1
	trimmed := strings.TrimLeft(text, " \t\n")
	lineNo += strings.Count(text[:len(text)-len(trimmed)], "\n")
	trimmed = strings.TrimRight(trimmed, " \t\n")
	if trimmed == "" {
		return records, nil
	}

	for _, block := range strings.Split(trimmed, blockSeparator) {
		start := lineNo
		lineNo += strings.Count(block, "\n") + 2
		if strings.TrimSpace(block) == "" {
			continue
		}
		r, err := parseBlock(block, start)
		if err != nil {
			return nil, err
		}
		records.Add(r)
	}
	return records, nil
}

// ParseBlock parses a single element block.
func ParseBlock(block string) (*types.Record, error) {
	return parseBlock(normalizeNewlines(block), 1)
}

// blockParser holds the state of one block: the current mode and the
// component being assembled, if any.
type blockParser struct {
	record    *types.Record
	hasID     bool
	inInfo    bool
	component *componentBuilder
}

func parseBlock(block string, firstLine int) (*types.Record, error) {
	p := &blockParser{
		record: &types.Record{
			Properties: make(map[string]string),
			Info:       make(map[string]string),
		},
	}

	for i, raw := range strings.Split(block, "\n") {
		if err := p.line(strings.TrimSpace(raw), firstLine+i); err != nil {
			return nil, err
		}
	}
	p.closeComponent()

	if !p.hasID {
		return nil, &ParseError{Line: firstLine, Msg: "block has no element header"}
	}
	return p.record, nil
}

func (p *blockParser) line(line string, n int) error {
	switch {
	case line == "":
		return nil
	case strings.HasPrefix(line, beginElement):
		idx := strings.LastIndex(line, " #")
		if idx < 0 {
			return &ParseError{Line: n, Text: line, Msg: "element header without id"}
		}
		id, err := strconv.Atoi(line[idx+2:])
		if err != nil {
			return &ParseError{Line: n, Text: line, Msg: "invalid element id", Err: err}
		}
		p.record.ID = id
		p.hasID = true
	case strings.HasPrefix(line, endElement):
	case strings.HasPrefix(line, beginElementInfo):
		p.inInfo = true
	case strings.HasPrefix(line, endElementInfo):
		p.inInfo = false
	case strings.HasPrefix(line, beginComponent):
		p.closeComponent()
		p.component = newComponentBuilder()
	case strings.HasPrefix(line, endComponent):
		p.closeComponent()
	default:
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return &ParseError{Line: n, Text: line, Msg: "expected key=value"}
		}
		switch {
		case p.component != nil:
			if err := p.component.set(key, value); err != nil {
				return &ParseError{Line: n, Text: line, Msg: "invalid " + key, Err: err}
			}
		case p.inInfo:
			p.record.Info[key] = value
		default:
			p.record.Properties[key] = value
		}
	}
	return nil
}

func (p *blockParser) closeComponent() {
	if p.component == nil {
		return
	}
	p.record.Components = append(p.record.Components, p.component.build())
	p.component = nil
}

// componentBuilder accumulates the fields of the open component.
type componentBuilder struct {
	c types.Component
}

func newComponentBuilder() *componentBuilder {
	return &componentBuilder{c: types.Component{Fields: make(map[string]string)}}
}

func (b *componentBuilder) set(key, value string) error {
	switch key {
	case keyDisplayAt, keyPlayAt:
		mask, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		if key == keyDisplayAt {
			b.c.DisplayAt = types.Visibility(mask)
		} else {
			b.c.PlayAt = types.Visibility(mask)
		}
	case keyType:
		b.c.Type = types.ComponentType(value)
	case keyText:
		b.c.Text = value
	case keySoundFile:
		b.c.SoundFile = value
	}
	b.c.Fields[key] = value
	return nil
}

func (b *componentBuilder) build() types.Component {
	return b.c
}

func normalizeNewlines(s string) string {
	if !strings.Contains(s, "\r") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
