// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"strconv"
)

// Visibility is the bitmask SuperMemo stores in a component's DisplayAt and
// PlayAt fields. It records which side of the card shows the component.
type Visibility int

const (
	// OnQuestion marks a component shown while the question is displayed.
	OnQuestion Visibility = 0b00100000
	// OnAnswer marks a component shown once the answer is revealed.
	OnAnswer Visibility = 0b01000000
)

// Has reports whether every bit of flag is set in v.
func (v Visibility) Has(flag Visibility) bool {
	return v&flag == flag
}

// ComponentType identifies the kind of a component. Only Text and Sound are
// used by the exporter; other values are kept verbatim.
type ComponentType string

const (
	ComponentText  ComponentType = "Text"
	ComponentSound ComponentType = "Sound"
)

// Record keys the exporter relies on.
const (
	KeyParent = "Parent"
	KeyType   = "Type"
	KeyTitle  = "Title"

	// TypeItem is the Info["Type"] value of a flashcard element.
	TypeItem = "Item"

	// RootParent is the Parent value of top-level elements.
	RootParent = 0
)

// Component is one part of an element: a piece of text or a sound file,
// together with the sides of the card it is shown on.
type Component struct {
	Type ComponentType `json:"type" yaml:"type"`

	// DisplayAt applies to Text components.
	DisplayAt Visibility `json:"display_at,omitempty" yaml:"display_at,omitempty"`

	// PlayAt applies to Sound components.
	PlayAt Visibility `json:"play_at,omitempty" yaml:"play_at,omitempty"`

	Text      string `json:"text,omitempty" yaml:"text,omitempty"`
	SoundFile string `json:"sound_file,omitempty" yaml:"sound_file,omitempty"`

	// Fields holds every raw key=value pair of the component as exported,
	// including the ones decoded above.
	Fields map[string]string `json:"fields" yaml:"fields"`
}

// Record is a single SuperMemo element, either a topic or an item. Records
// refer to each other only by ID; resolve them through a Collection.
type Record struct {
	ID         int               `json:"id" yaml:"id"`
	Properties map[string]string `json:"properties" yaml:"properties"`
	Info       map[string]string `json:"info" yaml:"info"`
	Components []Component       `json:"components" yaml:"components"`
}

// MissingFieldError reports a record field that an operation requires but
// the export did not contain.
type MissingFieldError struct {
	RecordID int
	Section  string
	Key      string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("element #%d: missing %s field %q", e.RecordID, e.Section, e.Key)
}

// Parent returns the ID of the containing element, or RootParent for
// top-level elements.
func (r *Record) Parent() (int, error) {
	raw, ok := r.Properties[KeyParent]
	if !ok {
		return 0, &MissingFieldError{RecordID: r.ID, Section: "property", Key: KeyParent}
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("element #%d: invalid parent %q: %w", r.ID, raw, err)
	}
	return id, nil
}

// Type returns the element type from ElementInfo, e.g. "Item" or "Topic".
func (r *Record) Type() (string, error) {
	return r.info(KeyType)
}

// Title returns the element title from ElementInfo.
func (r *Record) Title() (string, error) {
	return r.info(KeyTitle)
}

// IsItem reports whether the record is a flashcard rather than a topic.
func (r *Record) IsItem() (bool, error) {
	t, err := r.Type()
	if err != nil {
		return false, err
	}
	return t == TypeItem, nil
}

func (r *Record) info(key string) (string, error) {
	v, ok := r.Info[key]
	if !ok {
		return "", &MissingFieldError{RecordID: r.ID, Section: "info", Key: key}
	}
	return v, nil
}

// QuestionText returns the first Text component shown on both sides.
func (r *Record) QuestionText() (string, bool) {
	return r.findText(func(v Visibility) bool {
		return v.Has(OnQuestion) && v.Has(OnAnswer)
	})
}

// AnswerText returns the first Text component shown on the answer side only.
func (r *Record) AnswerText() (string, bool) {
	return r.findText(func(v Visibility) bool {
		return v.Has(OnAnswer) && !v.Has(OnQuestion)
	})
}

// QuestionSound returns the sound file of the first Sound component played
// with the question.
func (r *Record) QuestionSound() (string, bool) {
	return r.findSound(OnQuestion)
}

// AnswerSound returns the sound file of the first Sound component played
// with the answer.
func (r *Record) AnswerSound() (string, bool) {
	return r.findSound(OnAnswer)
}

func (r *Record) findText(match func(Visibility) bool) (string, bool) {
	for _, c := range r.Components {
		if c.Type == ComponentText && match(c.DisplayAt) {
			return c.Text, true
		}
	}
	return "", false
}

func (r *Record) findSound(side Visibility) (string, bool) {
	for _, c := range r.Components {
		if c.Type == ComponentSound && c.PlayAt.Has(side) {
			return c.SoundFile, true
		}
	}
	return "", false
}

// Collection maps element IDs to records. It iterates in the order each ID
// first appeared; adding an existing ID replaces the record in place.
type Collection struct {
	records map[int]*Record
	order   []int
}

// NewCollection returns an empty collection.
func NewCollection() *Collection {
	return &Collection{records: make(map[int]*Record)}
}

// Add stores r under its ID, replacing any earlier record with the same ID.
func (c *Collection) Add(r *Record) {
	if _, ok := c.records[r.ID]; !ok {
		c.order = append(c.order, r.ID)
	}
	c.records[r.ID] = r
}

// Get returns the record with the given ID.
func (c *Collection) Get(id int) (*Record, bool) {
	r, ok := c.records[id]
	return r, ok
}

// Len returns the number of distinct IDs.
func (c *Collection) Len() int {
	return len(c.order)
}

// Records returns all records in iteration order.
func (c *Collection) Records() []*Record {
	out := make([]*Record, len(c.order))
	for i, id := range c.order {
		out[i] = c.records[id]
	}
	return out
}

// Card is one exported flashcard: the three Anki import fields plus the
// rendered line.
type Card struct {
	RecordID int    `json:"record_id" yaml:"record_id"`
	Question string `json:"question" yaml:"question"`
	Answer   string `json:"answer" yaml:"answer"`
	Tags     string `json:"tags" yaml:"tags"`
	Line     string `json:"line" yaml:"line"`
}
