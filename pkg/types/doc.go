// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the data structures shared by the sm2anki pipeline:
// parsed SuperMemo elements (Record, Component, Collection), exported Anki
// cards, and the configuration of each stage.
package types
