// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Encoding names accepted by the input decoder.
const (
	EncodingUTF8        = "utf-8"
	EncodingUTF16       = "utf-16"
	EncodingWindows1252 = "windows-1252"
	EncodingLatin1      = "iso-8859-1"
)

// ExportConfig holds settings for turning records into Anki lines.
type ExportConfig struct {
	// MediaDir is the full path of the collection's media directory,
	// including the trailing separator (e.g. "D:/SM/SYSTEMS/Math/elements/").
	// It is stripped from sound file paths.
	MediaDir string `json:"media_dir" yaml:"media_dir"`

	// Workers is the number of records exported concurrently. Values below
	// 2 export sequentially.
	Workers int `json:"workers" yaml:"workers"`
}

// ConversionConfig holds settings for a single convert run.
type ConversionConfig struct {
	ExportConfig `yaml:",inline"`

	// Source is the SuperMemo export file.
	Source string `json:"source" yaml:"source"`

	// Target is the Anki import file; it is overwritten.
	Target string `json:"target" yaml:"target"`

	// Encoding is the character encoding of Source (default utf-8).
	Encoding string `json:"encoding" yaml:"encoding"`
}

// CatalogConfig holds settings for the card catalog.
type CatalogConfig struct {
	// CatalogDir is the directory holding the catalog database.
	CatalogDir string `json:"catalog_dir" yaml:"catalog_dir"`

	// MaxResults is the default maximum number of cards returned (default 1000).
	MaxResults int `json:"max_results" yaml:"max_results"`
}
