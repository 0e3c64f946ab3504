// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package supermemo

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/pdiddy/sm2anki/pkg/types"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Decode converts the raw bytes of an export file into text. SuperMemo for
// Windows writes exports in the system code page or UTF-16 depending on the
// version, so the caller names the encoding; an empty name means UTF-8.
func Decode(data []byte, enc string) (string, error) {
	name := strings.ToLower(strings.TrimSpace(enc))
	if name == "" || name == types.EncodingUTF8 || name == "utf8" {
		return string(bytes.TrimPrefix(data, utf8BOM)), nil
	}

	var dec encoding.Encoding
	switch name {
	case types.EncodingWindows1252, "cp1252":
		dec = charmap.Windows1252
	case types.EncodingLatin1, "latin1":
		dec = charmap.ISO8859_1
	case types.EncodingUTF16, "utf16":
		dec = unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)
	default:
		return "", fmt.Errorf("unsupported encoding %q: use utf-8, utf-16, windows-1252, or iso-8859-1", enc)
	}

	out, err := dec.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decoding %s input: %w", name, err)
	}
	return string(out), nil
}
