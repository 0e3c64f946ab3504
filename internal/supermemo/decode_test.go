// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package supermemo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		encoding string
		want     string
		errMsg   string
	}{
		{
			name: "utf-8 default",
			data: []byte("Title=Café"),
			want: "Title=Café",
		},
		{
			name:     "utf-8 strips byte order mark",
			data:     append([]byte{0xEF, 0xBB, 0xBF}, "Parent=0"...),
			encoding: "UTF-8",
			want:     "Parent=0",
		},
		{
			name:     "windows-1252",
			data:     []byte{'T', 'i', 't', 'l', 'e', '=', 'C', 'a', 'f', 0xE9, ' ', 0x80},
			encoding: "windows-1252",
			want:     "Title=Café €",
		},
		{
			name:     "latin1",
			data:     []byte{'G', 'r', 0xFC, 0xDF, 'e'},
			encoding: "iso-8859-1",
			want:     "Grüße",
		},
		{
			name:     "utf-16 little endian with bom",
			data:     []byte{0xFF, 0xFE, 'I', 0, 't', 0, 'e', 0, 'm', 0},
			encoding: "utf-16",
			want:     "Item",
		},
		{
			name:     "utf-16 big endian with bom",
			data:     []byte{0xFE, 0xFF, 0, 'I', 0, 't', 0, 'e', 0, 'm'},
			encoding: "utf-16",
			want:     "Item",
		},
		{
			name:     "unknown encoding",
			data:     []byte("x"),
			encoding: "ebcdic",
			errMsg:   "unsupported encoding",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.data, tt.encoding)
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
