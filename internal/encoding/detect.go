// Package encoding normalizes price-list uploads to UTF-8. Catalog
// exports come from spreadsheets and legacy POS tools that write
// Windows-1252 or UTF-16, so the importer cannot assume anything
// about the bytes it is handed.
package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const sniffLen = 4096

var boms = []struct {
	prefix  []byte
	decoder func() transform.Transformer
}{
	// A UTF-8 BOM means plain passthrough once the marker is gone.
	{[]byte{0xEF, 0xBB, 0xBF}, nil},
	{[]byte{0xFF, 0xFE}, func() transform.Transformer {
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
	}},
	{[]byte{0xFE, 0xFF}, func() transform.Transformer {
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()
	}},
}

// NewUTF8Reader wraps r so its content reads back as UTF-8. It checks
// for a BOM first, then accepts valid UTF-8 as-is, then falls back to
// charset sniffing, and finally assumes Windows-1252, which is what
// the spreadsheet exports around here actually are when nothing else
// matches.
func NewUTF8Reader(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)

	head, err := br.Peek(sniffLen)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("peek: %w", err)
	}

	for _, bom := range boms {
		if !bytes.HasPrefix(head, bom.prefix) {
			continue
		}

		if bom.decoder == nil {
			_, _ = br.Discard(len(bom.prefix))
			return br, nil
		}

		return transform.NewReader(br, bom.decoder()), nil
	}

	if utf8.Valid(head) {
		return br, nil
	}

	if result, err := chardet.NewTextDetector().DetectBest(head); err == nil {
		switch result.Charset {
		case "UTF-8":
			return br, nil
		case "ISO-8859-1", "windows-1252":
			return transform.NewReader(br, charmap.Windows1252.NewDecoder()), nil
		case "ISO-8859-15":
			return transform.NewReader(br, charmap.ISO8859_15.NewDecoder()), nil
		}
	}

	return transform.NewReader(br, charmap.Windows1252.NewDecoder()), nil
}
