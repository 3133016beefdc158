package normalize

// decode.go converts raw upload bytes to text.
//
// Exports produced on Windows machines routinely arrive as latin-1 or cp1252
// instead of UTF-8. Decoding tries each candidate in order and the first one
// that succeeds wins; the final fallback substitutes U+FFFD for invalid bytes,
// so a badly encoded file never aborts a batch.

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Encoding names reported in results.
const (
	EncodingUTF8        = "utf-8"
	EncodingLatin1      = "latin-1"
	EncodingCP1252      = "cp1252"
	EncodingUTF8Replace = "utf-8 (replaced)"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type candidate struct {
	name string
	enc  encoding.Encoding
}

// fallbacks are tried in order after strict UTF-8 fails.
var fallbacks = []candidate{
	{EncodingLatin1, charmap.ISO8859_1},
	{EncodingCP1252, charmap.Windows1252},
}

// Decode returns content as a UTF-8 string without a leading byte-order mark,
// together with the name of the encoding that produced it.
func Decode(content []byte) (string, string) {
	content = bytes.TrimPrefix(content, utf8BOM)

	if utf8.Valid(content) {
		return stripBOM(string(content)), EncodingUTF8
	}

	for _, c := range fallbacks {
		out, _, err := transform.Bytes(c.enc.NewDecoder(), content)
		if err != nil || !utf8.Valid(out) {
			continue
		}
		return stripBOM(string(out)), c.name
	}

	return stripBOM(strings.ToValidUTF8(string(content), "\uFFFD")), EncodingUTF8Replace
}

func stripBOM(s string) string {
	return strings.TrimPrefix(s, "\uFEFF")
}
