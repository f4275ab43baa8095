package csvimport

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// FallbackEncoding resolves the configured fallback encoding name. An empty
// name means non-UTF-8 input is rejected.
func FallbackEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return nil, nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252, nil
	default:
		return nil, fmt.Errorf("unsupported fallback encoding %q", name)
	}
}

// DecodeToUTF8 returns the input as UTF-8 without a byte order mark.
// UTF-16 input is recognised by its BOM. Anything else that is not valid
// UTF-8 is decoded with fallback, or rejected with ErrInvalidEncoding when
// fallback is nil.
func DecodeToUTF8(data []byte, fallback encoding.Encoding) ([]byte, error) {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		data = data[len(bomUTF8):]
	case bytes.HasPrefix(data, bomUTF16LE):
		return decodeWith(unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM), data)
	case bytes.HasPrefix(data, bomUTF16BE):
		return decodeWith(unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM), data)
	}

	if utf8.Valid(data) {
		return data, nil
	}
	if fallback == nil {
		return nil, ErrInvalidEncoding
	}
	return decodeWith(fallback, data)
}

func decodeWith(enc encoding.Encoding, data []byte) ([]byte, error) {
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return nil, ErrInvalidEncoding.WithDetail("cause", err.Error())
	}
	return out, nil
}
