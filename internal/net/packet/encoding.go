package packet

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

// DefaultEncoding is the text encoding of packet strings unless configured.
var DefaultEncoding encoding.Encoding = unicode.UTF8

// EncodingByName resolves a WHATWG encoding label such as "utf-8" or "big5".
// An empty name selects DefaultEncoding.
func EncodingByName(name string) (encoding.Encoding, error) {
	if strings.TrimSpace(name) == "" {
		return DefaultEncoding, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("packet string encoding %q: %w", name, err)
	}
	return enc, nil
}

func isASCII(b []byte) bool {
	for _, c := range b {
		if c >= 0x80 {
			return false
		}
	}
	return true
}
