package dataset

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// Encoding names the character encoding of a dataset file.
type Encoding string

const (
	// EncodingWindows1252 decodes each byte through the Windows-1252 code page.
	EncodingWindows1252 Encoding = "windows-1252"
	// EncodingUTF8 reads the file as UTF-8.
	EncodingUTF8 Encoding = "utf-8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ParseEncoding accepts the common spellings of the supported encodings.
func ParseEncoding(name string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "cp1252", "windows-1252", "windows1252":
		return EncodingWindows1252, nil
	case "utf-8", "utf8":
		return EncodingUTF8, nil
	}
	return "", fmt.Errorf("unsupported dataset encoding %q", name)
}

// decoder drops a leading UTF-8 byte order mark in either encoding.
func (e Encoding) decoder(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)
	if prefix, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(prefix, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	r = br

	switch e {
	case EncodingWindows1252:
		return charmap.Windows1252.NewDecoder().Reader(r), nil
	case EncodingUTF8:
		return r, nil
	}
	return nil, fmt.Errorf("unsupported dataset encoding %q", string(e))
}
