// Package encoding normalises bank exports of unknown charset to UTF-8.
package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// sniffSize is how much of the input is inspected before choosing a decoder.
const sniffSize = 4096

type Charset string

const (
	UTF8        Charset = "UTF-8"
	UTF16LE     Charset = "UTF-16LE"
	UTF16BE     Charset = "UTF-16BE"
	Windows1252 Charset = "windows-1252"
	ISO8859_9   Charset = "ISO-8859-9"
)

var boms = []struct {
	prefix  []byte
	charset Charset
}{
	{[]byte{0xEF, 0xBB, 0xBF}, UTF8},
	{[]byte{0xFF, 0xFE}, UTF16LE},
	{[]byte{0xFE, 0xFF}, UTF16BE},
}

// Decode returns a UTF-8 view of r together with the charset it was read as.
// A BOM wins; otherwise valid UTF-8 passes through, chardet gets a vote and
// anything undecided is treated as Windows-1252, the usual bank export charset.
func Decode(r io.Reader) (io.Reader, Charset, error) {
	br := bufio.NewReaderSize(r, sniffSize)

	head, err := br.Peek(sniffSize)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, "", fmt.Errorf("peeking input: %w", err)
	}

	for _, bom := range boms {
		if !bytes.HasPrefix(head, bom.prefix) {
			continue
		}

		if bom.charset == UTF8 {
			_, _ = br.Discard(len(bom.prefix))
			return br, UTF8, nil
		}

		return transform.NewReader(br, decoderFor(bom.charset)), bom.charset, nil
	}

	if validUTF8(head, err == nil) {
		return br, UTF8, nil
	}

	cs := Windows1252

	if res, err := chardet.NewTextDetector().DetectBest(head); err == nil {
		switch res.Charset {
		case "UTF-8":
			return br, UTF8, nil
		case "ISO-8859-9":
			cs = ISO8859_9
		}
	}

	return transform.NewReader(br, decoderFor(cs)), cs, nil
}

// NewUTF8Reader is Decode without the charset.
func NewUTF8Reader(r io.Reader) (io.Reader, error) {
	out, _, err := Decode(r)
	return out, err
}

func decoderFor(cs Charset) *encoding.Decoder {
	switch cs {
	case UTF16LE:
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
	case UTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()
	case ISO8859_9:
		return charmap.ISO8859_9.NewDecoder()
	}

	return charmap.Windows1252.NewDecoder()
}

// validUTF8 tolerates a multi-byte rune cut off at the end of a full sniff window.
func validUTF8(head []byte, truncated bool) bool {
	if !truncated {
		return utf8.Valid(head)
	}

	for i := 0; i < utf8.UTFMax && len(head) > 0; i++ {
		if utf8.Valid(head) {
			return true
		}

		head = head[:len(head)-1]
	}

	return false
}
