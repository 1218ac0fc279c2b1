package charset

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
	"golang.org/x/text/transform"
)

const replacement = string(utf8.RuneError)

// Decode detects the encoding of raw and returns it as valid UTF-8.
func Decode(raw []byte) (string, Detection) {
	d := Detect(raw)
	return decode(raw, d), d
}

// DecodeWith decodes raw as the encoding named by label, skipping detection.
// A BOM for the same encoding is still dropped. The only error is an unknown
// label.
func DecodeWith(raw []byte, label string) (string, Detection, error) {
	cs, err := Lookup(label)
	if err != nil {
		return "", Detection{}, err
	}
	d := Detection{Charset: cs, Reason: ReasonForced}
	if bom, ok := sniffBOM(raw); ok && bom.Charset == cs {
		d.BOMLength = bom.BOMLength
	}
	return decode(raw, d), d, nil
}

// Lookup resolves a WHATWG/IANA label ("latin1", "UTF-16", "cp1252") to its
// canonical Charset. UTF-32 labels are accepted too.
func Lookup(label string) (Charset, error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "utf-32le", "utf32le":
		return UTF32LE, nil
	case "utf-32be", "utf32be", "utf-32", "utf32":
		return UTF32BE, nil
	}
	e, err := htmlindex.Get(label)
	if err != nil {
		return "", fmt.Errorf("unknown encoding %q", label)
	}
	name, err := htmlindex.Name(e)
	// "replacement" decodes every input to a single U+FFFD.
	if err != nil || name == "replacement" {
		return "", fmt.Errorf("unknown encoding %q", label)
	}
	return Charset(name), nil
}

// decoder returns the x/text encoding for c, falling back to UTF-8.
func (c Charset) decoder() *encoding.Decoder {
	var e encoding.Encoding
	switch c {
	case UTF8:
		e = unicode.UTF8
	case UTF16LE:
		e = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
	case UTF16BE:
		e = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	case UTF32LE:
		e = utf32.UTF32(utf32.LittleEndian, utf32.IgnoreBOM)
	case UTF32BE:
		e = utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM)
	case Windows1252:
		e = charmap.Windows1252
	default:
		found, err := htmlindex.Get(string(c))
		if err != nil {
			found = unicode.UTF8
		}
		e = found
	}
	return e.NewDecoder()
}

// decode never fails. A transformer error falls back to a lossy UTF-8 view of
// the bytes, and the result is re-validated before returning.
func decode(raw []byte, d Detection) string {
	body := raw[min(d.BOMLength, len(raw)):]
	if len(body) == 0 {
		return ""
	}
	out, _, err := transform.Bytes(d.Charset.decoder(), body)
	if err != nil {
		return strings.TrimPrefix(strings.ToValidUTF8(string(body), replacement), "\uFEFF")
	}
	text := string(out)
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, replacement)
	}
	return strings.TrimPrefix(text, "\uFEFF")
}
