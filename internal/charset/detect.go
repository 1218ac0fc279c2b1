package charset

import (
	"bytes"
	"unicode/utf8"
)

// Charset is the canonical (WHATWG) name of a text encoding.
type Charset string

const (
	UTF8        Charset = "utf-8"
	UTF16LE     Charset = "utf-16le"
	UTF16BE     Charset = "utf-16be"
	UTF32LE     Charset = "utf-32le"
	UTF32BE     Charset = "utf-32be"
	Windows1252 Charset = "windows-1252"
)

// Reasons recorded in Detection.Reason.
const (
	ReasonBOM        = "byte-order mark"
	ReasonNULPattern = "utf-16 nul pattern"
	ReasonValidUTF8  = "valid utf-8"
	ReasonMostlyUTF8 = "mostly utf-8"
	ReasonFallback   = "single-byte fallback"
	ReasonForced     = "forced"
)

// sampleSize bounds the prefix inspected by the UTF-16 and binary heuristics.
const sampleSize = 4096

// Detection describes the decoder chosen for a buffer.
type Detection struct {
	Charset   Charset
	BOMLength int // leading bytes to drop before decoding
	Reason    string
}

// Wide reports whether the charset uses multi-byte code units, where NUL
// bytes are expected in ordinary text.
func (d Detection) Wide() bool {
	switch d.Charset {
	case UTF16LE, UTF16BE, UTF32LE, UTF32BE:
		return true
	}
	return false
}

// LooksBinary reports whether raw carries a NUL byte in its first 8 KiB that
// the detected charset does not explain.
func LooksBinary(raw []byte, d Detection) bool {
	if d.Wide() {
		return false
	}
	head := raw
	if len(head) > 2*sampleSize {
		head = head[:2*sampleSize]
	}
	return bytes.IndexByte(head, 0) >= 0
}

// boms is ordered so that UTF-32LE wins over its UTF-16LE prefix.
var boms = []struct {
	prefix  []byte
	charset Charset
}{
	{[]byte{0xFF, 0xFE, 0x00, 0x00}, UTF32LE},
	{[]byte{0x00, 0x00, 0xFE, 0xFF}, UTF32BE},
	{[]byte{0xEF, 0xBB, 0xBF}, UTF8},
	{[]byte{0xFF, 0xFE}, UTF16LE},
	{[]byte{0xFE, 0xFF}, UTF16BE},
}

// Detect picks a decoder for raw. It is a pure function of the input bytes.
func Detect(raw []byte) Detection {
	if d, ok := sniffBOM(raw); ok {
		return d
	}
	if cs, ok := guessUTF16(sample(raw)); ok {
		return Detection{Charset: cs, Reason: ReasonNULPattern}
	}
	if utf8.Valid(raw) {
		return Detection{Charset: UTF8, Reason: ReasonValidUTF8}
	}
	if mostlyUTF8(raw) {
		return Detection{Charset: UTF8, Reason: ReasonMostlyUTF8}
	}
	return Detection{Charset: Windows1252, Reason: ReasonFallback}
}

func sniffBOM(raw []byte) (Detection, bool) {
	for _, b := range boms {
		if bytes.HasPrefix(raw, b.prefix) {
			return Detection{Charset: b.charset, BOMLength: len(b.prefix), Reason: ReasonBOM}, true
		}
	}
	return Detection{}, false
}

func sample(raw []byte) []byte {
	if len(raw) > sampleSize {
		return raw[:sampleSize]
	}
	return raw
}

// guessUTF16 looks for BOM-less UTF-16: mostly-Latin text encoded as UTF-16
// has a NUL in the high byte of most code units. At least 30% of units must
// carry a NUL on one side and fewer than 5% on the other.
func guessUTF16(s []byte) (Charset, bool) {
	units := len(s) / 2
	if units == 0 {
		return "", false
	}
	var evenNUL, oddNUL int
	for i := 0; i+1 < len(s); i += 2 {
		if s[i] == 0 {
			evenNUL++
		}
		if s[i+1] == 0 {
			oddNUL++
		}
	}
	switch {
	case oddNUL*10 >= units*3 && evenNUL*20 < units:
		return UTF16LE, true
	case evenNUL*10 >= units*3 && oddNUL*20 < units:
		return UTF16BE, true
	}
	return "", false
}

// mostlyUTF8 reports whether raw holds more well-formed multi-byte UTF-8
// sequences than invalid bytes. Such input is UTF-8 with damage, not a
// legacy single-byte encoding.
func mostlyUTF8(raw []byte) bool {
	var multi, invalid int
	for i := 0; i < len(raw); {
		if raw[i] < utf8.RuneSelf {
			i++
			continue
		}
		r, size := utf8.DecodeRune(raw[i:])
		if r == utf8.RuneError && size == 1 {
			invalid++
		} else {
			multi++
		}
		i += size
	}
	return multi > invalid
}
