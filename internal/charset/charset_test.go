package charset

import (
	"math/rand/v2"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name    string
		raw     []byte
		charset Charset
		bom     int
		reason  string
	}{
		{"empty", nil, UTF8, 0, ReasonValidUTF8},
		{"ascii", []byte("plain text\n"), UTF8, 0, ReasonValidUTF8},
		{"utf-8 multibyte", []byte("héllo wörld\n"), UTF8, 0, ReasonValidUTF8},
		{"utf-8 bom", []byte("\xEF\xBB\xBFabc"), UTF8, 3, ReasonBOM},
		{"utf-16le bom", []byte{0xFF, 0xFE, 'h', 0, 'i', 0}, UTF16LE, 2, ReasonBOM},
		{"utf-16be bom", []byte{0xFE, 0xFF, 0, 'h', 0, 'i'}, UTF16BE, 2, ReasonBOM},
		{"utf-32le bom wins over utf-16le", []byte{0xFF, 0xFE, 0, 0, 'a', 0, 0, 0}, UTF32LE, 4, ReasonBOM},
		{"utf-32be bom", []byte{0, 0, 0xFE, 0xFF, 0, 0, 0, 'a'}, UTF32BE, 4, ReasonBOM},
		{"bom-less utf-16le", []byte{'a', 0, '\n', 0, 'b', 0}, UTF16LE, 0, ReasonNULPattern},
		{"bom-less utf-16be", []byte{0, 'a', 0, '\n', 0, 'b'}, UTF16BE, 0, ReasonNULPattern},
		{"damaged utf-8", []byte("héllo wörld ü \xff"), UTF8, 0, ReasonMostlyUTF8},
		{"windows-1252", []byte("h\xe9llo\nworld\nh\xe9llo"), Windows1252, 0, ReasonFallback},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Detect(tt.raw)
			assert.Equal(t, tt.charset, d.Charset)
			assert.Equal(t, tt.bom, d.BOMLength)
			assert.Equal(t, tt.reason, d.Reason)
		})
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
		want string
	}{
		{"empty", []byte{}, ""},
		{"utf-8 bom stripped", []byte("\xEF\xBB\xBFabc"), "abc"},
		{"utf-16le bom", []byte{0xFF, 0xFE, 'h', 0, 'i', 0}, "hi"},
		{"utf-16be bom", []byte{0xFE, 0xFF, 0, 'h', 0, 'i'}, "hi"},
		{"bom-less utf-16le", []byte{'a', 0, '\n', 0, 'b', 0}, "a\nb"},
		{"utf-32le bom", []byte{0xFF, 0xFE, 0, 0, 'a', 0, 0, 0}, "a"},
		{"windows-1252", []byte("h\xe9llo\nworld\nh\xe9llo"), "héllo\nworld\nhéllo"},
		{"windows-1252 smart quotes", []byte("\x93quoted\x94"), "“quoted”"},
		{"damaged utf-8 keeps good runes", []byte("héllo wörld ü \xff"), "héllo wörld ü �"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := Decode(tt.raw)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecode_TruncatedUTF16(t *testing.T) {
	got, d := Decode([]byte{0xFF, 0xFE, 'a', 0, 'b'})
	assert.Equal(t, UTF16LE, d.Charset)
	assert.True(t, utf8.ValidString(got))
	assert.True(t, strings.HasPrefix(got, "a"), "got %q", got)
}

func TestDecode_NeverInvalid(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 2000; i++ {
		raw := make([]byte, rng.IntN(512))
		for j := range raw {
			raw[j] = byte(rng.UintN(256))
		}
		got, _ := Decode(raw)
		require.True(t, utf8.ValidString(got), "iteration %d produced invalid UTF-8 for %x", i, raw)
	}
}

func TestLookup(t *testing.T) {
	tests := []struct {
		label   string
		want    Charset
		wantErr bool
	}{
		{"utf-8", UTF8, false},
		{"UTF8", UTF8, false},
		{"latin1", Windows1252, false},
		{"cp1252", Windows1252, false},
		{"UTF-16", UTF16LE, false},
		{"utf-16be", UTF16BE, false},
		{"utf-32le", UTF32LE, false},
		{"shift_jis", Charset("shift_jis"), false},
		{"klingon", "", true},
		{"iso-2022-kr", "", true},
		{"hz-gb-2312", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, err := Lookup(tt.label)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeWith(t *testing.T) {
	got, d, err := DecodeWith([]byte("caf\xe9"), "latin1")
	require.NoError(t, err)
	assert.Equal(t, "café", got)
	assert.Equal(t, ReasonForced, d.Reason)

	got, d, err = DecodeWith([]byte("\xEF\xBB\xBFx"), "utf-8")
	require.NoError(t, err)
	assert.Equal(t, "x", got)
	assert.Equal(t, 3, d.BOMLength)

	// Forcing UTF-8 onto Latin-1 bytes is lossy but still valid.
	got, _, err = DecodeWith([]byte("caf\xe9"), "utf-8")
	require.NoError(t, err)
	assert.Equal(t, "caf�", got)

	_, _, err = DecodeWith([]byte("x"), "nope")
	assert.Error(t, err)
}

func TestLooksBinary(t *testing.T) {
	assert.True(t, LooksBinary([]byte("abc\x00def"), Detection{Charset: UTF8}))
	assert.False(t, LooksBinary([]byte("abc\x00def"), Detection{Charset: UTF16LE}))
	assert.False(t, LooksBinary([]byte("plain"), Detection{Charset: UTF8}))
}
