// Package charset converts byte buffers of unknown encoding into valid
// UTF-8 text. Decoding never fails: invalid sequences become U+FFFD.
//
// Types:
//   - Charset (canonical encoding name: utf-8, utf-16le, windows-1252, ...)
//   - Detection (chosen charset, BOM length, and the rule that picked it)
//
// Functions:
//   - Detect(raw) → Detection
//     BOM sniffing, then a UTF-16 NUL-pattern heuristic, then UTF-8
//     validity, then a mostly-UTF-8 ratio, then Windows-1252.
//   - Decode(raw) → (string, Detection)
//   - DecodeWith(raw, label) → (string, Detection, error)
//     Forced decoding by WHATWG/IANA label; only the label can be wrong.
//   - Lookup(label) → (Charset, error)
package charset
