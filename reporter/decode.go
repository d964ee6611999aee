package reporter

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// DecoderMode selects how payload bytes are rendered.
type DecoderMode string

const (
	// DecoderModeText decodes the payload from a character set, replacing
	// invalid sequences with U+FFFD and escaping control characters.
	DecoderModeText DecoderMode = "text"
	// DecoderModeEscape renders printable ASCII as is and escapes everything else.
	DecoderModeEscape DecoderMode = "escape"
	// DecoderModeHex renders the payload as lowercase hex.
	DecoderModeHex DecoderMode = "hex"
	// DecoderModeWLED summarises WLED realtime UDP frames.
	DecoderModeWLED DecoderMode = "wled"
)

// DefaultCharset is used by the text decoder when no charset is configured.
const DefaultCharset = "utf-8"

var errUnknownDecoderMode = errors.New("unknown decoder mode")

// Decoder turns payload bytes into printable text. A Decoder is not safe
// for concurrent use.
type Decoder struct {
	mode    DecoderMode
	charset string
	enc     encoding.Encoding
	isUTF8  bool
}

// NewDecoder returns a Decoder for mode. charset is only used by the text
// mode and accepts any WHATWG encoding label, e.g. "utf-8" or "latin1".
func NewDecoder(mode DecoderMode, charset string) (*Decoder, error) {
	if mode == "" {
		mode = DecoderModeText
	}

	d := &Decoder{mode: mode}
	switch mode {
	case DecoderModeText:
		if charset == "" {
			charset = DefaultCharset
		}
		enc, err := htmlindex.Get(charset)
		if err != nil {
			return nil, fmt.Errorf("lookup charset %q: %w", charset, err)
		}
		name, err := htmlindex.Name(enc)
		if err != nil {
			return nil, fmt.Errorf("canonical name for charset %q: %w", charset, err)
		}
		d.enc = enc
		d.charset = name
		d.isUTF8 = name == DefaultCharset
	case DecoderModeEscape, DecoderModeHex, DecoderModeWLED:
	default:
		return nil, fmt.Errorf("%w: %s", errUnknownDecoderMode, mode)
	}

	return d, nil
}

// Mode returns the decoder mode.
func (d *Decoder) Mode() DecoderMode {
	return d.mode
}

// Decode renders payload. The returned warning is non-nil when the payload
// could not be decoded cleanly and a fallback rendering was used.
func (d *Decoder) Decode(payload []byte) (string, *DecodeWarning) {
	switch d.mode {
	case DecoderModeEscape:
		return escapeBytes(payload), nil
	case DecoderModeHex:
		return hex.EncodeToString(payload), nil
	case DecoderModeWLED:
		if text, ok := decodeWLED(payload); ok {
			return text, nil
		}
		return escapeBytes(payload), &DecodeWarning{Mode: d.mode, Offset: 0}
	default:
		return d.decodeText(payload)
	}
}

// decodeText keeps printable text as is and escapes control characters so a
// datagram always renders on a single line.
func (d *Decoder) decodeText(payload []byte) (string, *DecodeWarning) {
	if d.isUTF8 {
		offset := invalidUTF8Offset(payload)
		if offset < 0 {
			return escapeControls(payload), nil
		}
		text, err := d.enc.NewDecoder().Bytes(payload)
		if err != nil {
			return escapeBytes(payload), &DecodeWarning{Mode: d.mode, Offset: offset}
		}
		return escapeControls(text), &DecodeWarning{Mode: d.mode, Offset: offset}
	}

	text, err := d.enc.NewDecoder().Bytes(payload)
	if err != nil {
		return escapeBytes(payload), &DecodeWarning{Mode: d.mode, Offset: 0}
	}
	// Legacy decoders substitute U+FFFD for bytes they cannot map.
	if i := bytes.IndexRune(text, utf8.RuneError); i >= 0 {
		return escapeControls(text), &DecodeWarning{Mode: d.mode, Offset: i}
	}
	return escapeControls(text), nil
}

// escapeControls escapes the backslash, C0 controls and DEL in UTF-8 text.
// Everything else, non-ASCII included, is kept verbatim.
func escapeControls(text []byte) string {
	var sb strings.Builder
	sb.Grow(len(text))
	for _, c := range text {
		switch {
		case c == '\\':
			sb.WriteString(`\\`)
		case c == '\t':
			sb.WriteString(`\t`)
		case c == '\n':
			sb.WriteString(`\n`)
		case c == '\r':
			sb.WriteString(`\r`)
		case c < 0x20 || c == 0x7f:
			fmt.Fprintf(&sb, `\x%02x`, c)
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

// invalidUTF8Offset returns the offset of the first invalid byte, or -1.
func invalidUTF8Offset(b []byte) int {
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return -1
}

// escapeBytes renders printable ASCII as is and everything else as a backslash
// escape. A single quote is escaped only when the payload holds both quote kinds.
func escapeBytes(b []byte) string {
	escapeQuote := bytes.IndexByte(b, '\'') >= 0 && bytes.IndexByte(b, '"') >= 0

	var sb strings.Builder
	sb.Grow(len(b))
	for _, c := range b {
		switch {
		case c == '\\':
			sb.WriteString(`\\`)
		case c == '\'' && escapeQuote:
			sb.WriteString(`\'`)
		case c == '\t':
			sb.WriteString(`\t`)
		case c == '\n':
			sb.WriteString(`\n`)
		case c == '\r':
			sb.WriteString(`\r`)
		case c < 0x20 || c >= 0x7f:
			fmt.Fprintf(&sb, `\x%02x`, c)
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}
