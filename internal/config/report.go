package config

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
)

const (
	// ReportFormatText renders "<ctime> [<ip>:<port>] <payload>" lines.
	ReportFormatText = "text"
	// ReportFormatJSON renders one JSON object per datagram.
	ReportFormatJSON = "json"

	// DecoderText decodes payloads from Charset with lossy replacement.
	DecoderText = "text"
	// DecoderEscape escapes non printable bytes.
	DecoderEscape = "escape"
	// DecoderHex renders payloads as hex.
	DecoderHex = "hex"
	// DecoderWLED summarises WLED realtime frames.
	DecoderWLED = "wled"

	// DefaultCharset is the default payload character set.
	DefaultCharset = "utf-8"
)

var (
	errInvalidReportFormat = errors.New("invalid report format")
	errInvalidDecoder      = errors.New("invalid decoder")
	errInvalidCharset      = errors.New("invalid charset")
)

// Report contains configuration for rendering received datagrams.
type Report struct {
	// Format is the report line format, one of text|json.
	Format string `mapstructure:"format" yaml:"format,omitempty"`

	// Decoder selects how payload bytes are rendered, one of text|escape|hex|wled.
	Decoder string `mapstructure:"decoder" yaml:"decoder,omitempty"`

	// Charset is the WHATWG label of the payload encoding used by the text decoder.
	Charset string `mapstructure:"charset" yaml:"charset,omitempty"`

	// TimeLayout is a Go time layout for the text format timestamp. Empty
	// selects the ctime layout.
	TimeLayout string `mapstructure:"timeLayout" yaml:"timeLayout,omitempty"`
}

// Validate validates the report configuration.
func (r *Report) Validate() error {
	switch strings.ToLower(strings.TrimSpace(r.Format)) {
	case "", ReportFormatText, ReportFormatJSON:
	default:
		return fmt.Errorf("%w: %s, must be one of: text, json", errInvalidReportFormat, r.Format)
	}

	switch strings.ToLower(strings.TrimSpace(r.Decoder)) {
	case "", DecoderText, DecoderEscape, DecoderHex, DecoderWLED:
	default:
		return fmt.Errorf("%w: %s, must be one of: text, escape, hex, wled", errInvalidDecoder, r.Decoder)
	}

	if r.Charset != "" {
		if _, err := htmlindex.Get(r.Charset); err != nil {
			return fmt.Errorf("%w: %s", errInvalidCharset, r.Charset)
		}
	}

	return nil
}
