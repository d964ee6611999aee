package reporter

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewDecoder(t *testing.T) {
	d, err := NewDecoder("", "")
	require.NoError(t, err)
	require.Equal(t, DecoderModeText, d.Mode())
	require.Equal(t, "utf-8", d.charset)

	d, err = NewDecoder(DecoderModeText, "latin1")
	require.NoError(t, err)
	require.Equal(t, "windows-1252", d.charset)

	_, err = NewDecoder(DecoderModeText, "klingon")
	require.Error(t, err)

	_, err = NewDecoder("base64", "")
	require.ErrorIs(t, err, errUnknownDecoderMode)
}

func TestDecoder_Decode(t *testing.T) {
	tests := []struct {
		name        string
		mode        DecoderMode
		charset     string
		payload     []byte
		want        string
		wantWarning bool
		wantOffset  int
	}{
		{
			name:    "utf-8 text",
			mode:    DecoderModeText,
			payload: []byte("hello"),
			want:    "hello",
		},
		{
			name:    "utf-8 multibyte",
			mode:    DecoderModeText,
			payload: []byte("héllo wörld"),
			want:    "héllo wörld",
		},
		{
			name:    "empty payload",
			mode:    DecoderModeText,
			payload: []byte{},
			want:    "",
		},
		{
			name:    "trailing newline is escaped",
			mode:    DecoderModeText,
			payload: []byte("hello\n"),
			want:    `hello\n`,
		},
		{
			name:    "embedded crlf is escaped",
			mode:    DecoderModeText,
			payload: []byte("a\r\nb"),
			want:    `a\r\nb`,
		},
		{
			name:    "terminal escape sequence is escaped",
			mode:    DecoderModeText,
			payload: []byte("x\x1b[2Jy"),
			want:    `x\x1b[2Jy`,
		},
		{
			name:    "backslash and del are escaped",
			mode:    DecoderModeText,
			payload: []byte("c:\\tmp\x7f"),
			want:    `c:\\tmp\x7f`,
		},
		{
			name:    "non ascii text is kept",
			mode:    DecoderModeText,
			payload: []byte("grüße\t日本"),
			want:    `grüße\t日本`,
		},
		{
			name:        "invalid utf-8 with newline",
			mode:        DecoderModeText,
			payload:     []byte{0xff, '\n'},
			want:        `�\n`,
			wantWarning: true,
			wantOffset:  0,
		},
		{
			name:        "invalid utf-8 is replaced",
			mode:        DecoderModeText,
			payload:     []byte{'o', 'k', 0xff, 0xfe},
			want:        "ok��",
			wantWarning: true,
			wantOffset:  2,
		},
		{
			name:    "latin1 charset",
			mode:    DecoderModeText,
			charset: "iso-8859-1",
			payload: []byte{'c', 'a', 'f', 0xe9},
			want:    "café",
		},
		{
			name:    "latin1 charset escapes controls",
			mode:    DecoderModeText,
			charset: "latin1",
			payload: []byte{'c', 'a', 'f', 0xe9, '\n'},
			want:    `café\n`,
		},
		{
			name:    "escape printable",
			mode:    DecoderModeEscape,
			payload: []byte("hello"),
			want:    "hello",
		},
		{
			name:    "escape control and high bytes",
			mode:    DecoderModeEscape,
			payload: []byte{0x00, '\t', '\n', '\r', '\\', 0x7f, 0xff},
			want:    `\x00\t\n\r\\\x7f\xff`,
		},
		{
			name:    "escape single quote alone",
			mode:    DecoderModeEscape,
			payload: []byte(`it's`),
			want:    `it's`,
		},
		{
			name:    "escape both quotes",
			mode:    DecoderModeEscape,
			payload: []byte(`it's "x"`),
			want:    `it\'s "x"`,
		},
		{
			name:    "hex",
			mode:    DecoderModeHex,
			payload: []byte{0xde, 0xad, 0xbe, 0xef},
			want:    "deadbeef",
		},
		{
			name:    "wled drgb frame",
			mode:    DecoderModeWLED,
			payload: []byte{2, 5, 0xff, 0x00, 0x00, 0x00, 0x80, 0xff},
			want:    "DRGB timeout=5s leds=2 #ff0000 #0080ff",
		},
		{
			name:        "wled falls back to escape",
			mode:        DecoderModeWLED,
			payload:     []byte("hi"),
			want:        "hi",
			wantWarning: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := NewDecoder(tt.mode, tt.charset)
			require.NoError(t, err)

			got, warning := d.Decode(tt.payload)
			require.Equal(t, tt.want, got)
			if !tt.wantWarning {
				require.Nil(t, warning)
				return
			}
			require.NotNil(t, warning)
			require.Equal(t, tt.mode, warning.Mode)
			require.Equal(t, tt.wantOffset, warning.Offset)
		})
	}
}

func TestInvalidUTF8Offset(t *testing.T) {
	require.Equal(t, -1, invalidUTF8Offset([]byte("plain")))
	require.Equal(t, -1, invalidUTF8Offset([]byte("ü")))
	require.Equal(t, 0, invalidUTF8Offset([]byte{0x80}))
	require.Equal(t, 3, invalidUTF8Offset([]byte{'a', 'b', 'c', 0xc3}))
}

func TestEscapeControls(t *testing.T) {
	require.Equal(t, "", escapeControls(nil))
	require.Equal(t, "plain text", escapeControls([]byte("plain text")))
	require.Equal(t, `\x00\x07\x1f`, escapeControls([]byte{0x00, 0x07, 0x1f}))
	require.Equal(t, `quote's "kept"`, escapeControls([]byte(`quote's "kept"`)))
}
