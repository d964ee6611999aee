package reporter

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// WLED realtime UDP protocol identifiers, sent as the first byte of a frame.
const (
	wledProtocolWARLS = 1
	wledProtocolDRGB  = 2
	wledProtocolDRGBW = 3
	wledProtocolDNRGB = 4
)

// wledHeaderSize covers the protocol and timeout bytes.
const wledHeaderSize = 2

var wledProtocolNames = map[byte]string{
	wledProtocolWARLS: "WARLS",
	wledProtocolDRGB:  "DRGB",
	wledProtocolDRGBW: "DRGBW",
	wledProtocolDNRGB: "DNRGB",
}

// decodeWLED summarises a WLED realtime frame. ok is false when the payload
// is not a well formed frame.
func decodeWLED(payload []byte) (text string, ok bool) {
	if len(payload) < wledHeaderSize {
		return "", false
	}
	protocol, timeout := payload[0], payload[1]
	name, known := wledProtocolNames[protocol]
	if !known {
		return "", false
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s timeout=%ds", name, timeout)

	body := payload[wledHeaderSize:]
	switch protocol {
	case wledProtocolWARLS:
		if len(body)%4 != 0 {
			return "", false
		}
		fmt.Fprintf(&sb, " leds=%d", len(body)/4)
		for i := 0; i < len(body); i += 4 {
			fmt.Fprintf(&sb, " %d=#%02x%02x%02x", body[i], body[i+1], body[i+2], body[i+3])
		}
	case wledProtocolDRGB:
		if !writeColors(&sb, body, 3) {
			return "", false
		}
	case wledProtocolDRGBW:
		if !writeColors(&sb, body, 4) {
			return "", false
		}
	case wledProtocolDNRGB:
		if len(body) < 2 {
			return "", false
		}
		fmt.Fprintf(&sb, " start=%d", binary.BigEndian.Uint16(body[:2]))
		if !writeColors(&sb, body[2:], 3) {
			return "", false
		}
	}

	return sb.String(), true
}

// writeColors appends the LED count and one hex colour per stride bytes.
func writeColors(sb *strings.Builder, body []byte, stride int) bool {
	if len(body)%stride != 0 {
		return false
	}
	fmt.Fprintf(sb, " leds=%d", len(body)/stride)
	for i := 0; i < len(body); i += stride {
		sb.WriteString(" #")
		for _, c := range body[i : i+stride] {
			fmt.Fprintf(sb, "%02x", c)
		}
	}
	return true
}
