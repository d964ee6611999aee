package reporter

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
)

// Format selects the layout of a report line.
type Format string

const (
	// FormatText writes "<timestamp> [<ip>:<port>] <payload>".
	FormatText Format = "text"
	// FormatJSON writes one JSON object per datagram.
	FormatJSON Format = "json"
)

// DefaultTimeLayout matches the output of C's ctime(3).
const DefaultTimeLayout = time.ANSIC

var errUnknownFormat = errors.New("unknown report format")

// jsonReport is the JSON form of a report line.
type jsonReport struct {
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
	IP        string    `json:"ip"`
	Port      uint16    `json:"port"`
	Size      int       `json:"size"`
	Truncated bool      `json:"truncated"`
	Payload   string    `json:"payload"`
}

// Formatter renders events as newline terminated report lines.
type Formatter struct {
	format     Format
	timeLayout string
}

// NewFormatter returns a Formatter. An empty timeLayout selects DefaultTimeLayout.
func NewFormatter(format Format, timeLayout string) (*Formatter, error) {
	if format == "" {
		format = FormatText
	}
	switch format {
	case FormatText, FormatJSON:
	default:
		return nil, fmt.Errorf("%w: %s", errUnknownFormat, format)
	}
	if timeLayout == "" {
		timeLayout = DefaultTimeLayout
	}
	return &Formatter{format: format, timeLayout: timeLayout}, nil
}

// Format renders ev with its decoded payload.
func (f *Formatter) Format(ev Event, payload string) ([]byte, error) {
	if f.format == FormatJSON {
		line, err := json.Marshal(jsonReport{
			Timestamp: ev.Time,
			Source:    ev.Source(),
			IP:        ev.IP.String(),
			Port:      ev.Port,
			Size:      len(ev.Payload),
			Truncated: ev.Truncated,
			Payload:   payload,
		})
		if err != nil {
			return nil, fmt.Errorf("marshal report: %w", err)
		}
		return append(line, '\n'), nil
	}

	line := make([]byte, 0, len(f.timeLayout)+len(payload)+48)
	line = ev.Time.AppendFormat(line, f.timeLayout)
	line = append(line, " ["...)
	line = append(line, ev.IP.String()...)
	line = append(line, ':')
	line = strconv.AppendUint(line, uint64(ev.Port), 10)
	line = append(line, "] "...)
	line = append(line, payload...)
	line = append(line, '\n')
	return line, nil
}
