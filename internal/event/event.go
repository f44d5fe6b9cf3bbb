package event

import (
	"fmt"
	"strings"
	"time"
)

// Severity orders how loud a generated event is. The zero value is invalid.
type Severity int

const (
	SeverityInfo Severity = iota + 1
	SeverityWarn
	SeverityError
	SeverityCritical
)

var severityNames = map[Severity]string{
	SeverityInfo:     "INFO",
	SeverityWarn:     "WARN",
	SeverityError:    "ERROR",
	SeverityCritical: "CRITICAL",
}

func (s Severity) String() string {
	if n, ok := severityNames[s]; ok {
		return n
	}
	return fmt.Sprintf("Severity(%d)", int(s))
}

// Valid reports whether s is one of the four known levels.
func (s Severity) Valid() bool {
	_, ok := severityNames[s]
	return ok
}

// ParseSeverity accepts INFO, WARN (or WARNING), ERROR and CRITICAL, case-insensitively.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "INFO":
		return SeverityInfo, nil
	case "WARN", "WARNING":
		return SeverityWarn, nil
	case "ERROR":
		return SeverityError, nil
	case "CRITICAL":
		return SeverityCritical, nil
	}
	return 0, fmt.Errorf("unknown severity %q", s)
}

func (s Severity) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid severity %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *Severity) UnmarshalText(b []byte) error {
	v, err := ParseSeverity(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Event is one synthetic record produced per draw. It is handed to the sinks
// and then dropped.
type Event struct {
	Timestamp     time.Time
	Service       string
	Kind          string
	Severity      Severity // catalog default for Kind
	CorrelationID string
	SubjectID     string
	Message       string
	Fields        map[string]interface{}

	// Override is set by late composition rules and wins over Severity.
	Override Severity
}

// Effective returns the severity the event is logged with.
func (e *Event) Effective() Severity {
	if e.Override > e.Severity {
		return e.Override
	}
	return e.Severity
}

// Escalate raises the event to s. Requests that would not raise the
// effective severity are ignored.
func (e *Event) Escalate(s Severity) {
	if s > e.Effective() {
		e.Override = s
	}
}

// AppendNote adds a bracketed review note to the message.
func (e *Event) AppendNote(note string) {
	if note == "" {
		return
	}
	e.Message += " [" + note + "]"
}
