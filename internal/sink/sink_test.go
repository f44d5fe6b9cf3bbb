package sink

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"regexp"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zapcore"

	"github.com/gyaneshwarpardhi/banksim/internal/event"
)

func sampleEvent() *event.Event {
	return &event.Event{
		Timestamp:     time.Date(2024, 3, 14, 2, 15, 4, 500_000_000, time.UTC),
		Service:       "payment-service",
		Kind:          "transfer",
		Severity:      event.SeverityInfo,
		Override:      event.SeverityWarn,
		CorrelationID: "tx-1",
		SubjectID:     "acc_000001",
		Message:       "Payment processed successfully: 10.00 RUB [Night transaction - requires review]",
		Fields: map[string]interface{}{
			"amount":            10.0,
			"currency":          "RUB",
			"night_transaction": true,
		},
	}
}

func TestJSONWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewJSON(zapcore.AddSync(&buf), "payment-service")
	if err := w.Emit(sampleEvent()); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	var got map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	want := map[string]interface{}{
		"asctime":           "2024-03-14 02:15:04,500",
		"levelname":         "WARNING",
		"name":              "payment-service-json",
		"level":             "WARN",
		"service":           "payment-service",
		"event_type":        "transfer",
		"correlation_id":    "tx-1",
		"currency":          "RUB",
		"amount":            10.0,
		"night_transaction": true,
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %v, want %v", k, got[k], v)
		}
	}
	if !strings.HasPrefix(got["message"].(string), "Payment processed") {
		t.Errorf("message = %v", got["message"])
	}
}

func TestTextWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewText(zapcore.AddSync(&buf), "payment-service")
	ev := sampleEvent()
	ev.Override = 0
	ev.Severity = event.SeverityCritical
	if err := w.Emit(ev); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	line := strings.TrimRight(buf.String(), "\n")
	re := regexp.MustCompile(`^2024-03-14 02:15:04,500 \[CRITICAL\] payment-service: Payment processed successfully`)
	if !re.MatchString(line) {
		t.Errorf("unexpected text line %q", line)
	}
	if strings.Contains(line, "currency") {
		t.Errorf("text line should not carry structured fields: %q", line)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestFanout_AttemptsAllSinks(t *testing.T) {
	var buf bytes.Buffer
	bad := NewJSON(zapcore.AddSync(failingWriter{}), "auth-service")
	good := NewText(zapcore.AddSync(&buf), "auth-service")
	f := NewFanout(bad, good)

	err := f.Emit(sampleEvent())
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if buf.Len() == 0 {
		t.Error("second sink was skipped after the first failed")
	}
}

func TestOpenFiles(t *testing.T) {
	dir := t.TempDir()
	f, err := OpenFiles(dir, "fraud-service")
	if err != nil {
		t.Fatalf("OpenFiles: %v", err)
	}
	if err := f.Emit(sampleEvent()); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	jsonPath, textPath := Paths(dir, "fraud-service")
	for _, p := range []string{jsonPath, textPath} {
		b, err := os.ReadFile(p)
		if err != nil {
			t.Fatalf("read %s: %v", p, err)
		}
		if len(b) == 0 {
			t.Errorf("%s is empty", p)
		}
	}
}

func TestMemory(t *testing.T) {
	m := &Memory{}
	seen := 0
	m.OnEmit = func(*event.Event) { seen++ }
	if err := m.Emit(sampleEvent()); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	m.SetFail(errors.New("down"))
	if err := m.Emit(sampleEvent()); !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
	if len(m.Events()) != 1 || seen != 1 {
		t.Errorf("events=%d seen=%d", len(m.Events()), seen)
	}
}
