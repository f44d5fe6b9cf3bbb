package sink

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/gyaneshwarpardhi/banksim/internal/event"
)

const timeLayout = "2006-01-02 15:04:05,000"

// Writer is a zap-backed destination for one serialization format.
type Writer struct {
	name       string
	loggerName string
	core       zapcore.Core
	structured bool
	closer     func() error
}

func levelOf(s event.Severity) zapcore.Level {
	switch s {
	case event.SeverityWarn:
		return zapcore.WarnLevel
	case event.SeverityError:
		return zapcore.ErrorLevel
	case event.SeverityCritical:
		return zapcore.DPanicLevel
	}
	return zapcore.InfoLevel
}

func levelName(l zapcore.Level) string {
	switch l {
	case zapcore.InfoLevel:
		return "INFO"
	case zapcore.WarnLevel:
		return "WARNING"
	case zapcore.ErrorLevel:
		return "ERROR"
	case zapcore.DPanicLevel:
		return "CRITICAL"
	}
	return l.CapitalString()
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:     "asctime",
		LevelKey:    "levelname",
		NameKey:     "name",
		MessageKey:  "message",
		LineEnding:  zapcore.DefaultLineEnding,
		EncodeTime:  zapcore.TimeEncoderOfLayout(timeLayout),
		EncodeLevel: func(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) { enc.AppendString(levelName(l)) },
		EncodeName:  zapcore.FullNameEncoder,
	}
}

// NewJSON writes one JSON object per event with every payload field inlined.
func NewJSON(ws zapcore.WriteSyncer, service string) *Writer {
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig()), ws, zapcore.DebugLevel)
	return &Writer{name: "json", loggerName: service + "-json", core: core, structured: true}
}

// NewText writes "<time> [LEVEL] <service>: <message>" lines.
func NewText(ws zapcore.WriteSyncer, service string) *Writer {
	cfg := encoderConfig()
	cfg.ConsoleSeparator = " "
	cfg.EncodeLevel = func(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString("[" + levelName(l) + "]")
	}
	cfg.EncodeName = func(n string, enc zapcore.PrimitiveArrayEncoder) { enc.AppendString(n + ":") }
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), ws, zapcore.DebugLevel)
	return &Writer{name: "text", loggerName: service, core: core}
}

func (w *Writer) Emit(ev *event.Event) error {
	sev := ev.Effective()
	entry := zapcore.Entry{
		Level:      levelOf(sev),
		Time:       ev.Timestamp,
		LoggerName: w.loggerName,
		Message:    ev.Message,
	}
	var fields []zapcore.Field
	if w.structured {
		fields = eventFields(ev, sev)
	}
	if err := w.core.Write(entry, fields); err != nil {
		return &UnavailableError{Sink: w.name, Err: err}
	}
	return nil
}

func eventFields(ev *event.Event, sev event.Severity) []zapcore.Field {
	fields := []zapcore.Field{
		zap.String("timestamp", ev.Timestamp.Format(time.RFC3339Nano)),
		zap.String("service", ev.Service),
		zap.String("event_type", ev.Kind),
		zap.String("level", sev.String()),
		zap.String("correlation_id", ev.CorrelationID),
		zap.String("subject_id", ev.SubjectID),
	}
	keys := make([]string, 0, len(ev.Fields))
	for k := range ev.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fields = append(fields, zap.Any(k, ev.Fields[k]))
	}
	return fields
}

func (w *Writer) Close() error {
	err := w.core.Sync()
	if w.closer != nil {
		if cerr := w.closer(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// Paths returns the JSON and text log file paths for service under dir.
func Paths(dir, service string) (jsonPath, textPath string) {
	return filepath.Join(dir, service+".json"), filepath.Join(dir, service+".log")
}

// OpenFiles opens (appending) both log files for service and returns a
// Fanout over them.
func OpenFiles(dir, service string) (*Fanout, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir %s: %w", dir, err)
	}
	jsonPath, textPath := Paths(dir, service)
	jf, err := openAppend(jsonPath)
	if err != nil {
		return nil, err
	}
	tf, err := openAppend(textPath)
	if err != nil {
		jf.Close()
		return nil, err
	}
	js := NewJSON(zapcore.Lock(jf), service)
	js.closer = jf.Close
	ts := NewText(zapcore.Lock(tf), service)
	ts.closer = tf.Close
	return NewFanout(js, ts), nil
}

func openAppend(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}
