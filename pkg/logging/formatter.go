package logging

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// TextFormatter formats log entries as human-readable text.
type TextFormatter struct {
	// TimestampFormat is the format for timestamps.
	TimestampFormat string
	// DisableColors disables terminal colors.
	DisableColors bool
	// DisableTimestamp disables timestamp output.
	DisableTimestamp bool
	// DisableSorting disables sorting of fields.
	DisableSorting bool
}

// NewTextFormatter creates a new text formatter.
func NewTextFormatter() *TextFormatter {
	return &TextFormatter{
		TimestampFormat: "2006-01-02 15:04:05.000",
	}
}

// Format formats a log entry as text.
func (f *TextFormatter) Format(entry *Entry) ([]byte, error) {
	var buf bytes.Buffer

	if !f.DisableTimestamp {
		buf.WriteString(entry.Timestamp.Format(f.TimestampFormat))
		buf.WriteByte(' ')
	}

	levelText := fmt.Sprintf("[%s]", entry.Level.String())
	if !f.DisableColors {
		levelText = f.colorLevel(entry.Level, levelText)
	}
	buf.WriteString(levelText)
	buf.WriteByte(' ')

	if entry.SessionID != "" {
		buf.WriteString(fmt.Sprintf("[%s] ", entry.SessionID))
	}

	if entry.Component != "" {
		buf.WriteString(entry.Component)
		if entry.Operation != "" {
			buf.WriteByte('/')
			buf.WriteString(entry.Operation)
		}
		buf.WriteString(": ")
	}

	buf.WriteString(entry.Message)

	if fields := f.formatFields(entry); fields != "" {
		buf.WriteString(" | ")
		buf.WriteString(fields)
	}

	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// formatFields renders fields as key=value pairs, skipping the ones
// already shown in the header.
func (f *TextFormatter) formatFields(entry *Entry) string {
	skip := map[string]bool{"session_id": true}
	if entry.Component != "" {
		skip["component"] = true
		if entry.Operation != "" {
			skip["operation"] = true
		}
	}

	var pairs []string
	for k, v := range entry.Fields {
		if skip[k] {
			continue
		}
		var valueStr string
		switch val := v.(type) {
		case string:
			if strings.ContainsAny(val, " \t") {
				valueStr = fmt.Sprintf("%q", val)
			} else {
				valueStr = val
			}
		case error:
			valueStr = fmt.Sprintf("%q", val.Error())
		default:
			valueStr = fmt.Sprintf("%v", val)
		}
		pairs = append(pairs, fmt.Sprintf("%s=%s", k, valueStr))
	}

	if !f.DisableSorting {
		sort.Strings(pairs)
	}
	return strings.Join(pairs, " ")
}

func (f *TextFormatter) colorLevel(level Level, text string) string {
	switch level {
	case DebugLevel:
		return fmt.Sprintf("\x1b[37m%s\x1b[0m", text) // gray
	case InfoLevel:
		return fmt.Sprintf("\x1b[36m%s\x1b[0m", text) // cyan
	case WarnLevel:
		return fmt.Sprintf("\x1b[33m%s\x1b[0m", text) // yellow
	case ErrorLevel:
		return fmt.Sprintf("\x1b[31m%s\x1b[0m", text) // red
	default:
		return text
	}
}

// JSONFormatter formats log entries as single-line JSON objects.
type JSONFormatter struct {
	// TimestampFormat is the format for timestamps.
	TimestampFormat string
	// PrettyPrint indents the output for readability.
	PrettyPrint bool
}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
	}
}

// Format formats a log entry as JSON.
func (f *JSONFormatter) Format(entry *Entry) ([]byte, error) {
	data := make(map[string]interface{}, len(entry.Fields)+3)
	for k, v := range entry.Fields {
		if err, ok := v.(error); ok {
			data[k] = err.Error()
			continue
		}
		data[k] = v
	}
	data["level"] = entry.Level.String()
	data["msg"] = entry.Message
	data["time"] = entry.Timestamp.Format(f.TimestampFormat)

	var (
		out []byte
		err error
	)
	if f.PrettyPrint {
		out, err = json.MarshalIndent(data, "", "  ")
	} else {
		out, err = json.Marshal(data)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to marshal log entry: %w", err)
	}
	return append(out, '\n'), nil
}
