package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestInitLoggerWithWriterText(t *testing.T) {
	var buf bytes.Buffer
	InitLoggerWithWriter(&buf, LevelInfo, FormatText)
	defer InitLogger(LevelInfo, FormatText)

	Info("hello", "key", "value")

	out := buf.String()
	if !strings.Contains(out, "hello") {
		t.Errorf("output missing message: %q", out)
	}
	if !strings.Contains(out, "key=value") {
		t.Errorf("output missing attribute: %q", out)
	}
}

func TestInitLoggerWithWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	InitLoggerWithWriter(&buf, LevelDebug, FormatJSON)
	defer InitLogger(LevelInfo, FormatText)

	Debug("trace message", "n", 1)

	out := buf.String()
	if !strings.Contains(out, `"msg":"trace message"`) {
		t.Errorf("output missing JSON message: %q", out)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	InitLoggerWithWriter(&buf, LevelWarn, FormatText)
	defer InitLogger(LevelInfo, FormatText)

	Debug("suppressed")
	Info("also suppressed")
	Warn("visible")

	out := buf.String()
	if strings.Contains(out, "suppressed") {
		t.Errorf("low-level messages should be filtered: %q", out)
	}
	if !strings.Contains(out, "visible") {
		t.Errorf("warn message should pass the filter: %q", out)
	}
}

func TestGetLogger(t *testing.T) {
	if GetLogger() == nil {
		t.Fatal("GetLogger returned nil")
	}
}
