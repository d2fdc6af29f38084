package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"bookdroplist/internal/services"
)

func TestConsoleHandlerRendersComponentAndFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Format: "console", Output: &buf})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	WithComponent(logger, "enrich").Info("book enriched",
		String("title", "Dune"),
		Int("candidates", 4))

	line := buf.String()
	if !strings.Contains(line, "INFO enrich: book enriched") {
		t.Fatalf("unexpected console line: %q", line)
	}
	if !strings.Contains(line, "title=Dune") || !strings.Contains(line, "candidates=4") {
		t.Fatalf("expected attributes in line: %q", line)
	}
}

func TestConsoleHandlerQuotesValuesWithSpaces(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Format: "console", Output: &buf})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logger.Info("msg", String("title", "The Left Hand of Darkness"))
	if !strings.Contains(buf.String(), `title="The Left Hand of Darkness"`) {
		t.Fatalf("expected quoted value, got %q", buf.String())
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "warn", Format: "console", Output: &buf})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logger.Info("ignored")
	logger.Warn("kept")

	if strings.Contains(buf.String(), "ignored") {
		t.Fatalf("info line should have been filtered: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "kept") {
		t.Fatalf("warn line missing: %q", buf.String())
	}
}

func TestWithContextCarriesCorrelationID(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Format: "console", Output: &buf})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	ctx := services.WithRequestID(context.Background(), "req-123")
	WithContext(ctx, logger).Info("handled")

	if !strings.Contains(buf.String(), "correlation_id=req-123") {
		t.Fatalf("expected correlation id, got %q", buf.String())
	}
}

func TestUnsupportedFormatRejected(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}
