package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

type reportItem struct {
	Source string `json:"source" yaml:"source"`
	Bytes  int    `json:"bytes" yaml:"bytes"`
}

type compareRow struct {
	name   string
	output string
}

func (r compareRow) Columns() []string { return []string{"Transformer", "Output"} }
func (r compareRow) Row() []string     { return []string{r.name, r.output} }

type summary string

func (s summary) String() string { return "summary: " + string(s) }

// --- Format Tests ---

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"json", FormatJSON, false},
		{" JSONL ", FormatJSONL, false},
		{"yaml", FormatYAML, false},
		{"table", FormatTable, false},
		{"text", FormatText, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewWriter(t *testing.T) {
	tests := []struct {
		format Format
		check  func(Writer) bool
	}{
		{FormatJSON, func(w Writer) bool { _, ok := w.(*JSONWriter); return ok }},
		{FormatJSONL, func(w Writer) bool { _, ok := w.(*JSONLWriter); return ok }},
		{FormatYAML, func(w Writer) bool { _, ok := w.(*YAMLWriter); return ok }},
		{FormatTable, func(w Writer) bool { _, ok := w.(*TableWriter); return ok }},
		{FormatText, func(w Writer) bool { _, ok := w.(*TextWriter); return ok }},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			w, err := NewWriter(&bytes.Buffer{}, tt.format)
			if err != nil {
				t.Fatalf("NewWriter() error = %v", err)
			}
			if !tt.check(w) {
				t.Errorf("unexpected writer type %T", w)
			}
		})
	}

	t.Run("unsupported", func(t *testing.T) {
		_, err := NewWriter(&bytes.Buffer{}, Format("csv"))
		if err == nil || !strings.Contains(err.Error(), "unsupported") {
			t.Errorf("expected unsupported format error, got %v", err)
		}
	})
}

// --- JSONWriter Tests ---

func TestJSONWriter_SingleItemIsObject(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewJSONWriter(buf, true, "  ")

	if err := w.Write(reportItem{Source: "a.html", Bytes: 42}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	var got reportItem
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("failed to unmarshal output: %v", err)
	}
	if got.Source != "a.html" || got.Bytes != 42 {
		t.Errorf("unexpected result: %+v", got)
	}
	if !strings.Contains(buf.String(), "\n  ") {
		t.Error("expected indented output")
	}
}

func TestJSONWriter_ManyItemsIsArray(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewJSONWriter(buf, false, "")

	items := []any{reportItem{Source: "a"}, reportItem{Source: "b"}, reportItem{Source: "c"}}
	if err := w.WriteAll(items); err != nil {
		t.Fatalf("WriteAll() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	var got []reportItem
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("failed to unmarshal output: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("expected 3 items, got %d", len(got))
	}
	if lines := strings.Split(strings.TrimSpace(buf.String()), "\n"); len(lines) != 1 {
		t.Errorf("expected compact single line, got %d lines", len(lines))
	}
}

func TestJSONWriter_FlushThenCloseWritesOnce(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewJSONWriter(buf, false, "")

	_ = w.Write(reportItem{Source: "once"})
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if n := strings.Count(buf.String(), "once"); n != 1 {
		t.Errorf("expected item written once, got %d times", n)
	}
}

// --- JSONLWriter Tests ---

func TestJSONLWriter_OneLinePerItem(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewJSONLWriter(buf)

	if err := w.WriteAll([]any{reportItem{Source: "a", Bytes: 1}, reportItem{Source: "b", Bytes: 2}}); err != nil {
		t.Fatalf("WriteAll() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), buf.String())
	}
	for i, line := range lines {
		var item reportItem
		if err := json.Unmarshal([]byte(line), &item); err != nil {
			t.Errorf("line %d is not valid JSON: %v", i, err)
		}
	}
}

// --- YAMLWriter Tests ---

func TestYAMLWriter(t *testing.T) {
	t.Run("single item", func(t *testing.T) {
		buf := &bytes.Buffer{}
		w := NewYAMLWriter(buf)
		_ = w.Write(reportItem{Source: "a.html", Bytes: 7})
		if err := w.Close(); err != nil {
			t.Fatalf("Close() error = %v", err)
		}

		var got reportItem
		if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("failed to unmarshal output: %v", err)
		}
		if got.Source != "a.html" || got.Bytes != 7 {
			t.Errorf("unexpected result: %+v", got)
		}
	})

	t.Run("many items", func(t *testing.T) {
		buf := &bytes.Buffer{}
		w := NewYAMLWriter(buf)
		_ = w.WriteAll([]any{reportItem{Source: "a"}, reportItem{Source: "b"}})
		if err := w.Flush(); err != nil {
			t.Fatalf("Flush() error = %v", err)
		}

		var got []reportItem
		if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("failed to unmarshal output: %v", err)
		}
		if len(got) != 2 {
			t.Errorf("expected 2 items, got %d", len(got))
		}
	})
}

// --- TableWriter Tests ---

func TestTableWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewTableWriter(buf)

	_ = w.Write(compareRow{name: "markup", output: "120"})
	_ = w.Write(compareRow{name: "reference-minifier", output: "98"})
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	want := "" +
		"Transformer         Output\n" +
		"-----------         ------\n" +
		"markup                 120\n" +
		"reference-minifier      98\n"
	if buf.String() != want {
		t.Errorf("unexpected table:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestTableWriter_RejectsNonRows(t *testing.T) {
	w := NewTableWriter(&bytes.Buffer{})
	if err := w.Write(reportItem{}); err == nil {
		t.Error("expected error for non-tabular item")
	}
}

// --- TextWriter Tests ---

func TestTextWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewTextWriter(buf)

	_ = w.WriteAll([]any{summary("ok"), "plain line\n", reportItem{Source: "x", Bytes: 1}})
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	want := "summary: ok\nplain line\n{Source:x Bytes:1}\n"
	if buf.String() != want {
		t.Errorf("TextWriter output = %q, want %q", buf.String(), want)
	}
}
