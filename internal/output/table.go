package output

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// TableWriter buffers Tabular rows and prints them as aligned columns with a
// dashed rule under the header.
type TableWriter struct {
	w    *bufio.Writer
	rows []Tabular
}

// NewTableWriter creates a table writer.
func NewTableWriter(w io.Writer) *TableWriter {
	return &TableWriter{w: bufio.NewWriter(w)}
}

// Write buffers a row. data must implement Tabular.
func (w *TableWriter) Write(data any) error {
	row, ok := data.(Tabular)
	if !ok {
		return fmt.Errorf("table output needs rows, got %T", data)
	}
	w.rows = append(w.rows, row)
	return nil
}

// WriteAll buffers multiple rows.
func (w *TableWriter) WriteAll(data []any) error {
	for _, item := range data {
		if err := w.Write(item); err != nil {
			return err
		}
	}
	return nil
}

// Flush prints the buffered rows. Column widths fit the widest cell.
func (w *TableWriter) Flush() error {
	if len(w.rows) == 0 {
		return w.w.Flush()
	}

	header := w.rows[0].Columns()
	cells := make([][]string, 0, len(w.rows)+2)
	cells = append(cells, header)
	rule := make([]string, len(header))
	for i, h := range header {
		rule[i] = strings.Repeat("-", len(h))
	}
	cells = append(cells, rule)
	for _, r := range w.rows {
		cells = append(cells, r.Row())
	}
	w.rows = nil

	widths := make([]int, len(header))
	for _, line := range cells {
		for i := 0; i < len(line) && i < len(widths); i++ {
			widths[i] = max(widths[i], len(line[i]))
		}
	}

	for _, line := range cells {
		parts := make([]string, len(widths))
		for i := range widths {
			cell := ""
			if i < len(line) {
				cell = line[i]
			}
			if i == 0 {
				parts[i] = fmt.Sprintf("%-*s", widths[i], cell)
			} else {
				parts[i] = fmt.Sprintf("%*s", widths[i], cell)
			}
		}
		if _, err := w.w.WriteString(strings.TrimRight(strings.Join(parts, "  "), " ") + "\n"); err != nil {
			return err
		}
	}
	return w.w.Flush()
}

// Close flushes the writer.
func (w *TableWriter) Close() error {
	return w.Flush()
}

// TextWriter prints each item on its own, using String() when available.
type TextWriter struct {
	w *bufio.Writer
}

// NewTextWriter creates a text writer.
func NewTextWriter(w io.Writer) *TextWriter {
	return &TextWriter{w: bufio.NewWriter(w)}
}

// Write prints a single item.
func (w *TextWriter) Write(data any) error {
	var s string
	switch v := data.(type) {
	case fmt.Stringer:
		s = v.String()
	case string:
		s = v
	default:
		s = fmt.Sprintf("%+v", v)
	}
	if !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	if _, err := w.w.WriteString(s); err != nil {
		return err
	}
	return w.w.Flush()
}

// WriteAll prints multiple items.
func (w *TextWriter) WriteAll(data []any) error {
	for _, item := range data {
		if err := w.Write(item); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the buffer.
func (w *TextWriter) Flush() error {
	return w.w.Flush()
}

// Close flushes the writer.
func (w *TextWriter) Close() error {
	return w.Flush()
}
