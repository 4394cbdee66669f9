package report

import (
	"encoding/json"
	"fmt"
	"io"
)

// JSONWriter outputs summaries as indented JSON, suitable for piping into
// other tooling.
type JSONWriter struct {
	output io.Writer
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer) *JSONWriter {
	return &JSONWriter{output: output}
}

// Write implements Writer.
func (w *JSONWriter) Write(summary *Summary) (int, error) {
	data, err := json.MarshalIndent(jsonSummary(summary), "", "  ")
	if err != nil {
		return 0, fmt.Errorf("encode summary: %w", err)
	}
	data = append(data, '\n')
	return w.output.Write(data)
}

// jsonSummary rewrites the elapsed duration as a string so the output is
// readable without knowing Go's nanosecond representation.
func jsonSummary(summary *Summary) map[string]any {
	return map[string]any{
		"name":       summary.Name,
		"started_at": summary.StartedAt,
		"elapsed":    summary.Elapsed.String(),
		"counts":     summary.Counts,
	}
}
