package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
)

// MarkdownWriter outputs summaries as GitHub Flavored Markdown. This
// format is meant for documentation and sharing crawl results.
type MarkdownWriter struct {
	output io.Writer
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given
// writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{output: output}
}

// Write implements Writer.
func (w *MarkdownWriter) Write(summary *Summary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Crawl Summary")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Crawler", "`" + summary.Name + "`"},
			{"Started", summary.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Elapsed", summary.Elapsed.String()},
		},
	})
	md.PlainText("")

	md.H2("Throughput")
	md.PlainText("")
	rows := make([][]string, 0, len(summary.Counts))
	for _, c := range summary.Counts {
		rows = append(rows, []string{
			c.Kind,
			strconv.Itoa(c.Delivered),
			strconv.Itoa(c.Dropped),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Kind", "Delivered", "Dropped"},
		Rows:   rows,
	})

	return len(md.String()), md.Build()
}
