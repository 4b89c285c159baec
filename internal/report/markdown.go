package report

import (
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"

	"github.com/nao1215/terrareport/internal/model"
)

// Summary is the sidecar description of a built report.
type Summary struct {
	Title    string
	Result   *Result
	Captions model.Captions
	Stats    []model.RegionStats
}

// MarkdownWriter renders a Summary as GitHub flavored markdown.
type MarkdownWriter struct {
	output io.Writer
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{output: output}
}

// Write renders s.
func (w *MarkdownWriter) Write(s Summary) error {
	md := markdown.NewMarkdown(w.output)

	title := s.Title
	if title == "" {
		title = "Report"
	}
	md.H1(title)
	md.PlainText("")

	w.writeOverview(md, s)
	w.writePages(md, s)
	w.writeStats(md, s.Stats)

	md.HorizontalRule()
	md.PlainText("")
	md.PlainText("*Generated by terrareport*")

	return md.Build()
}

func (w *MarkdownWriter) writeOverview(md *markdown.Markdown, s Summary) {
	rows := [][]string{}
	if s.Result != nil {
		rows = append(rows,
			[]string{"Output", "`" + s.Result.Output + "`"},
			[]string{"Pages", strconv.Itoa(s.Result.Pages)},
			[]string{"Missing captions", strconv.Itoa(len(s.Result.MissingCaptions))},
		)
	}
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")

	switch {
	case s.Result == nil:
	case len(s.Result.MissingCaptions) > 0:
		md.Warningf("%d page(s) rendered without a caption: %s",
			len(s.Result.MissingCaptions), strings.Join(s.Result.MissingCaptions, ", "))
	default:
		md.Tip("Every page has a caption.")
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writePages(md *markdown.Markdown, s Summary) {
	md.H2("Pages")
	md.PlainText("")
	if s.Result == nil || len(s.Result.Images) == 0 {
		md.PlainText("No pages.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(s.Result.Images))
	for i, path := range s.Result.Images {
		stem := Stem(path)
		caption, ok := lookupCaption(s.Captions, stem, i)
		if !ok {
			caption = "-"
		}
		rows[i] = []string{strconv.Itoa(i + 1), filepath.Base(path), caption}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Page", "Image", "Caption"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeStats(md *markdown.Markdown, stats []model.RegionStats) {
	if len(stats) == 0 {
		return
	}
	md.H2("Region statistics")
	md.PlainText("")

	rows := make([][]string, len(stats))
	for i, st := range stats {
		rows[i] = []string{
			strconv.Itoa(st.Year),
			st.Band,
			strconv.FormatFloat(st.Min, 'f', 4, 64),
			strconv.FormatFloat(st.Max, 'f', 4, 64),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Year", "Band", "Min", "Max"},
		Rows:   rows,
	})
	md.PlainText("")
}
