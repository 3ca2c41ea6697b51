package storage

import (
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/IshaanNene/CommentGoat/internal/thread"
	"github.com/IshaanNene/CommentGoat/internal/types"
)

// reportTextLimit caps comment text in report tables, in runes.
const reportTextLimit = 80

// MarkdownStorage writes a human-readable thread report, one section per
// pass. Passes are buffered until Close.
type MarkdownStorage struct {
	path   string
	passes []*types.Pass
	mu     sync.Mutex
	logger *slog.Logger
}

// NewMarkdownStorage creates a new Markdown report storage.
func NewMarkdownStorage(outputPath string, logger *slog.Logger) (*MarkdownStorage, error) {
	return &MarkdownStorage{
		path:   outputPath,
		logger: logger.With("component", "markdown_storage"),
	}, nil
}

func (s *MarkdownStorage) Name() string { return "markdown" }

func (s *MarkdownStorage) Store(pass *types.Pass) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.passes = append(s.passes, pass)
	return nil
}

func (s *MarkdownStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, err := openOutput(s.path)
	if err != nil {
		return &types.StorageError{Backend: s.Name(), Err: err}
	}
	defer w.Close()

	if err := writeReport(w, s.passes); err != nil {
		return &types.StorageError{Backend: s.Name(), Err: err}
	}
	s.logger.Info("markdown report written", "path", displayPath(s.path), "passes", len(s.passes))
	return nil
}

func writeReport(w io.Writer, passes []*types.Pass) error {
	md := markdown.NewMarkdown(w)
	md.H1("Comment Extraction Report")
	md.PlainText("")

	if len(passes) == 0 {
		md.Note("No snapshots were processed.")
		return md.Build()
	}

	for _, pass := range passes {
		writePass(md, pass)
	}
	return md.Build()
}

func writePass(md *markdown.Markdown, pass *types.Pass) {
	md.H2(pass.Source)
	md.PlainText("")

	counts := make(map[types.CommentType]int)
	for i := range pass.Records {
		counts[pass.Records[i].CommentType]++
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Run", "`" + pass.ID + "`"},
			{"Extracted", pass.ExtractedAt.Format("2006-01-02 15:04:05 MST")},
			{"Containers Found", strconv.Itoa(pass.Found)},
			{"Records", strconv.Itoa(len(pass.Records))},
			{"Initial", strconv.Itoa(counts[types.CommentInitial])},
			{"Replies", strconv.Itoa(counts[types.CommentReply])},
			{"Unknown", strconv.Itoa(counts[types.CommentUnknown])},
		},
	})
	md.PlainText("")

	if len(pass.Records) == 0 {
		md.Warning("No comments extracted. Selectors might need updating, or comments were not loaded.")
		md.PlainText("")
		return
	}

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Comment Types"),
		piechart.WithShowData(true),
	)
	for _, ct := range []types.CommentType{types.CommentInitial, types.CommentReply, types.CommentUnknown} {
		if counts[ct] > 0 {
			chart.LabelAndIntValue(string(ct), uint64(counts[ct]))
		}
	}
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")

	threads := thread.Annotate(pass.Records)
	rows := make([][]string, 0, len(pass.Records))
	for i := range pass.Records {
		rec := &pass.Records[i]
		f := threads.Features[i]
		rows = append(rows, []string{
			indent(f.Depth) + rec.ID,
			rec.Parent(),
			string(rec.CommentType),
			rec.TimestampText,
			strconv.Itoa(rec.ReactionCount),
			cellText(rec.Text),
		})
	}

	md.H3("Comments")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"ID", "Parent", "Type", "Time", "Reactions", "Text"},
		Rows:   rows,
	})
	md.PlainText("")
}

// indent marks thread depth in the ID column.
func indent(depth int) string {
	return strings.Repeat("↳ ", depth)
}

// cellText makes comment text safe for a single table cell.
func cellText(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	s = strings.ReplaceAll(s, "|", `\|`)
	if r := []rune(s); len(r) > reportTextLimit {
		s = string(r[:reportTextLimit]) + "…"
	}
	return s
}
