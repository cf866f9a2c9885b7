package export

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	"github.com/johnquangdev/mock-interview/internal/usecase/interview"
)

// Document layout, in millimetres on A4 portrait
const (
	Title        = "Interview Transcript"
	TitleSize    = 16.0
	BodySize     = 12.0
	PageCenterX  = 105.0
	MarginX      = 10.0
	TopY         = 20.0
	PageBreakY   = 280.0
	TextWidth    = 190.0
	TitleGap     = 10.0
	QuestionGap  = 8.0
	AnswerGap    = 10.0
	WrappedGap   = 6.0
	ContentType  = "application/pdf"
	FileName     = "interview_transcript.pdf"
	fontFamily   = "Times"
	pageSize     = "A4"
	unit         = "mm"
	orientation  = "P"
	answerPrefix = "A: "
)

// Line is one positioned run of text
type Line struct {
	Page     int
	X        float64
	Y        float64
	Size     float64
	Centered bool
	Text     string
}

// Layout positions the title and every Q/A block. wrap splits a string into
// lines that fit TextWidth at BodySize; nil keeps each string on one line.
func Layout(entries []interview.TranscriptEntry, wrap func(string) []string) []Line {
	if wrap == nil {
		wrap = func(s string) []string { return []string{s} }
	}

	page := 1
	y := TopY
	lines := []Line{{Page: page, X: PageCenterX, Y: y, Size: TitleSize, Centered: true, Text: Title}}
	y += TitleGap

	block := func(text string, gap float64) {
		parts := wrap(text)
		for i, part := range parts {
			if i > 0 {
				y += WrappedGap
			}
			if y >= PageBreakY {
				page++
				y = TopY
			}
			lines = append(lines, Line{Page: page, X: MarginX, Y: y, Size: BodySize, Text: part})
		}
		y += gap
	}

	for _, e := range entries {
		answer := e.Answer
		if answer == "" {
			answer = interview.NoResponse
		}
		block("Q: "+e.Question, QuestionGap)
		block(answerPrefix+answer, AnswerGap)
		if y >= PageBreakY {
			page++
			y = TopY
		}
	}
	return lines
}

// PDFRenderer writes transcripts as paginated PDF documents
type PDFRenderer struct{}

func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

// Render writes the PDF for entries to w
func (r *PDFRenderer) Render(entries []interview.TranscriptEntry, w io.Writer) error {
	pdf := fpdf.New(orientation, unit, pageSize, "")
	pdf.SetTitle(Title, true)
	pdf.SetAutoPageBreak(false, 0)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont(fontFamily, "", BodySize)
	wrap := func(s string) []string {
		return pdf.SplitText(tr(s), TextWidth)
	}

	page := 0
	for _, l := range Layout(entries, wrap) {
		for page < l.Page {
			pdf.AddPage()
			page++
		}
		pdf.SetFont(fontFamily, "", l.Size)
		x := l.X
		text := l.Text
		if l.Centered {
			text = tr(text)
			x -= pdf.GetStringWidth(text) / 2
		}
		pdf.Text(x, l.Y, text)
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("failed to build pdf: %w", err)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}
