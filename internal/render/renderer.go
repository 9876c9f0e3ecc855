package render

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"medscribe/internal/soap"
)

const (
	pageWidth  = 595.0 // A4 points
	topMargin  = 60.0
	leftMargin = 50.0
	lineHeight = 16.0
	bodySize   = 10
	headerSize = 13
	titleSize  = 18
	linesPage  = 42
)

// Renderer turns finalized notes into session PDFs under the output
// directory.
type Renderer struct {
	outputDir string
}

// NewRenderer constructs a renderer that writes into outputDir.
func NewRenderer(outputDir string) *Renderer {
	return &Renderer{outputDir: outputDir}
}

// Render writes <sessionID>.pdf containing the formatted note and returns
// the absolute path. The written file is read back and its page count
// verified so a truncated write never yields a stored artifact.
func (r *Renderer) Render(ctx context.Context, sessionID string, note soap.Note, templateName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	spec, err := buildCreateSpec(note, templateName)
	if err != nil {
		return "", fmt.Errorf("render: build page spec: %w", err)
	}

	var pdf bytes.Buffer
	if err := api.Create(nil, bytes.NewReader(spec), &pdf, nil); err != nil {
		return "", fmt.Errorf("render: create pdf: %w", err)
	}

	pages, err := api.PageCount(bytes.NewReader(pdf.Bytes()), nil)
	if err != nil {
		return "", fmt.Errorf("render: verify pdf: %w", err)
	}
	if pages < 1 {
		return "", fmt.Errorf("render: verify pdf: no pages")
	}

	outPath := filepath.Join(r.outputDir, sessionID+".pdf")
	if err := os.WriteFile(outPath, pdf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("render: write pdf: %w", err)
	}
	return outPath, nil
}

type createSpec struct {
	Paper  string                `json:"paper"`
	Origin string                `json:"origin"`
	Pages  map[string]createPage `json:"pages"`
}

type createPage struct {
	Content pageContent `json:"content"`
}

type pageContent struct {
	Text []textBox `json:"text"`
}

type textBox struct {
	Value    string    `json:"value"`
	Position []float64 `json:"position"`
	Font     fontSpec  `json:"font"`
	Width    float64   `json:"width,omitempty"`
}

type fontSpec struct {
	Name string `json:"name"`
	Size int    `json:"size"`
}

type line struct {
	text string
	size int
	bold bool
}

func buildCreateSpec(note soap.Note, templateName string) ([]byte, error) {
	lines := layoutNote(note, templateName)

	pages := make(map[string]createPage)
	pageNum := 1
	y := topMargin
	var boxes []textBox
	flush := func() {
		if len(boxes) == 0 {
			return
		}
		pages[fmt.Sprintf("%d", pageNum)] = createPage{Content: pageContent{Text: boxes}}
		boxes = nil
	}

	count := 0
	for _, ln := range lines {
		if count >= linesPage {
			flush()
			pageNum++
			y = topMargin
			count = 0
		}
		if ln.text != "" {
			name := "Helvetica"
			if ln.bold {
				name = "Helvetica-Bold"
			}
			boxes = append(boxes, textBox{
				Value:    ln.text,
				Position: []float64{leftMargin, y},
				Font:     fontSpec{Name: name, Size: ln.size},
				Width:    pageWidth - 2*leftMargin,
			})
		}
		y += lineHeight
		count++
	}
	flush()
	if len(pages) == 0 {
		pages["1"] = createPage{Content: pageContent{Text: []textBox{{
			Value:    templateName,
			Position: []float64{leftMargin, topMargin},
			Font:     fontSpec{Name: "Helvetica-Bold", Size: titleSize},
		}}}}
	}

	return json.Marshal(createSpec{Paper: "A4", Origin: "upperLeft", Pages: pages})
}

func layoutNote(note soap.Note, templateName string) []line {
	var lines []line
	add := func(text string, size int, bold bool) {
		lines = append(lines, line{text: text, size: size, bold: bold})
	}
	addBlock := func(heading, body string) {
		body = strings.TrimSpace(body)
		if body == "" {
			return
		}
		add(heading, headerSize, true)
		for _, row := range wrapText(body, 92) {
			add(row, bodySize, false)
		}
		add("", bodySize, false)
	}

	add(templateName, titleSize, true)
	add("", bodySize, false)
	addBlock("Subjective", note.SOAP.Subjective)
	addBlock("Objective", note.SOAP.Objective)
	addBlock("Assessment", note.SOAP.Assessment)
	addBlock("Plan", note.SOAP.Plan)
	addBlock("Summary", note.Summary)
	addBlock("Prescription", note.Prescription)
	addBlock("Follow Up", note.FollowUp)
	addBlock("Next Steps", note.NextSteps)
	return lines
}

// wrapText splits body text into display rows no wider than limit runes,
// breaking on spaces where possible.
func wrapText(text string, limit int) []string {
	var rows []string
	for _, paragraph := range strings.Split(text, "\n") {
		paragraph = strings.TrimSpace(paragraph)
		if paragraph == "" {
			continue
		}
		words := strings.Fields(paragraph)
		current := ""
		for _, word := range words {
			candidate := word
			if current != "" {
				candidate = current + " " + word
			}
			if len([]rune(candidate)) > limit && current != "" {
				rows = append(rows, current)
				current = word
				continue
			}
			current = candidate
		}
		if current != "" {
			rows = append(rows, current)
		}
	}
	return rows
}
