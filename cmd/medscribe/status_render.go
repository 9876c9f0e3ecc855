package main

import (
	"fmt"
	"strings"

	"medscribe/internal/status"
)

const (
	ansiReset  = "\x1b[0m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiRed    = "\x1b[31m"
	ansiBlue   = "\x1b[34m"
)

const statusLabelWidth = 22

func renderSnapshot(snapshot status.Snapshot, colorize bool) []string {
	lines := []string{
		sectionHeader("Session "+snapshot.SessionID, colorize),
	}

	stageLine := fmt.Sprintf("  %-*s %s", statusLabelWidth, "Stage:", string(snapshot.Stage))
	if colorize {
		stageLine = stageColor(snapshot.Stage) + stageLine + ansiReset
	}
	lines = append(lines, stageLine)

	percent := fmt.Sprintf("%d%%", snapshot.CompletionPercent)
	lines = append(lines, fmt.Sprintf("  %-*s %s", statusLabelWidth, "Completion:", percent))

	presence := []struct {
		label string
		has   bool
	}{
		{"Draft transcript", snapshot.HasTranscriptRaw},
		{"Confirmed transcript", snapshot.HasTranscriptClean},
		{"Structured note", snapshot.HasSOAPData},
		{"Rendered PDF", snapshot.HasPDFPath},
		{"Recognized scan", snapshot.HasOCRRaw},
		{"Reviewed scan", snapshot.HasOCRClean},
	}
	for _, item := range presence {
		lines = append(lines, fmt.Sprintf("  %-*s %s", statusLabelWidth, item.label+":", yesNo(item.has)))
	}
	if snapshot.TemplateType != "" {
		lines = append(lines, fmt.Sprintf("  %-*s %s", statusLabelWidth, "Template:", snapshot.TemplateType))
	}
	if snapshot.Err != "" {
		errLine := fmt.Sprintf("  %-*s %s", statusLabelWidth, "Error:", snapshot.Err)
		if colorize {
			errLine = ansiRed + errLine + ansiReset
		}
		lines = append(lines, errLine)
	}
	return lines
}

func sectionHeader(title string, colorize bool) string {
	line := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	if colorize {
		return ansiBlue + line + ansiReset
	}
	return line
}

func stageColor(stage status.Stage) string {
	switch stage {
	case status.StageRendered:
		return ansiGreen
	case status.StageEmpty:
		return ansiYellow
	default:
		return ""
	}
}
