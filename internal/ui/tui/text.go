package tui

import "strings"

// truncateText shortens text to width runes, marking the cut with "...".
func truncateText(text string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= width {
		return text
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}

// formatDetail wraps text to width and indents continuation lines under label.
func formatDetail(label, text string, width int) string {
	labelWidth := len([]rune(label))
	if width <= labelWidth {
		return label + text
	}
	lines := strings.Split(wrapText(text, width-labelWidth), "\n")

	var b strings.Builder
	for i, line := range lines {
		if i == 0 {
			b.WriteString(label)
			b.WriteString(line)
			continue
		}
		b.WriteString("\n")
		b.WriteString(strings.Repeat(" ", labelWidth))
		b.WriteString(line)
	}
	return b.String()
}

func wrapText(text string, width int) string {
	if width <= 0 {
		return text
	}
	words := strings.Fields(strings.ReplaceAll(text, "\n", " "))
	if len(words) == 0 {
		return ""
	}

	var lines []string
	var line strings.Builder
	lineWidth := 0
	for _, word := range words {
		wordWidth := len([]rune(word))
		if lineWidth == 0 {
			line.WriteString(word)
			lineWidth = wordWidth
			continue
		}
		if lineWidth+1+wordWidth > width {
			lines = append(lines, line.String())
			line.Reset()
			line.WriteString(word)
			lineWidth = wordWidth
			continue
		}
		line.WriteByte(' ')
		line.WriteString(word)
		lineWidth += 1 + wordWidth
	}
	if lineWidth > 0 {
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}
