package bot

import "strings"

// escapeMarkdown escapes Telegram Markdown specials outside fenced code
// blocks so model output with stray underscores or asterisks still parses.
func escapeMarkdown(text string) string {
	lines := strings.Split(text, "\n")
	var b strings.Builder
	inCode := false

	escape := strings.NewReplacer(
		`_`, `\_`,
		`*`, `\*`,
		"`", "\\`",
		`[`, `\[`,
	)

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			b.WriteString(line)
			inCode = !inCode
		} else if inCode {
			b.WriteString(line)
		} else {
			b.WriteString(escape.Replace(line))
		}

		if i < len(lines)-1 {
			b.WriteString("\n")
		}
	}

	return b.String()
}
