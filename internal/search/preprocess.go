package search

import (
	"bufio"
	"strings"
)

// FlattenMarkdown turns Markdown document text into blank-line separated
// facts: each table row becomes one fact (cells joined by spaces, separator
// rows dropped) and every other non-empty line becomes its own fact. Text
// without any non-empty line is returned unchanged.
//
// Lab reports are usually tables, so a row such as
// "| Ferritin | 45 | ng/mL |" is indexed as "Ferritin 45 ng/mL".
func FlattenMarkdown(text string) string {
	var b strings.Builder
	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	wroteAny := false
	writeFact := func(s string) {
		s = strings.TrimSpace(s)
		if s == "" {
			return
		}
		b.WriteString(s)
		b.WriteString("\n\n")
		wroteAny = true
	}

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		// table row: "| ... |"
		if strings.HasPrefix(line, "|") && strings.HasSuffix(line, "|") {
			raw := strings.Trim(line, "|")
			cols := strings.Split(raw, "|")

			allSep := true
			cleaned := make([]string, 0, len(cols))
			for _, c := range cols {
				cell := strings.TrimSpace(c)
				if cell != "" {
					cleaned = append(cleaned, cell)
				}
				tmp := strings.ReplaceAll(cell, ":", "")
				tmp = strings.ReplaceAll(tmp, "-", "")
				if strings.TrimSpace(tmp) != "" {
					allSep = false
				}
			}
			if allSep || len(cleaned) == 0 {
				continue
			}
			writeFact(strings.Join(cleaned, " "))
			continue
		}

		// strip heading and bullet markers
		line = strings.TrimLeft(line, "#>*- ")
		writeFact(line)
	}
	if sc.Err() != nil || !wroteAny {
		return text
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}
