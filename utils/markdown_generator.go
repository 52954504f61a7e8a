package utils

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
)

// PrintMarkdownPreview renders a markdown report to the terminal,
// highlighting the inside of fenced code blocks with the fence's language
// tag. Lines outside fences print as-is.
func PrintMarkdownPreview(content string, theme string) error {
	if theme == "" {
		theme = "dracula"
	}

	var fenceLang string
	inCodeBlock := false

	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(line, "```") {
			if !inCodeBlock {
				fenceLang = strings.TrimSpace(strings.TrimPrefix(line, "```"))
			}
			inCodeBlock = !inCodeBlock
			fmt.Println(line)
			continue
		}

		if inCodeBlock && fenceLang != "" {
			var buf bytes.Buffer
			if err := quick.Highlight(&buf, line+"\n", fenceLang, "terminal256", theme); err != nil {
				// Unknown lexer names fall back to plain output.
				fmt.Println(line)
				continue
			}
			fmt.Fprint(os.Stdout, buf.String())
			continue
		}

		fmt.Println(line)
	}

	return nil
}
