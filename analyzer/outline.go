package analyzer

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/csharp"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/ankurk/repolens/embed_data"
	"github.com/ankurk/repolens/language"
)

// ExtractOutline returns tagged declaration names for a source file, one
// per line ("function: Foo"), using tree-sitter queries embedded per
// language. Files without a wired grammar return "".
func ExtractOutline(filePath string, sourceCode []byte) (string, error) {
	var lang *sitter.Language
	var query []byte

	switch language.OutlineLanguage(filePath) {
	case "go":
		lang = golang.GetLanguage()
		query = embed_data.GoQuery
	case "python":
		lang = python.GetLanguage()
		query = embed_data.PythonQuery
	case "javascript":
		lang = javascript.GetLanguage()
		query = embed_data.JavascriptQuery
	case "typescript":
		lang = typescript.GetLanguage()
		query = embed_data.TypescriptQuery
	case "java":
		lang = java.GetLanguage()
		query = embed_data.JavaQuery
	case "csharp":
		lang = csharp.GetLanguage()
		query = embed_data.CSharpQuery
	default:
		return "", nil
	}

	parser := sitter.NewParser()
	parser.SetLanguage(lang)
	tree := parser.Parse(nil, sourceCode)

	queries := make(map[string]string)
	if err := json.Unmarshal(query, &queries); err != nil {
		return "", fmt.Errorf("failed to parse query file: %w", err)
	}

	// Sort tags so the outline is deterministic across runs.
	tags := make([]string, 0, len(queries))
	for tag := range queries {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	var elements []string
	for _, tag := range tags {
		q, err := sitter.NewQuery([]byte(queries[tag]), lang)
		if err != nil {
			return "", fmt.Errorf("failed to compile %s query: %w", tag, err)
		}

		cursor := sitter.NewQueryCursor()
		cursor.Exec(q, tree.RootNode())

		for {
			match, ok := cursor.NextMatch()
			if !ok {
				break
			}
			for _, cap := range match.Captures {
				elements = append(elements, fmt.Sprintf("%s: %s", tag, cap.Node.Content(sourceCode)))
			}
		}
	}

	return strings.Join(elements, "\n"), nil
}
