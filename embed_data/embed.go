// Package embed_data carries prompt templates and tree-sitter query files
// compiled into the binary.
package embed_data

import _ "embed"

//go:embed prompts/chunk_analysis.md
var ChunkAnalysisPrompt []byte

//go:embed prompts/audit_requirements.md
var AuditRequirements []byte

//go:embed prompts/explanation_requirements.md
var ExplanationRequirements []byte

//go:embed models_details.json
var ModelDetails []byte

//go:embed queries/go.json
var GoQuery []byte

//go:embed queries/python.json
var PythonQuery []byte

//go:embed queries/javascript.json
var JavascriptQuery []byte

//go:embed queries/typescript.json
var TypescriptQuery []byte

//go:embed queries/java.json
var JavaQuery []byte

//go:embed queries/csharp.json
var CSharpQuery []byte
