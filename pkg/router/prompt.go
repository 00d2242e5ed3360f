package router

import (
	"strings"
	"text/template"

	"github.com/jingkaihe/skillkit/pkg/skills"
)

// NoneSentinel is the literal the classifier returns when no skill fits.
const NoneSentinel = "NONE"

// classificationPrompt enumerates every enabled skill and pins the
// classifier to a single-line output contract.
var classificationPrompt = template.Must(template.New("classification").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}).Parse(`You are a skill router. Given a user request, select the single best-matching skill from the list below.

Available skills:
{{- range $i, $s := .Skills}}
{{inc $i}}. {{$s.DirName}}: {{$s.Meta.Description}}
{{- end}}

Selection rules:
- Prefer the skill whose stated purpose aligns with the request.
- If several align, prefer the one with the strongest keyword overlap.
- If still tied, prefer the most specific skill.
- Only answer {{.None}} if the request shares no meaningful relation to any skill.

User request:
{{.Request}}

Respond with exactly one line: the skill name, or {{.None}}. No quoting, no explanation.`))

type promptData struct {
	Skills  []*skills.Skill
	Request string
	None    string
}

// BuildPrompt renders the deterministic classification prompt for the
// given request and enabled skills.
func BuildPrompt(request string, enabled []*skills.Skill) (string, error) {
	var b strings.Builder
	err := classificationPrompt.Execute(&b, promptData{
		Skills:  enabled,
		Request: request,
		None:    NoneSentinel,
	})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}
