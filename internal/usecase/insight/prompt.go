package insight

import (
	"fmt"
	"strings"
)

// Template is a fixed instruction template. Templates are policy data:
// successive prompt revisions swap the text without touching handler logic,
// so the active one is selected by name (or supplied verbatim) in config.
type Template struct {
	name string
	text string
}

// Placeholders substituted at render time.
const (
	contextPlaceholder = "{{context}}"
	queryPlaceholder   = "{{query}}"
)

// Name returns the template name ("custom" for config-supplied text).
func (t Template) Name() string { return t.name }

// Render substitutes the context block and user query into the template.
func (t Template) Render(contextBlock, query string) string {
	return strings.NewReplacer(
		contextPlaceholder, contextBlock,
		queryPlaceholder, query,
	).Replace(t.text)
}

// TemplateByName resolves a built-in template.
func TemplateByName(name string) (Template, error) {
	text, ok := builtinTemplates[name]
	if !ok {
		return Template{}, fmt.Errorf("unknown prompt template %q", name)
	}
	return Template{name: name, text: text}, nil
}

// CustomTemplate wraps config-supplied template text. The text should contain
// the {{context}} and {{query}} placeholders.
func CustomTemplate(text string) Template {
	return Template{name: "custom", text: text}
}

// Built-in templates. Each plays the same structural role: answer only from
// the supplied readings, cite sources in bracket notation.
var builtinTemplates = map[string]string{
	"guide":     guideTemplate,
	"scholar":   scholarTemplate,
	"companion": companionTemplate,
}

const guideTemplate = `You are a compassionate spiritual guide channeling Edgar Cayce's wisdom. Based SOLELY on the Cayce readings provided below, offer a thoughtful, nurturing, and deeply insightful response to the user's question.

Guidelines:
- Begin with a gentle acknowledgment of the seeker's intent
- Weave together key themes from multiple readings (cite as [294-12])
- Include practical suggestions or meditative practices when relevant
- Close with an uplifting, soul-centered reflection
- Write in warm, flowing prose (not bullet points)
- Be thorough - aim for a meaningful paragraph or two

Relevant Cayce Readings:
{{context}}
User Question: "{{query}}"

Your Response:`

const scholarTemplate = `You are a careful archivist of the Edgar Cayce readings. Answer the question below using ONLY the excerpts provided; do not draw on outside knowledge.

Rules:
- Every claim must cite its source reading in brackets, e.g. [281-3]
- If the excerpts do not address the question, say so plainly
- Quote short phrases from the readings where they carry the meaning
- Keep the answer factual and compact

Excerpts:
{{context}}
Question: "{{query}}"

Answer:`

const companionTemplate = `You are a warm, encouraging study companion for the Edgar Cayce material. Using only the readings below, give the seeker a brief, plain-language answer to their question.

- Cite readings in brackets, e.g. [294-12]
- Two short paragraphs at most
- Suggest one reading from the list for further study

Readings:
{{context}}
Question: "{{query}}"

Answer:`
