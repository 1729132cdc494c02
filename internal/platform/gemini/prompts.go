package gemini

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"text/template"

	"github.com/phrazzld/scry-study/internal/generation"
)

//go:embed prompts/*.tmpl
var embeddedPrompts embed.FS

// Template file names, one per request shape.
const (
	summaryTemplate          = "summary.tmpl"
	mcqTemplate              = "mcq.tmpl"
	flashcardTemplate        = "flashcard.tmpl"
	alternateSummaryTemplate = "alternate_summary.tmpl"
)

var incrementTemplates = map[generation.Kind]string{
	generation.KindMCQ:       mcqTemplate,
	generation.KindFlashcard: flashcardTemplate,
	generation.KindSummary:   alternateSummaryTemplate,
}

// promptData is passed to every prompt template.
type promptData struct {
	Text     string
	MCQCount int
}

// prompts holds the parsed prompt templates.
type prompts struct {
	tmpl *template.Template
}

// loadPrompts parses the embedded templates, or the ones in dir when it is set.
// Every template must be present and must parse.
func loadPrompts(dir string) (*prompts, error) {
	var fsys fs.FS
	if dir == "" {
		sub, err := fs.Sub(embeddedPrompts, "prompts")
		if err != nil {
			return nil, fmt.Errorf("%w: embedded prompts: %v", generation.ErrInvalidConfig, err)
		}
		fsys = sub
	} else {
		fsys = os.DirFS(dir)
	}

	tmpl, err := template.New("prompts").Option("missingkey=error").ParseFS(fsys, "*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse prompt templates: %v", generation.ErrInvalidConfig, err)
	}
	for _, name := range []string{summaryTemplate, mcqTemplate, flashcardTemplate, alternateSummaryTemplate} {
		if tmpl.Lookup(name) == nil {
			return nil, fmt.Errorf("%w: prompt template %s is missing", generation.ErrInvalidConfig, name)
		}
	}
	return &prompts{tmpl: tmpl}, nil
}

func (p *prompts) render(name string, data promptData) (string, error) {
	if data.Text == "" {
		return "", ErrEmptyText
	}
	var buf bytes.Buffer
	if err := p.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to execute prompt template %s: %w", name, err)
	}
	return buf.String(), nil
}

// summaryPrompt builds the prompt for a full study artifact.
func (p *prompts) summaryPrompt(text string, mcqCount int) (string, error) {
	return p.render(summaryTemplate, promptData{Text: text, MCQCount: mcqCount})
}

// incrementPrompt builds the prompt for a "generate more" call.
func (p *prompts) incrementPrompt(text string, kind generation.Kind) (string, error) {
	name, ok := incrementTemplates[kind]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownPrompt, kind)
	}
	return p.render(name, promptData{Text: text})
}
