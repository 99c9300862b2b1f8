package template

import (
	"strings"

	"golang.org/x/text/language"

	"github.com/campuskit/notify/pkg/notification"
)

// Renderer substitutes `{var}` placeholders into template content. It is a
// pure substitution engine: no conditionals, no loops, no expression
// evaluation, which keeps rendering injection-safe.
type Renderer struct{}

// NewRenderer creates a Renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render produces the final content for a template in the language closest
// to preferredLang. Missing required variables never abort the render:
// their placeholders are left literal and reported in the returned slice so
// the caller can surface a warning instead of blocking delivery.
func (r *Renderer) Render(tpl *Template, vars map[string]string, preferredLang string) (notification.Content, []string) {
	title, body, html := r.localize(tpl, preferredLang)

	for name, value := range vars {
		placeholder := "{" + name + "}"
		title = strings.ReplaceAll(title, placeholder, value)
		body = strings.ReplaceAll(body, placeholder, value)
		html = strings.ReplaceAll(html, placeholder, value)
	}

	var missing []string
	for _, required := range tpl.Variables {
		if _, ok := vars[required]; !ok {
			missing = append(missing, required)
		}
	}

	return notification.Content{Title: title, Body: body, HTML: html}, missing
}

// localize picks the template variant closest to the preferred language.
// The base template is the first (and therefore fallback) match candidate.
func (r *Renderer) localize(tpl *Template, preferredLang string) (title, body, html string) {
	title, body, html = tpl.TitleTemplate, tpl.BodyTemplate, tpl.HTMLTemplate

	if len(tpl.Localized) == 0 || preferredLang == "" {
		return title, body, html
	}

	preferred, err := language.Parse(preferredLang)
	if err != nil {
		return title, body, html
	}

	tags := []language.Tag{language.Und}
	keys := make([]string, 0, len(tpl.Localized))
	for key := range tpl.Localized {
		tag, err := language.Parse(key)
		if err != nil {
			continue
		}
		tags = append(tags, tag)
		keys = append(keys, key)
	}

	matcher := language.NewMatcher(tags)
	_, index, confidence := matcher.Match(preferred)
	if index == 0 || confidence == language.No {
		return title, body, html
	}

	loc := tpl.Localized[keys[index-1]]
	if loc.Title != "" {
		title = loc.Title
	}
	if loc.Body != "" {
		body = loc.Body
	}
	if loc.HTML != "" {
		html = loc.HTML
	}
	return title, body, html
}
