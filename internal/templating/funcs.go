package templating

import (
	"fmt"
	"regexp"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/ariel-frischer/changelogger/internal/changelog"
)

// FuncMap returns the functions available to every template: the sprig
// text functions plus the changelog helpers.
func FuncMap() template.FuncMap {
	funcs := sprig.TxtFuncMap()
	funcs["markdown"] = markdown
	funcs["quote"] = func(v any) string { return regexp.QuoteMeta(fmt.Sprint(v)) }
	return funcs
}

// variableFuncs exposes each variable as a zero-argument function, so the
// jinja-style {{ new_version }} and {{ context.name }} resolve the same as
// their dotted forms.
func variableFuncs(vars Variables) template.FuncMap {
	funcs := make(template.FuncMap, len(vars))
	for name, value := range vars {
		funcs[name] = func() any { return value }
	}
	return funcs
}

// markdown renders release notes. It accepts the .sections value, a
// changelog.ReleaseNotes, or a generic map decoded from YAML.
func markdown(v any) (string, error) {
	switch s := v.(type) {
	case nil:
		return "", nil
	case changelog.ReleaseNotes:
		return s.Markdown(), nil
	case map[string][]string:
		return changelog.SectionsMarkdown(s), nil
	case map[string]any:
		sections := make(map[string][]string, len(s))
		for name, entries := range s {
			list, ok := entries.([]any)
			if !ok {
				return "", fmt.Errorf("markdown: section %q is %T, not a list", name, entries)
			}
			for _, e := range list {
				sections[name] = append(sections[name], fmt.Sprint(e))
			}
		}
		return changelog.SectionsMarkdown(sections), nil
	default:
		return "", fmt.Errorf("markdown: unsupported value of type %T", v)
	}
}
