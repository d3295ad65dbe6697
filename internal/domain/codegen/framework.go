package codegen

import "strings"

// Framework is a code generation target.
type Framework string

const (
	FrameworkHTML     Framework = "html"
	FrameworkReact    Framework = "react"
	FrameworkNextJS   Framework = "nextjs"
	FrameworkVue      Framework = "vue"
	FrameworkTailwind Framework = "tailwind"
)

// DefaultFramework is used when a request names none.
const DefaultFramework = FrameworkReact

// FrameworkInfo describes a supported framework.
type FrameworkInfo struct {
	ID          Framework `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
}

var catalog = []FrameworkInfo{
	{ID: FrameworkHTML, Name: "HTML + CSS", Description: "Pure HTML with CSS styling"},
	{ID: FrameworkReact, Name: "React", Description: "React functional components with hooks"},
	{ID: FrameworkNextJS, Name: "Next.js", Description: "Next.js 16 with App Router"},
	{ID: FrameworkVue, Name: "Vue", Description: "Vue 3 with Composition API"},
	{ID: FrameworkTailwind, Name: "Tailwind", Description: "HTML with Tailwind CSS"},
}

// Frameworks returns the supported frameworks in display order.
func Frameworks() []FrameworkInfo {
	out := make([]FrameworkInfo, len(catalog))
	copy(out, catalog)
	return out
}

// ParseFramework resolves a framework id. Empty input yields the default.
func ParseFramework(s string) (Framework, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultFramework, true
	}
	for _, f := range catalog {
		if string(f.ID) == s {
			return f.ID, true
		}
	}
	return "", false
}

// IsValid reports whether f is in the catalog.
func (f Framework) IsValid() bool {
	_, ok := ParseFramework(string(f))
	return ok && f != ""
}
