package codegen

import "strings"

var basePrompts = map[Framework]string{
	FrameworkHTML:     "Convert this image to clean, semantic HTML with CSS styling.",
	FrameworkReact:    "Convert this image to a React functional component using hooks and modern best practices. Use Tailwind CSS for styling.",
	FrameworkNextJS:   "Convert this image to a Next.js 16 page component using the App Router. Use TypeScript and Tailwind CSS.",
	FrameworkVue:      "Convert this image to a Vue 3 component using the Composition API and Tailwind CSS.",
	FrameworkTailwind: "Convert this image to HTML with Tailwind CSS utility classes.",
}

const noStylingSuffix = " Do not include any CSS or styling, only the structure."

const requirements = `Requirements:
- Create pixel-perfect, responsive code
- Use semantic HTML elements
- Follow accessibility best practices
- Include proper spacing and layout
- Match colors, fonts, and styling from the image
- Return only the code, no explanations
`

// ElementPrompt asks the model to describe the UI elements of an image.
const ElementPrompt = `Analyze this UI image and identify all UI elements.

For each element, provide:
- type (button, input, text, image, container, nav, etc.)
- position (approximate x, y coordinates as percentage)
- size (width and height as percentage)
- content (text content if any)
- styling (colors, fonts, borders)

Return a JSON array of elements.`

// BuildPrompt returns the generation prompt for a framework. Unknown
// frameworks use the React prompt.
func BuildPrompt(f Framework, includeStyling bool) string {
	base, ok := basePrompts[f]
	if !ok {
		base = basePrompts[FrameworkReact]
	}
	if !includeStyling {
		base += noStylingSuffix
	}

	var b strings.Builder
	b.WriteString(base)
	b.WriteString("\n\n")
	b.WriteString(requirements)
	return b.String()
}
