package codegen

const mockReact = `import React from 'react';

export default function Component() {
  return (
    <div className="min-h-screen bg-gray-50 flex items-center justify-center">
      <div className="max-w-md w-full bg-white rounded-lg shadow-lg p-8">
        <h1 className="text-3xl font-bold text-gray-900 mb-4">
          Welcome to AI Wonderland
        </h1>
        <p className="text-gray-600 mb-6">
          Image-to-code conversion powered by AI
        </p>
        <button className="w-full bg-blue-600 text-white py-3 rounded-lg hover:bg-blue-700 transition">
          Get Started
        </button>
      </div>
    </div>
  );
}`

const mockNextJS = `export default function Page() {
  return (
    <div className="min-h-screen bg-gray-50 flex items-center justify-center">
      <div className="max-w-md w-full bg-white rounded-lg shadow-lg p-8">
        <h1 className="text-3xl font-bold text-gray-900 mb-4">
          Welcome to AI Wonderland
        </h1>
        <p className="text-gray-600 mb-6">
          Image-to-code conversion powered by AI
        </p>
        <button className="w-full bg-blue-600 text-white py-3 rounded-lg hover:bg-blue-700 transition">
          Get Started
        </button>
      </div>
    </div>
  );
}`

const mockHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>AI Wonderland</title>
  <style>
    body { font-family: system-ui; margin: 0; padding: 20px; background: #f9fafb; }
    .container { max-width: 600px; margin: 0 auto; background: white; padding: 2rem; border-radius: 8px; box-shadow: 0 1px 3px rgba(0,0,0,0.1); }
    h1 { color: #111827; margin-bottom: 1rem; }
    p { color: #6b7280; margin-bottom: 1.5rem; }
    button { width: 100%; background: #2563eb; color: white; padding: 0.75rem; border: none; border-radius: 0.5rem; cursor: pointer; }
  </style>
</head>
<body>
  <div class="container">
    <h1>Welcome to AI Wonderland</h1>
    <p>Image-to-code conversion powered by AI</p>
    <button>Get Started</button>
  </div>
</body>
</html>`

// MockCode returns placeholder code for a framework. Frameworks without
// a dedicated template get the HTML page.
func MockCode(f Framework) string {
	switch f {
	case FrameworkReact:
		return mockReact
	case FrameworkNextJS:
		return mockNextJS
	default:
		return mockHTML
	}
}

// Point is a position in percent of the image size.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Size is an extent in percent of the image size.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Element is a detected UI element.
type Element struct {
	Type     string            `json:"type"`
	Position Point             `json:"position"`
	Size     Size              `json:"size"`
	Content  string            `json:"content,omitempty"`
	Styling  map[string]string `json:"styling"`
}

// MockElements returns the placeholder element list.
func MockElements() []Element {
	return []Element{
		{
			Type:     "container",
			Position: Point{X: 10, Y: 10},
			Size:     Size{Width: 80, Height: 60},
			Styling:  map[string]string{"background": "#ffffff", "padding": "2rem", "borderRadius": "8px"},
		},
		{
			Type:     "heading",
			Position: Point{X: 15, Y: 15},
			Size:     Size{Width: 70, Height: 10},
			Content:  "Welcome",
			Styling:  map[string]string{"fontSize": "2rem", "fontWeight": "bold", "color": "#111827"},
		},
		{
			Type:     "text",
			Position: Point{X: 15, Y: 30},
			Size:     Size{Width: 70, Height: 8},
			Content:  "Description text",
			Styling:  map[string]string{"fontSize": "1rem", "color": "#6b7280"},
		},
		{
			Type:     "button",
			Position: Point{X: 15, Y: 45},
			Size:     Size{Width: 70, Height: 8},
			Content:  "Get Started",
			Styling:  map[string]string{"background": "#2563eb", "color": "#ffffff", "borderRadius": "0.5rem"},
		},
	}
}
