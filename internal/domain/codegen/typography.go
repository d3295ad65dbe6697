package codegen

// Heading describes one heading level.
type Heading struct {
	Level  string `json:"level"`
	Size   string `json:"size"`
	Weight string `json:"weight"`
	Font   string `json:"font"`
}

// BodyText describes body copy.
type BodyText struct {
	Size       string `json:"size"`
	Weight     string `json:"weight"`
	Font       string `json:"font"`
	LineHeight string `json:"line_height"`
}

// Typography is a typography summary of a design.
type Typography struct {
	Headings []Heading `json:"headings"`
	Body     BodyText  `json:"body"`
}

// DefaultTypography returns the fixed typography summary.
func DefaultTypography() Typography {
	return Typography{
		Headings: []Heading{
			{Level: "h1", Size: "48px", Weight: "bold", Font: "sans-serif"},
			{Level: "h2", Size: "36px", Weight: "semibold", Font: "sans-serif"},
		},
		Body: BodyText{Size: "16px", Weight: "normal", Font: "sans-serif", LineHeight: "1.5"},
	}
}
