package value

// TextInput is the text field a value is typed into.
type TextInput interface {
	Text() string
	SetText(text string)
	SetValidationMessage(msg string)
	ReportValidity()
}

// ParseElement parses the field text and, when valid, replaces it with the
// cleaned-up form. Invalid text yields 0 and leaves the field untouched.
func (p *Profile) ParseElement(in TextInput) float64 {
	parsed, ok := p.Parse(in.Text())
	if !ok {
		return 0
	}
	in.SetText(parsed.Formatted)
	return parsed.Value
}

// ValidateElement reports whether the field holds valid text. On failure the
// profile tip is set on the field and surfaced.
func (p *Profile) ValidateElement(in TextInput) bool {
	if _, ok := p.Parse(in.Text()); ok {
		in.SetValidationMessage("")
		return true
	}

	in.SetValidationMessage(p.Tip)
	in.ReportValidity()
	return false
}
