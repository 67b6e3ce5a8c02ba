package components

// Canonical component names used by the vanilla renderer and default registry.
const (
	NameInput        = "input"
	NameTextarea     = "textarea"
	NameSelect       = "select"
	NameRadio        = "radio"
	NameCheckbox     = "checkbox"
	NameAutocomplete = "autocomplete"
)

// Partial keys a theme manifest can map to replacement templates.
const (
	PartialInput        = "forms.input"
	PartialTextarea     = "forms.textarea"
	PartialSelect       = "forms.select"
	PartialRadio        = "forms.radio"
	PartialCheckbox     = "forms.checkbox"
	PartialAutocomplete = "forms.autocomplete"
)
