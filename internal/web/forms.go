package web

// parseCompleted maps the checkbox form field to a boolean: a browser
// submits the literal "on" when checked and omits the field entirely
// when not. Any other literal is treated as unchecked.
func parseCompleted(value string) bool {
	return value == "on"
}
