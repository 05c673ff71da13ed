package components

// DateInputProps configures a controlled date input.
type DateInputProps struct {
	Name        string // Form field name
	Value       string // Current value, owned by the caller
	Placeholder string
	Error       string // Validation message from the owner, if any

	// Action is the endpoint the new value is posted to on change.
	// Empty renders a plain input inside a regular form.
	Action string

	// OnChange receives every new value. The component keeps no copy.
	OnChange func(value string)

	Class string
}

// Change forwards a new value to the owner exactly once. No format
// validation happens here; the native input and the owner handle that.
func (p DateInputProps) Change(value string) {
	if p.OnChange != nil {
		p.OnChange(value)
	}
}

// ContainerID is the DOM id of the input wrapper, used as swap target.
func (p DateInputProps) ContainerID() string {
	return "date-input-" + p.Name
}
