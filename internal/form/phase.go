package form

// Phase is the render phase of the waitlist page. The page is first
// rendered statically and becomes interactive once mounted.
type Phase int

const (
	PhaseStatic Phase = iota
	PhaseInteractive
)

func (p Phase) String() string {
	switch p {
	case PhaseStatic:
		return "static"
	case PhaseInteractive:
		return "interactive"
	default:
		return "unknown"
	}
}

// View is what the page shows for a given state.
type View int

const (
	// ViewStatic is the static call-to-action rendered before mount.
	ViewStatic View = iota
	// ViewForm is the email form, with the current error if any.
	ViewForm
	// ViewThankYou replaces the form after a successful submission.
	ViewThankYou
)

func (v View) String() string {
	switch v {
	case ViewStatic:
		return "static"
	case ViewForm:
		return "form"
	case ViewThankYou:
		return "thank-you"
	default:
		return "unknown"
	}
}

// ViewOf derives the view from s. It is the only place that branches on
// the render phase.
func ViewOf(s State) View {
	switch {
	case s.Phase != PhaseInteractive:
		return ViewStatic
	case s.Submitted:
		return ViewThankYou
	default:
		return ViewForm
	}
}
