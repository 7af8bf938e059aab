package domain

// Submission is what the waitlist form posts to the relay endpoint.
type Submission struct {
	// Email is the address the visitor typed. It must be a non-empty string.
	Email string `json:"email"`
}

// Delivery identifies a notification accepted by the email provider.
type Delivery struct {
	// ID is the provider-assigned message identifier.
	ID string `json:"id"`
}

// SubmissionResult is the relay endpoint's JSON answer to a Submission.
// Success responses set Success and Data. Failures set Error and, for
// server-side failures, Details (provider error object or error text).
type SubmissionResult struct {
	Success bool      `json:"success,omitempty"`
	Data    *Delivery `json:"data,omitempty"`
	Error   string    `json:"error,omitempty"`
	Details any       `json:"details,omitempty"`
}
