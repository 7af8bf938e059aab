package waitlist

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
)

//go:embed templates/signup.html
var signupTemplateText string

var signupTemplate = template.Must(template.New("signup").Parse(signupTemplateText)) //nolint: gochecknoglobals

// SignupParams are the values rendered into the signup notification.
type SignupParams struct {
	Product string
	Email   string
}

// RenderSignup renders the HTML body of a signup notification. Values are
// HTML-escaped.
func RenderSignup(params SignupParams) (string, error) {
	var buf bytes.Buffer
	if err := signupTemplate.Execute(&buf, params); err != nil {
		return "", fmt.Errorf("could not render signup template: %w", err)
	}

	return buf.String(), nil
}
