package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

var requestReceivedTmpl = template.Must(template.New("request_received").Parse(`
<p>A new maintenance request was submitted.</p>
<ul>
  <li><strong>From:</strong> {{.FullName}} ({{.Email}}{{if .Phone}}, {{.Phone}}{{end}})</li>
  <li><strong>Address:</strong> {{.Address}}</li>
  <li><strong>Description:</strong> {{.Description}}</li>
  {{if .Message}}<li><strong>Message:</strong> {{.Message}}</li>{{end}}
  {{if .ImageURL}}<li><a href="{{.ImageURL}}">Problem photo</a></li>{{end}}
</ul>
`))

var statusChangedTmpl = template.Must(template.New("status_changed").Parse(`
<p>Hi {{.FullName}},</p>
<p>Your maintenance request at {{.Address}} moved from
<strong>{{.OldStatus}}</strong> to <strong>{{.NewStatus}}</strong>.</p>
{{if .AdminNotes}}<p>Notes from the manager: {{.AdminNotes}}</p>{{end}}
{{if .FinishedImageURL}}<p><a href="{{.FinishedImageURL}}">Photo of the finished work</a></p>{{end}}
`))

var passwordResetTmpl = template.Must(template.New("password_reset").Parse(`
<p>Hi {{.Name}},</p>
<p>Use this token to reset your password within the next hour:</p>
<p><code>{{.Token}}</code></p>
<p>If you did not request a reset, ignore this email.</p>
`))

type RequestReceivedData struct {
	FullName    string
	Email       string
	Phone       string
	Address     string
	Description string
	Message     string
	ImageURL    string
}

// RequestReceived renders the operator notification for a new request.
func RequestReceived(data RequestReceivedData) (Message, error) {
	var buf bytes.Buffer
	if err := requestReceivedTmpl.Execute(&buf, data); err != nil {
		return Message{}, fmt.Errorf("rendering request_received: %w", err)
	}
	return Message{
		Subject: fmt.Sprintf("New maintenance request from %s", data.FullName),
		PlainBody: fmt.Sprintf("New maintenance request from %s (%s) at %s: %s",
			data.FullName, data.Email, data.Address, data.Description),
		HTMLBody: buf.String(),
	}, nil
}

type StatusChangedData struct {
	FullName         string
	Address          string
	OldStatus        string
	NewStatus        string
	AdminNotes       string
	FinishedImageURL string
}

// StatusChanged renders the requester-facing transition email.
func StatusChanged(data StatusChangedData) (Message, error) {
	var buf bytes.Buffer
	if err := statusChangedTmpl.Execute(&buf, data); err != nil {
		return Message{}, fmt.Errorf("rendering status_changed: %w", err)
	}
	return Message{
		Subject: fmt.Sprintf("Your maintenance request is now %s", data.NewStatus),
		PlainBody: fmt.Sprintf("Your maintenance request at %s moved from %s to %s.",
			data.Address, data.OldStatus, data.NewStatus),
		HTMLBody: buf.String(),
	}, nil
}

// PasswordReset renders the reset-token email.
func PasswordReset(name, token string) (Message, error) {
	var buf bytes.Buffer
	data := struct {
		Name  string
		Token string
	}{name, token}
	if err := passwordResetTmpl.Execute(&buf, data); err != nil {
		return Message{}, fmt.Errorf("rendering password_reset: %w", err)
	}
	return Message{
		Subject:   "Reset your Linden password",
		PlainBody: "Use this token to reset your password within the next hour: " + token,
		HTMLBody:  buf.String(),
	}, nil
}
