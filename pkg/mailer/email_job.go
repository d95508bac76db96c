package mailer

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Either Template+Data are set, or a pre-rendered Subject with Text and/or HTML.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // e.g. "reset_password"
	Data     map[string]any `json:"data,omitempty"`
}

// Rendered reports whether the job already carries its final content.
func (j EmailJob) Rendered() bool {
	return j.Template == "" && j.Subject != "" && (j.Text != "" || j.HTML != "")
}
