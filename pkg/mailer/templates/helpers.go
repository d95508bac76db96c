package templates

import (
	"time"
)

// Option pattern
type Option func(*EmailData)

func WithIP(ip string) Option        { return func(d *EmailData) { d.IP = ip } }
func WithUserAgent(ua string) Option { return func(d *EmailData) { d.UserAgent = ua } }
func WithTime(t time.Time) Option {
	return func(d *EmailData) { d.Time = t.UTC().Format("02 January 2006, 15:04 MST") }
}
func WithResetURL(url string) Option { return func(d *EmailData) { d.ResetURL = url } }

func WithExpiresAt(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.ExpiresAt = utc
		d.ExpiresAtText = utc.Format("02 January 2006, 15:04 MST")
	}
}

// Brand carries the sender-side fields every email shows.
type Brand struct {
	AppName     string
	CompanyName string
	SupportURL  string
}

// NewBaseEmailData fills the common fields, then applies opts.
func NewBaseEmailData(b Brand, typ, username, recipient string, opts ...Option) EmailData {
	d := EmailData{
		Username:       username,
		RecipientEmail: recipient,
		Type:           typ,
		AppName:        b.AppName,
		CompanyName:    b.CompanyName,
		SupportURL:     b.SupportURL,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func NewResetPasswordData(b Brand, username, email, resetURL string, opts ...Option) map[string]any {
	opts = append([]Option{WithResetURL(resetURL)}, opts...)
	d := NewBaseEmailData(b, ResetPassword, username, email, opts...)
	return ToMap(d)
}
