package templates

import "time"

type Option func(*EmailData)

func WithTime(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.TimeAt = utc
		d.Time = utc.Format("02 January 2006, 15:04")
	}
}

func WithAppURL(url string) Option { return func(d *EmailData) { d.AppURL = url } }

// NewWelcomeData builds the payload of the email sent after registration.
func NewWelcomeData(appName, name, email string, opts ...Option) map[string]any {
	d := EmailData{
		Name:           name,
		Email:          email,
		RecipientEmail: email,
		Type:           Welcome,
		AppName:        appName,
	}
	for _, o := range opts {
		o(&d)
	}
	return ToMap(d)
}
