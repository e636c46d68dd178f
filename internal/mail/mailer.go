// Package mail sends transactional email for the application. The only
// message today is the account-activation email; failures propagate to the
// caller and are never retried.
package mail

import (
	"time"

	gomail "gopkg.in/gomail.v2"
)

// ActivationSubject is the subject line of the verification email.
const ActivationSubject = "Activate your Guidio account"

// SMTPMailer delivers mail over a plain SMTP connection. In development it
// points at a local debugging server (e.g. mailhog on :1025).
type SMTPMailer struct {
	host string
	port int
	user string
	pass string
	from string
}

func NewSMTPMailer(host string, port int, user, pass, from string) *SMTPMailer {
	return &SMTPMailer{host: host, port: port, user: user, pass: pass, from: from}
}

// SendActivation renders the activation template and delivers it to the
// recipient. The URL carries the verification token as a query parameter and
// the expiry is included in human-readable form.
func (m *SMTPMailer) SendActivation(to, firstName, url string, expiresAt time.Time) error {
	body, err := renderActivation(activationData{
		FirstName: firstName,
		URL:       url,
		ExpireAt:  expiresAt.UTC().Format("2006-01-02 15:04:05"),
	})
	if err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", ActivationSubject)
	msg.SetBody("text/html", body)

	d := gomail.NewDialer(m.host, m.port, m.user, m.pass)
	return d.DialAndSend(msg)
}
