// Package email delivers alert emails over SMTP.
package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"leadscore_backend/platform/config"

	gomail "github.com/wneessen/go-mail"
)

// Sender sends lead alert emails.
type Sender interface {
	SendHighValueLeadAlert(ctx context.Context, toEmail string, alert HighValueLeadAlert) error
}

// HighValueLeadAlert carries the data rendered into the alert email.
type HighValueLeadAlert struct {
	LeadEmail    string
	LeadName     string
	Company      string
	Score        int
	Band         string
	PreviousBand string
	Tags         []string
}

// SMTPSender implements Sender using a direct SMTP connection via go-mail.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

// NewSMTPSender creates a new SMTPSender from email configuration.
func NewSMTPSender(cfg config.EmailConfig) *SMTPSender {
	return &SMTPSender{
		host:      cfg.GetSMTPHost(),
		port:      cfg.GetSMTPPort(),
		username:  cfg.GetSMTPUsername(),
		password:  cfg.GetSMTPPassword(),
		fromName:  cfg.GetEmailFromName(),
		fromEmail: cfg.GetEmailFromAddress(),
	}
}

var alertTemplate = template.Must(template.New("high_value_lead").Parse(`
<h2>High-value lead: {{.LeadEmail}}</h2>
<p><strong>Score:</strong> {{.Score}} ({{.Band}}{{if .PreviousBand}}, was {{.PreviousBand}}{{end}})</p>
{{if .LeadName}}<p><strong>Name:</strong> {{.LeadName}}</p>{{end}}
{{if .Company}}<p><strong>Company:</strong> {{.Company}}</p>{{end}}
{{if .Tags}}<p><strong>Tags:</strong> {{range $i, $t := .Tags}}{{if $i}}, {{end}}{{$t}}{{end}}</p>{{end}}
`))

// SendHighValueLeadAlert sends an alert for a lead that entered the HIGH band.
func (s *SMTPSender) SendHighValueLeadAlert(ctx context.Context, toEmail string, alert HighValueLeadAlert) error {
	var body bytes.Buffer
	if err := alertTemplate.Execute(&body, alert); err != nil {
		return fmt.Errorf("render alert: %w", err)
	}

	subject := fmt.Sprintf("High-value lead: %s (score %d)", alert.LeadEmail, alert.Score)
	return s.send(ctx, toEmail, subject, body.String())
}

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}
