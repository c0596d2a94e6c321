package notifications

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"
	"net/smtp"
	"sort"
	"strconv"
	"strings"
	texttemplate "text/template"
	"time"

	"ticketflow/internal/shared/config"
	"ticketflow/pkg/logger"
)

// EmailService delivers one notification.
type EmailService interface {
	SendNotification(ctx context.Context, notification *EmailNotification) error
}

type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
	UseTLS    bool
}

func NewSMTPConfig(cfg config.EmailConfig) *SMTPConfig {
	return &SMTPConfig{
		Host:      cfg.SMTPHost,
		Port:      cfg.SMTPPort,
		Username:  cfg.SMTPUsername,
		Password:  cfg.SMTPPassword,
		FromEmail: cfg.FromEmail,
		FromName:  cfg.FromName,
		UseTLS:    true,
	}
}

func (c *SMTPConfig) Validate() error {
	if c == nil {
		return fmt.Errorf("SMTP config is nil")
	}
	if c.Host == "" {
		return fmt.Errorf("SMTP host is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("SMTP port must be between 1 and 65535")
	}
	if c.FromEmail == "" {
		return fmt.Errorf("from email is required")
	}
	return nil
}

// message templates keyed by notification type
var (
	htmlTemplates = template.Must(template.New("html").Parse(`
{{define "TICKET_ISSUED"}}<h2>🎟️ Your ticket for {{.event_title}}</h2>
<p>Hi {{.recipient_name}},</p>
<p>Your ticket <strong>{{.confirmation_id}}</strong> is confirmed. Price paid: {{.price}}.</p>
<p>Open the TicketFlow app to show the QR code at the entrance.</p>{{end}}
{{define "TICKET_REDEEMED"}}<h2>✅ Enjoy {{.event_title}}</h2>
<p>Hi {{.recipient_name}},</p>
<p>Ticket <strong>{{.confirmation_id}}</strong> was scanned at {{.redeemed_at}}.</p>{{end}}
{{define "TICKET_CANCELLED"}}<h2>❌ Ticket cancelled</h2>
<p>Hi {{.recipient_name}},</p>
<p>Ticket <strong>{{.confirmation_id}}</strong> for {{.event_title}} was cancelled. Refund: {{.refund_amount}}.</p>{{end}}
{{define "INVITATION_ISSUED"}}<h2>💌 Invitation for {{.event_title}}</h2>
<p>Hi {{.recipient_name}},</p>
<p>Your invitation has been created. Guest: {{.guest_name}}.</p>{{end}}
`))

	textTemplates = texttemplate.Must(texttemplate.New("text").Parse(`
{{define "TICKET_ISSUED"}}Hi {{.recipient_name}},

Your ticket {{.confirmation_id}} for {{.event_title}} is confirmed. Price paid: {{.price}}.{{end}}
{{define "TICKET_REDEEMED"}}Hi {{.recipient_name}},

Ticket {{.confirmation_id}} for {{.event_title}} was scanned at {{.redeemed_at}}.{{end}}
{{define "TICKET_CANCELLED"}}Hi {{.recipient_name}},

Ticket {{.confirmation_id}} for {{.event_title}} was cancelled. Refund: {{.refund_amount}}.{{end}}
{{define "INVITATION_ISSUED"}}Hi {{.recipient_name}},

Your invitation for {{.event_title}} has been created. Guest: {{.guest_name}}.{{end}}
`))
)

// RenderContent builds the html and text bodies of a notification.
func RenderContent(n *EmailNotification) (string, string, error) {
	data := make(map[string]interface{}, len(n.TemplateData)+1)
	for k, v := range n.TemplateData {
		data[k] = v
	}
	data["recipient_name"] = n.RecipientName

	name := string(n.Type)
	if htmlTemplates.Lookup(name) == nil {
		return "", "", fmt.Errorf("no template for notification type %s", n.Type)
	}

	var htmlBuf, textBuf bytes.Buffer
	if err := htmlTemplates.ExecuteTemplate(&htmlBuf, name, data); err != nil {
		return "", "", fmt.Errorf("failed to execute HTML template: %w", err)
	}
	if err := textTemplates.ExecuteTemplate(&textBuf, name, data); err != nil {
		return "", "", fmt.Errorf("failed to execute text template: %w", err)
	}

	footer := "\n\nBest regards,\nTicketFlow Team"
	return htmlBuf.String() + "<p>Best regards,<br>TicketFlow Team</p>", textBuf.String() + footer, nil
}

// SMTPEmailService sends notifications over SMTP with STARTTLS.
type SMTPEmailService struct {
	config *SMTPConfig
	log    *logger.Logger
}

func NewSMTPEmailService(cfg *SMTPConfig) (*SMTPEmailService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid SMTP configuration: %w", err)
	}
	return &SMTPEmailService{config: cfg, log: logger.GetDefault().WithComponent("email")}, nil
}

func (s *SMTPEmailService) SendNotification(ctx context.Context, notification *EmailNotification) error {
	htmlBody, textBody, err := RenderContent(notification)
	if err != nil {
		return fmt.Errorf("failed to generate email content: %w", err)
	}
	return s.SendHTML(ctx, notification.RecipientEmail, notification.Subject, htmlBody, textBody)
}

func (s *SMTPEmailService) SendHTML(ctx context.Context, to, subject, htmlBody, textBody string) error {
	message := s.buildMessage(to, subject, htmlBody, textBody)

	var auth smtp.Auth
	if s.config.Username != "" {
		auth = smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	}
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	var err error
	if s.config.UseTLS {
		err = s.sendWithSTARTTLS(addr, auth, to, message)
	} else {
		err = smtp.SendMail(addr, auth, s.config.FromEmail, []string{to}, message)
	}
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.log.InfoContext(ctx, "📧 Email sent", "to", to, "subject", subject)
	return nil
}

func (s *SMTPEmailService) sendWithSTARTTLS(addr string, auth smtp.Auth, to string, message []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer client.Quit()

	if err = client.StartTLS(&tls.Config{ServerName: s.config.Host}); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}
	if auth != nil {
		if err = client.Auth(auth); err != nil {
			return fmt.Errorf("failed to authenticate: %w", err)
		}
	}
	if err = client.Mail(s.config.FromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err = client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err = w.Write(message); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	return w.Close()
}

func (s *SMTPEmailService) buildMessage(to, subject, htmlBody, textBody string) []byte {
	boundary := "boundary_" + strconv.FormatInt(time.Now().UnixNano(), 10)
	headers := map[string]string{
		"From":         fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromEmail),
		"To":           to,
		"Subject":      subject,
		"MIME-Version": "1.0",
		"Date":         time.Now().Format(time.RFC1123Z),
		"Content-Type": fmt.Sprintf("multipart/alternative; boundary=%s", boundary),
	}
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s: %s\r\n", k, headers[k])
	}
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s\r\n", boundary, textBody)
	fmt.Fprintf(&b, "--%s\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s\r\n", boundary, htmlBody)
	fmt.Fprintf(&b, "--%s--\r\n", boundary)
	return []byte(b.String())
}

// LogEmailService writes notifications to the log instead of sending them.
// Used when SMTP is not configured.
type LogEmailService struct {
	log *logger.Logger
}

func NewLogEmailService() *LogEmailService {
	return &LogEmailService{log: logger.GetDefault().WithComponent("email")}
}

func (s *LogEmailService) SendNotification(ctx context.Context, notification *EmailNotification) error {
	_, text, err := RenderContent(notification)
	if err != nil {
		return err
	}
	s.log.InfoContext(ctx, "📧 [LOG] Email",
		"type", notification.Type,
		"to", notification.RecipientEmail,
		"subject", notification.Subject,
		"body", text,
	)
	return nil
}
