package notify

import (
	"bytes"
	"context"
	"crypto/tls"
	"embed"
	"fmt"
	"html/template"
	"net"
	"net/smtp"
	"strconv"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

var subjects = map[Kind]string{
	KindWelcome:       "Welcome to Cyberspace",
	KindPasswordReset: "Your password reset code",
}

func render(kind Kind, params map[string]string) (string, error) {
	if _, ok := subjects[kind]; !ok {
		return "", fmt.Errorf("unknown notification kind %q", kind)
	}
	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, string(kind)+".html", params); err != nil {
		return "", fmt.Errorf("render %s template: %w", kind, err)
	}
	return body.String(), nil
}

// SMTPOptions configures an outgoing mail server.
type SMTPOptions struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// sendFunc delivers a fully built message.
type sendFunc func(ctx context.Context, o SMTPOptions, to string, msg []byte) error

// SMTPNotifier renders HTML templates and sends them over SMTP. Port 465 uses
// implicit TLS; other ports use smtp.SendMail with STARTTLS when offered.
type SMTPNotifier struct {
	opts SMTPOptions
	send sendFunc
	now  func() time.Time
}

func NewSMTPNotifier(o SMTPOptions) *SMTPNotifier {
	if o.From == "" {
		o.From = o.Username
	}
	return &SMTPNotifier{opts: o, send: sendSMTP, now: time.Now}
}

func (n *SMTPNotifier) Notify(ctx context.Context, to string, kind Kind, params map[string]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if n.opts.Host == "" {
		return fmt.Errorf("smtp host is not configured")
	}

	body, err := render(kind, params)
	if err != nil {
		return err
	}

	msg := buildHTMLMessage(n.opts.From, to, subjects[kind], body, n.now())
	if err := n.send(ctx, n.opts, to, msg); err != nil {
		return fmt.Errorf("send %s mail: %w", kind, err)
	}
	return nil
}

func buildHTMLMessage(from, to, subject, body string, date time.Time) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	fmt.Fprintf(&b, "Date: %s\r\n", date.Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
	b.WriteString(body)
	return b.Bytes()
}

func sendSMTP(ctx context.Context, o SMTPOptions, to string, msg []byte) error {
	addr := net.JoinHostPort(o.Host, strconv.Itoa(o.Port))

	var auth smtp.Auth
	if o.Username != "" || o.Password != "" {
		auth = smtp.PlainAuth("", o.Username, o.Password, o.Host)
	}

	if o.Port != 465 {
		return smtp.SendMail(addr, auth, o.From, []string{to}, msg)
	}

	d := tls.Dialer{Config: &tls.Config{ServerName: o.Host}}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	defer conn.Close()

	c, err := smtp.NewClient(conn, o.Host)
	if err != nil {
		return err
	}
	defer c.Close()

	if auth != nil {
		if err := c.Auth(auth); err != nil {
			return err
		}
	}
	if err := c.Mail(o.From); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.Quit()
}
