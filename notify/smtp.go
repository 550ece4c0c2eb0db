package notify

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
)

const defaultSubject = "Estate Sales This Weekend"

// SMTPGateway submits the message to a mail relay, one recipient per send.
// Carrier email-to-SMS gateways (number@carrier.tld) deliver the body as a
// text message.
type SMTPGateway struct {
	host     string
	port     int
	username string
	password string
	from     string
	subject  string
	send     func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPGateway(host string, port int, username, password, from string) *SMTPGateway {
	return &SMTPGateway{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
		subject:  defaultSubject,
		send:     smtp.SendMail,
	}
}

func (g *SMTPGateway) Send(ctx context.Context, text, recipient string) error {
	if g == nil {
		return errors.New("notify: smtp gateway is nil")
	}
	if strings.TrimSpace(recipient) == "" {
		return errors.New("notify: empty recipient")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var auth smtp.Auth
	if g.username != "" {
		auth = smtp.PlainAuth("", g.username, g.password, g.host)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", g.from)
	fmt.Fprintf(&b, "To: %s\r\n", recipient)
	fmt.Fprintf(&b, "Subject: %s\r\n", g.subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(text, "\n", "\r\n"))

	addr := net.JoinHostPort(g.host, strconv.Itoa(g.port))
	return g.send(addr, auth, g.from, []string{recipient}, []byte(b.String()))
}
