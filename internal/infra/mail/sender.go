package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log"

	"gopkg.in/gomail.v2"

	"github.com/xavierca1/ligue-salesdesk/internal/entity"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// NewEmailSender returns nil when host is empty; callers treat a nil sender as "mail off".
func NewEmailSender(host string, port int, user, password, from, supportInbox string) *EmailSender {
	if host == "" {
		return nil
	}
	return &EmailSender{
		From:         from,
		SupportInbox: supportInbox,
		Dialer:       gomail.NewDialer(host, port, user, password),
	}
}

// TicketOpened emails the support inbox in the background.
func (s *EmailSender) TicketOpened(t *entity.SupportTicket, c *entity.Client) {
	if s.SupportInbox == "" {
		return
	}
	subject := fmt.Sprintf("[Suporte][%s] %s", t.Priority, t.Subject)
	s.async(s.SupportInbox, subject, "ticket_opened.html", ticketData(t, c))
}

// TicketClosed tells the client the ticket was closed, in the background.
func (s *EmailSender) TicketClosed(t *entity.SupportTicket, c *entity.Client) {
	if c == nil || c.Email == entity.PlaceholderEmail(c.Phone) {
		return
	}
	subject := fmt.Sprintf("Seu chamado foi encerrado: %s", t.Subject)
	s.async(c.Email, subject, "ticket_closed.html", ticketData(t, c))
}

// Wait blocks until queued emails have been attempted.
func (s *EmailSender) Wait() {
	s.wg.Wait()
}

func (s *EmailSender) async(to, subject, tmpl string, data TicketEmailData) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.Send(to, subject, tmpl, data); err != nil {
			log.Printf("⚠️ [MAIL] falha ao enviar '%s' para %s: %v", subject, to, err)
		}
	}()
}

func (s *EmailSender) Send(to, subject, tmpl string, data any) error {
	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, tmpl, data); err != nil {
		return fmt.Errorf("erro ao processar template: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body.String())

	if err := s.Dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("erro ao enviar email SMTP: %w", err)
	}
	return nil
}

func ticketData(t *entity.SupportTicket, c *entity.Client) TicketEmailData {
	d := TicketEmailData{
		TicketID:    t.ID,
		Subject:     t.Subject,
		Description: t.Description,
		Priority:    string(t.Priority),
		Status:      string(t.Status),
	}
	if c != nil {
		d.ClientName = c.Name
		d.ClientEmail = c.Email
		d.ClientPhone = c.Phone
	}
	return d
}
