package mail

import (
	"sync"

	"gopkg.in/gomail.v2"
)

type TicketEmailData struct {
	TicketID    string
	Subject     string
	Description string
	Priority    string
	Status      string
	ClientName  string
	ClientEmail string
	ClientPhone string
}

// Dialer is satisfied by *gomail.Dialer.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type EmailSender struct {
	From         string
	SupportInbox string
	Dialer       Dialer
	wg           sync.WaitGroup
}
