package mailer

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/wneessen/go-mail"
)

// Mailer delivers a rendered email and returns the message ID.
type Mailer interface {
	Send(ctx context.Context, message *Message) (string, error)
}

// Message is a fully-rendered email ready for delivery.
type Message struct {
	FromName  string
	FromEmail string
	To        string
	ReplyTo   string
	Subject   string
	HTML      string
}

// Config holds the configuration for the mailer
type Config struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
}

// SMTPMailer implements the Mailer interface using SMTP
type SMTPMailer struct {
	config   *Config
	testMode bool
}

// NewSMTPMailer creates a new SMTP mailer
func NewSMTPMailer(config *Config) *SMTPMailer {
	return &SMTPMailer{
		config:   config,
		testMode: false,
	}
}

// NewTestSMTPMailer creates a new SMTP mailer in test mode (won't connect to SMTP server)
func NewTestSMTPMailer(config *Config) *SMTPMailer {
	return &SMTPMailer{
		config:   config,
		testMode: true,
	}
}

func (m *SMTPMailer) Send(ctx context.Context, message *Message) (string, error) {
	msg := mail.NewMsg(mail.WithNoDefaultUserAgent())

	if err := msg.FromFormat(message.FromName, message.FromEmail); err != nil {
		return "", fmt.Errorf("failed to set email from address: %w", err)
	}
	if err := msg.To(message.To); err != nil {
		return "", fmt.Errorf("failed to set email recipient: %w", err)
	}
	if message.ReplyTo != "" {
		if err := msg.ReplyTo(message.ReplyTo); err != nil {
			return "", fmt.Errorf("failed to set reply-to address: %w", err)
		}
	}

	msg.Subject(message.Subject)
	msg.SetMessageID()
	msg.SetBodyString(mail.TypeTextHTML, message.HTML)

	messageID := msg.GetMessageID()

	client, err := m.createSMTPClient()
	if err != nil {
		return "", err
	}

	// For testing - log information if client is nil
	if client == nil {
		log.Printf("Sending email to: %s", message.To)
		log.Printf("From: %s <%s>", message.FromName, message.FromEmail)
		log.Printf("Subject: %s", message.Subject)
		return messageID, nil
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return "", fmt.Errorf("failed to send email: %w", err)
	}

	return messageID, nil
}

// createSMTPClient creates and configures a new SMTP client
func (m *SMTPMailer) createSMTPClient() (*mail.Client, error) {
	// In test mode, return nil client to avoid SMTP connections
	if m.testMode {
		return nil, nil
	}

	clientOptions := []mail.Option{
		mail.WithPort(m.config.SMTPPort),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
		mail.WithTimeout(10 * time.Second),
	}

	// Only add authentication if username and password are provided
	// This allows for unauthenticated SMTP servers (e.g., local relays, port 25)
	if m.config.SMTPUsername != "" && m.config.SMTPPassword != "" {
		clientOptions = append(clientOptions,
			mail.WithUsername(m.config.SMTPUsername),
			mail.WithPassword(m.config.SMTPPassword),
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
		)
	}

	client, err := mail.NewClient(m.config.SMTPHost, clientOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to create SMTP client: %w", err)
	}

	return client, nil
}

// ConsoleMailer is a development implementation that just logs emails
type ConsoleMailer struct{}

// NewConsoleMailer creates a new console mailer for development
func NewConsoleMailer() *ConsoleMailer {
	return &ConsoleMailer{}
}

func (m *ConsoleMailer) Send(ctx context.Context, message *Message) (string, error) {
	fmt.Println("==============================================================")
	fmt.Printf("To: %s\n", message.To)
	fmt.Printf("From: %s <%s>\n", message.FromName, message.FromEmail)
	fmt.Printf("Subject: %s\n\n", message.Subject)
	fmt.Println(message.HTML)
	fmt.Println("==============================================================")
	return fmt.Sprintf("console-%d", time.Now().UnixNano()), nil
}
