package mailer

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"github.com/wneessen/go-mail"

	"github.com/codekart/codekart/internal/config"
	"github.com/codekart/codekart/internal/models"
)

// Mailer sends the three transactional mails of the order lifecycle.
type Mailer interface {
	SendOrderAlert(ctx context.Context, order *models.Order) error
	SendOrderConfirmation(ctx context.Context, order *models.Order) error
	SendPaymentReceipt(ctx context.Context, order *models.Order) error
}

type SMTPMailer struct {
	client     *mail.Client
	from       string
	adminEmail string
}

func NewSMTP(cfg *config.Config) (*SMTPMailer, error) {
	port, err := strconv.Atoi(cfg.SMTP_PORT)
	if err != nil {
		port = 587
	}

	client, err := mail.NewClient(cfg.SMTP_HOST,
		mail.WithPort(port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.SMTP_USER),
		mail.WithPassword(cfg.SMTP_PASSWORD),
	)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}

	return &SMTPMailer{
		client:     client,
		from:       cfg.SMTP_USER,
		adminEmail: cfg.ADMIN_EMAIL,
	}, nil
}

// SendOrderAlert mails the admin a new-order summary with the line items.
func (m *SMTPMailer) SendOrderAlert(ctx context.Context, order *models.Order) error {
	var body bytes.Buffer
	if err := orderAlertTmpl.Execute(&body, order); err != nil {
		return err
	}
	subject := fmt.Sprintf("New Order #%d - ₹%.2f", order.ID, order.TotalAmount)
	return m.send(ctx, m.adminEmail, subject, body.String())
}

// SendOrderConfirmation mails the customer that the order was received.
func (m *SMTPMailer) SendOrderConfirmation(ctx context.Context, order *models.Order) error {
	var body bytes.Buffer
	if err := orderConfirmationTmpl.Execute(&body, order); err != nil {
		return err
	}
	subject := fmt.Sprintf("Order Confirmed - CodeKart #%d", order.ID)
	return m.send(ctx, order.CustomerInfo.Email, subject, body.String())
}

// SendPaymentReceipt mails the customer once payment is verified.
func (m *SMTPMailer) SendPaymentReceipt(ctx context.Context, order *models.Order) error {
	var body bytes.Buffer
	if err := paymentReceiptTmpl.Execute(&body, order); err != nil {
		return err
	}
	subject := fmt.Sprintf("Payment Received - CodeKart #%d", order.ID)
	return m.send(ctx, order.CustomerInfo.Email, subject, body.String())
}

func (m *SMTPMailer) send(ctx context.Context, to, subject, html string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, html)

	return m.client.DialAndSendWithContext(ctx, msg)
}
