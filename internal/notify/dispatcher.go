// Package notify turns committed quotes into an email with a PDF summary
// for the store administrator.
package notify

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"strings"
	"sync"

	"pintare/internal/domain"
	applog "pintare/internal/log"

	html "github.com/gofiber/template/html/v2"
	"github.com/google/uuid"
	"gopkg.in/gomail.v2"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Notice is everything the quote email needs.
type Notice struct {
	Quote domain.Quote
	Lines []domain.QuoteLine
	User  domain.User
}

// Sender delivers composed messages. *gomail.Dialer satisfies it.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// NewSMTPSender returns a gomail dialer for the given SMTP account.
func NewSMTPSender(host string, port int, user, pass string) Sender {
	return gomail.NewDialer(host, port, user, pass)
}

// Dispatcher composes quote emails synchronously and sends them on a
// background goroutine. Sends are best effort: failures are logged and
// never retried.
type Dispatcher struct {
	sender Sender
	from   string
	to     string
	views  *html.Engine
	wg     sync.WaitGroup
}

// NewDispatcher builds a dispatcher mailing adminTo from the given address.
// A nil sender composes messages but drops them, for setups without SMTP.
func NewDispatcher(sender Sender, from, adminTo string) (*Dispatcher, error) {
	sub, err := fs.Sub(templatesFS, "templates")
	if err != nil {
		return nil, err
	}
	views := html.NewFileSystem(http.FS(sub), ".html")
	if err := views.Load(); err != nil {
		return nil, fmt.Errorf("load mail templates: %w", err)
	}
	return &Dispatcher{sender: sender, from: from, to: adminTo, views: views}, nil
}

// Compose renders the PDF and the HTML body into one message.
func (d *Dispatcher) Compose(n Notice) (*gomail.Message, error) {
	if d.to == "" {
		return nil, errors.New("admin mailbox not configured")
	}
	doc, err := RenderPDF(n)
	if err != nil {
		return nil, err
	}
	var body bytes.Buffer
	if err := d.views.Render(&body, "quote_email", map[string]any{
		"Client":  n.User.ClientName(),
		"Email":   n.User.Email,
		"QuoteID": n.Quote.ID,
		"Date":    FormatDate(n.Quote.CreatedAt),
		"Lines":   n.Lines,
	}); err != nil {
		return nil, fmt.Errorf("render mail body: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", d.from)
	m.SetHeader("To", d.to)
	if n.User.Email != "" {
		m.SetHeader("Reply-To", n.User.Email)
	}
	m.SetHeader("Subject", fmt.Sprintf("Novo Orçamento Recebido - Pedido #%d", n.Quote.ID))
	m.SetHeader("Message-ID", fmt.Sprintf("<%s@%s>", uuid.NewString(), mailDomain(d.from)))
	m.SetBody("text/html", body.String())
	m.Attach(AttachmentName(n.Quote.ID),
		gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(doc)
			return err
		}),
		gomail.SetHeader(map[string][]string{"Content-Type": {"application/pdf"}}),
	)
	return m, nil
}

// Dispatch composes the message and starts delivery without waiting for it.
// The returned error covers composition only.
func (d *Dispatcher) Dispatch(n Notice) error {
	m, err := d.Compose(n)
	if err != nil {
		return err
	}
	fields := map[string]any{"quote_id": n.Quote.ID, "to": d.to}
	if d.sender == nil {
		applog.Info(nil, "quote.mail.disabled", fields)
		return nil
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		if err := d.sender.DialAndSend(m); err != nil {
			applog.Error(nil, "quote.mail.fail", err, fields)
			return
		}
		applog.Info(nil, "quote.mail.sent", fields)
	}()
	return nil
}

// Wait blocks until every started delivery has finished.
func (d *Dispatcher) Wait() { d.wg.Wait() }

func AttachmentName(quoteID int64) string {
	return fmt.Sprintf("orcamento_%d.pdf", quoteID)
}

func mailDomain(addr string) string {
	if i := strings.LastIndex(addr, "@"); i >= 0 && i < len(addr)-1 {
		return strings.TrimSuffix(addr[i+1:], ">")
	}
	return "localhost"
}
