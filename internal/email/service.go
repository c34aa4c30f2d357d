package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"strconv"
	"strings"

	"github.com/dukerupert/route66/internal/money"
)

//go:embed templates/*.html
var templateFS embed.FS

// Service composes shop emails and hands them to a Sender.
type Service struct {
	sender      Sender
	fromAddress string
	fromName    string
	templates   *template.Template
}

// NewService parses the embedded email templates.
func NewService(sender Sender, fromAddress, fromName string) (*Service, error) {
	tmpl, err := template.New("email").Funcs(template.FuncMap{
		"money": money.Format,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	return &Service{
		sender:      sender,
		fromAddress: fromAddress,
		fromName:    fromName,
		templates:   tmpl,
	}, nil
}

// SendOrderConfirmation sends an order confirmation email
func (s *Service) SendOrderConfirmation(ctx context.Context, data OrderConfirmationEmail) error {
	return s.send(ctx, data.Email, data)
}

// SendOrderStatus notifies the customer of a status change
func (s *Service) SendOrderStatus(ctx context.Context, data OrderStatusEmail) error {
	return s.send(ctx, data.Email, data)
}

func (s *Service) send(ctx context.Context, to string, data Template) error {
	if to == "" {
		return fmt.Errorf("no recipient for %s", data.TemplateName())
	}

	htmlBody, err := s.render(data.TemplateName(), data)
	if err != nil {
		return err
	}

	email := &Email{
		To:       []string{to},
		From:     s.from(),
		Subject:  data.Subject(),
		HTMLBody: htmlBody,
		TextBody: generatePlainText(htmlBody),
	}

	if _, err := s.sender.Send(ctx, email); err != nil {
		return fmt.Errorf("failed to send %s email: %w", data.TemplateName(), err)
	}
	return nil
}

func (s *Service) from() string {
	if s.fromName == "" {
		return s.fromAddress
	}
	return fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)
}

func (s *Service) render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	return buf.String(), nil
}

var plainTextBreaks = strings.NewReplacer(
	"<br>", "\n", "<br/>", "\n", "<br />", "\n",
	"</p>", "\n\n", "</div>", "\n", "</tr>", "\n", "</li>", "\n",
	"</h1>", "\n\n", "</h2>", "\n\n", "</h3>", "\n\n",
)

var plainTextEntities = strings.NewReplacer(
	"&nbsp;", " ", "&amp;", "&", "&lt;", "<", "&gt;", ">",
	"&quot;", "\"", "&#34;", "\"", "&#39;", "'",
)

// generatePlainText derives a text body from rendered HTML.
func generatePlainText(html string) string {
	text := plainTextBreaks.Replace(html)

	var b strings.Builder
	inTag := false
	for _, r := range text {
		switch {
		case r == '<':
			inTag = true
		case r == '>' && inTag:
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	text = plainTextEntities.Replace(b.String())

	var cleaned []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
