package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"

	"github.com/resend/resend-go/v3"

	"gigmarket/internal/config"
	"gigmarket/internal/pkg/i18n"
)

//go:embed templates/*.html
var templateFS embed.FS

type Service interface {
	SendWelcomeEmail(ctx context.Context, toEmail, name string) error
	SendHiredEmail(ctx context.Context, toEmail, name, gigTitle, gigID string) error
}

type service struct {
	client *resend.Client
	config *config.Config
	logger *slog.Logger
}

// NewService returns a no-op sender when no Resend API key is configured.
func NewService(cfg *config.Config, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("caller", "EmailService"))

	if cfg.ResendAPIKey == "" {
		logger.Info("resend api key not set, email disabled")
		return noopService{}
	}
	return &service{
		client: resend.NewClient(cfg.ResendAPIKey),
		config: cfg,
		logger: logger,
	}
}

func render(templateName string, data interface{}) (string, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+templateName)
	if err != nil {
		return "", fmt.Errorf("failed to parse email templates: %w", err)
	}

	var body bytes.Buffer
	if err := tmpl.ExecuteTemplate(&body, "layout", data); err != nil {
		return "", fmt.Errorf("failed to execute email template: %w", err)
	}
	return body.String(), nil
}

func (s *service) sendEmail(ctx context.Context, toEmail, subject, templateName string, data interface{}) error {
	html, err := render(templateName, data)
	if err != nil {
		return err
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("GigMarket <%s>", s.config.FromEmail),
		To:      []string{toEmail},
		Html:    html,
		Subject: subject,
	}

	if _, err := s.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("send %s: %w", templateName, err)
	}
	s.logger.Debug("email sent", slog.String("template", templateName))
	return nil
}

func (s *service) SendWelcomeEmail(ctx context.Context, toEmail, name string) error {
	data := struct {
		Title string
		Name  string
		Link  string
	}{
		Title: i18n.Translate(s.config.Locale, "EMAIL_WELCOME_SUBJECT"),
		Name:  name,
		Link:  fmt.Sprintf("https://%s", s.config.Domain),
	}
	return s.sendEmail(ctx, toEmail, data.Title, "welcome.html", data)
}

func (s *service) SendHiredEmail(ctx context.Context, toEmail, name, gigTitle, gigID string) error {
	data := struct {
		Title    string
		Name     string
		GigTitle string
		Link     string
	}{
		Title:    i18n.Format(s.config.Locale, "EMAIL_HIRED_SUBJECT", map[string]string{"gig": gigTitle}),
		Name:     name,
		GigTitle: gigTitle,
		Link:     fmt.Sprintf("https://%s/gigs/%s", s.config.Domain, gigID),
	}
	return s.sendEmail(ctx, toEmail, data.Title, "hired.html", data)
}

type noopService struct{}

func (noopService) SendWelcomeEmail(context.Context, string, string) error { return nil }

func (noopService) SendHiredEmail(context.Context, string, string, string, string) error {
	return nil
}
