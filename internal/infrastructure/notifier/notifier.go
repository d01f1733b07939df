package notifier

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"go.uber.org/zap"

	"signflow/internal/config"
	"signflow/internal/infrastructure/mailer"
	"signflow/internal/usecase"
)

type emailNotifier struct {
	config *config.Config
	mailer mailer.Mailer
	logger *zap.Logger
}

func NewEmailNotifier(cfg *config.Config, m mailer.Mailer, logger *zap.Logger) usecase.Notifier {
	return &emailNotifier{
		config: cfg,
		mailer: m,
		logger: logger,
	}
}

type templateData struct {
	RecipientName string
	DocumentTitle string
	SenderName    string
	CustomMessage string
	Reason        string
	SigningLink   string
	DownloadLink  string
	ExpiresHours  int
	AppName       string
}

func (n *emailNotifier) Notify(ctx context.Context, intent *usecase.Notification) error {
	subject, tmpl, err := n.resolve(intent.Kind)
	if err != nil {
		return err
	}

	data := templateData{
		RecipientName: intent.RecipientName,
		DocumentTitle: intent.DocumentTitle,
		SenderName:    intent.SenderName,
		CustomMessage: intent.CustomMessage,
		Reason:        intent.Reason,
		ExpiresHours:  n.config.Token.SigningTTLHours,
		AppName:       n.config.App.Name,
	}
	if intent.SigningToken != "" {
		data.SigningLink = fmt.Sprintf("%s/sign/%s", n.config.App.FrontendURL, intent.SigningToken)
		data.DownloadLink = fmt.Sprintf("%s/api/v1/public/%s/download-signed", n.config.App.BaseURL, intent.SigningToken)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to render notification body: %w", err)
	}

	msg := &mailer.Message{
		ToEmail:  intent.RecipientEmail,
		ToName:   intent.RecipientName,
		Subject:  fmt.Sprintf(subject, intent.DocumentTitle),
		HTMLBody: body.String(),
	}

	if err := n.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to deliver %s notification: %w", intent.Kind, err)
	}

	n.logger.Info("Notification delivered",
		zap.String("kind", string(intent.Kind)),
		zap.String("recipient", intent.RecipientEmail),
		zap.Int64("document_id", intent.DocumentID),
	)

	return nil
}

func (n *emailNotifier) resolve(kind usecase.NotificationKind) (string, *template.Template, error) {
	switch kind {
	case usecase.NotifySigningRequest:
		return "Signature requested: %s", signingRequestTmpl, nil
	case usecase.NotifyNextSignerReminder:
		return "Your turn to sign: %s", nextSignerTmpl, nil
	case usecase.NotifyOwnerSigned:
		return "New signature on: %s", ownerSignedTmpl, nil
	case usecase.NotifyOwnerRejected:
		return "Document rejected: %s", ownerRejectedTmpl, nil
	case usecase.NotifyDownloadReady:
		return "Your signed copy is ready: %s", downloadReadyTmpl, nil
	default:
		return "", nil, fmt.Errorf("unknown notification kind: %s", kind)
	}
}
