package notifier

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"signflow/internal/config"
	"signflow/internal/infrastructure/mailer"
	"signflow/internal/usecase"
)

type captureMailer struct {
	sent []*mailer.Message
}

func (m *captureMailer) Send(ctx context.Context, msg *mailer.Message) error {
	m.sent = append(m.sent, msg)
	return nil
}

func newTestNotifier(capture *captureMailer) usecase.Notifier {
	cfg := &config.Config{}
	cfg.App.Name = "SignFlow"
	cfg.App.BaseURL = "https://api.signflow.test"
	cfg.App.FrontendURL = "https://app.signflow.test"
	cfg.Token.SigningTTLHours = 72
	return NewEmailNotifier(cfg, capture, zap.NewNop())
}

func TestSigningRequestEmailCarriesLink(t *testing.T) {
	capture := &captureMailer{}
	n := newTestNotifier(capture)

	err := n.Notify(context.Background(), &usecase.Notification{
		Kind:           usecase.NotifySigningRequest,
		RecipientEmail: "alice@example.com",
		RecipientName:  "Alice",
		DocumentID:     7,
		DocumentTitle:  "NDA",
		SenderName:     "Owner",
		SigningToken:   "tok123",
		CustomMessage:  "Please sign by Friday",
	})
	require.NoError(t, err)
	require.Len(t, capture.sent, 1)

	msg := capture.sent[0]
	require.Equal(t, "alice@example.com", msg.ToEmail)
	require.Equal(t, "Signature requested: NDA", msg.Subject)
	require.Contains(t, msg.HTMLBody, "https://app.signflow.test/sign/tok123")
	require.Contains(t, msg.HTMLBody, "Please sign by Friday")
	require.Contains(t, msg.HTMLBody, "72 hours")
}

func TestDownloadReadyEmailUsesPublicAPI(t *testing.T) {
	capture := &captureMailer{}
	n := newTestNotifier(capture)

	err := n.Notify(context.Background(), &usecase.Notification{
		Kind:           usecase.NotifyDownloadReady,
		RecipientEmail: "bob@example.com",
		RecipientName:  "Bob",
		DocumentTitle:  "NDA",
		SigningToken:   "tok456",
	})
	require.NoError(t, err)
	require.Len(t, capture.sent, 1)

	require.Contains(t, capture.sent[0].HTMLBody,
		"https://api.signflow.test/api/v1/public/tok456/download-signed")
}

func TestRejectionEmailEscapesReason(t *testing.T) {
	capture := &captureMailer{}
	n := newTestNotifier(capture)

	err := n.Notify(context.Background(), &usecase.Notification{
		Kind:           usecase.NotifyOwnerRejected,
		RecipientEmail: "owner@example.com",
		RecipientName:  "Owner",
		DocumentTitle:  "NDA",
		SenderName:     "Alice",
		Reason:         `<script>alert("x")</script>`,
	})
	require.NoError(t, err)
	require.Len(t, capture.sent, 1)

	body := capture.sent[0].HTMLBody
	require.False(t, strings.Contains(body, "<script>"))
	require.Contains(t, body, "&lt;script&gt;")
}

func TestUnknownKindFails(t *testing.T) {
	n := newTestNotifier(&captureMailer{})

	err := n.Notify(context.Background(), &usecase.Notification{
		Kind:           usecase.NotificationKind("carrier_pigeon"),
		RecipientEmail: "x@example.com",
	})
	require.Error(t, err)
}
