package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"trust-monitor/config"
	"trust-monitor/providers"
)

// httpClient wird für alle Webhook-Zustellungen verwendet.
var httpClient = &http.Client{
	Timeout: 15 * time.Second,
}

// Notifier stellt Verifikations-Ereignisse per HTTP-POST an den
// konfigurierten Endpunkt zu (z.B. den E-Mail-Versand-Dienst).
// Ohne konfigurierte URL werden Ereignisse nur geloggt.
type Notifier struct {
	URL    string
	Logger *zap.Logger
}

// NewNotifier erstellt einen neuen Webhook-Notifier.
func NewNotifier(cfg *config.Config, logger *zap.Logger) *Notifier {
	return &Notifier{
		URL:    cfg.NotifyWebhookURL,
		Logger: logger,
	}
}

// NotifyVerification schickt das Ereignis als JSON an den Webhook.
func (n *Notifier) NotifyVerification(ctx context.Context, event providers.VerificationEvent) error {
	if n.URL == "" {
		n.Logger.Debug("No notify webhook configured, skipping notification",
			zap.Uint("contributor_id", event.ContributorID),
			zap.Bool("verified", event.Verified))
		return nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.URL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("notify webhook returned status %s", resp.Status)
	}
	return nil
}

// RecordVerification protokolliert das Ereignis für die externe
// Gamification-Komponente. Reputation wird hier bewusst nicht mutiert.
func (n *Notifier) RecordVerification(ctx context.Context, contributorID uint, verified bool) error {
	n.Logger.Info("Verification recorded for reputation pipeline",
		zap.Uint("contributor_id", contributorID),
		zap.Bool("verified", verified))
	return nil
}
