package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"trust-monitor/config"
	"trust-monitor/models"
	"trust-monitor/providers"
)

// Begründungen der automatischen Verdikte.
const (
	ReasonSimpleRating      = "auto-approved: simple rating"
	ReasonRatingWithComment = "auto-approved: rating with comment"
	ReasonUnverifiable      = "unable to verify"
)

// ErrSignalNotFound zeigt ein unbekanntes Signal an.
var ErrSignalNotFound = errors.New("signal not found")

// ErrReasonRequired: Admin-Overrides brauchen immer eine Begründung.
var ErrReasonRequired = errors.New("override reason is required")

// VerifyResult ist das Ergebnis einer Signal-Verifikation.
type VerifyResult struct {
	Verified bool    `json:"verified"`
	Reason   string  `json:"reason"`
	Status   string  `json:"status"`
	Oracle   bool    `json:"oracle_consulted"`
	Conf     float64 `json:"confidence,omitempty"`
}

// oracleVerdict ist das erwartete JSON-Verdikt des Fact-Check-Oracles.
type oracleVerdict struct {
	Verified   bool    `json:"verified"`
	Reason     string  `json:"reason"`
	Confidence float64 `json:"confidence"`
}

// VerificationService entscheidet, welche Community-Signale
// vertrauenswürdig genug sind, um in den Score einzufließen.
// Signal-Erstellung blockiert nie auf der Verifikation: sie landet in
// einer Queue und wird von Worker-Goroutinen abgearbeitet.
type VerificationService struct {
	Config     *config.Config
	DB         *gorm.DB
	Oracle     providers.Oracle
	Notifier   providers.Notifier
	Reputation providers.ReputationSink
	Scoring    *ScoringService
	Logger     *zap.Logger

	queue chan uint
}

// NewVerificationService erstellt eine neue Instanz des VerificationService.
func NewVerificationService(cfg *config.Config, db *gorm.DB, oracle providers.Oracle, notifier providers.Notifier, reputation providers.ReputationSink, scoring *ScoringService, logger *zap.Logger) *VerificationService {
	return &VerificationService{
		Config:     cfg,
		DB:         db,
		Oracle:     oracle,
		Notifier:   notifier,
		Reputation: reputation,
		Scoring:    scoring,
		Logger:     logger,
		queue:      make(chan uint, cfg.VerifyQueueSize),
	}
}

// Start startet die Verifikations-Worker. Sie laufen bis ctx endet.
func (v *VerificationService) Start(ctx context.Context) {
	for i := 0; i < v.Config.VerifyWorkers; i++ {
		go v.worker(ctx, i)
	}
	v.Logger.Info("Verification workers started", zap.Int("workers", v.Config.VerifyWorkers))
}

func (v *VerificationService) worker(ctx context.Context, id int) {
	for {
		select {
		case <-ctx.Done():
			return
		case signalID := <-v.queue:
			if _, err := v.VerifySignal(ctx, signalID); err != nil {
				v.Logger.Error("Signal verification failed",
					zap.Int("worker", id), zap.Uint("signal_id", signalID), zap.Error(err))
			}
		}
	}
}

// Enqueue reiht ein Signal zur Verifikation ein, ohne den Aufrufer zu
// blockieren. Bei voller Queue bleibt das Signal PENDING; der Sweep
// holt es später nach.
func (v *VerificationService) Enqueue(signalID uint) {
	select {
	case v.queue <- signalID:
	default:
		v.Logger.Warn("Verification queue full, signal stays pending", zap.Uint("signal_id", signalID))
	}
}

// VerifySignal führt die Zustandsmaschine für ein Signal aus und
// persistiert das Verdikt. Bereits entschiedene Signale werden nicht
// erneut angefasst (idempotentes Doppel-Dispatch); der letzte Schreiber
// gewinnt, da die nachgelagerte Aggregation eine reine Neuableitung ist.
func (v *VerificationService) VerifySignal(ctx context.Context, signalID uint) (*VerifyResult, error) {
	var signal models.CommunitySignal
	if err := v.DB.WithContext(ctx).First(&signal, signalID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSignalNotFound
		}
		return nil, err
	}

	if signal.Status != models.StatusPending {
		return &VerifyResult{
			Verified: signal.Status == models.StatusVerified,
			Reason:   signal.VerificationReason,
			Status:   signal.Status,
		}, nil
	}

	var influencer models.Influencer
	if err := v.DB.WithContext(ctx).First(&influencer, signal.InfluencerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInfluencerNotFound
		}
		return nil, err
	}

	result := v.decide(ctx, &signal, influencer.Name)

	if err := v.applyVerdict(ctx, &signal, result, models.VerifiedByAI); err != nil {
		return nil, err
	}
	return result, nil
}

// decide wertet die Regeln in fester Reihenfolge aus:
// 1. Rating ohne Text → VERIFIED
// 2. Text vorhanden → Spam-Heuristik, Spam → REJECTED
// 3. Drama-/Positiv-Report mit sauberem Text → Oracle (fail-closed)
// 4. Rating mit sauberem Text → VERIFIED
// 5. alles andere → REJECTED
func (v *VerificationService) decide(ctx context.Context, signal *models.CommunitySignal, influencerName string) *VerifyResult {
	comment := strings.TrimSpace(signal.Comment)

	if signal.Type == models.SignalRating && comment == "" {
		return &VerifyResult{Verified: true, Status: models.StatusVerified, Reason: ReasonSimpleRating}
	}

	if comment != "" {
		if reason := SpamReason(comment); reason != "" {
			return &VerifyResult{Verified: false, Status: models.StatusRejected, Reason: reason}
		}

		if signal.Type == models.SignalDramaReport || signal.Type == models.SignalPositiveAction {
			return v.consultOracle(ctx, signal, influencerName, comment)
		}

		if signal.Type == models.SignalRating {
			return &VerifyResult{Verified: true, Status: models.StatusVerified, Reason: ReasonRatingWithComment}
		}
	}

	return &VerifyResult{Verified: false, Status: models.StatusRejected, Reason: ReasonUnverifiable}
}

// consultOracle fragt das Fact-Check-Oracle. Jeder Fehler — Timeout,
// Netzwerk, unparsebare Antwort — endet REJECTED: unbelegte
// Behauptungen werden nie automatisch freigegeben.
func (v *VerificationService) consultOracle(ctx context.Context, signal *models.CommunitySignal, influencerName, claim string) *VerifyResult {
	prompt := buildVerificationPrompt(influencerName, signal.Type, claim)

	oracleCallsCounter.Inc()
	raw, err := v.Oracle.Verify(ctx, prompt)
	if err != nil {
		oracleFailuresCounter.Inc()
		v.Logger.Warn("Oracle unavailable, rejecting claim",
			zap.Uint("signal_id", signal.ID), zap.Error(err))
		return &VerifyResult{Verified: false, Status: models.StatusRejected, Oracle: true,
			Reason: "verification failed: fact-check service unavailable"}
	}

	verdict, err := parseVerdict(raw)
	if err != nil {
		oracleFailuresCounter.Inc()
		v.Logger.Warn("Oracle verdict unparsable, rejecting claim",
			zap.Uint("signal_id", signal.ID), zap.Error(err))
		return &VerifyResult{Verified: false, Status: models.StatusRejected, Oracle: true,
			Reason: "verification failed: unreadable fact-check verdict"}
	}

	status := models.StatusRejected
	if verdict.Verified {
		status = models.StatusVerified
	}
	reason := strings.TrimSpace(verdict.Reason)
	if reason == "" {
		reason = ReasonUnverifiable
	}
	return &VerifyResult{Verified: verdict.Verified, Status: status, Reason: reason, Oracle: true, Conf: verdict.Confidence}
}

// Override erzwingt ein manuelles Admin-Verdikt und protokolliert die
// Admin-Kennung samt Pflicht-Begründung. PENDING öffnet das Signal neu.
func (v *VerificationService) Override(ctx context.Context, signalID uint, status, adminID, reason string) (*VerifyResult, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, ErrReasonRequired
	}
	if status != models.StatusVerified && status != models.StatusRejected && status != models.StatusPending {
		return nil, fmt.Errorf("invalid override status %q", status)
	}

	var signal models.CommunitySignal
	if err := v.DB.WithContext(ctx).First(&signal, signalID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSignalNotFound
		}
		return nil, err
	}

	if status == models.StatusPending {
		// Neueröffnung: zurück in die automatische Pipeline
		if err := v.DB.WithContext(ctx).Model(&signal).Updates(map[string]interface{}{
			"status":              models.StatusPending,
			"verified_at":         nil,
			"verified_by":         adminID,
			"verification_reason": reason,
		}).Error; err != nil {
			return nil, err
		}
		v.Enqueue(signal.ID)
		return &VerifyResult{Status: models.StatusPending, Reason: reason}, nil
	}

	result := &VerifyResult{
		Verified: status == models.StatusVerified,
		Status:   status,
		Reason:   reason,
	}
	if err := v.applyVerdict(ctx, &signal, result, adminID); err != nil {
		return nil, err
	}
	return result, nil
}

// applyVerdict schreibt den Status und stößt die Seiteneffekte an.
// Benachrichtigung, Reputations-Ereignis und Neu-Aggregation laufen
// asynchron; ihr Scheitern rollt das Verdikt nie zurück.
func (v *VerificationService) applyVerdict(ctx context.Context, signal *models.CommunitySignal, result *VerifyResult, verifier string) error {
	now := time.Now().UTC()
	if err := v.DB.WithContext(ctx).Model(signal).Updates(map[string]interface{}{
		"status":              result.Status,
		"verified_at":         now,
		"verified_by":         verifier,
		"verification_reason": result.Reason,
	}).Error; err != nil {
		return err
	}

	if result.Status == models.StatusVerified {
		signalsVerifiedCounter.Inc()
	} else {
		signalsRejectedCounter.Inc()
	}

	influencerID := signal.InfluencerID
	contributorID := signal.ContributorID
	signalType := signal.Type
	verified := result.Verified
	reason := result.Reason

	go func() {
		bg, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		var influencer models.Influencer
		name := ""
		if err := v.DB.WithContext(bg).First(&influencer, influencerID).Error; err == nil {
			name = influencer.Name
		}

		if err := v.Notifier.NotifyVerification(bg, providers.VerificationEvent{
			ContributorID:  contributorID,
			InfluencerName: name,
			SignalType:     signalType,
			Verified:       verified,
			Reason:         reason,
		}); err != nil {
			v.Logger.Warn("Verification notification failed", zap.Error(err))
		}

		if err := v.Reputation.RecordVerification(bg, contributorID, verified); err != nil {
			v.Logger.Warn("Reputation event failed", zap.Error(err))
		}

		if verified {
			if _, err := v.Scoring.Calculate(bg, influencerID); err != nil {
				v.Logger.Error("Post-verification rescore failed",
					zap.Uint("influencer_id", influencerID), zap.Error(err))
			}
		}
	}()

	return nil
}

// SweepPending reiht Signale wieder ein, die zu lange PENDING sind
// (volle Queue, Absturz zwischen Erstellung und Verdikt).
func (v *VerificationService) SweepPending(ctx context.Context) (int, error) {
	cutoff := time.Now().UTC().Add(-v.Config.PendingMaxAge)

	var ids []uint
	if err := v.DB.WithContext(ctx).Model(&models.CommunitySignal{}).
		Where("status = ? AND updated_at < ?", models.StatusPending, cutoff).
		Pluck("id", &ids).Error; err != nil {
		return 0, err
	}

	for _, id := range ids {
		v.Enqueue(id)
	}
	return len(ids), nil
}

// buildVerificationPrompt baut den strukturierten Oracle-Prompt.
func buildVerificationPrompt(influencerName, signalType, claim string) string {
	claimKind := "negative Behauptung (Drama)"
	if signalType == models.SignalPositiveAction {
		claimKind = "positive Behauptung (gute Tat)"
	}
	return fmt.Sprintf(`Du bist ein Faktenprüfer für eine Community-Plattform, die öffentliche Personen beobachtet.

Person: %s
Art der Einreichung: %s
Behauptung eines Community-Mitglieds:
"""
%s
"""

Prüfe, ob die Behauptung durch öffentlich bekannte, belegbare Fakten gestützt wird.
Antworte ausschließlich mit einem JSON-Objekt:
{"verified": true/false, "reason": "kurze Begründung", "confidence": 0.0-1.0}`,
		influencerName, claimKind, claim)
}

// parseVerdict extrahiert das erste wohlgeformte JSON-Objekt aus der
// Oracle-Antwort. Alles Unlesbare ist ein Fehler (fail-closed).
func parseVerdict(raw string) (*oracleVerdict, error) {
	extracted := extractJSON(raw)

	var verdict oracleVerdict
	if err := json.Unmarshal([]byte(extracted), &verdict); err != nil {
		return nil, fmt.Errorf("parse oracle verdict: %w", err)
	}
	return &verdict, nil
}

// extractJSON schneidet ein JSON-Objekt aus einer Antwort, die
// zusätzlichen Text enthalten kann.
func extractJSON(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end != -1 && end > start {
		return text[start : end+1]
	}
	return text
}
