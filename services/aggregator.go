package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"trust-monitor/config"
	"trust-monitor/models"
)

// ErrInfluencerNotFound zeigt an, dass Evidenz auf ein unbekanntes
// Subjekt verweist; für die betroffene Operation ist das fatal.
var ErrInfluencerNotFound = errors.New("influencer not found")

// Breakdown enthält jeden additiven Term des finalen Scores.
type Breakdown struct {
	Base                    float64 `json:"base"`
	DramaImpact             float64 `json:"drama_impact"`
	PositiveImpact          float64 `json:"positive_impact"`
	SentimentImpact         float64 `json:"sentiment_impact"`
	RatingImpact            float64 `json:"rating_impact"`
	CommunityDramaImpact    float64 `json:"community_drama_impact"`
	CommunityPositiveImpact float64 `json:"community_positive_impact"`
	ControversyPenalty      float64 `json:"controversy_penalty"`
	VerificationBonus       float64 `json:"verification_bonus"`
	ConsistencyBonus        float64 `json:"consistency_bonus"`
	OutlierAdjustment       float64 `json:"outlier_adjustment"`
	RecencyFactor           float64 `json:"recency_factor"`
	AvgSentiment            float64 `json:"avg_sentiment"`
}

// ScoringService orchestriert die Score-Aggregation: Evidenz laden,
// Teil-Scores berechnen, Korrekturen anwenden und das Ergebnis als
// einziger Schreiber der trust_scores-Tabelle persistieren.
type ScoringService struct {
	Config *config.Config
	DB     *gorm.DB
	Logger *zap.Logger
}

// NewScoringService erstellt eine neue Instanz des ScoringService.
func NewScoringService(cfg *config.Config, db *gorm.DB, logger *zap.Logger) *ScoringService {
	return &ScoringService{
		Config: cfg,
		DB:     db,
		Logger: logger,
	}
}

// ComputeScore ist die reine Aggregationsfunktion: ein Evidenz-
// Schnappschuss rein, ein vollständiger TrustScore raus. Keine
// Seiteneffekte, deterministisch, alle Werte auf 2 Stellen gerundet.
func ComputeScore(now time.Time, influencerID uint, mentions []models.Mention, signals []models.CommunitySignal) (*models.TrustScore, error) {
	ai := ScoreMentions(now, mentions)
	community := ScoreSignals(now, signals)
	adj := ComputeAdjustments(ai, mentions, signals)

	combined := CombineScores(ai.Score, community.Score)
	final := FinalScore(combined, adj)

	reliability := EstimateReliability(now, mentions, signals)
	trend := AnalyzeTrend(now, mentions, signals)

	verified := 0
	contributors := make(map[uint]struct{})
	for _, s := range signals {
		if s.Status == models.StatusVerified {
			verified++
		}
		contributors[s.ContributorID] = struct{}{}
	}

	breakdown := Breakdown{
		Base:                    baseScore,
		DramaImpact:             round2(ai.DramaImpact),
		PositiveImpact:          round2(ai.PositiveImpact),
		SentimentImpact:         round2(ai.SentimentImpact),
		RatingImpact:            round2(community.RatingImpact),
		CommunityDramaImpact:    round2(community.DramaImpact),
		CommunityPositiveImpact: round2(community.PositiveImpact),
		ControversyPenalty:      round2(adj.ControversyPenalty),
		VerificationBonus:       round2(adj.VerificationBonus),
		ConsistencyBonus:        round2(adj.ConsistencyBonus),
		OutlierAdjustment:       round2(adj.OutlierAdjustment),
		RecencyFactor:           round2(ai.RecencyFactor),
		AvgSentiment:            round2(ai.AvgSentiment),
	}
	breakdownJSON, err := json.Marshal(breakdown)
	if err != nil {
		return nil, fmt.Errorf("marshal breakdown: %w", err)
	}

	score := &models.TrustScore{
		InfluencerID:        influencerID,
		FinalScore:          round2(final),
		AIScore:             round2(ai.Score),
		CommunityScore:      round2(community.Score),
		CombinedScore:       round2(combined),
		Confidence:          round2(reliability.Confidence),
		DataQuality:         round2(reliability.DataQuality),
		Controversy:         round2(adj.Controversy),
		Trend:               trend.Trend,
		Momentum:            round2(trend.Momentum),
		Volatility:          round2(trend.Volatility),
		Breakdown:           breakdownJSON,
		MentionCount:        len(mentions),
		SignalCount:         len(signals),
		VerifiedSignalCount: verified,
		AvgRating:           round2(community.AvgRating),
		UniqueContributors:  len(contributors),
		DataSpanDays:        round2(dataSpanDays(mentions, signals)),
		CalculatedAt:        now,
	}
	return score, nil
}

// Calculate lädt die Evidenz des Influencers frisch aus der Datenbank,
// berechnet den Score und persistiert ihn (Upsert + Historie + Cache-
// Spalten am Influencer). Versteckte Signale fließen nicht ein.
func (s *ScoringService) Calculate(ctx context.Context, influencerID uint) (*models.TrustScore, error) {
	var influencer models.Influencer
	if err := s.DB.WithContext(ctx).First(&influencer, influencerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInfluencerNotFound
		}
		return nil, err
	}

	mentions, signals, err := s.loadEvidence(ctx, influencerID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	score, err := ComputeScore(now, influencerID, mentions, signals)
	if err != nil {
		return nil, err
	}

	if err := s.persist(ctx, &influencer, score); err != nil {
		return nil, err
	}

	scoresCalculatedCounter.Inc()
	s.Logger.Info("Trust score calculated",
		zap.String("influencer", influencer.Name),
		zap.Float64("final_score", score.FinalScore),
		zap.String("trend", score.Trend),
		zap.Int("mentions", score.MentionCount),
		zap.Int("signals", score.SignalCount))

	return score, nil
}

// loadEvidence liest beide Evidenzströme zum Aufrufzeitpunkt — kein
// Cache, damit frisch verifizierte Signale sofort zählen.
func (s *ScoringService) loadEvidence(ctx context.Context, influencerID uint) ([]models.Mention, []models.CommunitySignal, error) {
	var mentions []models.Mention
	if err := s.DB.WithContext(ctx).
		Where("influencer_id = ?", influencerID).
		Find(&mentions).Error; err != nil {
		return nil, nil, err
	}

	var signals []models.CommunitySignal
	if err := s.DB.WithContext(ctx).
		Preload("Contributor").
		Where("influencer_id = ? AND hidden = ?", influencerID, false).
		Find(&signals).Error; err != nil {
		return nil, nil, err
	}

	return mentions, signals, nil
}

// persist ersetzt den vorherigen Score vollständig und schreibt die
// Historie sowie die Cache-Spalten am Influencer.
func (s *ScoringService) persist(ctx context.Context, influencer *models.Influencer, score *models.TrustScore) error {
	updateColumns := []string{
		"final_score", "ai_score", "community_score", "combined_score",
		"confidence", "data_quality", "controversy",
		"trend", "momentum", "volatility", "breakdown",
		"mention_count", "signal_count", "verified_signal_count",
		"avg_rating", "unique_contributors", "data_span_days",
		"calculated_at", "updated_at",
	}

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "influencer_id"}},
			DoUpdates: clause.AssignmentColumns(updateColumns),
		}).Create(score).Error; err != nil {
			return err
		}

		// Cache-Zähler aus dem AI-Strom
		var dramaCount, positiveCount int64
		tx.Model(&models.Mention{}).
			Where("influencer_id = ? AND label = ?", score.InfluencerID, models.LabelDrama).
			Count(&dramaCount)
		tx.Model(&models.Mention{}).
			Where("influencer_id = ? AND label = ?", score.InfluencerID, models.LabelPositive).
			Count(&positiveCount)

		history := models.ScoreHistory{
			InfluencerID:  score.InfluencerID,
			FinalScore:    score.FinalScore,
			DramaCount:    int(dramaCount),
			PositiveCount: int(positiveCount),
			SignalCount:   score.SignalCount,
			AnalyzedAt:    score.CalculatedAt,
		}
		if err := tx.Create(&history).Error; err != nil {
			return err
		}

		return tx.Model(influencer).Updates(map[string]interface{}{
			"trust_score":      score.FinalScore,
			"drama_count":      dramaCount,
			"positive_count":   positiveCount,
			"last_analyzed_at": score.CalculatedAt,
		}).Error
	})
}

// RecalculateAll berechnet alle Influencer neu (Cron-Lauf).
func (s *ScoringService) RecalculateAll(ctx context.Context) (int, error) {
	var influencers []models.Influencer
	if err := s.DB.WithContext(ctx).Find(&influencers).Error; err != nil {
		return 0, err
	}

	done := 0
	for _, inf := range influencers {
		if _, err := s.Calculate(ctx, inf.ID); err != nil {
			s.Logger.Error("Scheduled rescore failed",
				zap.String("influencer", inf.Name), zap.Error(err))
			continue
		}
		done++
	}
	return done, nil
}

// dataSpanDays misst die zeitliche Spannweite der gesamten Evidenz in Tagen.
func dataSpanDays(mentions []models.Mention, signals []models.CommunitySignal) float64 {
	var oldest, newest time.Time
	observe := func(ts time.Time) {
		if oldest.IsZero() || ts.Before(oldest) {
			oldest = ts
		}
		if newest.IsZero() || ts.After(newest) {
			newest = ts
		}
	}
	for _, m := range mentions {
		observe(m.ScrapedAt)
	}
	for _, s := range signals {
		observe(s.CreatedAt)
	}
	if oldest.IsZero() {
		return 0
	}
	return newest.Sub(oldest).Hours() / 24
}

// TrustLevel gibt die Anzeige-Stufe für einen Score zurück.
func TrustLevel(score float64) string {
	switch {
	case score >= 80:
		return "Très fiable"
	case score >= 60:
		return "Fiable"
	case score >= 40:
		return "Neutre"
	case score >= 20:
		return "Peu fiable"
	default:
		return "Non fiable"
	}
}

// TrustColor gibt die Anzeige-Farbe für einen Score zurück.
func TrustColor(score float64) string {
	switch {
	case score >= 80:
		return "#10b981"
	case score >= 60:
		return "#3b82f6"
	case score >= 40:
		return "#f59e0b"
	case score >= 20:
		return "#ef4444"
	default:
		return "#991b1b"
	}
}
