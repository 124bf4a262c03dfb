package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"trust-monitor/config"
	"trust-monitor/models"
	"trust-monitor/providers/oracle"
	"trust-monitor/providers/webhook"
	"trust-monitor/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var signalsSubmittedCounter prometheus.Counter

func init() {
	signalsSubmittedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "community_signals_submitted_total",
			Help: "Total number of community signals submitted.",
		},
	)
	prometheus.MustRegister(signalsSubmittedCounter)
}

func apiKeyAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.APISecretKey == "" {
			c.Next()
			return
		}
		apiKey := c.GetHeader("X-API-KEY")
		if apiKey != cfg.APISecretKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Invalid API Key"})
			return
		}
		c.Next()
	}
}

func main() {
	logging, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("Config load error", zap.Error(err))
	}

	// Setup Database Connection
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		logging.Fatal("Failed to connect to database", zap.Error(err))
	}
	logging.Info("Successfully connected to database.")

	// Auto-Migration
	logging.Info("Running database auto-migration...")
	db.AutoMigrate(
		&models.Influencer{},
		&models.Mention{},
		&models.Contributor{},
		&models.CommunitySignal{},
		&models.TrustScore{},
		&models.ScoreHistory{},
	)

	// Setup Services
	factChecker := oracle.NewClient(cfg, logging)
	notifier := webhook.NewNotifier(cfg, logging)
	scoringService := services.NewScoringService(cfg, db, logging)
	verificationService := services.NewVerificationService(cfg, db, factChecker, notifier, notifier, scoringService, logging)
	verificationService.Start(context.Background())

	// Setup Router
	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(apiKeyAuthMiddleware(cfg))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Setup Routes
	setupInfluencerRoutes(router, db, scoringService, logging)
	setupContributorRoutes(router, db, logging)
	setupSignalRoutes(router, db, verificationService, logging)
	setupScoreRoutes(router, db, scoringService, logging)

	// Setup Cron
	cronScheduler := cron.New()
	cronScheduler.AddFunc(cfg.RescoreSchedule, func() {
		logging.Info("Running scheduled rescore job...")
		count, err := scoringService.RecalculateAll(context.Background())
		if err != nil {
			logging.Error("Rescore cron job failed", zap.Error(err))
		} else {
			logging.Info("Rescore cron job completed", zap.Int("influencers", count))
		}
	})
	cronScheduler.AddFunc(cfg.SweepSchedule, func() {
		count, err := verificationService.SweepPending(context.Background())
		if err != nil {
			logging.Error("Pending sweep failed", zap.Error(err))
		} else if count > 0 {
			logging.Info("Pending sweep re-enqueued signals", zap.Int("signals", count))
		}
	})
	cronScheduler.Start()

	logging.Info("Starting server", zap.String("port", cfg.HTTPPort))
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logging.Fatal("Failed to run server", zap.Error(err))
	}
}

func setupInfluencerRoutes(router *gin.Engine, db *gorm.DB, scoring *services.ScoringService, log *zap.Logger) {
	rg := router.Group("/influencers")

	rg.POST("/", func(c *gin.Context) {
		var influencer models.Influencer
		if err := c.ShouldBindJSON(&influencer); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		if influencer.Name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
			return
		}
		influencer.TrustScore = 50
		if err := db.Create(&influencer).Error; err != nil {
			log.Error("Failed to create influencer", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create influencer"})
			return
		}
		c.JSON(http.StatusCreated, influencer)
	})

	rg.GET("/", func(c *gin.Context) {
		var influencers []models.Influencer
		if err := db.Order("trust_score desc").Find(&influencers).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, influencers)
	})

	rg.GET("/:id", func(c *gin.Context) {
		id := c.Param("id")
		var influencer models.Influencer
		if err := db.First(&influencer, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "influencer not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}

		// Anzeige-Metadaten zum aktuellen Score mitliefern
		type InfluencerWithLevel struct {
			models.Influencer
			TrustLevel string `json:"trust_level"`
			TrustColor string `json:"trust_color"`
		}
		c.JSON(http.StatusOK, InfluencerWithLevel{
			Influencer: influencer,
			TrustLevel: services.TrustLevel(influencer.TrustScore),
			TrustColor: services.TrustColor(influencer.TrustScore),
		})
	})

	// PUT ersetzt den kompletten Mention-Bestand eines Influencers
	// (Re-Research liefert immer den vollen Schnappschuss).
	rg.PUT("/:id/mentions", func(c *gin.Context) {
		id := c.Param("id")
		var influencer models.Influencer
		if err := db.First(&influencer, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "influencer not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}

		type MentionInput struct {
			Source         string    `json:"source" binding:"required"`
			URL            string    `json:"url"`
			TextExcerpt    string    `json:"text_excerpt"`
			SentimentScore float64   `json:"sentiment_score"`
			Label          string    `json:"label"`
			ScrapedAt      time.Time `json:"scraped_at"`
		}
		var req struct {
			Mentions []MentionInput `json:"mentions"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		mentions := make([]models.Mention, 0, len(req.Mentions))
		for _, m := range req.Mentions {
			label := m.Label
			switch label {
			case models.LabelDrama, models.LabelPositive, models.LabelNeutral:
			default:
				label = models.LabelNeutral
			}
			scrapedAt := m.ScrapedAt
			if scrapedAt.IsZero() {
				scrapedAt = time.Now().UTC()
			}
			mentions = append(mentions, models.Mention{
				InfluencerID:   influencer.ID,
				Source:         m.Source,
				URL:            m.URL,
				TextExcerpt:    m.TextExcerpt,
				SentimentScore: m.SentimentScore,
				Label:          label,
				ScrapedAt:      scrapedAt,
			})
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("influencer_id = ?", influencer.ID).Delete(&models.Mention{}).Error; err != nil {
				return err
			}
			if len(mentions) == 0 {
				return nil
			}
			return tx.Create(&mentions).Error
		})
		if err != nil {
			log.Error("Failed to replace mentions", zap.String("id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to replace mentions"})
			return
		}

		// Score asynchron neu ableiten, Antwort nicht blockieren
		go func() {
			if _, err := scoring.Calculate(context.Background(), influencer.ID); err != nil {
				log.Error("Async rescore after mention replace failed",
					zap.Uint("influencer_id", influencer.ID), zap.Error(err))
			}
		}()

		c.JSON(http.StatusOK, gin.H{"message": "mentions replaced", "count": len(mentions)})
	})

	rg.GET("/:id/mentions", func(c *gin.Context) {
		id := c.Param("id")
		var mentions []models.Mention
		if err := db.Where("influencer_id = ?", id).Order("scraped_at desc").Find(&mentions).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, mentions)
	})
}

func setupContributorRoutes(router *gin.Engine, db *gorm.DB, log *zap.Logger) {
	rg := router.Group("/contributors")

	rg.POST("/", func(c *gin.Context) {
		var contributor models.Contributor
		if err := c.ShouldBindJSON(&contributor); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		if contributor.Username == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "username is required"})
			return
		}
		switch contributor.Role {
		case models.RoleCommunity, models.RoleProfessional, models.RoleAdmin:
		case "":
			contributor.Role = models.RoleCommunity
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role"})
			return
		}
		if err := db.Create(&contributor).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create contributor"})
			return
		}
		c.JSON(http.StatusCreated, contributor)
	})

	rg.GET("/", func(c *gin.Context) {
		var contributors []models.Contributor
		if err := db.Find(&contributors).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, contributors)
	})
}

func setupSignalRoutes(router *gin.Engine, db *gorm.DB, verifier *services.VerificationService, log *zap.Logger) {
	rg := router.Group("/signals")

	// POST - Signal einreichen; pro (Contributor, Influencer, Typ) wird
	// in-place aktualisiert und der Status auf PENDING zurückgesetzt.
	rg.POST("/", func(c *gin.Context) {
		var req struct {
			InfluencerID  uint     `json:"influencer_id" binding:"required"`
			ContributorID uint     `json:"contributor_id" binding:"required"`
			Type          string   `json:"type" binding:"required"`
			Rating        *float64 `json:"rating"`
			Comment       string   `json:"comment"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		switch req.Type {
		case models.SignalRating, models.SignalDramaReport, models.SignalPositiveAction, models.SignalComment:
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signal type"})
			return
		}
		if req.Type == models.SignalRating {
			if req.Rating == nil || *req.Rating < 1 || *req.Rating > 5 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "rating must be between 1 and 5"})
				return
			}
		}

		var influencer models.Influencer
		if err := db.First(&influencer, req.InfluencerID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "influencer not found"})
			return
		}
		var contributor models.Contributor
		if err := db.First(&contributor, req.ContributorID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "contributor not found"})
			return
		}

		var signal models.CommunitySignal
		err := db.Where("influencer_id = ? AND contributor_id = ? AND type = ?",
			req.InfluencerID, req.ContributorID, req.Type).First(&signal).Error
		switch {
		case err == nil:
			// Re-Submission: in-place aktualisieren, Verdikt zurücksetzen
			updates := map[string]interface{}{
				"rating":              req.Rating,
				"comment":             req.Comment,
				"status":              models.StatusPending,
				"verified_at":         nil,
				"verified_by":         "",
				"verification_reason": "",
				"hidden":              false,
			}
			if err := db.Model(&signal).Updates(updates).Error; err != nil {
				log.Error("Failed to update signal", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save signal"})
				return
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			signal = models.CommunitySignal{
				InfluencerID:  req.InfluencerID,
				ContributorID: req.ContributorID,
				Type:          req.Type,
				Rating:        req.Rating,
				Comment:       req.Comment,
				Status:        models.StatusPending,
			}
			if err := db.Create(&signal).Error; err != nil {
				log.Error("Failed to create signal", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save signal"})
				return
			}
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}

		signalsSubmittedCounter.Inc()

		// Verifikation nie im Request-Pfad: einreihen und sofort antworten
		verifier.Enqueue(signal.ID)

		c.JSON(http.StatusAccepted, gin.H{
			"message": "signal accepted, verification pending",
			"signal":  signal,
		})
	})

	rg.GET("/influencer/:id", func(c *gin.Context) {
		id := c.Param("id")
		includeHidden := c.Query("include_hidden") == "true"

		query := db.Preload("Contributor").Where("influencer_id = ?", id)
		if !includeHidden {
			query = query.Where("hidden = ?", false)
		}

		var signals []models.CommunitySignal
		if err := query.Order("created_at desc").Find(&signals).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, signals)
	})

	// DELETE - nur der Autor darf sein Signal endgültig löschen
	rg.DELETE("/:id", func(c *gin.Context) {
		id := c.Param("id")
		contributorID, err := strconv.ParseUint(c.Query("contributor_id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "contributor_id is required"})
			return
		}

		var signal models.CommunitySignal
		if err := db.First(&signal, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "signal not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		if signal.ContributorID != uint(contributorID) {
			c.JSON(http.StatusForbidden, gin.H{"error": "only the author may delete a signal"})
			return
		}
		if err := db.Delete(&signal).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete signal"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "signal deleted"})
	})

	// PATCH - Admin-Flag: Signal verstecken/wieder einblenden (Soft-Delete)
	rg.PATCH("/:id/hide", func(c *gin.Context) {
		id := c.Param("id")
		var req struct {
			Hidden *bool `json:"hidden" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "hidden field is required"})
			return
		}

		result := db.Model(&models.CommunitySignal{}).Where("id = ?", id).Update("hidden", *req.Hidden)
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "signal not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "signal updated", "hidden": *req.Hidden})
	})

	// POST - manuelles Admin-Verdikt, überschreibt die Automatik
	rg.POST("/:id/review", func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signal id"})
			return
		}
		var req struct {
			Status  string `json:"status" binding:"required"`
			AdminID string `json:"admin_id" binding:"required"`
			Reason  string `json:"reason" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "status, admin_id and reason are required"})
			return
		}

		result, err := verifier.Override(c.Request.Context(), uint(id), req.Status, req.AdminID, req.Reason)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrSignalNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "signal not found"})
			case errors.Is(err, services.ErrReasonRequired):
				c.JSON(http.StatusBadRequest, gin.H{"error": "reason is required"})
			default:
				log.Error("Admin override failed", zap.Uint64("signal_id", id), zap.Error(err))
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			}
			return
		}
		c.JSON(http.StatusOK, result)
	})
}

func setupScoreRoutes(router *gin.Engine, db *gorm.DB, scoring *services.ScoringService, log *zap.Logger) {
	rg := router.Group("/scores")

	rg.POST("/influencers/:id/recalculate", func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid influencer id"})
			return
		}

		score, err := scoring.Calculate(c.Request.Context(), uint(id))
		if err != nil {
			if errors.Is(err, services.ErrInfluencerNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "influencer not found"})
				return
			}
			log.Error("Score calculation failed", zap.Uint64("influencer_id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "score calculation failed"})
			return
		}
		c.JSON(http.StatusOK, score)
	})

	rg.GET("/influencers/:id", func(c *gin.Context) {
		id := c.Param("id")
		var score models.TrustScore
		if err := db.Where("influencer_id = ?", id).First(&score).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "no score calculated yet"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}

		type ScoreWithLevel struct {
			models.TrustScore
			TrustLevel string `json:"trust_level"`
			TrustColor string `json:"trust_color"`
		}
		c.JSON(http.StatusOK, ScoreWithLevel{
			TrustScore: score,
			TrustLevel: services.TrustLevel(score.FinalScore),
			TrustColor: services.TrustColor(score.FinalScore),
		})
	})

	rg.GET("/influencers/:id/history", func(c *gin.Context) {
		id := c.Param("id")
		limit := 50
		if l, err := strconv.Atoi(c.Query("limit")); err == nil && l > 0 {
			limit = l
		}

		var history []models.ScoreHistory
		if err := db.Where("influencer_id = ?", id).
			Order("analyzed_at desc").Limit(limit).Find(&history).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, history)
	})
}
