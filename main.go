package main

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"survey-admin/config"
	"survey-admin/middleware"
	"survey-admin/models"
	"survey-admin/providers/pubmed"
	"survey-admin/providers/recommender"
	"survey-admin/services"
	"survey-admin/storage"
	"survey-admin/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"google.golang.org/api/idtoken"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	surveySubmissionsCounter prometheus.Counter
	recommendationsCounter   prometheus.Counter
	pdfUploadsCounter        prometheus.Counter
)

func init() {
	surveySubmissionsCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "survey_submissions_total",
			Help: "Total number of completed survey submissions.",
		},
	)
	recommendationsCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ai_recommendations_generated_total",
			Help: "Total number of AI recommendations successfully generated.",
		},
	)
	pdfUploadsCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pdf_uploads_total",
			Help: "Total number of PDF documents uploaded to object storage.",
		},
	)
	prometheus.MustRegister(surveySubmissionsCounter, recommendationsCounter, pdfUploadsCounter)
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
	logging.Info("Successfully connected to survey database.")

	// Auto-Migration
	logging.Info("Running database auto-migration...")
	db.AutoMigrate(
		&models.Question{},
		&models.SurveyUser{},
		&models.SurveyResponseRecord{},
		&models.SurveyAnswer{},
		&models.PdfDocument{},
		&models.AdminAccount{},
		&models.PasswordResetCode{},
	)

	// Seeding
	seedDefaultQuestions(db, logging)
	seedInitialAdmin(db, cfg, logging)

	// Setup Services
	s3Client, err := storage.NewS3Client(cfg)
	if err != nil {
		logging.Fatal("S3 client creation failed", zap.Error(err))
	}
	pubmedFetcher := pubmed.NewFetcher(cfg, logging)
	recommenderFetcher := recommender.NewFetcher(cfg, logging)
	pdfService := services.NewPDFService(cfg, db, s3Client, logging, pubmedFetcher)
	otpService := services.NewOTPService(cfg, db, logging)
	renderer := services.NewRichTextRenderer(logging)

	// Setup Router
	// gin.Default() bringt Logger und Recovery bereits mit.
	router := gin.Default()
	router.SetTrustedProxies(nil)
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.Ping()
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": "down"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authRequired := middleware.AuthJWT(cfg, db)
	loginLimiter := middleware.NewIPRateLimiter(cfg.LoginRatePerMin, 5, 10*time.Minute)
	submitLimiter := middleware.NewIPRateLimiter(cfg.SubmitRatePerMin, 3, 10*time.Minute)

	// Setup Routes
	setupAuthRoutes(router, db, cfg, logging, otpService, loginLimiter)
	setupAdminAccountRoutes(router, db, logging, authRequired)
	setupQuestionRoutes(router, db, logging, authRequired)
	setupHistoryRoutes(router, db, logging, renderer, authRequired)
	setupPDFRoutes(router, pdfService, logging, authRequired)
	setupSurveyRoutes(router, db, logging, recommenderFetcher, submitLimiter)

	// Setup Cron
	cronScheduler := cron.New()
	cronScheduler.AddFunc(cfg.CronSchedule, func() {
		logging.Info("Running scheduled reset code cleanup...")
		count, err := otpService.PurgeExpired()
		if err != nil {
			logging.Error("Cron job failed", zap.Error(err))
		} else {
			logging.Info("Cron job completed", zap.Int64("purged_codes", count))
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

// listParams sind die gemeinsamen Query-Parameter aller Listen-Endpunkte.
// Ohne einen der drei Parameter antwortet der Endpunkt mit dem alten,
// unpaginierten Array-Format.
type listParams struct {
	query    string
	page     int
	pageSize int
	paged    bool
}

// queryID parst den id-Query-Parameter strikt numerisch. Der Rohwert darf
// nie direkt in eine gorm-Condition wandern: gorm behandelt nicht-numerische
// Strings dort als rohes SQL.
func queryID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Query("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a positive integer"})
		return 0, false
	}
	return id, true
}

func parseListParams(c *gin.Context) listParams {
	p := listParams{
		query: strings.TrimSpace(c.Query("search")),
		paged: c.Query("search") != "" || c.Query("page") != "" || c.Query("page_size") != "",
	}
	p.page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if p.page < 1 {
		p.page = 1
	}
	size, _ := strconv.Atoi(c.Query("page_size"))
	p.pageSize = services.NormalizePageSize(size)
	return p
}

// respondList filtert, paginiert und serialisiert eine Listen-Antwort.
// Eine Seite jenseits des Endes wird auf die letzte gültige Seite gezogen,
// damit das Dashboard nach dem Löschen des letzten Eintrags einer Seite
// nicht auf einer leeren Seite landet.
func respondList[T any](c *gin.Context, items []T, p listParams, match func(item T, query string) bool) {
	if !p.paged {
		c.JSON(http.StatusOK, items)
		return
	}
	filtered := services.FilterItems(items, p.query, match)
	page := services.ClampPage(p.page, services.TotalPages(len(filtered), p.pageSize))
	c.JSON(http.StatusOK, services.Paginate(filtered, p.pageSize, page))
}

func adminPayload(cfg *config.Config, acct models.AdminAccount) (gin.H, error) {
	token, err := utils.GenerateToken(cfg, acct)
	if err != nil {
		return nil, err
	}
	return gin.H{
		"token":        token,
		"email":        acct.Email,
		"username":     acct.Username,
		"is_superuser": acct.IsSuperuser,
	}, nil
}

func setupAuthRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config, log *zap.Logger, otp *services.OTPService, limiter *middleware.IPRateLimiter) {
	rg := router.Group("/admin")
	rg.Use(middleware.RateLimitByIP(limiter))

	rg.POST("/login/", func(c *gin.Context) {
		var req struct {
			Email    string `json:"email" binding:"required,email"`
			Password string `json:"password" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		var acct models.AdminAccount
		if err := db.Where("LOWER(email) = LOWER(?)", req.Email).First(&acct).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
		if !utils.CheckPassword(acct.Password, req.Password) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}

		resp, err := adminPayload(cfg, acct)
		if err != nil {
			log.Error("Token generation failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
			return
		}
		log.Info("Admin logged in", zap.String("email", acct.Email))
		c.JSON(http.StatusOK, resp)
	})

	// Google-Login: das Dashboard schickt das ID-Token aus der Google
	// Identity Services Bibliothek. Es werden nur bereits angelegte
	// Admin-Konten akzeptiert, kein Self-Provisioning.
	rg.POST("/social/login/", func(c *gin.Context) {
		if cfg.GoogleClientID == "" {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Google login is not configured"})
			return
		}

		var req struct {
			Credential string `json:"credential"`
			IDToken    string `json:"id_token"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		raw := req.Credential
		if raw == "" {
			raw = req.IDToken
		}
		if raw == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing credential"})
			return
		}

		payload, err := idtoken.Validate(c.Request.Context(), raw, cfg.GoogleClientID)
		if err != nil {
			log.Warn("Google ID token validation failed", zap.Error(err))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid Google credential"})
			return
		}
		email, _ := payload.Claims["email"].(string)
		if email == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Google credential without email"})
			return
		}

		var acct models.AdminAccount
		if err := db.Where("LOWER(email) = LOWER(?)", email).First(&acct).Error; err != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "no admin account for this Google identity"})
			return
		}

		resp, err := adminPayload(cfg, acct)
		if err != nil {
			log.Error("Token generation failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
			return
		}
		log.Info("Admin logged in via Google", zap.String("email", acct.Email))
		c.JSON(http.StatusOK, resp)
	})

	pw := rg.Group("/password/reset")

	pw.POST("/request/", func(c *gin.Context) {
		var req struct {
			Email string `json:"email" binding:"required,email"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if err := otp.Request(req.Email); err != nil {
			log.Error("Reset code request failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to send reset code"})
			return
		}
		// Immer dieselbe Antwort, auch für unbekannte Adressen.
		c.JSON(http.StatusOK, gin.H{"message": "If the address exists, a reset code has been sent."})
	})

	pw.POST("/verify/", func(c *gin.Context) {
		var req struct {
			Email string `json:"email" binding:"required,email"`
			Code  string `json:"code" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if err := otp.Verify(req.Email, req.Code); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or expired code"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Code is valid."})
	})

	pw.POST("/confirm/", func(c *gin.Context) {
		var req struct {
			Email       string `json:"email" binding:"required,email"`
			Code        string `json:"code" binding:"required"`
			NewPassword string `json:"new_password" binding:"required,min=8"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if err := otp.Confirm(req.Email, req.Code, req.NewPassword); err != nil {
			if errors.Is(err, services.ErrInvalidOTP) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or expired code"})
				return
			}
			log.Error("Password reset failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to reset password"})
			return
		}
		log.Info("Password reset completed", zap.String("email", req.Email))
		c.JSON(http.StatusOK, gin.H{"message": "Password has been reset."})
	})
}

func setupAdminAccountRoutes(router *gin.Engine, db *gorm.DB, log *zap.Logger, authRequired gin.HandlerFunc) {
	rg := router.Group("/admin/add")
	rg.Use(authRequired)

	rg.GET("/user/", func(c *gin.Context) {
		var accounts []models.AdminAccount
		if err := db.Order("date_joined desc").Find(&accounts).Error; err != nil {
			log.Error("Database query for admin accounts failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		respondList(c, accounts, parseListParams(c), func(a models.AdminAccount, q string) bool {
			return services.ContainsFold(a.Email, q) || services.ContainsFold(a.Username, q)
		})
	})

	rg.POST("/user/", middleware.RequireSuperuser(), func(c *gin.Context) {
		var req struct {
			Email       string `json:"email" binding:"required,email"`
			Username    string `json:"username"`
			Password    string `json:"password" binding:"required,min=8"`
			IsSuperuser bool   `json:"is_superuser"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		var count int64
		db.Model(&models.AdminAccount{}).Where("LOWER(email) = LOWER(?)", req.Email).Count(&count)
		if count > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "an account with this email already exists"})
			return
		}

		username := strings.TrimSpace(req.Username)
		if username == "" {
			username = strings.SplitN(req.Email, "@", 2)[0]
		}
		hash, err := utils.HashPassword(req.Password)
		if err != nil {
			log.Error("Password hashing failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create account"})
			return
		}

		acct := models.AdminAccount{
			Email:       strings.ToLower(strings.TrimSpace(req.Email)),
			Username:    username,
			Password:    hash,
			IsSuperuser: req.IsSuperuser,
		}
		if err := db.Create(&acct).Error; err != nil {
			log.Error("DB error creating admin account", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create account"})
			return
		}
		log.Info("Admin account created", zap.String("email", acct.Email), zap.Bool("is_superuser", acct.IsSuperuser))
		c.JSON(http.StatusCreated, acct)
	})

	rg.DELETE("/user/", middleware.RequireSuperuser(), func(c *gin.Context) {
		email := strings.TrimSpace(c.Query("email"))
		if email == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email query parameter is required"})
			return
		}

		me := c.MustGet(middleware.CtxAdmin).(models.AdminAccount)
		if strings.EqualFold(me.Email, email) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "you cannot delete your own account"})
			return
		}

		var acct models.AdminAccount
		if err := db.Where("LOWER(email) = LOWER(?)", email).First(&acct).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
				return
			}
			log.Error("DB error checking for admin account", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		if err := db.Delete(&acct).Error; err != nil {
			log.Error("DB error deleting admin account", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete account"})
			return
		}
		log.Info("Admin account deleted", zap.String("email", acct.Email), zap.String("deleted_by", me.Email))
		c.JSON(http.StatusOK, gin.H{"message": "account deleted"})
	})
}

func setupQuestionRoutes(router *gin.Engine, db *gorm.DB, log *zap.Logger, authRequired gin.HandlerFunc) {
	rg := router.Group("/admin/questions")
	rg.Use(authRequired)

	rg.GET("/api/", func(c *gin.Context) {
		var questions []models.Question
		if err := db.Order("position asc, id asc").Find(&questions).Error; err != nil {
			log.Error("Database query for questions failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		respondList(c, questions, parseListParams(c), func(q models.Question, query string) bool {
			return services.ContainsFold(q.Question, query)
		})
	})

	rg.POST("/api/", func(c *gin.Context) {
		var input services.QuestionInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		question, err := services.NormalizeQuestionInput(input)
		if err != nil {
			var verr *services.ValidationError
			if errors.As(err, &verr) {
				c.JSON(http.StatusUnprocessableEntity, verr)
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process question"})
			return
		}

		// Neue Fragen werden hinten angehängt.
		var maxPos int
		db.Model(&models.Question{}).Select("COALESCE(MAX(position), -1)").Scan(&maxPos)
		question.Position = maxPos + 1

		if err := db.Create(&question).Error; err != nil {
			log.Error("DB error creating question", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create question"})
			return
		}
		c.JSON(http.StatusCreated, question)
	})

	rg.PATCH("/api/", func(c *gin.Context) {
		id, ok := queryID(c)
		if !ok {
			return
		}

		var existing models.Question
		if err := db.First(&existing, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "question not found"})
				return
			}
			log.Error("DB error checking for question on PATCH", zap.Uint64("id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}

		var input services.QuestionInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		updated, err := services.NormalizeQuestionInput(input)
		if err != nil {
			var verr *services.ValidationError
			if errors.As(err, &verr) {
				c.JSON(http.StatusUnprocessableEntity, verr)
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process question"})
			return
		}

		existing.Question = updated.Question
		existing.Type = updated.Type
		existing.Placeholder = updated.Placeholder
		existing.Options = updated.Options
		if err := db.Save(&existing).Error; err != nil {
			log.Error("DB error updating question", zap.Uint64("id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update question"})
			return
		}
		c.JSON(http.StatusOK, existing)
	})

	rg.DELETE("/api/", func(c *gin.Context) {
		id, ok := queryID(c)
		if !ok {
			return
		}

		var question models.Question
		if err := db.First(&question, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "question not found"})
				return
			}
			log.Error("DB error checking for question on DELETE", zap.Uint64("id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		if err := db.Delete(&question).Error; err != nil {
			log.Error("DB error deleting question", zap.Uint64("id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete question"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "question deleted"})
	})
}

func setupHistoryRoutes(router *gin.Engine, db *gorm.DB, log *zap.Logger, renderer *services.RichTextRenderer, authRequired gin.HandlerFunc) {
	rg := router.Group("/admin/user")
	rg.Use(authRequired)

	rg.GET("/ans/api/", func(c *gin.Context) {
		var records []models.SurveyResponseRecord
		err := db.Preload("User").
			Preload("UserResponses", func(tx *gorm.DB) *gorm.DB {
				return tx.Order("position asc, id asc")
			}).
			Order("created_on desc").
			Find(&records).Error
		if err != nil {
			log.Error("Database query for survey records failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		respondList(c, records, parseListParams(c), func(r models.SurveyResponseRecord, q string) bool {
			if services.ContainsFold(r.User.Email, q) || services.ContainsFold(r.User.Username, q) {
				return true
			}
			for _, a := range r.UserResponses {
				if strings.Contains(strings.ToLower(a.Question), "name") && services.ContainsFold(a.ResponseText, q) {
					return true
				}
			}
			return false
		})
	})

	// Löscht einen Endnutzer samt aller Einreichungen und Antworten.
	rg.DELETE("/ans/api/", func(c *gin.Context) {
		id, ok := queryID(c)
		if !ok {
			return
		}

		var user models.SurveyUser
		if err := db.First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
				return
			}
			log.Error("DB error checking for survey user", zap.Uint64("id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			var recordIDs []uint
			if err := tx.Model(&models.SurveyResponseRecord{}).Where("user_id = ?", user.ID).Pluck("id", &recordIDs).Error; err != nil {
				return err
			}
			if len(recordIDs) > 0 {
				if err := tx.Where("record_id IN ?", recordIDs).Delete(&models.SurveyAnswer{}).Error; err != nil {
					return err
				}
				if err := tx.Where("user_id = ?", user.ID).Delete(&models.SurveyResponseRecord{}).Error; err != nil {
					return err
				}
			}
			return tx.Delete(&user).Error
		})
		if err != nil {
			log.Error("DB error deleting survey user", zap.Uint64("id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete user"})
			return
		}
		log.Info("Survey user deleted", zap.String("email", user.Email))
		c.JSON(http.StatusOK, gin.H{"message": "user and submissions deleted"})
	})

	// Liefert die AI-Empfehlung einer Einreichung als sanitisiertes
	// HTML-Fragment für die Detailansicht.
	rg.GET("/ans/render/", func(c *gin.Context) {
		id, ok := queryID(c)
		if !ok {
			return
		}

		var record models.SurveyResponseRecord
		if err := db.First(&record, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
				return
			}
			log.Error("DB error loading survey record", zap.Uint64("id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}

		if record.AIResponse == nil {
			c.JSON(http.StatusOK, gin.H{"html": ""})
			return
		}
		c.JSON(http.StatusOK, gin.H{"html": renderer.Render(*record.AIResponse)})
	})
}

func setupPDFRoutes(router *gin.Engine, pdfs *services.PDFService, log *zap.Logger, authRequired gin.HandlerFunc) {
	rg := router.Group("/pdf")
	rg.Use(authRequired)

	rg.POST("/", func(c *gin.Context) {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing file upload"})
			return
		}
		if fileHeader.Size > services.MaxPDFBytes {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file exceeds the upload limit"})
			return
		}

		f, err := fileHeader.Open()
		if err != nil {
			log.Error("Failed to open uploaded file", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read upload"})
			return
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			log.Error("Failed to read uploaded file", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read upload"})
			return
		}

		pmid := strings.TrimSpace(c.PostForm("pmid"))
		doc, err := pdfs.Upload(c.Request.Context(), data, fileHeader.Filename, pmid)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrNotAPDF):
				c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "uploaded file is not a PDF"})
			case errors.Is(err, services.ErrDuplicatePMID):
				c.JSON(http.StatusConflict, gin.H{"error": "a document with this PMID already exists"})
			default:
				log.Error("PDF upload failed", zap.String("pmid", pmid), zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store PDF"})
			}
			return
		}

		pdfUploadsCounter.Inc()
		c.JSON(http.StatusCreated, doc)
	})

	rg.GET("/", func(c *gin.Context) {
		docs, err := pdfs.List(c.Request.Context())
		if err != nil {
			log.Error("Database query for PDF documents failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		respondList(c, docs, parseListParams(c), func(d models.PdfDocument, q string) bool {
			if d.PMID != nil && services.ContainsFold(*d.PMID, q) {
				return true
			}
			return services.ContainsFold(d.FileName, q) || services.ContainsFold(d.Title, q)
		})
	})

	rg.DELETE("/delete-by-pmid/:pmid/", func(c *gin.Context) {
		pmid := strings.TrimSpace(c.Param("pmid"))
		if err := pdfs.DeleteByPMID(c.Request.Context(), pmid); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "no PDF with this PMID"})
				return
			}
			log.Error("PDF deletion failed", zap.String("pmid", pmid), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete PDF"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "PDF deleted"})
	})
}

func setupSurveyRoutes(router *gin.Engine, db *gorm.DB, log *zap.Logger, rec *recommender.Fetcher, limiter *middleware.IPRateLimiter) {
	rg := router.Group("/survey")

	rg.GET("/questions/", func(c *gin.Context) {
		var questions []models.Question
		if err := db.Order("position asc, id asc").Find(&questions).Error; err != nil {
			log.Error("Database query for questions failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, questions)
	})

	rg.POST("/submit/", middleware.RateLimitByIP(limiter), func(c *gin.Context) {
		var req struct {
			Email    string `json:"email" binding:"required,email"`
			Username string `json:"username"`
			Answers  []struct {
				QuestionID   uint   `json:"question_id" binding:"required"`
				ResponseText string `json:"response_text"`
			} `json:"answers" binding:"required,min=1"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		var questions []models.Question
		if err := db.Find(&questions).Error; err != nil {
			log.Error("Database query for questions failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		byID := make(map[uint]models.Question, len(questions))
		for _, q := range questions {
			byID[q.ID] = q
		}

		answers := make([]models.SurveyAnswer, 0, len(req.Answers))
		for _, a := range req.Answers {
			q, ok := byID[a.QuestionID]
			if !ok {
				c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "unknown question id", "question_id": a.QuestionID})
				return
			}
			text := strings.TrimSpace(a.ResponseText)
			if q.Type == models.QuestionTypeSelect && text != "" {
				valid := false
				for _, opt := range services.QuestionOptions(q) {
					if opt == text {
						valid = true
						break
					}
				}
				if !valid {
					c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "answer is not one of the allowed options", "question_id": a.QuestionID})
					return
				}
			}
			answers = append(answers, models.SurveyAnswer{
				Position:     q.Position,
				Question:     q.Question,
				ResponseText: text,
			})
		}

		var user models.SurveyUser
		err := db.Where("LOWER(email) = LOWER(?)", req.Email).First(&user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			user = models.SurveyUser{Email: strings.ToLower(strings.TrimSpace(req.Email)), Username: strings.TrimSpace(req.Username)}
			err = db.Create(&user).Error
		} else if err == nil && req.Username != "" && user.Username != req.Username {
			user.Username = strings.TrimSpace(req.Username)
			db.Save(&user)
		}
		if err != nil {
			log.Error("DB error resolving survey user", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store submission"})
			return
		}

		record := models.SurveyResponseRecord{
			UserID:        user.ID,
			UserResponses: answers,
		}
		if err := db.Create(&record).Error; err != nil {
			log.Error("DB error storing survey submission", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store submission"})
			return
		}
		surveySubmissionsCounter.Inc()
		log.Info("Survey submission stored", zap.Uint("record_id", record.ID), zap.String("email", user.Email))

		// Die Empfehlung wird asynchron erzeugt; der Client wartet nicht
		// auf den externen Webhook.
		if rec.Enabled() {
			go func(recordID uint, answers []models.SurveyAnswer) {
				ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
				defer cancel()
				text, err := rec.GetRecommendation(ctx, answers)
				if err != nil {
					log.Error("Recommendation generation failed", zap.Uint("record_id", recordID), zap.Error(err))
					return
				}
				if err := db.Model(&models.SurveyResponseRecord{}).Where("id = ?", recordID).Update("ai_response", text).Error; err != nil {
					log.Error("DB error storing recommendation", zap.Uint("record_id", recordID), zap.Error(err))
					return
				}
				recommendationsCounter.Inc()
				log.Info("Recommendation stored", zap.Uint("record_id", recordID))
			}(record.ID, answers)
		}

		c.JSON(http.StatusCreated, gin.H{"message": "survey submitted", "id": record.ID})
	})
}

func seedDefaultQuestions(db *gorm.DB, logger *zap.Logger) {
	var count int64
	db.Model(&models.Question{}).Count(&count)
	if count > 0 {
		return
	}
	questions := []models.Question{
		{Question: "What is your name?", Type: models.QuestionTypeText, Placeholder: "Full name", Position: 0},
		{Question: "How old are you?", Type: models.QuestionTypeText, Placeholder: "Age in years", Position: 1},
		{Question: "How would you rate your overall health?", Type: models.QuestionTypeSelect, Options: []byte(`["Excellent","Good","Fair","Poor"]`), Position: 2},
	}
	if err := db.Create(&questions).Error; err != nil {
		logger.Warn("Failed to seed default questions", zap.Error(err))
	} else {
		logger.Info("Default questions seeded.")
	}
}

func seedInitialAdmin(db *gorm.DB, cfg *config.Config, logger *zap.Logger) {
	if cfg.InitialAdminEmail == "" || cfg.InitialAdminPassword == "" {
		return
	}
	var count int64
	db.Model(&models.AdminAccount{}).Count(&count)
	if count > 0 {
		return
	}
	hash, err := utils.HashPassword(cfg.InitialAdminPassword)
	if err != nil {
		logger.Warn("Failed to hash initial admin password", zap.Error(err))
		return
	}
	acct := models.AdminAccount{
		Email:       strings.ToLower(cfg.InitialAdminEmail),
		Username:    strings.SplitN(cfg.InitialAdminEmail, "@", 2)[0],
		Password:    hash,
		IsSuperuser: true,
	}
	if err := db.Create(&acct).Error; err != nil {
		logger.Warn("Failed to seed initial admin account", zap.Error(err))
	} else {
		logger.Info("Initial admin account seeded.", zap.String("email", acct.Email))
	}
}
