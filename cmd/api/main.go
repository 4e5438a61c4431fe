package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/yourusername/mcq-quiz-api/internal/config"
	"github.com/yourusername/mcq-quiz-api/internal/handler"
	"github.com/yourusername/mcq-quiz-api/internal/handler/dto"
	"github.com/yourusername/mcq-quiz-api/internal/middleware"
	pgRepo "github.com/yourusername/mcq-quiz-api/internal/repository/postgres"
	redisRepo "github.com/yourusername/mcq-quiz-api/internal/repository/redis"
	"github.com/yourusername/mcq-quiz-api/internal/service"
	"github.com/yourusername/mcq-quiz-api/internal/service/questiongen"
	"github.com/yourusername/mcq-quiz-api/internal/service/ranking"
	"github.com/yourusername/mcq-quiz-api/pkg/database"
)

func main() {
	startedAt := time.Now()

	// Загружаем конфигурацию
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Printf("Загрузка конфигурации из %s", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к PostgreSQL
	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	// Применяем миграции
	if err := database.MigrateDB(db); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к Redis с использованием унифицированной конфигурации
	redisClient, err := database.NewUniversalRedisClient(cfg.Redis)
	if err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	log.Println("Successfully connected to Redis")

	// Инициализируем репозитории
	resultRepo := pgRepo.NewResultRepo(db)

	questionCache, err := redisRepo.NewQuestionCacheRepo(redisClient)
	if err != nil {
		log.Printf("Failed to initialize QuestionCacheRepo: %v", err)
		os.Exit(1)
	}

	// Инициализируем сервисы
	engine := ranking.NewEngine(resultRepo)
	leaderboardService := service.NewLeaderboardService(
		resultRepo,
		engine,
		cfg.Leaderboard.DefaultPageSize,
		cfg.Leaderboard.MaxPageSize,
	)

	// Генератор вопросов: Gemini, при недоступности — статический банк
	if cfg.Gemini.APIKey == "" {
		log.Println("GEMINI_API_KEY не задан: генерация вопросов будет работать только через fallback-банк")
	}
	geminiClient := questiongen.NewGeminiClient(cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.Timeout)
	fallbackGen := questiongen.NewFallbackGenerator()
	questionService := service.NewQuestionService(
		questionCache,
		geminiClient,
		fallbackGen,
		cfg.Quiz.QuestionCacheTTL,
		cfg.Quiz.DefaultQuestionCount,
	)

	// Инициализируем обработчики
	quizHandler := handler.NewQuizHandler(leaderboardService, questionService)
	leaderboardHandler := handler.NewLeaderboardHandler(leaderboardService, cfg.Leaderboard.DefaultPageSize)
	questionHandler := handler.NewQuestionHandler()

	// Инициализируем middleware
	rateLimiter := middleware.NewRateLimiter(redisClient)
	rateLimitCfg := middleware.DefaultAPIRateLimitConfig()
	if cfg.RateLimit.MaxRequests > 0 {
		rateLimitCfg.MaxRequests = cfg.RateLimit.MaxRequests
	}
	if cfg.RateLimit.Window > 0 {
		rateLimitCfg.Window = cfg.RateLimit.Window
	}

	// Инициализируем роутер Gin
	router := gin.Default()

	isProduction := gin.Mode() == gin.ReleaseMode

	// Настройка доверенных прокси для корректной работы c.ClientIP()
	// В production (GIN_MODE=release): не доверяем прокси (защита от IP spoofing)
	// В development: доверяем localhost
	// При деплое на VM с load balancer: добавьте IP балансировщика в список
	if isProduction {
		if err := router.SetTrustedProxies(nil); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	} else {
		if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	}

	// Настройка CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:8000", "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check (вне rate limit, для балансировщиков и мониторинга)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.OK(gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"uptime":    time.Since(startedAt).Round(time.Second).String(),
		}))
	})

	// Настраиваем маршруты API
	api := router.Group("/api")
	api.Use(rateLimiter.LimitByIP(rateLimitCfg))
	{
		// Викторины: генерация вопросов, отправка результатов, история
		quiz := api.Group("/quiz")
		{
			quiz.POST("/questions", quizHandler.GetQuestions)
			quiz.POST("/submit", quizHandler.SubmitQuiz)
			quiz.GET("/history/:username", quizHandler.GetUserHistory)
		}

		// Лидерборд (публичные маршруты)
		leaderboard := api.Group("/leaderboard")
		{
			leaderboard.GET("", leaderboardHandler.GetSimpleLeaderboard)
			leaderboard.GET("/global", leaderboardHandler.GetGlobalLeaderboard)
			leaderboard.GET("/rank/:username", leaderboardHandler.GetUserRank)
			leaderboard.GET("/stats", leaderboardHandler.GetStats)
			leaderboard.GET("/export", leaderboardHandler.ExportLeaderboard)
		}

		// Справочник предметов
		questions := api.Group("/questions")
		{
			questions.GET("/subjects", questionHandler.GetSubjects)
			questions.GET("/subjects/:subject/categories", questionHandler.GetSubjectCategories)
		}
	}

	// Настраиваем HTTP сервер с тайм-аутами для защиты от slow client attacks
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Запускаем сервер в горутине
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
		}
	}()

	log.Printf("Server started on port %s", cfg.Server.Port)

	// Ожидаем сигнал остановки
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Создаем контекст с таймаутом для graceful shutdown сервера
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	if err := redisClient.Close(); err != nil {
		log.Printf("Error closing Redis client: %v", err)
	}

	log.Println("Server exited properly")
}
