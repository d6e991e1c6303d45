package app

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/liliaaaaaGit/MusikAkademie-sub003/internal/config"
	"github.com/liliaaaaaGit/MusikAkademie-sub003/internal/delivery/httpd"
	"github.com/liliaaaaaGit/MusikAkademie-sub003/internal/repository"
	"github.com/liliaaaaaGit/MusikAkademie-sub003/internal/service"
	"github.com/liliaaaaaGit/MusikAkademie-sub003/internal/service/integration"
)

type App struct {
	server      *http.Server
	logger      zerolog.Logger
	config      *config.Config
	db          *sql.DB
	eventClient integration.EventPublisher
}

func New(cfg *config.Config, log zerolog.Logger, db *sql.DB) (*App, error) {
	eventClient, err := integration.NewRabbitMQClient(
		cfg.RabbitMQ.URL,
		cfg.RabbitMQ.Exchange,
		cfg.RabbitMQ.RoutingKey,
		cfg.RabbitMQ.QueueName,
		log,
	)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create RabbitMQ client")
		// Продолжаем без RabbitMQ, уведомления в БД работают и без событий
		eventClient = nil
	}

	// Создаем репозитории
	txManager := repository.NewTxManager(db, log)
	studentRepo := repository.NewStudentRepository(db, log)
	teacherRepo := repository.NewTeacherRepository(db, log)
	contractRepo := repository.NewContractRepository(db, log)
	lessonRepo := repository.NewLessonRepository(db, log)
	notificationRepo := repository.NewNotificationRepository(db, log)
	trialLessonRepo := repository.NewTrialLessonRepository(db, log)

	// Создаем сервисы
	notificationService := service.NewNotificationService(
		notificationRepo,
		contractRepo,
		lessonRepo,
		eventClient,
		log,
	)
	studentService := service.NewStudentService(studentRepo, log)
	teacherService := service.NewTeacherService(teacherRepo, log)
	contractService := service.NewContractService(
		txManager,
		contractRepo,
		lessonRepo,
		studentRepo,
		teacherRepo,
		notificationService,
		cfg.Contracts.MaxLessons,
		log,
	)
	lessonService := service.NewLessonService(
		txManager,
		lessonRepo,
		contractRepo,
		notificationService,
		log,
	)
	trialLessonService := service.NewTrialLessonService(trialLessonRepo, teacherRepo, log)

	// Создаем обработчики
	handler := httpd.NewHandler(
		studentService,
		teacherService,
		contractService,
		lessonService,
		trialLessonService,
		notificationService,
		log,
	)

	// Создаем роутер
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		ExposedHeaders:   cfg.CORS.ExposedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           cfg.CORS.MaxAge,
	}))

	handler.RegisterRoutes(router)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &App{
		server:      server,
		logger:      log,
		config:      cfg,
		db:          db,
		eventClient: eventClient,
	}, nil
}

func (a *App) Run() error {
	a.logger.Info().Msgf("Starting music school admin service on %s", a.config.Server.Address)
	return a.server.ListenAndServe()
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info().Msg("Shutting down music school admin service...")

	if a.eventClient != nil {
		if err := a.eventClient.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to close RabbitMQ connection")
		}
	}

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to close database connection")
		}
	}

	return a.server.Shutdown(ctx)
}
