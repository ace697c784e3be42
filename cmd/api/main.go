package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	amqpad "palmnazi/internal/adapters/amqp"
	"palmnazi/internal/adapters/blob"
	"palmnazi/internal/adapters/geocode"
	server "palmnazi/internal/adapters/http_server"
	"palmnazi/internal/adapters/mail"
	"palmnazi/internal/adapters/observability"
	redisad "palmnazi/internal/adapters/redis"
	"palmnazi/internal/app"
	"palmnazi/internal/auth"
	"palmnazi/internal/domain"
	"palmnazi/internal/shared"
	mysqlrepo "palmnazi/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	reg := observability.InitRegistry()
	metricsSrv, err := observability.Serve(cfg.MetricsAddr, reg)
	if err != nil {
		log.Fatal().Err(err).Str("addr", cfg.MetricsAddr).Msg("metrics listener failed")
	}

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	if err := mysqlrepo.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrations failed")
	}
	log.Info().Msg("database connection ok")

	// deps
	repo := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err := cache.Ping(context.Background()); err != nil {
		log.Warn().Err(err).Msg("redis unreachable; reads fall through to MySQL")
	}
	q := app.NewQueryService(repo, repo, cache, cfg.CacheTTL)

	renderer, err := mail.NewRenderer(mail.Footer{Phone: cfg.HotelPhone, Email: cfg.HotelEmail, Address: cfg.HotelAddress})
	if err != nil {
		log.Fatal().Err(err).Msg("mail templates failed to parse")
	}
	var mailer domain.Mailer = mail.LogMailer{}
	if cfg.SMTPHost != "" {
		m, err := mail.NewSMTP(mail.SMTPConfig{
			Host: cfg.SMTPHost, Port: cfg.SMTPPort,
			Username: cfg.SMTPUser, Password: cfg.SMTPPass,
			From: cfg.MailFrom, FromName: cfg.MailFromName, RPS: cfg.MailRPS,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("smtp config invalid")
		}
		mailer = m
	}

	var events domain.EventPublisher = amqpad.Noop{}
	if cfg.AMQPURL != "" {
		events = amqpad.NewPublisher(cfg.AMQPURL)
	}

	blobs, err := blob.NewFS(cfg.UploadDir, cfg.PublicBaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("upload dir unavailable")
	}
	var geo domain.Geocoder
	if cfg.GeocodeBase != "" {
		geo = geocode.New(cfg.GeocodeBase, "palmnazi-booking/1.0 ("+cfg.HotelEmail+")", cfg.GeocodeRPS)
	}

	issuer, err := auth.NewIssuer(cfg.TokenSecret, cfg.TokenTTL)
	if err != nil {
		log.Warn().Err(err).Msg("admin tokens disabled")
	}
	admin, err := app.NewAdminAuth(cfg.AdminPasswordHash, cfg.AdminPassword, issuer, rate.NewLimiter(rate.Every(time.Second), 5))
	if err != nil {
		log.Fatal().Err(err).Msg("admin auth setup failed")
	}

	maxUpload := int64(cfg.MaxUploadMB) << 20
	policy := domain.ParseOverlapPolicy(cfg.OverlapPolicy)
	handlers := &server.Handlers{
		Bookings:       app.NewBookingService(repo, repo, renderer, mailer, events, policy),
		Catalog:        app.NewCatalogService(repo, q, geo, blobs, maxUpload),
		Testimonials:   app.NewTestimonialService(repo),
		Content:        app.NewContentService(repo, q),
		Admin:          admin,
		MaxUploadBytes: maxUpload,
	}

	// http
	srv := server.New()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.Mount("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(blobs.Root()))))
	srv.MountHandlers(handlers)

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Mux(),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Str("overlap_policy", string(policy)).Msg("API listening")
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	if metricsSrv != nil {
		_ = metricsSrv.Shutdown(ctx)
	}
	_ = cache.Close()
	_ = db.Close()
	log.Info().Msg("server stopped")
}
