package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/zlog"

	"clubreg/internal/api/api"
	"clubreg/internal/config"
	"clubreg/internal/mailer"
	"clubreg/internal/notifyworker"
	"clubreg/internal/rabbit"
	"clubreg/internal/repo"
	"clubreg/internal/service"
)

func main() {
	zlog.Init()
	log := zlog.Logger

	cfg, err := config.Load(".")
	if err != nil {
		log.Fatal().Msgf("failed to load configuration: %v", err)
	}

	db, err := dbpg.New(cfg.DB.MasterDSN, cfg.DB.SlaveDSNs, &dbpg.Options{
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		MaxIdleConns:    cfg.DB.MaxIdleConns,
		ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
	})
	if err != nil {
		log.Fatal().Msgf("failed to connect to DB: %v", err)
	}
	log.Info().Msg("Database connected successfully")

	repository, err := repo.NewRepository(db, &log)
	if err != nil {
		log.Fatal().Msgf("failed to initialize repository: %v", err)
	}
	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal().Err(err).Msg("cannot get working directory")
	}
	migrationPath := filepath.Join(cwd, "migrations/postgres")
	if err := repository.MigrateUp(migrationPath); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}
	log.Info().Msg("Migrations applied successfully")

	rmq, err := rabbit.NewRabbit(cfg.Rabbit.URL, cfg.Rabbit.Exchange, cfg.Rabbit.Queue)
	if err != nil {
		log.Fatal().Msgf("Failed to connect to RabbitMQ: %v", err)
	}
	defer rmq.Close()

	limiter := mailer.NewSendLimiter(cfg.App.SendInterval)
	mail := mailer.New(mailer.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		From:     cfg.SMTP.From,
		FromName: cfg.SMTP.FromName,
		Password: cfg.SMTP.Password,
	}, limiter, &log)

	workerCtx, cancelWorkers := context.WithCancel(context.Background())

	worker := notifyworker.NewReader(
		rmq,
		repository.Events,
		repository.Registrations,
		repository.Users,
		mail,
		cfg.App.BaseURL,
	)
	worker.Start(workerCtx)

	svc := service.NewService(repository.Events, repository.Registrations, repository.Files, rmq, &log)
	app := api.NewRouters(&api.Routers{Handler: api.NewHandler(svc)})

	serverErrChan := make(chan error, 1)
	go func() {
		log.Info().Msgf("Starting server on %s", cfg.Server.Port)
		if err := app.Run(":" + cfg.Server.Port); err != nil {
			serverErrChan <- fmt.Errorf("failed to start server: %w", err)
		}
	}()

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-signalChan:
		log.Info().Msgf("Received signal %s. Initiating shutdown...", sig)
	case err := <-serverErrChan:
		log.Error().Msgf("Server error: %v", err)
	}

	cancelWorkers()
	worker.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if closer, ok := interface{}(app).(interface{ Close(context.Context) error }); ok {
		if err := closer.Close(shutdownCtx); err != nil {
			log.Error().Msgf("Error shutting down server: %v", err)
		}
	}

	log.Info().Msg("Shutdown complete")
}
