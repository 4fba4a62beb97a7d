package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"dukapos/backend/internal/config"
	"dukapos/backend/internal/httpapi"
	"dukapos/backend/internal/prefs"
	"dukapos/backend/internal/service"
	"dukapos/backend/internal/store"
)

func main() {
	cfg := config.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	if len(cfg.AuthSecret) < 32 {
		log.Warn("AUTH_SECRET is unset or shorter than 32 characters, tokens are signed with a development secret")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	closers := make([]func() error, 0, 1)

	themes := prefs.ThemeStore(prefs.NewMemoryThemeStore())
	if cfg.RedisAddr != "" {
		redisThemes := prefs.NewRedisThemeStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.ThemeKey)
		if err := redisThemes.Ping(ctx); err != nil {
			log.WithError(err).Warn("redis unavailable, theme preference will not survive restarts")
		} else {
			themes = redisThemes
			closers = append(closers, redisThemes.Close)
			log.Info("theme store: redis")
		}
	} else {
		log.Info("theme store: in-memory")
	}

	// All transactional state is in-memory and reseeded on every start.
	repo := store.NewSeeded()
	svc := service.New(repo, themes, log, cfg.DefaultBranchID)
	auth := httpapi.NewAuthManager(cfg.AuthSecret, time.Duration(cfg.AccessTokenTTLMinutes)*time.Minute)
	api := httpapi.New(svc, auth, log, cfg.AllowedOrigin)

	server := &http.Server{
		Addr:              cfg.Address(),
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.WithField("addr", cfg.Address()).Info("POS backend listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server error")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("shutdown error")
	}

	for _, closeFn := range closers {
		if err := closeFn(); err != nil {
			log.WithError(err).Error("close error")
		}
	}

	log.Info("server stopped")
}
