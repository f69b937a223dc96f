package main

import (
	"context"
	"net"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"vaultd/internal/config"
	"vaultd/internal/database"
	"vaultd/internal/server"
	"vaultd/internal/storage"
)

func main() {
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if err := godotenv.Load(); err != nil {
		log.Info("no .env file, using process environment")
	}
	cfg := config.FromEnv()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg.DSN())
	if err != nil {
		log.Fatal("opening database", zap.Error(err))
	}
	defer db.Close()

	files, err := storage.New(cfg.UploadDir)
	if err != nil {
		log.Fatal("opening file store", zap.Error(err))
	}

	addr := net.JoinHostPort(cfg.HTTPAddr, cfg.HTTPPort)
	srv := server.New(db, files, log, addr)

	if cfg.ConsulAddr != "" {
		port, err := strconv.Atoi(cfg.HTTPPort)
		if err != nil {
			log.Fatal("invalid http port", zap.Error(err))
		}
		reg, err := server.NewRegistrar(cfg.ConsulAddr, cfg.ServiceName, cfg.HTTPAddr, port, log)
		if err != nil {
			log.Fatal("creating registrar", zap.Error(err))
		}
		if err := reg.Register(); err != nil {
			log.Fatal("registering service", zap.Error(err))
		}
		defer reg.Deregister()
	}

	if err := srv.ListenAndServe(ctx); err != nil {
		log.Error("server stopped", zap.Error(err))
	}
}
