package main

import (
	"PassKeeper/internal/auth"
	"PassKeeper/internal/config"
	"PassKeeper/internal/handlers"
	"PassKeeper/internal/middleware"
	"PassKeeper/internal/repo"
	"PassKeeper/internal/service"
	"net/http"
	"time"

	"go.uber.org/zap"
)

func main() {
	cfg := config.NewConfig()

	// создаём предустановленный регистратор zap
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}

	// делаем регистратор SugaredLogger
	sugar := logger.Sugar()
	middleware.SetLogger(sugar) // передаём логгер в middleware
	//сброс буфера логгера
	defer func() {
		if err := logger.Sync(); err != nil {
			sugar.Errorw("Failed to sync logger", "error", err)
		}
	}()

	gormDB, err := repo.InitDB(cfg.DatabaseDSN)
	if err != nil {
		sugar.Fatalw("failed to initialize database", "error", err)
	}

	userRepo := repo.NewUserRepository(gormDB)
	passwordRepo := repo.NewPasswordRepository(gormDB)
	bindingRepo := repo.NewBindingRepository(gormDB)

	gateway := auth.NewGateway(cfg.AuthSecret, time.Duration(cfg.TokenTTLHours)*time.Hour, userRepo)

	userService := service.NewUserService(userRepo)
	bindingService := service.NewBindingService(bindingRepo, userRepo)
	passwordService := service.NewPasswordService(passwordRepo, sugar)

	h := handlers.NewHandler(userService, bindingService, passwordService, gateway, sugar)

	addr := cfg.BaseURL

	sugar.Infow(
		"Starting server",
		"addr", addr,
	)

	sugar.Infow("Config",
		"BaseURL", cfg.BaseURL,
		"EnableHTTPS", cfg.EnableHTTPS,
		"TokenTTLHours", cfg.TokenTTLHours,
	)

	if err := http.ListenAndServe(addr, h.Router); err != nil {
		sugar.Fatalw("Server failed", "error", err)
	}
}
