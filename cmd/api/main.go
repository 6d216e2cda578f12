package main

import (
	"context"
	"log"
	"time"

	"vibestack/internal/config"
	"vibestack/internal/domain/model"
	"vibestack/internal/handler"
	"vibestack/internal/infra/db"
	infraRepo "vibestack/internal/infra/repository"
	"vibestack/internal/seed"
	"vibestack/internal/server"
	"vibestack/internal/token"
	"vibestack/internal/usecase"
	"vibestack/internal/validator"

	"github.com/joho/godotenv"
)

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

func main() {
	//.envがあれば読む（無ければ環境変数をそのまま使う）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		log.Fatalf("db: %v", err)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
	); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	rtRepo := infraRepo.NewRefreshTokenGormRepository(gormDB)

	//usecaseに渡す部品
	clock := &realClock{}

	//bcrypt（会員登録：Hash / ログイン：Verify）
	hasher := usecase.NewBcryptPasswordHasher(12)
	passwords := usecase.NewBcryptPasswordVerifier()

	//JWT。シークレットは起動時に1度だけ渡す。
	issuer := token.NewIssuer(cfg.JWTSecret, cfg.AccessTTL, cfg.RefreshTTL)
	verifier := token.NewVerifier(cfg.JWTSecret)

	//Usecase生成
	authUC := usecase.NewAuthUsecase(userRepo, rtRepo, issuer, verifier, hasher, passwords, validator.NewAuthValidator(), clock)
	userUC := usecase.NewUserUsecase(userRepo, rtRepo, hasher, passwords, clock)

	//初期データ投入
	if err := seed.Run(context.Background(), userRepo, hasher); err != nil {
		log.Fatalf("seed: %v", err)
	}

	//Server起動
	e := server.New(cfg,
		handler.NewHealthHandler(cfg),
		handler.NewAuthHandler(authUC),
		handler.NewUserHandler(userUC, verifier, userRepo),
	)

	if err := server.Start(e, ":"+cfg.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
