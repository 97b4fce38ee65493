package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"

	"github.com/benbeisheim/chesslib-backend/internal/config"
	"github.com/benbeisheim/chesslib-backend/internal/controller"
	"github.com/benbeisheim/chesslib-backend/internal/db"
	"github.com/benbeisheim/chesslib-backend/internal/logger"
	"github.com/benbeisheim/chesslib-backend/internal/middleware"
	"github.com/benbeisheim/chesslib-backend/internal/repository/sqlite"
	"github.com/benbeisheim/chesslib-backend/internal/service"
)

func main() {
	cfg := config.Load()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(cfg.LogColors),
	)
	logger.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.NewContext(ctx, log)

	database, err := db.Open(ctx, cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer database.Close()

	// Initialize services
	store := sqlite.NewHistoryRepository(database.DB)
	gameManager := service.NewGameManager(store, service.ManagerOptions{
		ClockTime:           cfg.ClockTime,
		CommandQueueSize:    cfg.CommandQueueSize,
		MatchmakingInterval: cfg.MatchmakingInterval,
	}, log)
	if _, err := gameManager.Restore(ctx); err != nil {
		log.Warn("failed to restore games: %v", err)
	}
	go gameManager.Run(ctx)
	gameService := service.NewGameService(gameManager, log)

	// Initialize controllers
	gameController := controller.NewGameController(gameService, database)
	wsController := controller.NewWebSocketController(gameService, log)

	app := fiber.New(fiber.Config{
		AppName:      "chesslib",
		Immutable:    true,
		ErrorHandler: middleware.ErrorHandler(),
	})
	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{Output: log.Writer()}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(cfg.AllowedOrigins, ", "),
		AllowHeaders:     "Origin, Content-Type, Accept, " + middleware.PlayerIDHeader,
		AllowMethods:     "GET, POST, DELETE, OPTIONS",
		AllowCredentials: true,
	}))
	app.Use(middleware.RequestLogger(log))

	app.Get("/healthz", gameController.Health)
	app.Get("/readyz", gameController.Ready)

	// Set up WebSocket routes
	app.Use("/ws/*", middleware.EnsurePlayerID())
	app.Get("/ws/game/:gameId", middleware.WebSocketUpgrade(), websocket.New(wsController.HandleConnection, websocket.Config{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		Origins:         cfg.AllowedOrigins,
	}))

	// Set up REST routes
	api := app.Group("/api", middleware.EnsurePlayerID())
	api.Get("/games", gameController.ListGames)

	// Game routes
	gameRoutes := api.Group("/game")
	gameRoutes.Post("/matchmaking/join", gameController.JoinMatchmaking)
	gameRoutes.Delete("/matchmaking", gameController.LeaveMatchmaking)
	gameRoutes.Get("/matchmaking/status", gameController.MatchmakingStatus)
	gameRoutes.Post("/create", gameController.CreateGame)
	gameRoutes.Post("/join/:gameId", gameController.JoinGame)
	gameRoutes.Get("/:gameId", gameController.GetGameState)
	gameRoutes.Get("/:gameId/history", gameController.GetHistory)
	gameRoutes.Post("/:gameId/move", gameController.MakeMove)
	gameRoutes.Post("/:gameId/promote", gameController.Promote)
	gameRoutes.Post("/:gameId/resign", gameController.Resign)
	gameRoutes.Delete("/:gameId", gameController.DeleteGame)

	go func() {
		<-ctx.Done()
		log.Info("shutting down")
		if err := app.Shutdown(); err != nil {
			log.Error("server shutdown: %v", err)
		}
	}()

	log.Info("listening on %s", cfg.Addr)
	if err := app.Listen(cfg.Addr); err != nil {
		log.Error("server stopped: %v", err)
	}
	gameManager.Shutdown()
}
