package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"spin2win/internal/cache"
	"spin2win/internal/config"
	"spin2win/internal/repository"
	"spin2win/internal/service"
	"spin2win/internal/transport/rest"
)

// NewServeCmd builds the CLI subcommand to start the server.
func NewServeCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the quiz API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		return err
	}
	defer mongoClient.Disconnect(ctx)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		return err
	}
	log.Println("Connected to MongoDB")

	db := mongoClient.Database(cfg.Mongo.Database)

	// Redis connection
	redisAddr := strings.TrimPrefix(cfg.Redis.Addr, "redis://")
	rdb := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		return err
	}
	log.Println("Connected to Redis")

	// Initialize repositories
	quizRepo := repository.NewQuizRepo(db)
	setRepo := repository.NewQuizSetRepo(db)
	responseRepo := repository.NewResponseRepo(db)
	matchRepo := repository.NewMatchRepo(db)

	// Initialize caches
	lbTTL := config.TTLDuration(cfg.Leaderboard.CacheTTL, 3*time.Second)
	lbCache := cache.NewLeaderboardCache(rdb, lbTTL)
	profileCache := cache.NewProfileCache(rdb)

	// Initialize services
	authSvc := service.NewAuthService(cfg.Auth.AdminUsername, cfg.Auth.AdminPassword, cfg.Auth.JWTSecret)
	quizSvc := service.NewQuizService(quizRepo, responseRepo)
	setSvc := service.NewQuizSetService(setRepo, matchRepo, responseRepo, service.SubstringMatcher{})
	responseSvc := service.NewResponseService(responseRepo, quizRepo, setRepo, profileCache, lbCache)
	lbSvc := service.NewLeaderboardService(responseRepo, lbCache)

	router := rest.NewRouter(&rest.Container{
		AuthService:        authSvc,
		QuizService:        quizSvc,
		QuizSetService:     setSvc,
		ResponseService:    responseSvc,
		LeaderboardService: lbSvc,
	})

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting spin2win API on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
