package cli

import (
	"context"
	"log"
	"time"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"spin2win/internal/config"
	"spin2win/internal/repository"
)

// NewIndexesCmd ensures MongoDB indexes without starting the server. Useful
// before a deploy so the unique response constraint exists ahead of traffic.
func NewIndexesCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "indexes",
		Short: "Ensure MongoDB indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ensureIndexes(cmd.Context(), *configPath)
		},
	}
}

func ensureIndexes(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

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

	// Repo constructors ensure their indexes as a side effect.
	db := mongoClient.Database(cfg.Mongo.Database)
	repository.NewQuizRepo(db)
	repository.NewQuizSetRepo(db)
	repository.NewResponseRepo(db)
	repository.NewMatchRepo(db)

	log.Println("indexes ensured")
	return nil
}
