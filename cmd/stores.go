package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/beka-birhanu/vinom-qmaze/config"
	"github.com/beka-birhanu/vinom-qmaze/infrastruture/cache"
	"github.com/beka-birhanu/vinom-qmaze/infrastruture/repo"
	"github.com/beka-birhanu/vinom-qmaze/qtable"
	"github.com/beka-birhanu/vinom-qmaze/service/i"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const connectTimeout = 10 * time.Second

// backend is the persistence wired for one command.
type backend struct {
	store i.TableStore
	board i.RunRecorder // nil unless the store is Redis
	close func()
}

func openBackend(ctx context.Context, cfg config.Config, logger *logrus.Entry) (*backend, error) {
	switch cfg.Store {
	case config.StoreRedis:
		client, err := initRedis(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		return &backend{
			store: cache.NewRedisTableStore(client, cfg.RedisPrefix, cfg.MazeName),
			board: cache.NewRedisRunBoard(client, cfg.RedisPrefix, cfg.RunBoardTTL),
			close: func() { _ = client.Close() },
		}, nil

	case config.StoreMongo:
		client, err := initMongo(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		return &backend{
			store: repo.NewTableRepo(client, cfg.DBName, repo.DefaultCollection, cfg.MazeName),
			close: func() { _ = client.Disconnect(context.Background()) },
		}, nil

	default:
		logger.WithField("path", cfg.TablePath).Debug("Using the value table file")
		return &backend{
			store: qtable.NewFileStore(cfg.TablePath),
			close: func() {},
		}, nil
	}
}

func initRedis(ctx context.Context, cfg config.Config, logger *logrus.Entry) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	logger.WithField("addr", cfg.RedisAddr).Info("Connected to Redis")
	return client, nil
}

func initMongo(ctx context.Context, cfg config.Config, logger *logrus.Entry) (*mongo.Client, error) {
	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoURI()))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("MongoDB ping failed: %w", err)
	}
	logger.WithField("db", cfg.DBName).Info("Connected to MongoDB")
	return client, nil
}
