package app

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/avelichko/todoflow/internal/config"
	"github.com/avelichko/todoflow/internal/repository"
	"github.com/avelichko/todoflow/internal/storage"
)

var (
	globalTodoRepository repository.TodoRepository

	globalSQLiteDB    *gorm.DB
	globalRedisClient *redis.Client
)

// MustOpenStore connects the backing medium selected by STORE_DRIVER
// and loads the todo collection behind a repository instance.
func MustOpenStore() {
	cfg := config.Global().Store

	var err error
	switch cfg.Driver {
	case config.StoreDriverSQLite:
		globalTodoRepository, err = openSQLite(cfg)
	case config.StoreDriverFile:
		globalTodoRepository, err = openFile(cfg)
	case config.StoreDriverRedis:
		globalTodoRepository, err = openRedis(cfg)
	default:
		err = fmt.Errorf("unknown store driver: %s", cfg.Driver)
	}
	if err != nil {
		globalLogger.Error().
			Err(err).
			Str("driver", cfg.Driver).
			Msg("failed to open store")
		panic(err)
	}

	globalLogger.Info().
		Str("driver", cfg.Driver).
		Msg("opened store")
}

func CloseStore() {
	if globalSQLiteDB != nil {
		if db, err := globalSQLiteDB.DB(); err == nil {
			_ = db.Close()
		}
	}
	if globalRedisClient != nil {
		_ = globalRedisClient.Close()
	}
	globalLogger.Info().Msg("closed store")
}

func openSQLite(cfg config.StoreConfig) (repository.TodoRepository, error) {
	db, err := gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite file: %w", err)
	}
	globalSQLiteDB = db

	globalLogger.Info().
		Str("path", cfg.Path).
		Msg("opened sqlite file")
	return repository.NewSQLite(globalLogger, db)
}

func openFile(cfg config.StoreConfig) (repository.TodoRepository, error) {
	store := storage.NewFileStore(cfg.FilePath, storage.DefaultKey)

	globalLogger.Info().
		Str("path", cfg.FilePath).
		Msg("using json file store")
	return repository.NewKV(context.Background(), globalLogger, store)
}

func openRedis(cfg config.StoreConfig) (repository.TodoRepository, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	globalRedisClient = client

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Redis.PingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	globalLogger.Info().
		Str("addr", cfg.Redis.Addr).
		Msg("connected to redis")

	store := storage.NewRedisStore(client, cfg.Redis.Key)
	return repository.NewKV(context.Background(), globalLogger, store)
}
