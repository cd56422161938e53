package repositories

import (
	"context"
	"fmt"
	"log"
	"time"

	"chiyasathi/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// StateOptions selects and configures a StateRepository backend.
type StateOptions struct {
	Driver        string // sqlite, postgres, redis or memory
	DSN           string
	RedisAddr     string
	RedisPassword string
	Profile       string // redis key namespace
}

// OpenStateRepository connects the configured backend. The returned close
// function releases the underlying connection.
func OpenStateRepository(opts StateOptions) (StateRepository, func() error, error) {
	switch opts.Driver {
	case "memory":
		return NewMemoryStateRepository(), func() error { return nil }, nil
	case "sqlite", "postgres":
		db, err := openGORM(opts.Driver, opts.DSN)
		if err != nil {
			return nil, nil, err
		}
		if err := db.AutoMigrate(&models.StateEntry{}); err != nil {
			return nil, nil, fmt.Errorf("failed to migrate client state: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get sql handle: %w", err)
		}
		return NewGORMStateRepository(db), sqlDB.Close, nil
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:         opts.RedisAddr,
			Password:     opts.RedisPassword,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			rdb.Close()
			return nil, nil, fmt.Errorf("failed to connect to redis at %s: %w", opts.RedisAddr, err)
		}
		log.Printf("Client state stored in redis at %s", opts.RedisAddr)
		return NewRedisStateRepository(rdb, opts.Profile), rdb.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown state driver %q", opts.Driver)
	}
}

func openGORM(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if driver == "postgres" {
		dialector = postgres.Open(dsn)
	} else {
		dialector = sqlite.Open(dsn)
	}
	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s state database: %w", driver, err)
	}
	return db, nil
}
