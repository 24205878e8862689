package config

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
)

var (
	// Shared dependencies wired at startup. The tracker services take
	// the *sql.DB as an explicit constructor argument; these variables
	// are only the injection point the HTTP layer reads from.
	DB          *sql.DB
	SecretKey   = []byte("secret")
	Validate    = validator.New()
	Ctx         = context.Background()
	RedisClient *redis.Client
)
