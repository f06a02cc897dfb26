package main

import (
	"log"
	"strconv"

	"storefront-backend/internal/shared/utils"
)

// Config holds the worker's own configuration. Database settings come
// through the shared container.
type Config struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

func loadConfig() *Config {
	redisDB, err := strconv.Atoi(utils.GetEnvVariable("REDIS_DB", "0"))
	if err != nil {
		redisDB = 0
	}

	cfg := &Config{
		RedisAddr:     utils.GetEnvVariable("REDIS_HOST", "localhost:6379"),
		RedisPassword: utils.GetEnvVariable("REDIS_PASSWORD", ""),
		RedisDB:       redisDB,
	}

	log.Printf("[Config] Redis: %s (db %d)", cfg.RedisAddr, cfg.RedisDB)

	return cfg
}
