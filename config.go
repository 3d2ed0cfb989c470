package main

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds the runtime settings, filled from the environment
// (optionally via a .env file).
type Config struct {
	Addr      string
	Database  string
	SecretKey string
	PerPage   int
}

func loadConfig(log *logrus.Logger) Config {
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found, relying on environment variables")
	}

	return Config{
		Addr:      getEnv("ADDR", ":5000"),
		Database:  getEnv("DATABASE", "/tmp/microblog.db"),
		SecretKey: getEnv("SECRET_KEY", "you-will-never-guess"),
		PerPage:   getEnvAsInt("POSTS_PER_PAGE", 3),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}
