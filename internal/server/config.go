package server

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/DjordjeVuckovic/ann-bench/pkg/config/env"
	"github.com/DjordjeVuckovic/ann-bench/pkg/stringsutil"
)

type Config struct {
	Port        string
	CorsOrigins []string

	ResultsRoot  string
	DatasetsRoot string
	CacheDir     string
}

func LoadConfig() (*Config, error) {
	if err := env.LoadDotEnv(os.Getenv("APP_ENV"), "cmd/plot_server/.env"); err != nil {
		slog.Info("Skipping .env ...", "error", err)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := validatePort(port); err != nil {
		return nil, fmt.Errorf("invalid port: %w", err)
	}

	resultsRoot := os.Getenv("RESULTS_ROOT")
	if resultsRoot == "" {
		resultsRoot = "results"
	}
	datasetsRoot := os.Getenv("DATASETS_ROOT")
	if datasetsRoot == "" {
		datasetsRoot = "data"
	}

	var origins []string
	corsOriginsEnv := os.Getenv("CORS_ORIGINS")
	if corsOriginsEnv != "" {
		origins = strings.Split(corsOriginsEnv, ",")
		for i, origin := range origins {
			origins[i] = strings.TrimSpace(origin)
		}
		origins = stringsutil.RemoveEmptyStrings(origins)
	}

	if len(origins) == 0 {
		origins = []string{"*"}
	}

	return &Config{
		Port:         port,
		CorsOrigins:  origins,
		ResultsRoot:  resultsRoot,
		DatasetsRoot: datasetsRoot,
		CacheDir:     os.Getenv("CACHE_DIR"),
	}, nil
}

func validatePort(port string) error {
	portNum, err := strconv.Atoi(port)

	if err != nil {
		return errors.New("port must be a number")
	}

	if portNum < 1 || portNum > 65535 {
		return errors.New("port must be between 1 and 65535")
	}

	return nil
}
