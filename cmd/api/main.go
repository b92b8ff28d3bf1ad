package main

import (
	"os"

	"github.com/counselorhub/counselorhub/internal/pkg/logger"
	"github.com/counselorhub/counselorhub/internal/server"
)

// @title CounselorHub API
// @version 1.0
// @description Administration API for school counseling records

// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization

func main() {
	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	// Blocks until SIGINT/SIGTERM
	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
