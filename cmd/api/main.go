package main

import (
	"os"

	"github.com/theclubs/clubs-backend/internal/pkg/logger"
	"github.com/theclubs/clubs-backend/internal/server"
)

// @title TheClubs API
// @version 1.0
// @description Backend for TheClubs university club management: clubs, events, announcements, moderation and AI helpers.

// @contact.name TheClubs maintainers
// @contact.email support@theclubs.app

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization, "Bearer <token>"

func main() {
	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
