package main

import (
	"os"

	"marketplace-api/cmd"

	_ "marketplace-api/docs" // Registers the OpenAPI document served under /swagger

	log "github.com/sirupsen/logrus"
)

// @title           Marketplace API
// @version         1.0
// @description     Freelance marketplace: profiles, jobs, applications and payments.

// @host      localhost:8080
// @BasePath  /api/v1
// @schemes   http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.
func main() {
	if err := cmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
