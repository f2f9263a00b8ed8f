// Command devtoken mints a bearer token for local testing, since the service
// consumes identities but never issues them.
package main

import (
	"flag" // Command line flags
	"fmt"  // Token output
	"time" // Token lifetime

	"voucher_wallet/internal/config" // Custom import path (Config)
	"voucher_wallet/internal/domain" // Roles
	"voucher_wallet/internal/utils"  // JWT utility functions

	"github.com/sirupsen/logrus" // Logrus for structured logging
)

func main() {
	userID := flag.Uint("user", 1, "user id to embed in the token")
	role := flag.String("role", string(domain.RoleConsumer), "consumer, merchant or admin")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	if !domain.Role(*role).Valid() {
		logrus.Fatalf("unknown role %q", *role)
	}
	cfg, err := config.LoadConfig() // JWT_SECRET comes from the environment
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}

	token, err := utils.GenerateJWT(*userID, domain.Role(*role), cfg.JWTSecret, *ttl)
	if err != nil {
		logrus.Fatalf("failed to sign token: %v", err)
	}
	fmt.Println(token)
}
