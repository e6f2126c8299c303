package auth

import (
	"log"

	"github.com/golang-jwt/jwt/v5"

	"github.com/getprecis/precis/config"
)

// GenerateKey signs an empty HS256 token with the configured secret.
// Used by the --generate-token CLI flag.
func GenerateKey(cfg *config.Config) string {
	secret := []byte(cfg.Auth.Secret)
	if len(secret) == 0 {
		log.Fatal("Auth secret not set. Ensure PRECIS_AUTH_SECRET is set in your environment.")
	}

	token := jwt.New(jwt.SigningMethodHS256)
	tokenString, err := token.SignedString(secret)
	if err != nil {
		log.Fatal(err)
	}

	return tokenString
}
