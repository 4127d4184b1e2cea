// Command devtoken mints a signed identity token for local development.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"feedgraph/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func main() {
	sub := flag.String("sub", "", "User key (defaults to a new UUID)")
	email := flag.String("email", "", "Email claim")
	ttl := flag.Duration("ttl", 24*time.Hour, "Token lifetime")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("Refusing to mint tokens with a production secret")
	}

	subject := *sub
	if subject == "" {
		subject = uuid.NewString()
	}
	mail := *email
	if mail == "" {
		mail = subject + "@example.test"
	}

	claims := jwt.MapClaims{
		"sub":   subject,
		"email": mail,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(*ttl).Unix(),
	}
	if cfg.JWTIssuer != "" {
		claims["iss"] = cfg.JWTIssuer
	}
	if cfg.JWTAudience != "" {
		claims["aud"] = cfg.JWTAudience
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		log.Fatalf("Failed to sign token: %v", err)
	}
	fmt.Println(signed)
}
