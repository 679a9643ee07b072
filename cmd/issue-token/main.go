// Command issue-token mints a bearer token for operators and local testing.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/motofleet/courier-rental/internal/auth"
	"github.com/motofleet/courier-rental/internal/config"
	"github.com/motofleet/courier-rental/internal/domain"
)

func main() {
	subject := flag.String("subject", "admin", "subject id (courier id for COURIER tokens)")
	role := flag.String("role", string(domain.RoleAdmin), "ADMIN or COURIER")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	meta, token, err := tokens.GenerateToken(*subject, domain.Role(strings.ToUpper(*role)))
	if err != nil {
		log.Fatalf("failed to issue token: %v", err)
	}

	fmt.Fprintf(os.Stderr, "role=%s subject=%s expires=%s\n", meta.Role, meta.SubjectID, meta.ExpiresAt.Format(time.RFC3339))
	fmt.Println(token)
}
