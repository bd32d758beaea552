// Command token mints a Bearer token for a user id, signed with JWT_SECRET.
// Intended for development and scripted tests.
//
//	go run ./cmd/token -user 2 -ttl 1h
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/iliyamo/cinema-screening-booking/internal/auth"
	"github.com/iliyamo/cinema-screening-booking/internal/schema"
)

func main() {
	user := flag.String("user", "", "user id to put in the token subject")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	flag.Parse()

	_ = godotenv.Load()
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET is not set")
	}
	id, err := schema.ParseUserID(*user)
	if err != nil {
		log.Fatalf("-user: %v", err)
	}
	tok, err := auth.NewAccessToken(secret, id, *ttl)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(tok.Token)
	fmt.Fprintf(os.Stderr, "expires %s\n", tok.Exp.Format(time.RFC3339))
}
