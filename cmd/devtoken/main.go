// Command devtoken prints a bearer token for a user id, for calling a server
// started with JWT_SECRET set.
//
//	JWT_SECRET=... go run ./cmd/devtoken -user u1 -ttl 24h
//	curl -H "Authorization: Bearer $(go run ./cmd/devtoken -user u1)" ...
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sakif/learnhub/internal/auth"
)

func main() {
	user := flag.String("user", "", "user id to put in the token subject (required)")
	ttl := flag.Duration("ttl", auth.DefaultTTL, "token lifetime")
	secret := flag.String("secret", os.Getenv("JWT_SECRET"), "signing secret (defaults to $JWT_SECRET)")
	flag.Parse()

	if *user == "" {
		fmt.Fprintln(os.Stderr, "devtoken: -user is required")
		flag.Usage()
		os.Exit(2)
	}

	tokens, err := auth.NewTokenService(*secret)
	if err != nil {
		fmt.Fprintln(os.Stderr, "devtoken:", err)
		os.Exit(1)
	}

	token, err := tokens.GenerateWithDuration(*user, *ttl)
	if err != nil {
		fmt.Fprintln(os.Stderr, "devtoken:", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
