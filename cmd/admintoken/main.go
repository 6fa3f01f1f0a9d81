// Command admintoken mints a bearer token for the admin API. The token is
// sealed with ADMIN_SESSION_KEY, so it only opens on servers sharing that
// key.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"detailbay/pkg/sealer"
)

func main() {
	adminID := flag.String("admin", "", "admin identifier embedded in the token")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	if *adminID == "" {
		fmt.Fprintln(os.Stderr, "usage: admintoken -admin <id> [-ttl <duration>]")
		os.Exit(2)
	}

	key := os.Getenv("ADMIN_SESSION_KEY")
	if key == "" {
		fmt.Fprintln(os.Stderr, "ADMIN_SESSION_KEY is not set")
		os.Exit(1)
	}

	s, err := sealer.New(key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid ADMIN_SESSION_KEY: %v\n", err)
		os.Exit(1)
	}

	token, err := s.Seal(*adminID, time.Now().Add(*ttl))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to seal token: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(token)
}
