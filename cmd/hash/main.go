// Package main is a utility for generating bcrypt hashes of admin passwords.
// The service stores only bcrypt hashes — never plaintext — so this tool is
// used when manually seeding or resetting an admin password directly in the
// database without running the full server.
//
// Usage: hash <password> [cost]
package main

import (
	"fmt"
	"os"
	"strconv"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <password> [cost]\n", os.Args[0])
		os.Exit(1)
	}

	cost := 12
	if len(os.Args) > 2 {
		parsed, err := strconv.Atoi(os.Args[2])
		if err != nil || parsed < bcrypt.MinCost || parsed > bcrypt.MaxCost {
			fmt.Fprintf(os.Stderr, "invalid cost %q: must be an integer between %d and %d\n",
				os.Args[2], bcrypt.MinCost, bcrypt.MaxCost)
			os.Exit(1)
		}
		cost = parsed
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(os.Args[1]), cost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to hash password: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(hash))
}
