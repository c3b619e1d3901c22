package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/codelens-edu/codelens-gateway/internal/config"
	"github.com/codelens-edu/codelens-gateway/internal/gateway"
	"github.com/codelens-edu/codelens-gateway/internal/logger"
	"github.com/codelens-edu/codelens-gateway/internal/model"
	"github.com/codelens-edu/codelens-gateway/internal/roles"
)

// check-login verifies that the configured upstream accepts a set of
// credentials and shows what the gateway would resolve for them. Useful
// when wiring a new environment.
func main() {
	cfg := config.Load()
	log := logger.Setup("warn", cfg.LogFormat)

	fmt.Println("=== CodeLens Gateway Login Check ===")
	fmt.Printf("Upstream: %s\n\n", cfg.UpstreamBaseURL)

	reader := bufio.NewReader(os.Stdin)

	fmt.Print("Email: ")
	email, _ := reader.ReadString('\n')
	email = strings.TrimSpace(email)
	if email == "" {
		fmt.Println("Error: Email is required")
		os.Exit(1)
	}

	fmt.Print("Password: ")
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		fmt.Printf("Error: failed to read password: %v\n", err)
		os.Exit(1)
	}
	password := string(raw)

	gw := gateway.New(cfg.UpstreamBaseURL, cfg.UpstreamTimeout, log)

	res := gw.Post(context.Background(), "/auth/login", model.LoginRequest{
		Email:    email,
		Password: password,
	})
	if !res.Success {
		fmt.Printf("Login FAILED: %s\n", res.Error)
		os.Exit(1)
	}

	var payload model.LoginPayload
	if err := json.Unmarshal(res.Data, &payload); err != nil {
		fmt.Printf("Login succeeded but the response was malformed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("\nLogin OK")
	fmt.Printf("  User:          %s <%s>\n", payload.User.FullName, payload.User.Email)
	fmt.Printf("  Roles:         %s\n", strings.Join(payload.User.Roles, ", "))
	fmt.Printf("  Primary route: %s\n", roles.PrimaryRoute(&payload.User))
	if payload.AccessToken == "" {
		fmt.Println("  WARNING: upstream returned no access token")
	}
}
