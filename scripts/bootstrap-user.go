package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/moralreport/moralreport/internal/auth"
	"github.com/moralreport/moralreport/internal/metrics"
	"github.com/moralreport/moralreport/internal/repository"
	"github.com/moralreport/moralreport/internal/service"
)

func main() {
	var (
		databaseURL = flag.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
		username    = flag.String("username", "admin", "Username to register")
		email       = flag.String("email", "admin@moralreport.local", "User email")
		format      = flag.String("format", "plain", "Output format: plain or json")
	)
	flag.Parse()

	if *databaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required")
		os.Exit(1)
	}

	// Read from the environment so the password never lands in shell history.
	password := os.Getenv("BOOTSTRAP_PASSWORD")
	if password == "" {
		fmt.Fprintln(os.Stderr, "BOOTSTRAP_PASSWORD is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repo, err := repository.New(ctx, *databaseURL, repository.DefaultPoolConfig())
	if err != nil {
		fmt.Fprintln(os.Stderr, "connect database:", err)
		os.Exit(1)
	}
	defer repo.Close()

	hasher, err := auth.NewArgon2Hasher(auth.DefaultArgon2Params())
	if err != nil {
		fmt.Fprintln(os.Stderr, "init hasher:", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	registration := service.NewRegistrationService(repo, hasher, service.DefaultPasswordPolicy(), metrics.NewNoop(), logger)

	user, err := registration.Register(ctx, service.RegisterInput{
		Username:             *username,
		Email:                *email,
		Password:             password,
		PasswordConfirmation: password,
	})
	if err != nil {
		if verr, ok := service.AsValidationError(err); ok {
			printValidation(verr)
		} else {
			fmt.Fprintln(os.Stderr, "register user:", err)
		}
		os.Exit(1)
	}

	switch strings.ToLower(*format) {
	case "plain":
		fmt.Println(user.ID)
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(user.ToResponse())
	default:
		fmt.Fprintln(os.Stderr, "invalid format; use plain or json")
		os.Exit(1)
	}
}

func printValidation(verr *service.ValidationError) {
	if errors.Is(verr, service.ErrConflict) {
		fmt.Fprintln(os.Stderr, "user already exists")
	}

	fields := make([]string, 0, len(verr.Fields))
	for field := range verr.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	for _, field := range fields {
		for _, reason := range verr.Fields[field] {
			fmt.Fprintf(os.Stderr, "%s: %s\n", field, reason)
		}
	}
}
