package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/landesnetz/landesnetz-api/internal/config"
	"github.com/landesnetz/landesnetz-api/internal/domain/account"
	"github.com/landesnetz/landesnetz-api/internal/pkg/database"
	"github.com/landesnetz/landesnetz-api/internal/pkg/logger"
	"github.com/landesnetz/landesnetz-api/internal/pkg/password"
	"github.com/landesnetz/landesnetz-api/internal/pkg/recordstore"
)

func main() {
	cfg := config.Load()
	logger.Init(logger.Config{Level: cfg.LogLevel, Environment: cfg.Env})

	username := flag.String("user", "", "username to test")
	pwd := flag.String("password", "", "password to test")
	flag.Parse()
	if *username == "" {
		fmt.Fprintln(os.Stderr, "usage: debug_login -user NAME -password PASS")
		os.Exit(2)
	}

	ctx := context.Background()

	var backend recordstore.Backend
	if cfg.StoreDriver == "postgres" {
		db, err := database.NewPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to database")
		}
		defer database.ClosePostgres(db)
		if backend, err = recordstore.NewPostgresBackend(ctx, db); err != nil {
			log.Fatal().Err(err).Msg("Failed to open record store")
		}
	} else {
		local, err := recordstore.NewLocalBackend(cfg.DataDir)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to open record store")
		}
		backend = local
	}
	store := recordstore.New(backend)

	names, err := store.Names(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to list documents")
	}
	fmt.Println("--- Documents ---")
	for _, name := range names {
		raw, err := store.Raw(ctx, name)
		if err != nil {
			fmt.Printf("%s (unreadable: %v)\n", name, err)
			continue
		}
		fmt.Printf("%s (%d bytes)\n", name, len(raw))
	}
	fmt.Println("-----------------")

	var verifier account.CredentialVerifier = password.Plaintext{}
	if cfg.PasswordMode == "bcrypt" {
		verifier = password.Bcrypt{}
	}
	stores := &account.Stores{
		Users:      account.NewRepository(store, account.RoleUser),
		Admins:     account.NewRepository(store, account.RoleAdmin),
		Organizers: account.NewRepository(store, account.RoleOrganizer),
		Pending:    account.NewPendingRepository(store),
	}
	lookup := account.NewLookup(stores, verifier)

	fmt.Println("--- Testing login for", *username, "---")

	pending, err := stores.Pending.Exists(ctx, *username)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read pending signups")
	}
	if pending {
		fmt.Println("WARNING: signup is still pending approval")
	}

	a, err := lookup.Find(ctx, *username, account.RoleUser, account.RoleAdmin, account.RoleOrganizer)
	if errors.Is(err, account.ErrNotFound) {
		fmt.Println("Account not found in any store")
		return
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Lookup failed")
	}

	fmt.Printf("Found in %s store (bundesland %q)\n", a.Role, a.Bundesland)
	if a.Locked {
		fmt.Println("ERROR: account is locked")
	}

	match := verifier.Verify(a.Password, *pwd)
	fmt.Printf("Password verification (%s): %v\n", cfg.PasswordMode, match)
	if !match {
		if _, err := lookup.Authenticate(ctx, *username, *pwd, account.RoleUser, account.RoleAdmin, account.RoleOrganizer); err == nil {
			fmt.Println("Another store with the same username accepts this password")
		}
	}
}
