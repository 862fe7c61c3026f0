package main

import (
	"bufio"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/application/auth"
	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/config"
	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/infrastructure/persistence/migrate"
	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/infrastructure/persistence/postgres"
	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/infrastructure/security"
)

func newRootCommand(log zerolog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "portalctl",
		Short:         "Operator tooling for the HelixPortal client portal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newMigrateCommand(log), newSeedAdminCommand(log), newHashPasswordCommand())
	return cmd
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if cfg.Database.URL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	return cfg, nil
}

// openDB returns the pool and a database/sql handle over it. Closing the pool closes both.
func openDB(cmd *cobra.Command) (*pgxpool.Pool, *sql.DB, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	pool, err := postgres.NewPool(cmd.Context(), cfg.Database.URL)
	if err != nil {
		return nil, nil, err
	}
	return pool, stdlib.OpenDBFromPool(pool), nil
}

func newMigrateCommand(log zerolog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or inspect database schema migrations",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				pool, db, err := openDB(cmd)
				if err != nil {
					return err
				}
				defer pool.Close()
				applied, err := migrate.NewManager(db).Up(cmd.Context())
				for _, name := range applied {
					log.Info().Str("migration", name).Msg("applied")
				}
				if err != nil {
					return err
				}
				if len(applied) == 0 {
					log.Info().Msg("schema is up to date")
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the most recent migration",
			RunE: func(cmd *cobra.Command, args []string) error {
				pool, db, err := openDB(cmd)
				if err != nil {
					return err
				}
				defer pool.Close()
				name, err := migrate.NewManager(db).Down(cmd.Context())
				if err != nil {
					return err
				}
				if name == "" {
					log.Info().Msg("nothing to roll back")
					return nil
				}
				log.Info().Str("migration", name).Msg("rolled back")
				return nil
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "List applied and pending migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				pool, db, err := openDB(cmd)
				if err != nil {
					return err
				}
				defer pool.Close()
				m := migrate.NewManager(db)
				applied, err := m.Status(cmd.Context())
				if err != nil {
					return err
				}
				pending, err := m.Pending(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				for _, name := range applied {
					fmt.Fprintf(out, "applied  %s\n", name)
				}
				for _, name := range pending {
					fmt.Fprintf(out, "pending  %s\n", name)
				}
				return nil
			},
		},
	)
	return cmd
}

func newSeedAdminCommand(log zerolog.Logger) *cobra.Command {
	var email, password, displayName string
	cmd := &cobra.Command{
		Use:   "seed-admin",
		Short: "Create the first Admin account when no users exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if password == "" {
				password = cfg.Admin.SeedPassword
			}
			if password == "" {
				return errors.New("--password or SEED_ADMIN_PASSWORD is required")
			}
			if email == "" {
				email = cfg.Admin.SeedEmail
			}
			hasher, err := security.NewMultiHasher(cfg.Password.Algorithm, cfg.Password.Argon2, cfg.Password.BcryptCost)
			if err != nil {
				return err
			}
			pool, err := postgres.NewPool(cmd.Context(), cfg.Database.URL)
			if err != nil {
				return err
			}
			defer pool.Close()
			users := postgres.NewUserRepository(pool)
			provision := auth.NewProvisionUser(users, postgres.NewOrganisationRepository(pool), hasher)
			created, err := auth.SeedAdmin(cmd.Context(), users, provision, email, password, displayName)
			if err != nil {
				return err
			}
			if !created {
				log.Info().Msg("users already exist; nothing seeded")
				return nil
			}
			log.Info().Str("email", email).Msg("admin account created")
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "admin email address (defaults to SEED_ADMIN_EMAIL)")
	cmd.Flags().StringVar(&password, "password", "", "admin password (or SEED_ADMIN_PASSWORD)")
	cmd.Flags().StringVar(&displayName, "display-name", "Administrator", "admin display name")
	return cmd
}

func newHashPasswordCommand() *cobra.Command {
	var algorithm string
	cmd := &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Hash a password with the configured algorithm (reads stdin when no argument is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if algorithm == "" {
				algorithm = cfg.Password.Algorithm
			}
			password := ""
			if len(args) == 1 {
				password = args[0]
			} else {
				password, err = readLine(cmd.InOrStdin())
				if err != nil {
					return err
				}
			}
			if password == "" {
				return errors.New("password is empty")
			}
			hasher, err := security.NewMultiHasher(algorithm, cfg.Password.Argon2, cfg.Password.BcryptCost)
			if err != nil {
				return err
			}
			hash, err := hasher.Hash(password)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
	cmd.Flags().StringVar(&algorithm, "algorithm", "", "argon2id or bcrypt (defaults to PASSWORD_HASH_ALGORITHM)")
	return cmd
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
