// Package main seeds the admins table for a new deployment.
//
// Subcommands:
//
//	seed        (default) create the initial super_admin and a demo admin
//	            account, but only when the admins table is empty
//	seed list   print every admin account with role, status, and lock state
//
// The seeded passwords are printed once to stdout and must be changed after
// the first login.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"github.com/campus-events/campus-events/internal/auth"
	"github.com/campus-events/campus-events/internal/config"
	"github.com/campus-events/campus-events/internal/db"
	"github.com/campus-events/campus-events/internal/db/models"
	"github.com/campus-events/campus-events/internal/db/repositories"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Error: %v\n", err)
	}
}

func run() error {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	database, err := db.Connect(cfg.Database.GetDSN(), cfg.Database.MaxConnections, cfg.Database.MinIdleConnections)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	if err := db.RunMigrations(database.DB, "up"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	repo := repositories.NewAdminRepository(database)

	command := "seed"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch command {
	case "seed":
		return seed(ctx, cfg, repo)
	case "list":
		return list(ctx, repo)
	default:
		return fmt.Errorf("unknown command: %s\nAvailable commands: seed, list", command)
	}
}

// seed creates the bootstrap accounts. It refuses to touch a non-empty table
// so re-running it against a live deployment is a no-op.
func seed(ctx context.Context, cfg *config.Config, repo *repositories.AdminRepository) error {
	total, err := repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count admins: %w", err)
	}
	if total > 0 {
		fmt.Printf("Admins table already has %d account(s); nothing to do.\n", total)
		fmt.Println("Run with the list command to inspect them.")
		return nil
	}

	hasher := auth.NewPasswordHasher(cfg.Auth.Password)

	allPerms := models.Permissions{
		CanCreateEvents:  true,
		CanEditEvents:    true,
		CanDeleteEvents:  true,
		CanManageAdmins:  true,
		CanViewAnalytics: true,
	}

	accounts := []struct {
		admin    models.Admin
		password string
	}{
		{
			admin: models.Admin{
				Username:    "superadmin",
				Email:       "superadmin@college.edu",
				FullName:    "Super Administrator",
				Role:        auth.RoleSuperAdmin,
				Permissions: allPerms,
				Status:      auth.StatusActive,
			},
			password: "SuperAdmin@123",
		},
		{
			admin: models.Admin{
				Username:    "admin",
				Email:       "admin@college.edu",
				FullName:    "College Administrator",
				Role:        auth.RoleAdmin,
				Permissions: models.DefaultPermissions(),
				Status:      auth.StatusActive,
			},
			password: "Admin@123",
		},
	}

	for i := range accounts {
		entry := &accounts[i]
		hash, err := hasher.Hash(entry.password)
		if err != nil {
			return fmt.Errorf("failed to hash password for %s: %w", entry.admin.Username, err)
		}
		entry.admin.PasswordHash = hash

		if err := repo.Create(ctx, &entry.admin); err != nil {
			return fmt.Errorf("failed to create %s: %w", entry.admin.Username, err)
		}
		fmt.Printf("Created %-12s role=%-12s password=%s\n",
			entry.admin.Username, entry.admin.Role, entry.password)
	}

	fmt.Println()
	fmt.Println("Change these passwords after the first login.")
	return nil
}

// list prints every admin account in a fixed-width table.
func list(ctx context.Context, repo *repositories.AdminRepository) error {
	admins, err := repo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list admins: %w", err)
	}

	if len(admins) == 0 {
		fmt.Println("No admin accounts found. Run the seed command to create the initial accounts.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "USERNAME\tEMAIL\tROLE\tSTATUS\tFAILED\tLOCKED UNTIL\tLAST LOGIN")
	for _, a := range admins {
		lockedUntil := "-"
		if a.IsLocked() {
			lockedUntil = a.LockedUntil.Format(time.RFC3339)
		}
		lastLogin := "never"
		if a.LastLogin != nil {
			lastLogin = a.LastLogin.Format(time.RFC3339)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			a.Username, a.Email, a.Role, a.Status,
			a.FailedLoginAttempts, lockedUntil, lastLogin)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\n%d account(s) total\n", len(admins))
	return nil
}
