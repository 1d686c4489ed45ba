// cmd/tools/user-admin/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"golang.org/x/crypto/bcrypt"

	"cert-tracker/internal/common/auth"
	"cert-tracker/internal/common/config"
	"cert-tracker/internal/common/database"
	"cert-tracker/internal/models"
	"cert-tracker/internal/store"
)

// userStore is the part of store.UserStore the commands need.
type userStore interface {
	List(ctx context.Context) ([]models.User, error)
	Get(ctx context.Context, eid string) (*models.User, error)
	Create(ctx context.Context, u *models.User) error
	Update(ctx context.Context, u *models.User) error
}

func main() {
	if len(os.Args) < 2 || os.Args[1] == "help" {
		help(os.Stdout)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		fmt.Printf("Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer pg.Close()

	ctx := context.Background()
	if err := pg.Ping(ctx); err != nil {
		fmt.Printf("Error connecting to database: %v\n", err)
		os.Exit(1)
	}

	users := store.NewUserStore(pg.DB)
	if err := run(ctx, os.Args[1:], users, auth.NewHasher(bcrypt.DefaultCost), os.Stdout); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, users userStore, hasher *auth.Hasher, out io.Writer) error {
	switch args[0] {
	case "add":
		addCmd := flag.NewFlagSet("add", flag.ContinueOnError)
		addCmd.SetOutput(out)
		eid := addCmd.String("eid", "", "Enterprise ID, used as the login name")
		firstName := addCmd.String("first", "", "First name")
		lastName := addCmd.String("last", "", "Last name")
		password := addCmd.String("password", "", "Initial password")
		role := addCmd.String("role", string(models.RoleEmployee), "Role (ADMIN, MANAGER, EMPLOYEE)")
		if err := addCmd.Parse(args[1:]); err != nil {
			return err
		}
		if *eid == "" || *firstName == "" || *lastName == "" || *password == "" {
			addCmd.Usage()
			return fmt.Errorf("eid, first, last and password are required for add")
		}
		r, ok := models.ParseRole(*role)
		if !ok {
			return fmt.Errorf("unknown role %q", *role)
		}
		hash, err := hasher.Hash(*password)
		if err != nil {
			return err
		}
		if err := users.Create(ctx, &models.User{
			EID: *eid, FirstName: *firstName, LastName: *lastName, PasswordHash: hash, Role: r,
		}); err != nil {
			return fmt.Errorf("failed to add user: %w", err)
		}
		fmt.Fprintf(out, "Added user: %s (%s)\n", *eid, r.Value())

	case "reset-password":
		resetCmd := flag.NewFlagSet("reset-password", flag.ContinueOnError)
		resetCmd.SetOutput(out)
		eid := resetCmd.String("eid", "", "Enterprise ID")
		password := resetCmd.String("password", "", "New password")
		if err := resetCmd.Parse(args[1:]); err != nil {
			return err
		}
		if *eid == "" || *password == "" {
			resetCmd.Usage()
			return fmt.Errorf("eid and password are required for reset-password")
		}
		u, err := users.Get(ctx, *eid)
		if err != nil {
			return fmt.Errorf("failed to load user %s: %w", *eid, err)
		}
		if u.PasswordHash, err = hasher.Hash(*password); err != nil {
			return err
		}
		if err := users.Update(ctx, u); err != nil {
			return fmt.Errorf("failed to update user: %w", err)
		}
		fmt.Fprintf(out, "Password reset for %s\n", *eid)

	case "list":
		list, err := users.List(ctx)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "EID\tNAME\tROLE")
		for _, u := range list {
			fmt.Fprintf(tw, "%s\t%s %s\t%s\n", u.EID, u.FirstName, u.LastName, u.Role.Value())
		}
		return tw.Flush()

	default:
		help(out)
		return fmt.Errorf("unknown command %q", args[0])
	}
	return nil
}

func help(out io.Writer) {
	fmt.Fprintln(out, "Usage: user-admin <command> [options]")
	fmt.Fprintln(out, "Commands:")
	fmt.Fprintln(out, "  add             Create a user")
	fmt.Fprintln(out, "  reset-password  Replace a user's password")
	fmt.Fprintln(out, "  list            List users")
	fmt.Fprintln(out, "  help            Show this help message")
}
