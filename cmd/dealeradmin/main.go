// Command dealeradmin grants or revokes admin rights directly in the
// database. The REST API never sets the admin flag.
//
// Usage:
//
//	dealeradmin [-d dsn] -email ravi@example.in [-name Ravi]
//	dealeradmin [-d dsn] -email ravi@example.in -revoke=true
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/dmitrijs2005/autodealer/internal/common"
	"github.com/dmitrijs2005/autodealer/internal/flagx"
	"github.com/dmitrijs2005/autodealer/internal/server"
	"github.com/dmitrijs2005/autodealer/internal/server/config"
	"github.com/dmitrijs2005/autodealer/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/autodealer/internal/server/services"
	"golang.org/x/term"
)

type options struct {
	email  string
	name   string
	revoke bool
}

func parseOptions(args []string) (*options, error) {
	o := &options{}
	fs := flag.NewFlagSet("dealeradmin", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&o.email, "email", "", "account email")
	fs.StringVar(&o.name, "name", "", "name for a newly created account")
	fs.BoolVar(&o.revoke, "revoke", false, "remove admin rights instead of granting them")

	if err := fs.Parse(flagx.FilterArgs(args, []string{"-email", "-name", "-revoke"})); err != nil {
		return nil, err
	}
	if o.email == "" {
		return nil, fmt.Errorf("-email is required")
	}
	return o, nil
}

func readPassword() ([]byte, error) {
	fmt.Print("Password for the new account: ")
	defer fmt.Println()
	return term.ReadPassword(int(os.Stdin.Fd()))
}

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()

	o, err := parseOptions(os.Args[1:])
	if err != nil {
		log.Fatalf("%v", err)
	}

	db, err := server.OpenDB(ctx, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer db.Close()

	m := repomanager.NewPostgresRepositoryManager()
	if err := m.RunMigrations(ctx, db); err != nil {
		log.Fatalf("migrations error: %v", err)
	}
	users := services.NewUserService(db, m, cfg)

	if o.revoke {
		if err := users.RevokeAdmin(ctx, o.email); err != nil {
			log.Fatalf("%v", err)
		}
		fmt.Printf("%s is no longer an admin\n", o.email)
		return
	}

	// Promoting an existing account needs no password; ask only when the
	// account has to be created.
	created, err := users.EnsureAdmin(ctx, o.name, o.email, "")
	if err != nil && !errors.Is(err, common.ErrorValidation) {
		log.Fatalf("%v", err)
	}
	if err == nil {
		fmt.Printf("%s is now an admin (created: %t)\n", o.email, created)
		return
	}

	if o.name == "" {
		log.Fatalf("no account for %s; pass -name to create one", o.email)
	}
	password, err := readPassword()
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer common.WipeByteArray(password)

	if _, err := users.EnsureAdmin(ctx, o.name, o.email, string(password)); err != nil {
		log.Fatalf("%v", err)
	}
	fmt.Printf("%s is now an admin (created: true)\n", o.email)
}
