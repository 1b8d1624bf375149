// Command createsuperuser adds an administrator account. It accepts the
// server's configuration flags plus:
//
//	-username string
//	-email string
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/yamdb/yamdb/internal/flagx"
	"github.com/yamdb/yamdb/internal/server"
	"github.com/yamdb/yamdb/internal/server/config"
)

func main() {
	fs := flag.NewFlagSet("createsuperuser", flag.ExitOnError)
	username := fs.String("username", "", "superuser username")
	email := fs.String("email", "", "superuser email")
	_ = fs.Parse(flagx.FilterArgs(os.Args[1:], flagx.Spec{Value: []string{"-username", "-email"}}))

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()
	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer app.Close()

	u, err := app.CreateSuperuser(ctx, *username, *email)
	if err != nil {
		log.Fatalf("%v", err)
	}
	fmt.Printf("superuser %s created with id %d\n", u.Username, u.ID)
}
