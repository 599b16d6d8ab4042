package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/dmitrijs2005/budgetkeeper/internal/flagx"
	"github.com/dmitrijs2005/budgetkeeper/internal/logging"
	"github.com/dmitrijs2005/budgetkeeper/internal/server"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/auth"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/config"
)

// issueFlag returns the user id given with -issue, if any.
func issueFlag(args []string) string {
	var userID string
	fs := flag.NewFlagSet("issue", flag.ContinueOnError)
	fs.StringVar(&userID, "issue", "", "print an access token for this user id and exit")
	_ = fs.Parse(flagx.FilterArgs(args, []string{"-issue", "--issue"}))
	return userID
}

func main() {

	ctx := context.Background()
	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}

	// Development helper standing in for the identity provider.
	if userID := issueFlag(os.Args[1:]); userID != "" {
		token, err := auth.GenerateToken(userID, []byte(cfg.SecretKey), cfg.AccessTokenValidity)
		if err != nil {
			log.Printf("%v", err)
			os.Exit(1)
		}
		fmt.Println(token)
		return
	}

	logger := logging.NewJSONLogger(os.Stdout, slog.LevelInfo)
	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}

	app.Run(ctx)

}
