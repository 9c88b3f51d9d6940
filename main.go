// Command ims is a terminal client for the IMS backend.
//
//	ims login -u alice -p password1
//	ims products list -q bolt
//	ims orders status -id 4 -status Shipped
//	ims report -type order -from 2026-01-01 -to 2026-01-31
//
// Settings come from the environment (IMS_AUTH_URL, IMS_API_URL,
// IMS_STORE, ...), a .env file or the YAML file named by IMS_CONFIG.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"ims-client/client"
	"ims-client/config"
	"ims-client/session"
	"ims-client/store"
)

func usage() {
	fmt.Fprintf(os.Stderr, `usage: ims [-no-wait] [-v] <command> [flags]

commands:
  login      -u user -p password
  signup     -u user -e email -p password -confirm password
  logout
  whoami
  profile    [-u user] [-e email] [-current pw -new pw -confirm pw] [-avatar ref]
  products   list [-q text] | add | update -id N | delete -id N
  orders     list [-q text] | add | status -id N -status S | cancel -id N
  suppliers  list [-q text] | add | update -id N | delete -id N
  report     -type inventory|order|supplier -from YYYY-MM-DD -to YYYY-MM-DD [-param k=v]
`)
}

func main() {
	log.SetPrefix("[ims] ")
	log.SetFlags(log.LstdFlags)

	noWait := flag.Bool("no-wait", false, "skip the pause before redirects")
	verbose := flag.Bool("v", false, "log backend errors to stderr")
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	backend, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("session store: %v", err)
	}

	logger := log.Default()
	if !*verbose {
		logger = log.New(io.Discard, "", 0)
	}

	sessions := session.New(backend, logger)
	if _, err := sessions.Load(ctx); err != nil {
		log.Printf("restore session: %v", err)
	}

	api := client.New(client.Options{
		AuthURL: cfg.AuthURL,
		APIURL:  cfg.APIURL,
		Timeout: cfg.HTTPTimeout,
		Logger:  logger,
	}, sessions)

	app := &app{
		cfg:      cfg,
		api:      api,
		sessions: sessions,
		logger:   logger,
		out:      os.Stdout,
		errOut:   os.Stderr,
		wait:     !*noWait,
	}
	err = app.run(ctx, flag.Arg(0), flag.Args()[1:])
	backend.Close()
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// openStore picks the session backend named by cfg.Store.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.Store {
	case config.StorePostgres:
		pg, err := store.NewPostgresStore(cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		if err := pg.Migrate(ctx); err != nil {
			pg.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		log.Println("session store: postgres")
		return pg, nil
	case config.StoreRedis:
		return store.NewRedisStore(store.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			TLS:      cfg.RedisTLS,
			Prefix:   "ims:",
		}), nil
	case config.StoreMemory:
		return store.NewMemoryStore(), nil
	default:
		return store.NewFileStore(cfg.StorePath), nil
	}
}
