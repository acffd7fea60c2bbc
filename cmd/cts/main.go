package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/qhwu/CN-Trade-Sessions/internal/config"
	"github.com/qhwu/CN-Trade-Sessions/internal/session"
	"github.com/qhwu/CN-Trade-Sessions/internal/store/sqlite"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cmd := os.Args[1]
	switch cmd {
	case "init-db":
		fs := flag.NewFlagSet("init-db", flag.ExitOnError)
		cfgPath := fs.String("config", "configs/config.yaml", "config path (YAML)")
		_ = fs.Parse(os.Args[2:])

		cfg, err := config.Load(*cfgPath)
		fatalIf(err)
		if cfg.DBPath == "" {
			fatalIf(fmt.Errorf("db_path is required for init-db"))
		}
		db, err := sqlite.Open(cfg.DBPath)
		fatalIf(err)
		defer db.Close()
		fatalIf(sqlite.Migrate(db))
		log.Printf("db initialized: %s", cfg.DBPath)
	case "import":
		fs := flag.NewFlagSet("import", flag.ExitOnError)
		cfgPath := fs.String("config", "configs/config.yaml", "config path (YAML)")
		_ = fs.Parse(os.Args[2:])

		cfg, err := config.Load(*cfgPath)
		fatalIf(err)
		if cfg.DBPath == "" {
			fatalIf(fmt.Errorf("db_path is required for import"))
		}
		if cfg.SessionsPath == "" {
			fatalIf(fmt.Errorf("sessions_path is required for import"))
		}

		specs, err := session.LoadFile(cfg.SessionsPath)
		fatalIf(err)
		// Reject malformed definitions before they reach the database.
		reg := session.NewRegistry()
		fatalIf(reg.Load(specs))

		db, err := sqlite.Open(cfg.DBPath)
		fatalIf(err)
		defer db.Close()
		fatalIf(sqlite.Migrate(db))
		fatalIf(sqlite.UpsertSessionDefs(db, time.Now().UTC(), specs))
		log.Printf("imported %d sessions: %s -> %s", len(specs), cfg.SessionsPath, cfg.DBPath)
	case "check":
		fs := flag.NewFlagSet("check", flag.ExitOnError)
		cfgPath := fs.String("config", "configs/config.yaml", "config path (YAML)")
		id := fs.String("session", "", "session id (e.g. TRADING)")
		instrument := fs.String("instrument", "", "instrument code (e.g. rb2410.SHF), alternative to -session")
		t := fs.Int("time", -1, "time of day as hour*100+minute (e.g. 1000)")
		strict := fs.Bool("strict", false, "treat the closing instant of a section as outside")
		_ = fs.Parse(os.Args[2:])

		cfg, err := config.Load(*cfgPath)
		fatalIf(err)
		reg, err := buildRegistry(cfg)
		fatalIf(err)

		var s *session.Session
		var ok bool
		switch {
		case *id != "":
			s, ok = reg.Get(*id)
		case *instrument != "":
			s, ok = reg.Resolve(*instrument)
		default:
			fatalIf(fmt.Errorf("one of -session or -instrument is required"))
		}
		if !ok {
			fatalIf(fmt.Errorf("unknown session"))
		}
		if *t < 0 {
			fatalIf(fmt.Errorf("-time is required"))
		}
		printJSON(locate(s, *t, *strict))
	case "serve":
		fs := flag.NewFlagSet("serve", flag.ExitOnError)
		cfgPath := fs.String("config", "configs/config.yaml", "config path (YAML)")
		_ = fs.Parse(os.Args[2:])

		cfg, err := config.Load(*cfgPath)
		fatalIf(err)
		reg, err := buildRegistry(cfg)
		fatalIf(err)
		log.Printf("registry loaded: source=%s sessions=%d", cfg.Source, len(reg.IDs()))
		fatalIf(serve(cfg, reg))
	default:
		usage()
		os.Exit(2)
	}
}

// buildRegistry loads every definition from the configured source and
// freezes the result. All queries afterwards are read-only.
func buildRegistry(cfg config.Config) (*session.Registry, error) {
	var specs map[string]session.Spec
	switch cfg.Source {
	case config.SourceDB:
		db, err := sqlite.Open(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		specs, err = sqlite.QuerySessionDefs(db)
		if err != nil {
			return nil, err
		}
	default:
		var err error
		specs, err = session.LoadFile(cfg.SessionsPath)
		if err != nil {
			return nil, err
		}
	}

	reg := session.NewRegistry()
	if err := reg.Load(specs); err != nil {
		return nil, err
	}
	return reg, nil
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  cts init-db -config configs/config.yaml")
	fmt.Fprintln(os.Stderr, "  cts import  -config configs/config.yaml")
	fmt.Fprintln(os.Stderr, "  cts check   -config configs/config.yaml -session TRADING -time 1000 [-strict]")
	fmt.Fprintln(os.Stderr, "  cts serve   -config configs/config.yaml")
}

func fatalIf(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
