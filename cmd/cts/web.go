package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/qhwu/CN-Trade-Sessions/internal/config"
	"github.com/qhwu/CN-Trade-Sessions/internal/session"
)

// locateResult is the answer to "where does this time of day fall within
// the session". Sentinel values follow the query API: section_index and
// elapsed_minutes are -1 outside trading time.
type locateResult struct {
	Session        string `json:"session"`
	Time           int    `json:"time"`
	Strict         bool   `json:"strict"`
	InTradingTime  bool   `json:"in_trading_time"`
	SectionIndex   int    `json:"section_index"`
	ElapsedMinutes int    `json:"elapsed_minutes"`
	FirstOfSection bool   `json:"first_of_section"`
	LastOfSection  bool   `json:"last_of_section"`
}

func locate(s *session.Session, t int, strict bool) locateResult {
	return locateResult{
		Session:        s.ID(),
		Time:           t,
		Strict:         strict,
		InTradingTime:  s.IsInTradingTime(t, strict),
		SectionIndex:   s.SectionIndex(t),
		ElapsedMinutes: s.TimeToMinutes(t),
		FirstOfSection: s.IsFirstOfSection(t),
		LastOfSection:  s.IsLastOfSection(t),
	}
}

func serve(cfg config.Config, reg *session.Registry) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:    cfg.Listen,
		Handler: newWebServer(reg),
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("web listening: %s", cfg.Listen)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shCtx)
	})
	return g.Wait()
}

func newWebServer(reg *session.Registry) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	// GET /api/sessions
	mux.HandleFunc("/api/sessions", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"sessions": reg.IDs()})
	})

	// GET /api/session?id=TRADING
	mux.HandleFunc("/api/session", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		id := r.URL.Query().Get("id")
		d, ok := reg.Describe(id)
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]any{"error": "unknown session"})
			return
		}
		s, _ := reg.Get(id)
		writeJSON(w, http.StatusOK, map[string]any{
			"id":              id,
			"description":     d,
			"open_time":       s.OpenTime(false),
			"close_time":      s.CloseTime(false),
			"trading_minutes": s.TradingMinutes(),
		})
	})

	// GET /api/session/locate?id=TRADING&t=1000&strict=1
	mux.HandleFunc("/api/session/locate", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		s, ok := reg.Get(r.URL.Query().Get("id"))
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]any{"error": "unknown session"})
			return
		}
		t, err := strconv.Atoi(r.URL.Query().Get("t"))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "t must be hour*100+minute"})
			return
		}
		strict := parseBool(r.URL.Query().Get("strict"))
		writeJSON(w, http.StatusOK, locate(s, t, strict))
	})

	// GET /api/session/time?id=TRADING&minutes=150&head_first=1
	mux.HandleFunc("/api/session/time", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		s, ok := reg.Get(r.URL.Query().Get("id"))
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]any{"error": "unknown session"})
			return
		}
		minutes, err := strconv.Atoi(r.URL.Query().Get("minutes"))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "minutes is required"})
			return
		}
		headFirst := parseBool(r.URL.Query().Get("head_first"))
		writeJSON(w, http.StatusOK, map[string]any{
			"session":    s.ID(),
			"minutes":    minutes,
			"head_first": headFirst,
			"time":       s.MinutesToTime(minutes, headFirst),
		})
	})

	// GET /api/resolve?instrument=rb2410.SHF
	mux.HandleFunc("/api/resolve", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		instrument := r.URL.Query().Get("instrument")
		s, ok := reg.Resolve(instrument)
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]any{"error": "no session for instrument"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"instrument":  instrument,
			"session":     s.ID(),
			"description": s.Describe(),
		})
	})

	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
}

func parseBool(s string) bool {
	switch s {
	case "1", "true", "yes":
		return true
	}
	return false
}
