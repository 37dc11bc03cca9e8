package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/dangmixx/loadable/pkg/loadable"
	"github.com/dangmixx/loadable/pkg/middleware"
	"github.com/dangmixx/loadable/pkg/stream"
)

// Package is one entry of the demo dataset.
type Package struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// demoPackages is the in-memory dataset the demo fetch searches.
var demoPackages = []Package{
	{Name: "chi", Description: "lightweight, idiomatic HTTP router"},
	{Name: "cobra", Description: "a commander for modern CLI apps"},
	{Name: "websocket", Description: "a fast, well-tested WebSocket implementation"},
	{Name: "prometheus", Description: "instrumentation library for Go applications"},
	{Name: "json-patch", Description: "RFC 6902 JSON patches for Go"},
}

func serveCmd() *cobra.Command {
	var (
		addr    string
		latency time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the demo WebSocket server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(addr, latency)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	cmd.Flags().DurationVar(&latency, "latency", 300*time.Millisecond, "Simulated fetch latency")

	return cmd
}

func runServe(addr string, latency time.Duration) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	// One query subject and one shared loadable stream for the whole
	// server: every client observes the same snapshots and the fetch runs
	// once per query change no matter how many clients are connected.
	query := stream.NewBehaviorSubject("go")

	fetch := middleware.Prometheus(
		middleware.OpenTelemetry(
			searchFetch(latency),
		),
	)

	states := loadable.NewReactiveFunc(query, fetch, []Package{})

	upgrader := websocket.Upgrader{
		CheckOrigin: func(*http.Request) bool { return true },
	}

	r := chi.NewRouter()

	r.Get("/ws", func(w http.ResponseWriter, req *http.Request) {
		conn, err := upgrader.Upgrade(w, req, nil)
		if err != nil {
			logger.Error("websocket upgrade failed", "err", err)
			return
		}
		serveClient(logger, conn, states)
	})

	r.Put("/query", func(w http.ResponseWriter, req *http.Request) {
		q := req.URL.Query().Get("q")
		if q == "" {
			http.Error(w, "missing q parameter", http.StatusBadRequest)
			return
		}
		query.Next(q)
		w.WriteHeader(http.StatusAccepted)
	})

	r.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: addr, Handler: r}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("demo server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// serveClient subscribes one WebSocket client to the shared loadable
// stream and forwards every snapshot as a JSON message. The subscription
// ends when the client disconnects.
func serveClient(logger *slog.Logger, conn *websocket.Conn, states stream.Stream[loadable.Loadable[[]Package]]) {
	clientID := uuid.NewString()
	logger.Info("client connected", "client", clientID)

	// All writes go through one goroutine; gorilla connections allow only
	// a single concurrent writer.
	out := make(chan []byte, 16)

	sub := states.Subscribe(stream.Subscriber[loadable.Loadable[[]Package]]{
		Next: func(st loadable.Loadable[[]Package]) {
			msg, err := json.Marshal(snapshotMessage(st))
			if err != nil {
				logger.Error("marshal snapshot", "client", clientID, "err", err)
				return
			}
			select {
			case out <- msg:
			default:
				logger.Warn("client too slow, dropping snapshot", "client", clientID)
			}
		},
	})

	done := make(chan struct{})
	go func() {
		defer conn.Close()
		for {
			select {
			case msg := <-out:
				if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}()

	// Reads only serve to detect disconnection.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	sub.Unsubscribe()
	close(done)
	logger.Info("client disconnected", "client", clientID)
}

// snapshotMessage is the wire form of one loadable snapshot.
func snapshotMessage(st loadable.Loadable[[]Package]) map[string]any {
	msg := map[string]any{
		"loading": st.Loading,
		"data":    st.Data,
	}
	if st.Err != nil {
		msg["error"] = st.Err.Error()
	} else {
		msg["error"] = nil
	}
	return msg
}

// searchFetch simulates a backend search with the given latency. The query
// "boom" fails, which makes error snapshots easy to demo.
func searchFetch(latency time.Duration) middleware.Fetch[string, []Package] {
	return func(ctx context.Context, q string) ([]Package, error) {
		select {
		case <-time.After(latency):
		case <-ctx.Done():
			return nil, ctx.Err()
		}

		if q == "boom" {
			return nil, fmt.Errorf("search %q: backend unavailable", q)
		}

		var matches []Package
		for _, p := range demoPackages {
			if strings.Contains(p.Name, q) || strings.Contains(p.Description, q) {
				matches = append(matches, p)
			}
		}
		return matches, nil
	}
}
