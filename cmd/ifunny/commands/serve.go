package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Sternrassler/ifunny-client/pkg/client"
	"github.com/Sternrassler/ifunny-client/pkg/ifunny"
	"github.com/Sternrassler/ifunny-client/pkg/logging"
	"github.com/Sternrassler/ifunny-client/pkg/metrics"
	"github.com/Sternrassler/ifunny-client/pkg/pagination"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const (
	listRequestTimeout = 30 * time.Second
	shutdownTimeout    = 5 * time.Second
)

func newServeCommand(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve listings and metrics over HTTP",
		Long: `Serve an HTTP gateway in front of the API:

  GET /health                       liveness
  GET /ready                        Redis reachability when the cache is on
  GET /metrics                      Prometheus metrics
  GET /lists/{name}?arg=..&limit=.. a paged listing as JSON (limit=all fetches every page)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			api, err := a.api(cmd.Context())
			if err != nil {
				return err
			}

			srv := newServer(api, a.redis, logging.NewLogger("ifunny-serve"))
			return srv.listenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")

	return cmd
}

// server is the HTTP gateway behind 'ifunny serve'.
type server struct {
	api    *ifunny.API
	redis  *redis.Client
	logger zerolog.Logger
}

func newServer(api *ifunny.API, redisClient *redis.Client, logger zerolog.Logger) *server {
	return &server{api: api, redis: redisClient, logger: logger}
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", healthHandler)
	mux.HandleFunc("GET /ready", s.readyHandler)
	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /lists/{name}", s.listHandler)
	return mux
}

// listenAndServe runs until ctx is cancelled, then shuts down gracefully.
func (s *server) listenAndServe(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("Starting iFunny gateway")
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info().Msg("Shutting down iFunny gateway")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "OK")
}

func (s *server) readyHandler(w http.ResponseWriter, r *http.Request) {
	if s.redis != nil {
		if err := s.redis.Ping(r.Context()).Err(); err != nil {
			s.logger.Warn().Err(err).Msg("Redis not reachable")
			http.Error(w, "redis unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "OK")
}

type listResponse struct {
	Name  string            `json:"name"`
	Limit string            `json:"limit"`
	Count int               `json:"count"`
	Items []json.RawMessage `json:"items"`
}

// parseLimit reads the limit query value: absent means defaultListLimit,
// "all" means every page.
func parseLimit(raw string) (pagination.Limit, error) {
	switch raw {
	case "":
		return pagination.LimitTo(defaultListLimit), nil
	case "all":
		return pagination.Unbounded(), nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return pagination.Limit{}, fmt.Errorf("invalid limit %q", raw)
	}
	return pagination.LimitTo(n), nil
}

func (s *server) listHandler(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	query := r.URL.Query()

	limit, err := parseLimit(query.Get("limit"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), listRequestTimeout)
	defer cancel()

	items, err := s.api.List(ctx, name, query["arg"], limit)
	if err != nil {
		status := listErrorStatus(err)
		s.logger.Warn().
			Err(err).
			Str("list", name).
			Int("status", status).
			Str("error_class", string(client.Classify(err))).
			Msg("Listing failed")
		http.Error(w, fmt.Sprintf("list %s: %v", name, err), status)
		return
	}

	s.logger.Debug().Str("list", name).Stringer("limit", limit).Int("items", len(items)).Msg("Listing served")

	if items == nil {
		items = []json.RawMessage{}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(listResponse{
		Name:  name,
		Limit: limit.String(),
		Count: len(items),
		Items: items,
	})
}

func listErrorStatus(err error) int {
	switch {
	case errors.Is(err, ifunny.ErrUnknownList):
		return http.StatusNotFound
	case errors.Is(err, ifunny.ErrListArgs), errors.Is(err, pagination.ErrInvalidLimit):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}
