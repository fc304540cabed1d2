package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"github.com/gorilla/mux"
	"github.com/mcclellann/fredBank/internal/config"
	"github.com/mcclellann/fredBank/pkg/functions"
	"github.com/mcclellann/fredBank/pkg/ledger"
	"github.com/mcclellann/fredBank/pkg/store"
)

// Server exposes the function registry over HTTP.
type Server struct {
	mu       sync.Mutex // Serialises calls; the dataset has no locking
	data     *store.Dataset
	registry *functions.Registry
	storage  store.Storage // Receives a snapshot after every successful mutation
}

func NewServer(d *store.Dataset, s store.Storage, opts ...ledger.Option) *Server {
	l := ledger.NewLedger(d, opts...)
	return &Server{
		data:     d,
		registry: functions.NewRegistry(l, slog.Default()),
		storage:  s,
	}
}

func (s *Server) routes() *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/functions", s.listFunctionsHandler).Methods("GET")
	router.HandleFunc("/functions/{name}", s.callFunctionHandler).Methods("POST")
	router.HandleFunc("/collections", s.listCollectionsHandler).Methods("GET")
	router.HandleFunc("/collections/{name}", s.getCollectionHandler).Methods("GET")
	return router
}

func (s *Server) listFunctionsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.registry.Metadata())
}

func (s *Server) callFunctionHandler(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Error: failed to read request body", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	res := s.registry.Call(name, body)
	if res.OK() {
		if fn, _ := s.registry.Lookup(name); fn.Mutates && s.storage != nil {
			if err := s.storage.Save(s.data); err != nil {
				slog.Error("failed to save snapshot", "function", name, "error", err)
			}
		}
	}
	s.mu.Unlock()

	if !res.OK() {
		http.Error(w, res.String(), statusFor(res.Err))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, res.String())
}

func (s *Server) listCollectionsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, store.CollectionNames())
}

func (s *Server) getCollectionHandler(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.data.Collection(name)
	if !ok {
		http.Error(w, fmt.Sprintf("Error: Unknown collection '%s'", name), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// statusFor maps a ledger error kind to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ledger.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ledger.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrRejected):
		return http.StatusConflict
	case errors.Is(err, ledger.ErrData):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// loadDataset seeds from the fixture directory when one is configured,
// otherwise from the last saved snapshot.
func loadDataset(cfg config.Config, s store.Storage) (*store.Dataset, error) {
	if cfg.DataDir != "" {
		d, err := store.LoadDir(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("failed to load fixtures from %s: %w", cfg.DataDir, err)
		}
		return d, nil
	}
	return s.Load()
}

func main() {
	cfg := config.Load()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))

	sqliteStore, err := store.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		slog.Error("failed to initialize SQLite store", "error", err)
		os.Exit(1)
	}
	defer sqliteStore.Close()

	d, err := loadDataset(cfg, sqliteStore)
	if err != nil {
		slog.Error("failed to load dataset", "error", err)
		os.Exit(1)
	}

	server := NewServer(d, sqliteStore)

	slog.Info("server starting", "addr", cfg.Addr, "functions", len(server.registry.Names()))
	if err := http.ListenAndServe(cfg.Addr, server.routes()); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
