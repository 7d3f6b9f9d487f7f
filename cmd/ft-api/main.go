package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"FlowTally/internal/config"
	"FlowTally/internal/pipeline"
	"FlowTally/internal/query"
)

func main() {
	configPath := "configs/config.yaml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Find the first enabled ClickHouse writer config.
	var chCfg *config.ClickHouseConfig
	for _, def := range cfg.Writers {
		if def.Enabled && def.Type == "clickhouse" {
			chCfg = &def.ClickHouse
			break
		}
	}

	if chCfg == nil {
		log.Fatalf("No enabled ClickHouse writer found in config. API server cannot start.")
	}

	querier, err := query.NewClickHouseQuerier(*chCfg)
	if err != nil {
		log.Fatalf("Failed to create querier: %v", err)
	}

	apiHandler := &APIHandler{querier: querier}

	r := mux.NewRouter()
	r.HandleFunc("/api/v1/reports/port-protocol", apiHandler.reportHandler(pipeline.PortProtocolReport)).Methods("GET")
	r.HandleFunc("/api/v1/reports/tags", apiHandler.reportHandler(pipeline.TagReport)).Methods("GET")
	r.Handle("/metrics", promhttp.Handler())

	// Runs triggered here execute in this process, so the pipeline counters
	// land on the /metrics endpoint above.
	p, err := pipeline.New(cfg)
	if err != nil {
		log.Printf("Warning: failed to create pipeline: %v, run trigger disabled.", err)
	} else {
		defer p.Close()
		apiHandler.pipeline = p
		r.HandleFunc("/api/v1/runs", apiHandler.runHandler).Methods("POST")
	}

	server := &http.Server{
		Addr:    cfg.API.ListenAddr,
		Handler: r,
	}

	go func() {
		log.Printf("API server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v", server.Addr, err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("API server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Shutdown complete.")
}

// APIHandler holds the dependencies for the report endpoints.
type APIHandler struct {
	querier  query.Querier
	pipeline *pipeline.Pipeline
	runMu    sync.Mutex
}

// runHandler executes one pipeline run. Runs share writers and output
// files, so they are serialized.
func (h *APIHandler) runHandler(w http.ResponseWriter, r *http.Request) {
	h.runMu.Lock()
	defer h.runMu.Unlock()

	if err := h.pipeline.Run(); err != nil {
		log.Printf("Pipeline run failed: %v", err)
		http.Error(w, "pipeline run failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]string{"status": "completed"}); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// reportHandler serves the latest rows of one report as JSON.
func (h *APIHandler) reportHandler(report string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		rows, err := h.querier.LatestReport(ctx, report)
		if err != nil {
			log.Printf("Failed to query report '%s': %v", report, err)
			http.Error(w, "failed to query report", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(rows); err != nil {
			log.Printf("Failed to encode response: %v", err)
		}
	}
}
