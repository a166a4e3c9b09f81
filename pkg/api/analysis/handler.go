// Package analysis exposes the workflow coordinator over a thin HTTP
// endpoint. Transport only; all semantics live in pkg/core.
package analysis

import (
	"encoding/json"
	"net/http"
	"strings"

	"acquisition_valuation/pkg/core/pipeline"
)

var coordinator *pipeline.Coordinator

// InitHandler wires the coordinator used by the handlers.
func InitHandler(c *pipeline.Coordinator) {
	coordinator = c
}

// AnalyzeRequest identifies the acquisition pair to analyze.
type AnalyzeRequest struct {
	Acquirer string `json:"acquirer"`
	Target   string `json:"target"`
}

// HandleAnalyze runs a full analysis and returns the report. Failed runs
// still return the report body so clients can inspect the stage log.
func HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	acquirer := strings.ToUpper(strings.TrimSpace(req.Acquirer))
	target := strings.ToUpper(strings.TrimSpace(req.Target))
	if acquirer == "" || target == "" {
		http.Error(w, "acquirer and target are required", http.StatusBadRequest)
		return
	}

	report, err := coordinator.Run(r.Context(), acquirer, target)
	status := http.StatusOK
	if err != nil {
		status = http.StatusUnprocessableEntity
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(report)
}
