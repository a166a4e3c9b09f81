package models

import (
	"time"

	"github.com/google/uuid"
)

// Stage identifies one step of the analysis workflow.
type Stage string

const (
	StageIngest    Stage = "ingest"
	StageClassify  Stage = "classify"
	StageProject   Stage = "project"
	StageValueDCF  Stage = "value_dcf"
	StageValueCCA  Stage = "value_cca"
	StageValueLBO  Stage = "value_lbo"
	StageReconcile Stage = "reconcile"
)

// StageStatus is the per-stage state machine.
type StageStatus string

const (
	StagePending   StageStatus = "PENDING"
	StageRunning   StageStatus = "RUNNING"
	StageCompleted StageStatus = "COMPLETED"
	StageFailed    StageStatus = "FAILED"
)

// RunStatus is the overall outcome of an analysis run.
type RunStatus string

const (
	RunRunning   RunStatus = "RUNNING"
	RunCompleted RunStatus = "COMPLETED"
	RunFailed    RunStatus = "FAILED"
)

// StageLogEntry is one timestamped transition on the run's audit trail.
type StageLogEntry struct {
	Company string      `json:"company"`
	Stage   Stage       `json:"stage"`
	Status  StageStatus `json:"status"`
	At      time.Time   `json:"at"`
	Error   string      `json:"error,omitempty"`
}

// AnalysisRun identifies one acquirer/target pair and an as-of date. It is
// immutable after creation except for the appended stage log, whose sole
// writer is the workflow coordinator. The log is the only audit trail exposed
// to external reporting collaborators.
type AnalysisRun struct {
	ID        uuid.UUID       `json:"id"`
	Acquirer  string          `json:"acquirer"`
	Target    string          `json:"target"`
	AsOf      time.Time       `json:"as_of"`
	CreatedAt time.Time       `json:"created_at"`
	Status    RunStatus       `json:"status"`
	StageLog  []StageLogEntry `json:"stage_log"`
	Degraded  []string        `json:"degraded,omitempty"`
}

// NewAnalysisRun creates a run for the pair with a fresh identity.
func NewAnalysisRun(acquirer, target string, asOf time.Time) *AnalysisRun {
	return &AnalysisRun{
		ID:        uuid.New(),
		Acquirer:  acquirer,
		Target:    target,
		AsOf:      asOf,
		CreatedAt: time.Now().UTC(),
		Status:    RunRunning,
	}
}
