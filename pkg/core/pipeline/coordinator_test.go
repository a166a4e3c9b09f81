package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"acquisition_valuation/pkg/config"
	"acquisition_valuation/pkg/core/ingest"
	"acquisition_valuation/pkg/models"
)

var testRetry = ingest.RetryConfig{
	MaxRetries:     1,
	InitialBackoff: time.Millisecond,
	MaxBackoff:     time.Millisecond,
}

func testOptions(provider *ingest.StaticProvider) Options {
	cfg := config.Default()
	return Options{
		Financials:      provider,
		Classifier:      provider,
		Peers:           provider,
		Market:          cfg.Market,
		Deal:            cfg.Deal,
		ProjectionYears: cfg.ProjectionYears,
		Retry:           testRetry,
		Logger:          zerolog.Nop(),
	}
}

// lastStatus returns the final logged status for a company/stage pair.
func lastStatus(run *models.AnalysisRun, company string, stage models.Stage) (models.StageStatus, bool) {
	var status models.StageStatus
	found := false
	for _, entry := range run.StageLog {
		if entry.Company == company && entry.Stage == stage {
			status = entry.Status
			found = true
		}
	}
	return status, found
}

func TestRunHappyPath(t *testing.T) {
	c := New(testOptions(ingest.NewDemoProvider()))

	report, err := c.Run(context.Background(), "ORCL2", "NMAD")
	require.NoError(t, err)
	require.NotNil(t, report)

	assert.Equal(t, models.RunCompleted, report.Run.Status)
	assert.Empty(t, report.Run.Degraded)

	for _, company := range []string{"ORCL2", "NMAD"} {
		for _, stage := range []models.Stage{
			models.StageIngest, models.StageClassify, models.StageProject,
			models.StageValueDCF, models.StageValueCCA, models.StageValueLBO,
			models.StageReconcile,
		} {
			status, found := lastStatus(report.Run, company, stage)
			require.True(t, found, "%s/%s missing from stage log", company, stage)
			assert.Equal(t, models.StageCompleted, status, "%s/%s", company, stage)
		}
	}

	require.NotNil(t, report.Target)
	assert.Empty(t, report.Target.Fatal)
	assert.True(t, report.Target.Reconciled.Applicable)
	assert.Len(t, report.Target.Valuations, 3)

	require.NotNil(t, report.Acquirer)
	assert.True(t, report.Acquirer.Reconciled.Applicable)

	assert.NotNil(t, report.Accretion, "both tracks completed, accretion view expected")
}

func TestRunTargetFailureIsolatesAcquirerTrack(t *testing.T) {
	provider := ingest.NewDemoProvider()
	delete(provider.Financials, "NMAD")

	c := New(testOptions(provider))
	report, err := c.Run(context.Background(), "ORCL2", "NMAD")
	require.Error(t, err)
	require.NotNil(t, report, "failed runs still expose the stage log")

	assert.Equal(t, models.RunFailed, report.Run.Status)
	assert.NotEmpty(t, report.Target.Fatal)

	status, found := lastStatus(report.Run, "NMAD", models.StageIngest)
	require.True(t, found)
	assert.Equal(t, models.StageFailed, status)

	// Downstream target stages were never attempted.
	_, found = lastStatus(report.Run, "NMAD", models.StageClassify)
	assert.False(t, found)

	// The sibling track ran to completion.
	assert.Empty(t, report.Acquirer.Fatal)
	assert.True(t, report.Acquirer.Reconciled.Applicable)
	status, found = lastStatus(report.Run, "ORCL2", models.StageReconcile)
	require.True(t, found)
	assert.Equal(t, models.StageCompleted, status)

	assert.Nil(t, report.Accretion, "no accretion view for a failed run")
}

func TestRunDataContractViolationIsFatal(t *testing.T) {
	provider := ingest.NewDemoProvider()
	provider.Financials["NMAD"].SharesOutstanding = 0

	c := New(testOptions(provider))
	report, err := c.Run(context.Background(), "ORCL2", "NMAD")
	require.Error(t, err)

	assert.Equal(t, models.RunFailed, report.Run.Status)
	assert.Contains(t, report.Target.Fatal, "shares_outstanding")

	_, found := lastStatus(report.Run, "NMAD", models.StageProject)
	assert.False(t, found, "projection gated on a valid ingest")
}

func TestRunDegradedBranchDoesNotFailRun(t *testing.T) {
	provider := ingest.NewDemoProvider()
	delete(provider.Peers, "NMAD")

	c := New(testOptions(provider))
	report, err := c.Run(context.Background(), "ORCL2", "NMAD")
	require.NoError(t, err, "one method degrading must not fail the run")

	assert.Equal(t, models.RunCompleted, report.Run.Status)
	require.NotEmpty(t, report.Run.Degraded)
	assert.Contains(t, report.Run.Degraded[0], "NMAD/cca")

	status, found := lastStatus(report.Run, "NMAD", models.StageValueCCA)
	require.True(t, found)
	assert.Equal(t, models.StageFailed, status)

	// DCF and LBO still contribute; the blend excludes CCA with a reason.
	require.True(t, report.Target.Reconciled.Applicable)
	var excluded []models.Method
	for _, ex := range report.Target.Reconciled.Exclusions {
		excluded = append(excluded, ex.Method)
	}
	assert.Contains(t, excluded, models.MethodCCA)
}

// failingSink always rejects the write.
type failingSink struct{}

func (failingSink) SaveRun(ctx context.Context, report *Report) error {
	return errors.New("connection refused")
}

func TestRunSinkFailureDegradesOnly(t *testing.T) {
	opts := testOptions(ingest.NewDemoProvider())
	opts.Sink = failingSink{}

	c := New(opts)
	report, err := c.Run(context.Background(), "ORCL2", "NMAD")
	require.NoError(t, err, "reporting-side failure must not fail the analysis")

	assert.Equal(t, models.RunCompleted, report.Run.Status)
	require.NotEmpty(t, report.Run.Degraded)
	assert.Contains(t, report.Run.Degraded[0], "persistence")
}

// capturingSink records the report it was handed.
type capturingSink struct {
	saved *Report
}

func (s *capturingSink) SaveRun(ctx context.Context, report *Report) error {
	s.saved = report
	return nil
}

func TestRunPersistsCompletedRuns(t *testing.T) {
	sink := &capturingSink{}
	opts := testOptions(ingest.NewDemoProvider())
	opts.Sink = sink

	c := New(opts)
	report, err := c.Run(context.Background(), "ORCL2", "NMAD")
	require.NoError(t, err)
	require.NotNil(t, sink.saved)
	assert.Equal(t, report.Run.ID, sink.saved.Run.ID)
}
