package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"acquisition_valuation/pkg/core/pipeline"
	"acquisition_valuation/pkg/models"
)

func TestConnectRejectsBadURLs(t *testing.T) {
	_, err := Connect(context.Background(), "")
	require.Error(t, err)

	_, err = Connect(context.Background(), "://not-a-url")
	require.Error(t, err)
}

func TestRunRepoRequiresPool(t *testing.T) {
	repo := NewRunRepo(nil)
	report := &pipeline.Report{Run: models.NewAnalysisRun("ACQ", "TGT", time.Now())}

	err := repo.SaveRun(context.Background(), report)
	assert.ErrorContains(t, err, "no database pool")

	_, err = repo.LoadRun(context.Background(), report.Run.ID)
	assert.ErrorContains(t, err, "no database pool")

	_, err = repo.LatestForPair(context.Background(), "ACQ", "TGT")
	assert.ErrorContains(t, err, "no database pool")
}
