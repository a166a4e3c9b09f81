// Package pipeline implements the workflow coordinator: the dependency-gated
// state machine that drives ingest → classify → project → parallel valuation
// → reconcile for both companies of an acquisition, with per-company and
// per-method fan-out and partial-failure isolation.
package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"acquisition_valuation/pkg/core/cca"
	"acquisition_valuation/pkg/core/dcf"
	"acquisition_valuation/pkg/core/ingest"
	"acquisition_valuation/pkg/core/lbo"
	"acquisition_valuation/pkg/core/projection"
	"acquisition_valuation/pkg/core/reconcile"
	"acquisition_valuation/pkg/models"
)

// Timeouts bound the external collaborator calls. Valuation-path reads are
// seconds-scale; reporting sinks get longer.
type Timeouts struct {
	CollaboratorCall time.Duration
	Persistence      time.Duration
}

// DefaultTimeouts per the resource model.
var DefaultTimeouts = Timeouts{
	CollaboratorCall: 10 * time.Second,
	Persistence:      30 * time.Second,
}

// RunSink persists a finished run. Persistence is a stateful write and is
// never retried by the coordinator.
type RunSink interface {
	SaveRun(ctx context.Context, report *Report) error
}

// Options wires the coordinator's collaborators and assumptions.
type Options struct {
	Financials ingest.FinancialsProvider
	Classifier ingest.Classifier
	Peers      ingest.PeerResolver
	Sink       RunSink // optional

	Market dcf.MarketParams
	Deal   lbo.DealAssumptions

	ProjectionYears int
	Retry           ingest.RetryConfig
	Timeouts        Timeouts
	Logger          zerolog.Logger
}

// Coordinator owns the AnalysisRun and is the only writer of its stage log.
// Engines receive immutable snapshots and own only the result they produce.
type Coordinator struct {
	financials ingest.FinancialsProvider
	classifier ingest.Classifier
	peers      ingest.PeerResolver
	sink       RunSink

	projector *projection.Builder
	dcfEngine *dcf.Engine
	ccaEngine *cca.Engine
	lboEngine *lbo.Engine

	market   dcf.MarketParams
	deal     lbo.DealAssumptions
	retry    ingest.RetryConfig
	timeouts Timeouts
	breakers *ingest.BreakerRegistry

	log zerolog.Logger
	mu  sync.Mutex // guards the stage log across concurrent branches
}

// New builds a coordinator from options.
func New(opts Options) *Coordinator {
	if opts.Retry.MaxRetries == 0 && opts.Retry.InitialBackoff == 0 {
		opts.Retry = ingest.DefaultRetryConfig
	}
	if opts.Timeouts.CollaboratorCall == 0 {
		opts.Timeouts = DefaultTimeouts
	}
	log := opts.Logger.With().Str("component", "coordinator").Logger()
	return &Coordinator{
		financials: opts.Financials,
		classifier: opts.Classifier,
		peers:      opts.Peers,
		sink:       opts.Sink,
		projector:  projection.NewBuilder(opts.ProjectionYears, opts.Logger),
		dcfEngine:  dcf.NewEngine(opts.Logger),
		ccaEngine:  cca.NewEngine(opts.Peers, opts.Timeouts.CollaboratorCall, opts.Logger),
		lboEngine:  lbo.NewEngine(opts.Logger),
		market:     opts.Market,
		deal:       opts.Deal,
		retry:      opts.Retry,
		timeouts:   opts.Timeouts,
		breakers:   ingest.NewBreakerRegistry(opts.Logger),
		log:        log,
	}
}

// Run drives the full analysis for an acquirer/target pair. The two company
// tracks share no mutable state and run concurrently; a fatal failure in one
// track cancels only that track's downstream stages. The returned report is
// always non-nil once the run object exists, so callers can inspect the stage
// log even for failed runs.
func (c *Coordinator) Run(ctx context.Context, acquirer, target string) (*Report, error) {
	run := models.NewAnalysisRun(acquirer, target, time.Now().UTC())
	report := &Report{Run: run}

	c.log.Info().Str("run_id", run.ID.String()).Str("acquirer", acquirer).Str("target", target).Msg("starting analysis run")

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		report.Target = c.runCompanyTrack(ctx, run, target)
	}()
	go func() {
		defer wg.Done()
		report.Acquirer = c.runCompanyTrack(ctx, run, acquirer)
	}()
	wg.Wait()

	if report.Target.Fatal == "" && report.Acquirer.Fatal == "" {
		run.Status = models.RunCompleted
	} else {
		run.Status = models.RunFailed
	}

	c.addAccretion(report)

	if c.sink != nil && run.Status == models.RunCompleted {
		saveCtx, cancel := context.WithTimeout(ctx, c.timeouts.Persistence)
		defer cancel()
		if err := c.sink.SaveRun(saveCtx, report); err != nil {
			// Reporting-side failure degrades the run, it does not undo the analysis.
			c.mu.Lock()
			run.Degraded = append(run.Degraded, "persistence: "+err.Error())
			c.mu.Unlock()
			c.log.Error().Err(err).Msg("run persistence failed")
		}
	}

	c.log.Info().Str("run_id", run.ID.String()).Str("status", string(run.Status)).Msg("analysis run finished")

	if run.Status == models.RunFailed {
		return report, fmt.Errorf("analysis run %s failed, see stage log", run.ID)
	}
	return report, nil
}

// runCompanyTrack executes the dependency-ordered stages for one company.
// Valuation-method failures are isolated; ingest/classify/project failures
// are fatal for the track.
func (c *Coordinator) runCompanyTrack(ctx context.Context, run *models.AnalysisRun, symbol string) *CompanyReport {
	report := &CompanyReport{Symbol: symbol}

	// Stage: ingest (idempotent read → retried, breaker-guarded). The data
	// contract is checked after the fetch: a validation failure is
	// deterministic and must not burn retries.
	err := c.runStage(run, symbol, models.StageIngest, func() error {
		ferr := c.breakers.Execute(ctx, ingest.BreakerFinancials, c.timeouts.CollaboratorCall, func(callCtx context.Context) error {
			return ingest.WithRetry(callCtx, c.retry, c.log, func() error {
				fin, err := c.financials.FetchFinancials(callCtx, symbol)
				if err != nil {
					return err
				}
				report.Financials = fin
				return nil
			})
		})
		if ferr != nil {
			return ferr
		}
		return report.Financials.Validate()
	})
	if err != nil {
		report.Fatal = err.Error()
		return report
	}

	// Stage: classify.
	err = c.runStage(run, symbol, models.StageClassify, func() error {
		return c.breakers.Execute(ctx, ingest.BreakerClassifier, c.timeouts.CollaboratorCall, func(callCtx context.Context) error {
			return ingest.WithRetry(callCtx, c.retry, c.log, func() error {
				class, err := c.classifier.Classify(callCtx, symbol, report.Financials)
				if err != nil {
					return err
				}
				report.Classification = class
				return nil
			})
		})
	})
	if err != nil {
		report.Fatal = err.Error()
		return report
	}

	// Stage: project. Gate: requires financials + classification.
	err = c.runStage(run, symbol, models.StageProject, func() error {
		model, err := c.projector.Build(report.Financials, report.Classification)
		if err != nil {
			return err
		}
		report.Projection = model
		return nil
	})
	if err != nil {
		report.Fatal = err.Error()
		return report
	}

	// Per-method fan-out. Gate: projection exists. Each branch produces an
	// isolated result; one branch failing never aborts its siblings.
	report.Valuations = c.fanOutValuations(ctx, run, symbol, report)

	// Stage: reconcile. Gate: all three method results present.
	_ = c.runStage(run, symbol, models.StageReconcile, func() error {
		report.Reconciled = reconcile.Reconcile(report.Valuations)
		return nil
	})

	return report
}

// fanOutValuations runs the three engines concurrently against immutable
// snapshots of the projection and joins the per-branch results in method
// order, preserving per-task success and failure.
func (c *Coordinator) fanOutValuations(ctx context.Context, run *models.AnalysisRun, symbol string, report *CompanyReport) []models.ValuationResult {
	type branch struct {
		stage  models.Stage
		method models.Method
		fn     func() (models.ValuationResult, error)
	}

	branches := []branch{
		{models.StageValueDCF, models.MethodDCF, func() (models.ValuationResult, error) {
			return c.dcfEngine.Value(dcf.Input{
				Model:          report.Projection,
				Financials:     report.Financials,
				Classification: report.Classification,
				Params:         c.market,
			})
		}},
		{models.StageValueCCA, models.MethodCCA, func() (models.ValuationResult, error) {
			peers, err := c.fetchPeers(ctx, symbol)
			if err != nil {
				return models.ValuationResult{}, err
			}
			return c.ccaEngine.Value(ctx, report.Financials, peers)
		}},
		{models.StageValueLBO, models.MethodLBO, func() (models.ValuationResult, error) {
			return c.lboEngine.Value(report.Projection, report.Financials, c.deal)
		}},
	}

	results := make([]models.ValuationResult, len(branches))
	var wg sync.WaitGroup
	wg.Add(len(branches))
	for i, b := range branches {
		go func(i int, b branch) {
			defer wg.Done()
			err := c.runStage(run, symbol, b.stage, func() error {
				res, err := b.fn()
				if err != nil {
					return err
				}
				results[i] = res
				if !res.Applicable {
					return fmt.Errorf("%s not applicable: %s", b.method, res.Reason)
				}
				return nil
			})
			if err != nil {
				if results[i].Method == "" {
					results[i] = models.NotApplicable(b.method, err.Error())
				}
				c.mu.Lock()
				run.Degraded = append(run.Degraded, fmt.Sprintf("%s/%s: %s", symbol, b.method, err.Error()))
				c.mu.Unlock()
			}
		}(i, b)
	}
	wg.Wait()
	return results
}

// fetchPeers is an idempotent read: retried with backoff behind the peers
// breaker.
func (c *Coordinator) fetchPeers(ctx context.Context, symbol string) ([]models.PeerRecord, error) {
	var peers []models.PeerRecord
	err := c.breakers.Execute(ctx, ingest.BreakerPeers, c.timeouts.CollaboratorCall, func(callCtx context.Context) error {
		return ingest.WithRetry(callCtx, c.retry, c.log, func() error {
			list, err := c.peers.ListPeers(callCtx, symbol)
			if err != nil {
				return err
			}
			peers = list
			return nil
		})
	})
	return peers, err
}

// addAccretion computes the accretion/dilution view when both tracks
// completed and the target has a blended value. Failures here degrade the
// report, never the run.
func (c *Coordinator) addAccretion(report *Report) {
	if report.Target == nil || report.Acquirer == nil {
		return
	}
	if report.Target.Fatal != "" || report.Acquirer.Fatal != "" || !report.Target.Reconciled.Applicable {
		return
	}
	res, err := reconcile.AccretionDilution(report.Acquirer.Financials, report.Target.Financials, reconcile.AccretionInput{
		OfferPerShare: report.Target.Reconciled.Range.Median,
		StockPct:      0.5,
		CashRate:      c.market.PretaxCostOfDebt,
	})
	if err != nil {
		c.log.Warn().Err(err).Msg("accretion/dilution not computable")
		return
	}
	report.Accretion = &res
}

// runStage executes fn inside RUNNING → {COMPLETED|FAILED} transitions on the
// run's stage log. The coordinator is the sole writer of the log; the mutex
// serializes appends from concurrent branches.
func (c *Coordinator) runStage(run *models.AnalysisRun, company string, stage models.Stage, fn func() error) error {
	c.logStage(run, company, stage, models.StageRunning, nil)
	if err := fn(); err != nil {
		c.logStage(run, company, stage, models.StageFailed, err)
		return err
	}
	c.logStage(run, company, stage, models.StageCompleted, nil)
	return nil
}

func (c *Coordinator) logStage(run *models.AnalysisRun, company string, stage models.Stage, status models.StageStatus, err error) {
	entry := models.StageLogEntry{
		Company: company,
		Stage:   stage,
		Status:  status,
		At:      time.Now().UTC(),
	}
	if err != nil {
		entry.Error = err.Error()
	}
	c.mu.Lock()
	run.StageLog = append(run.StageLog, entry)
	c.mu.Unlock()

	c.log.Debug().Str("company", company).Str("stage", string(stage)).Str("status", string(status)).Msg("stage transition")
}
