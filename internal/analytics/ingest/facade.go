// Package ingest connects the stream, database, and model service to the
// aggregation store. Push records arrive on a stream.Source; pull refreshes
// re-read the alert history and feature importance on a timer.
package ingest

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"churn-dashboard/backend/internal/analytics/domain"
	"churn-dashboard/backend/internal/analytics/repository"
	"churn-dashboard/backend/internal/analytics/store"
	"churn-dashboard/backend/internal/metrics"
	"churn-dashboard/backend/internal/stream"
)

// SummaryFetcher pulls the feature-importance summary from the model service.
type SummaryFetcher interface {
	FetchSummary(ctx context.Context) (map[string]float64, error)
}

// Options configures a Facade. Source, Repo, and Shap are each optional;
// a nil dependency disables the corresponding input.
type Options struct {
	Store          *store.Store
	Source         stream.Source
	Repo           repository.Repository
	Shap           SummaryFetcher
	Log            *logrus.Entry
	Metrics        *metrics.Ingestion
	AlertThreshold float64
	HistoryLimit   int
	RefreshEvery   time.Duration
}

// Facade owns the goroutines feeding the aggregation store. Push records are
// applied as they arrive; the pull loop periodically replaces the alert
// history and feature importance with authoritative snapshots.
type Facade struct {
	opts   Options
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New returns a stopped facade. Options.Store must be non-nil.
func New(opts Options) *Facade {
	if opts.Store == nil {
		panic("ingest: Store is required")
	}
	if opts.Log == nil {
		opts.Log = logrus.NewEntry(logrus.New())
	}
	return &Facade{opts: opts}
}

// Start runs one refresh immediately, then launches the consume and refresh
// loops. It returns once the loops are running.
func (f *Facade) Start(ctx context.Context) {
	ctx, f.cancel = context.WithCancel(ctx)

	f.refresh(ctx)

	if f.opts.Source != nil {
		f.wg.Add(1)
		go func() {
			defer f.wg.Done()
			f.consumeLoop(ctx)
		}()
	}
	if f.opts.RefreshEvery > 0 && (f.opts.Repo != nil || f.opts.Shap != nil) {
		f.wg.Add(1)
		go func() {
			defer f.wg.Done()
			f.refreshLoop(ctx)
		}()
	}
}

// Stop cancels the loops and waits for them to exit.
func (f *Facade) Stop() {
	if f.cancel != nil {
		f.cancel()
	}
	if f.opts.Source != nil {
		if err := f.opts.Source.Close(); err != nil {
			f.opts.Log.WithError(err).Warn("close stream source")
		}
	}
	f.wg.Wait()
}

func (f *Facade) consumeLoop(ctx context.Context) {
	for {
		raw, err := f.opts.Source.Next(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			f.opts.Log.WithError(err).Warn("read stream record")
			continue
		}
		f.dispatch(ctx, raw)
	}
}

// dispatch decodes one envelope and applies it. Malformed records are dropped
// with a diagnostic; they never stop the loop.
func (f *Facade) dispatch(ctx context.Context, raw []byte) {
	env, err := stream.DecodeEnvelope(raw)
	if err != nil {
		f.opts.Metrics.RecordDropped(ctx, "bad_envelope")
		f.opts.Log.WithError(err).Debug("drop record: bad envelope")
		return
	}

	switch env.Type {
	case stream.TypeNewEvent:
		rec, err := domain.ParseEventRecord(env.Payload)
		if err != nil {
			f.opts.Metrics.RecordDropped(ctx, "bad_event")
			f.opts.Log.WithError(err).Debug("drop record: bad event payload")
			return
		}
		f.opts.Store.ApplyEvent(rec)
		f.opts.Metrics.RecordReceived(ctx, stream.TypeNewEvent)
		if f.opts.Repo != nil {
			if err := f.opts.Repo.SaveEvent(ctx, rec); err != nil {
				f.opts.Log.WithError(err).Warn("persist event")
			}
		}

	case stream.TypeChurnAlert:
		rec, err := domain.ParseAlertRecord(env.Payload)
		if err != nil {
			f.opts.Metrics.RecordDropped(ctx, "bad_alert")
			f.opts.Log.WithError(err).Debug("drop record: bad alert payload")
			return
		}
		started := time.Now()
		f.opts.Store.ApplyAlert(rec)
		f.opts.Metrics.RecordRecompute(ctx, time.Since(started))
		f.opts.Metrics.RecordReceived(ctx, stream.TypeChurnAlert)
		if f.opts.Repo != nil {
			if err := f.opts.Repo.SavePrediction(ctx, rec); err != nil {
				f.opts.Log.WithError(err).Warn("persist prediction")
			}
		}
	}
}

func (f *Facade) refreshLoop(ctx context.Context) {
	ticker := time.NewTicker(f.opts.RefreshEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			f.refresh(ctx)
		}
	}
}

// refresh replaces the alert history and feature importance with fresh pulls.
// Either pull may fail independently; the store keeps its last good state.
func (f *Facade) refresh(ctx context.Context) {
	if f.opts.Repo != nil {
		records, err := f.opts.Repo.ListAlertHistory(ctx, f.opts.AlertThreshold, f.opts.HistoryLimit)
		switch {
		case errors.Is(err, context.Canceled):
			return
		case err != nil:
			f.opts.Log.WithError(err).Warn("refresh alert history")
		default:
			started := time.Now()
			f.opts.Store.ReplaceHistory(records)
			f.opts.Metrics.RecordRecompute(ctx, time.Since(started))
		}
	}

	if f.opts.Shap != nil {
		summary, err := f.opts.Shap.FetchSummary(ctx)
		switch {
		case errors.Is(err, context.Canceled):
			return
		case err != nil:
			f.opts.Log.WithError(err).Warn("refresh feature importance")
		default:
			f.opts.Store.SetFeatureImportance(rankSummary(summary))
		}
	}
}

// rankSummary orders the summary map descending by importance so the store
// receives a pre-ranked list. Ties break alphabetically for determinism.
func rankSummary(summary map[string]float64) []domain.FeatureImportance {
	ranked := make([]domain.FeatureImportance, 0, len(summary))
	for feature, importance := range summary {
		ranked = append(ranked, domain.FeatureImportance{Feature: feature, Importance: importance})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Importance != ranked[j].Importance {
			return ranked[i].Importance > ranked[j].Importance
		}
		return ranked[i].Feature < ranked[j].Feature
	})
	return ranked
}
