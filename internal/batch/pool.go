// Package batch scores many documents or records in parallel and ranks them.
package batch

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/resume-matcher/internal/analysis"
	"github.com/spigell/resume-matcher/internal/logger"
	"github.com/spigell/resume-matcher/internal/records"
	"github.com/spigell/resume-matcher/internal/scoring"
	"github.com/spigell/resume-matcher/internal/shortlist"
)

// FilterFunc runs over the full ranked list before it is cut to top-N.
type FilterFunc func(ctx context.Context, c *shortlist.Candidates) (*shortlist.Candidates, error)

type Option func(*Pool)

// WithFilter installs a filter step applied between ranking and truncation.
func WithFilter(f FilterFunc) Option {
	return func(p *Pool) {
		p.filter = f
	}
}

// Stats describes one batch run.
type Stats struct {
	BatchID      string   `json:"batch_id"`
	TotalScanned int      `json:"total_scanned"`
	TotalMatched int      `json:"total_matched"`
	ScannedFiles []string `json:"scanned_files,omitempty"`
	Failed       int      `json:"failed"`
	TimedOut     int      `json:"timed_out"`
}

type Pool struct {
	cfg     Config
	builder *analysis.Builder
	engine  *scoring.Engine
	records *records.Scorer
	filter  FilterFunc
	logger  *zap.Logger
}

func New(cfg Config, builder *analysis.Builder, engine *scoring.Engine, rs *records.Scorer, log *zap.Logger, opts ...Option) (*Pool, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p := &Pool{
		cfg:     cfg,
		builder: builder,
		engine:  engine,
		records: rs,
		logger:  logger.WithFields(log, zap.String(logger.FieldComponent, "batch")),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// RankDocuments analyzes and scores every document against job and returns
// the best TopDocuments candidates.
func (p *Pool) RankDocuments(ctx context.Context, docs []Document, job string) (*shortlist.Candidates, Stats, error) {
	if strings.TrimSpace(job) == "" {
		return nil, Stats{}, scoring.ErrEmptyJobDescription
	}

	ids := make([]string, len(docs))
	stats := Stats{ScannedFiles: make([]string, 0, len(docs))}
	for i, doc := range docs {
		ids[i] = doc.ID
		stats.ScannedFiles = append(stats.ScannedFiles, doc.Path)
	}

	candidates, counts := p.run(ctx, ids, func(i int) (*shortlist.Candidate, error) {
		doc := docs[i]
		res := p.builder.Analyze(doc.Text)
		if !res.Success {
			return nil, errors.New(res.Error)
		}
		m, err := p.engine.Score(res.Profile, job)
		if err != nil {
			return nil, err
		}
		return shortlist.FromDocument(doc.ID, doc.Path, res.Profile, m), nil
	})

	return p.finish(ctx, candidates, counts, stats, p.cfg.TopDocuments)
}

// RankRecords scores flat records with the rule-only scorer and returns the
// best TopRecords candidates.
func (p *Pool) RankRecords(ctx context.Context, recs []records.Record, job string) (*shortlist.Candidates, Stats, error) {
	prepared, err := p.records.Prepare(job)
	if err != nil {
		return nil, Stats{}, err
	}

	ids := make([]string, len(recs))
	for i, rec := range recs {
		ids[i] = rec.ID
	}

	candidates, counts := p.run(ctx, ids, func(i int) (*shortlist.Candidate, error) {
		return shortlist.FromRecord(p.records.ScoreJob(recs[i], prepared)), nil
	})

	return p.finish(ctx, candidates, counts, Stats{}, p.cfg.TopRecords)
}

type outcome int

const (
	outcomeMatched outcome = iota + 1
	outcomeFailed
	outcomeTimedOut
)

type runResult struct {
	batchID  string
	failed   int
	timedOut int
	scanned  int
}

// run executes work for every item with at most Workers goroutines. Items
// that start or finish after the batch deadline are dropped as timed out.
func (p *Pool) run(ctx context.Context, ids []string, work func(i int) (*shortlist.Candidate, error)) (*shortlist.Candidates, runResult) {
	batchID := uuid.NewString()

	if p.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.Timeout)
		defer cancel()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Workers)

	results := make([]*shortlist.Candidate, len(ids))
	outcomes := make([]outcome, len(ids))
	for i := range ids {
		g.Go(func() error {
			log := logger.WithDocumentFields(p.logger, ids[i], batchID)
			if gctx.Err() != nil {
				outcomes[i] = outcomeTimedOut
				log.Warn("document timed out")
				return nil
			}

			cand, err := work(i)
			if err != nil {
				outcomes[i] = outcomeFailed
				log.Warn("document failed", zap.Error(err))
				return nil
			}
			if gctx.Err() != nil {
				outcomes[i] = outcomeTimedOut
				log.Warn("document timed out")
				return nil
			}

			results[i] = cand
			outcomes[i] = outcomeMatched
			log.Debug("document scored", zap.Float64("total_score", cand.TotalScore), zap.String("tier", string(cand.Tier)))
			return nil
		})
	}
	// Workers report failures through outcomes, never through the group.
	_ = g.Wait()

	out := &shortlist.Candidates{Items: make([]*shortlist.Candidate, 0, len(ids))}
	res := runResult{batchID: batchID, scanned: len(ids)}
	for i, o := range outcomes {
		switch o {
		case outcomeMatched:
			out.Items = append(out.Items, results[i])
		case outcomeFailed:
			res.failed++
		case outcomeTimedOut:
			res.timedOut++
		}
	}
	out.Sort()
	return out, res
}

func (p *Pool) finish(ctx context.Context, c *shortlist.Candidates, res runResult, stats Stats, top int) (*shortlist.Candidates, Stats, error) {
	stats.BatchID = res.batchID
	stats.TotalScanned = res.scanned
	stats.Failed = res.failed
	stats.TimedOut = res.timedOut

	if p.filter != nil {
		filtered, err := p.filter(ctx, c)
		if err != nil {
			return nil, stats, fmt.Errorf("filter candidates: %w", err)
		}
		c = filtered
	}

	c.Top(top)
	stats.TotalMatched = c.Len()

	p.logger.Info("batch ranked",
		zap.String(logger.FieldBatch, stats.BatchID),
		zap.Int("total_scanned", stats.TotalScanned),
		zap.Int("total_matched", stats.TotalMatched),
		zap.Int("failed", stats.Failed),
		zap.Int("timed_out", stats.TimedOut),
	)
	return c, stats, nil
}
