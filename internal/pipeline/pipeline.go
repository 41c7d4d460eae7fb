package pipeline

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"stockinsight/internal/analyzer"
	"stockinsight/internal/model"
	"stockinsight/internal/parser"
)

// Options bundles the tunables of one pipeline instance.
type Options struct {
	Resolver  parser.ResolverOptions
	Scoring   analyzer.ScoringConfig
	Risk      analyzer.RiskConfig
	Recommend analyzer.RecommendConfig
	// CountCeiling flags implausible single-line unit counts.
	CountCeiling int
}

// DefaultOptions returns the calibrated defaults.
func DefaultOptions() Options {
	return Options{
		Resolver:     parser.DefaultResolverOptions(),
		Scoring:      analyzer.DefaultScoringConfig(),
		Risk:         analyzer.DefaultRiskConfig(),
		Recommend:    analyzer.DefaultRecommendConfig(),
		CountCeiling: 1000,
	}
}

// Pipeline runs the two-stage analysis: role resolution and record
// normalization, then aggregation, scoring and recommendations. A pipeline
// is stateless between runs; independent uploads may run concurrently on
// separate calls with no locking.
type Pipeline struct {
	opts Options
	log  *zap.Logger
}

// New creates a pipeline. A nil logger disables mirroring of diagnostics.
func New(opts Options, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{opts: opts, log: log}
}

// ProgressEvent is one stage notification for streaming consumers.
type ProgressEvent struct {
	Type      string    `json:"type"` // start/stage/done/error
	Stage     string    `json:"stage,omitempty"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`

	// Report is attached to the final done event.
	Report *model.AnalysisReport `json:"report,omitempty"`
	Error  string                `json:"error,omitempty"`
}

// Run executes one full analysis of the table. Mapping failures and empty
// input return errors (*parser.RoleError, parser.ErrNoData); everything else
// degrades into the report's quality section.
func (p *Pipeline) Run(table *model.RawTable) (*model.AnalysisReport, error) {
	return p.run(table, nil)
}

func (p *Pipeline) run(table *model.RawTable, notify func(stage string)) (*model.AnalysisReport, error) {
	enter := func(stage string) {
		if notify != nil {
			notify(stage)
		}
	}

	usable := 0
	for _, row := range table.Rows {
		if !model.IsBlankRow(row) {
			usable++
		}
	}
	if usable == 0 {
		return nil, parser.ErrNoData
	}

	enter("resolve")
	resolver := parser.NewResolverWithOptions(p.opts.Resolver)
	res, err := resolver.Resolve(table)
	if err != nil {
		return nil, err
	}
	diag := res.Diag
	hasQuantity := res.Roles.Has(model.RoleQuantity)
	p.log.Debug("roles resolved",
		zap.Int("assignments", len(res.Roles.Assignments())),
		zap.Bool("hasQuantity", hasQuantity))

	enter("normalize")
	normalizer := &parser.RecordNormalizer{CountCeiling: p.opts.CountCeiling}
	records, skipped := normalizer.Normalize(table, res.Roles, diag)
	if len(records) == 0 {
		return nil, parser.ErrNoData
	}

	enter("aggregate")
	groups := analyzer.Aggregate(records, hasQuantity)

	enter("score")
	engine := analyzer.NewEngine(p.opts.Scoring, p.opts.Risk)
	scored := engine.Score(groups, hasQuantity)

	enter("recommend")
	generator := analyzer.NewGenerator(p.opts.Recommend, p.opts.Risk)
	recommendations := generator.Generate(scored)

	quality := analyzer.AssessQuality(records, scored, hasQuantity, skipped, diag)

	totalRevenue, totalUnits := analyzer.Totals(groups, hasQuantity)
	report := &model.AnalysisReport{
		ID:          uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Source:      table.Source,
		HasQuantity: hasQuantity,
		Summary: model.Summary{
			TotalRevenue: totalRevenue,
			TotalUnits:   totalUnits,
			ProductCount: len(scored),
			RecordCount:  len(records),
			SkippedRows:  skipped,
		},
		Products:        scored,
		Recommendations: recommendations,
		Quality:         quality,
		Resolution: model.ResolutionInfo{
			Assignments:     res.Roles.Assignments(),
			ExaminedHeaders: res.ExaminedHeaders,
			Notes:           diag.Notes,
		},
	}

	p.log.Info("analysis complete",
		zap.String("reportId", report.ID),
		zap.Int("products", len(scored)),
		zap.Int("recommendations", len(recommendations)),
		zap.Int("qualityScore", quality.Score))

	return report, nil
}

// RunWithProgress executes the pipeline asynchronously, emitting one event
// as each stage begins plus a terminal done or error event, then closes the
// channel.
func (p *Pipeline) RunWithProgress(table *model.RawTable) <-chan ProgressEvent {
	events := make(chan ProgressEvent, 16)

	go func() {
		defer close(events)
		send := func(ev ProgressEvent) {
			ev.Timestamp = time.Now().UTC()
			events <- ev
		}

		send(ProgressEvent{Type: "start", Message: "starting analysis"})
		report, err := p.run(table, func(stage string) {
			send(ProgressEvent{Type: "stage", Stage: stage, Message: "running " + stage})
		})
		if err != nil {
			send(ProgressEvent{Type: "error", Message: "analysis failed", Error: err.Error()})
			return
		}
		send(ProgressEvent{Type: "done", Message: "analysis complete", Report: report})
	}()

	return events
}
