package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"golang.org/x/sync/errgroup"

	"spendscope/domain/core"
	"spendscope/domain/spend"
	"spendscope/internal"
	"spendscope/internal/errors"
	"spendscope/ports"
)

// ReportConfig carries the generation parameters from configuration.
type ReportConfig struct {
	Model       string
	MaxTokens   int
	Temperature float64
}

// ReportService turns one session's aggregates into a streamed narrative
// report. The streamer is nil when no API key is configured; the endpoint
// then reports the feature as unavailable.
type ReportService struct {
	analytics *AnalyticsService
	streamer  ports.ReportStreamer
	config    ReportConfig
	logger    *internal.Logger
}

func NewReportService(analytics *AnalyticsService, streamer ports.ReportStreamer, config ReportConfig, logger *internal.Logger) *ReportService {
	return &ReportService{
		analytics: analytics,
		streamer:  streamer,
		config:    config,
		logger:    logger,
	}
}

// Enabled reports whether narrative generation is configured.
func (s *ReportService) Enabled() bool {
	return s.streamer != nil
}

// reportContext is the analytics snapshot serialized into the prompt.
type reportContext struct {
	Summary       spend.KPISummary           `json:"summary"`
	Commodities   []spend.CommodityData      `json:"commodities"`
	TopSuppliers  []spend.SupplierRank       `json:"top_suppliers"`
	Concentration spend.ConcentrationSummary `json:"concentration"`
	MatrixStats   spend.MatrixStats          `json:"matrix_stats"`
}

const systemPrompt = "You are a procurement analyst. Write concise, factual " +
	"markdown grounded only in the JSON data provided. Never invent figures."

const defaultInstruction = "Write an executive summary of this procurement " +
	"spend analysis: headline KPIs, the largest commodities, where spend is " +
	"concentrated, and the top savings opportunities with suppliers to engage."

// GenerateReport assembles the analytics context and streams the narrative
// to onChunk as it is generated. An empty instruction falls back to the
// executive summary prompt.
func (s *ReportService) GenerateReport(ctx context.Context, id core.SessionID, instruction string, onChunk ports.ChunkFunc) error {
	if s.streamer == nil {
		return errors.New(errors.CodeExternalService, "report generation is not configured")
	}

	rc, err := s.buildContext(ctx, id)
	if err != nil {
		return err
	}
	contextJSON, err := json.Marshal(rc)
	if err != nil {
		return errors.Wrap(err, "failed to serialize report context")
	}

	if strings.TrimSpace(instruction) == "" {
		instruction = defaultInstruction
	}
	userPrompt := fmt.Sprintf("%s\n\nAnalysis data:\n```json\n%s\n```", instruction, contextJSON)

	s.logger.Info("[report] session %s: generating (%d bytes of context)", id, len(contextJSON))

	err = s.streamer.StreamChat(ctx, ports.ChatRequest{
		Model:        s.config.Model,
		SystemPrompt: systemPrompt,
		UserPrompt:   userPrompt,
		Temperature:  s.config.Temperature,
		MaxTokens:    s.config.MaxTokens,
	}, onChunk)
	if err != nil {
		return errors.Wrap(err, "report generation failed")
	}
	return nil
}

// buildContext loads every aggregate view concurrently. The views share the
// session's immutable record batch, so they compose without coordination.
func (s *ReportService) buildContext(ctx context.Context, id core.SessionID) (*reportContext, error) {
	rc := &reportContext{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		summary, err := s.analytics.Summary(gctx, id)
		if err != nil {
			return err
		}
		rc.Summary = summary
		return nil
	})
	g.Go(func() error {
		commodities, err := s.analytics.ByCommodity(gctx, id)
		if err != nil {
			return err
		}
		rc.Commodities = commodities
		return nil
	})
	g.Go(func() error {
		suppliers, err := s.analytics.TopSuppliers(gctx, id, 10)
		if err != nil {
			return err
		}
		rc.TopSuppliers = suppliers
		return nil
	})
	g.Go(func() error {
		concentration, err := s.analytics.Concentration(gctx, id, "")
		if err != nil {
			return err
		}
		rc.Concentration = concentration
		return nil
	})
	g.Go(func() error {
		matrix, err := s.analytics.OpportunityMatrix(gctx, id, "")
		if err != nil {
			return err
		}
		rc.MatrixStats = matrix.Stats
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rc, nil
}

// RenderReportHTML converts the finished markdown report to HTML for clients
// that render the final document instead of the raw stream.
func RenderReportHTML(md string) string {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return string(markdown.ToHTML([]byte(md), p, renderer))
}
