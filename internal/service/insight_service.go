package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/model"
	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/repository"
)

// TextGenerator produces a completion for a prompt.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Insights is the generated analysis together with the summary it was based on.
type Insights struct {
	Insights         string                 `json:"insights"`
	PortfolioSummary model.PortfolioContext `json:"portfolio_summary"`
}

// InsightService generates portfolio analysis with an LLM.
type InsightService struct {
	holdingRepo *repository.HoldingRepository
	generator   TextGenerator
	log         zerolog.Logger
}

// NewInsightService creates a new InsightService. A nil generator leaves the
// service unconfigured and every request fails with ErrAIServiceNotConfigured.
func NewInsightService(holdingRepo *repository.HoldingRepository, generator TextGenerator, log zerolog.Logger) *InsightService {
	return &InsightService{
		holdingRepo: holdingRepo,
		generator:   generator,
		log:         log,
	}
}

// Configured reports whether an LLM client is available.
func (s *InsightService) Configured() bool {
	return s.generator != nil
}

// Generate summarizes the current holdings and asks the LLM for an analysis.
func (s *InsightService) Generate(ctx context.Context) (Insights, error) {
	if !s.Configured() {
		return Insights{}, apperrors.ErrAIServiceNotConfigured
	}

	holdings, err := s.holdingRepo.Load()
	if err != nil {
		return Insights{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToLoadHoldings, err)
	}

	summary := BuildPortfolioContext(holdings)
	text, err := s.generator.Generate(ctx, BuildInsightPrompt(summary))
	if err != nil {
		s.log.Error().Err(err).Int("holdings", summary.TotalHoldings).Msg("insight generation failed")
		return Insights{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToGenerateInsights, err)
	}

	return Insights{Insights: text, PortfolioSummary: summary}, nil
}

// BuildInsightPrompt renders the portfolio summary into the analysis prompt.
func BuildInsightPrompt(summary model.PortfolioContext) string {
	var b strings.Builder

	b.WriteString("You are a financial advisor analyzing a stock portfolio. Here is the current portfolio:\n\n")
	b.WriteString("Portfolio Summary:\n")
	fmt.Fprintf(&b, "- Total Holdings: %d\n", summary.TotalHoldings)
	fmt.Fprintf(&b, "- Total Portfolio Value: $%s\n", formatMoney(summary.TotalValue))
	fmt.Fprintf(&b, "- Total Gain/Loss: $%s (%.2f%%)\n\n", formatMoney(summary.TotalGainLoss), summary.GainLossPercentage)
	b.WriteString("Individual Holdings:\n")

	for _, h := range summary.Holdings {
		fmt.Fprintf(&b, "\n- %s (%s): %s shares @ $%.2f, Return: %.2f%%",
			h.Ticker, h.Sector, strconv.FormatFloat(h.Shares, 'f', -1, 64), h.CurrentPrice, h.ReturnPercentage)
	}

	b.WriteString(`

Please provide:
1. A brief analysis of the portfolio's diversification and risk profile
2. 2-3 specific actionable recommendations to improve the portfolio
3. Any notable strengths or concerns

Keep your response concise and actionable (under 500 words).`)

	return b.String()
}
