package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/SscSPs/family_finance_agent/internal/apperrors"
	"github.com/SscSPs/family_finance_agent/internal/core/domain"
	portssvc "github.com/SscSPs/family_finance_agent/internal/core/ports/services"
	"github.com/SscSPs/family_finance_agent/internal/utils"
)

// gatewayService prepares chat requests for the model provider.
type gatewayService struct {
	BaseService
	finance  portssvc.FinanceSvcFacade
	upstream portssvc.ModelUpstream
}

// NewGatewayService creates the service behind the gateway endpoint.
func NewGatewayService(finance portssvc.FinanceSvcFacade, upstream portssvc.ModelUpstream, opts ...BaseOption) portssvc.GatewaySvc {
	return &gatewayService{
		BaseService: newBaseService(opts...),
		finance:     finance,
		upstream:    upstream,
	}
}

var _ portssvc.GatewaySvc = (*gatewayService)(nil)

func (s *gatewayService) Relay(ctx context.Context, member domain.Member, req domain.ChatRequest) (io.ReadCloser, error) {
	if len(req.Messages) == 0 {
		return nil, fmt.Errorf("%w: at least one message is required", apperrors.ErrValidation)
	}
	if req.Image != nil && !strings.HasPrefix(*req.Image, "data:") {
		return nil, fmt.Errorf("%w: image must be a data URL", apperrors.ErrValidation)
	}

	system, err := s.systemPrompt(ctx, member)
	if err != nil {
		return nil, err
	}

	turns := make([]domain.ChatTurn, len(req.Messages))
	copy(turns, req.Messages)
	last := &turns[len(turns)-1]
	image := req.Image
	if image != nil && last.Role != "user" {
		// An image only rides along with a user turn.
		image = nil
	}
	if image != nil && strings.TrimSpace(last.Content) == "" {
		last.Content = domain.DefaultImagePrompt
	}

	s.LogInfo(ctx, "Relaying chat request",
		slog.Int("message_count", len(turns)),
		slog.Bool("has_image", image != nil))

	return s.upstream.Stream(ctx, domain.Completion{System: system, Turns: turns, Image: image})
}

func (s *gatewayService) systemPrompt(ctx context.Context, member domain.Member) (string, error) {
	data := promptData{
		MemberName:     member.Name,
		Today:          s.today().Format(domain.DateLayout),
		PaymentMethods: strings.Join(PaymentMethods, ", "),
	}
	if data.MemberName == "" {
		data.MemberName = "Você"
	}

	names := make([]string, 0, len(domain.DefaultCategories))
	if categories, err := s.finance.ListCategories(ctx); err == nil {
		for _, c := range categories {
			names = append(names, c.Name)
		}
	} else {
		s.LogWarn(ctx, "Falling back to default categories in prompt", slog.String("error", err.Error()))
		for _, c := range domain.DefaultCategories {
			names = append(names, c.Name)
		}
	}
	data.Categories = strings.Join(names, ", ")

	if summary, err := s.finance.GetSummary(ctx); err == nil {
		data.Summary = &promptSummary{
			Income:   utils.FormatBRL(summary.Income),
			Expenses: utils.FormatBRL(summary.Expenses),
			Balance:  utils.FormatBRL(summary.Balance),
		}
	} else {
		s.LogWarn(ctx, "Omitting summary from prompt", slog.String("error", err.Error()))
	}

	prompt, err := renderSystemPrompt(data)
	if err != nil {
		return "", fmt.Errorf("failed to render system prompt: %w", err)
	}
	return prompt, nil
}
