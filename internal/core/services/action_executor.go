package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/family_finance_agent/internal/apperrors"
	"github.com/SscSPs/family_finance_agent/internal/core/domain"
	portsrepo "github.com/SscSPs/family_finance_agent/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/family_finance_agent/internal/core/ports/services"
)

var (
	ErrAmountNotPositive = errors.New("amount must be greater than zero")
	ErrUnknownAction     = errors.New("unknown action")
)

// actionExecutor applies agent actions to the shared finance data.
type actionExecutor struct {
	BaseService
	txnRepo      portsrepo.TransactionRepositoryFacade
	goalRepo     portsrepo.GoalRepositoryFacade
	categoryRepo portsrepo.CategoryRepositoryFacade
	validate     *validator.Validate
}

// NewActionExecutor creates the executor over the given repositories.
func NewActionExecutor(repos portsrepo.RepositoryProvider, opts ...BaseOption) portssvc.ActionExecutorSvc {
	return &actionExecutor{
		BaseService:  newBaseService(opts...),
		txnRepo:      repos.TransactionRepo,
		goalRepo:     repos.GoalRepo,
		categoryRepo: repos.CategoryRepo,
		validate:     validator.New(validator.WithRequiredStructEnabled()),
	}
}

var _ portssvc.ActionExecutorSvc = (*actionExecutor)(nil)

// Execute runs actions one by one. A failing action is logged and skipped; a
// cancelled context stops the rest of the batch.
func (s *actionExecutor) Execute(ctx context.Context, member domain.Member, actions []domain.StructuredAction) {
	logger := s.GetLogger(ctx).With(slog.String("member_id", member.MemberID))

	for i, action := range actions {
		if err := ctx.Err(); err != nil {
			logger.Warn("Action batch interrupted",
				slog.Int("executed", i),
				slog.Int("remaining", len(actions)-i),
				slog.String("error", err.Error()))
			return
		}

		if err := s.executeOne(ctx, member, action); err != nil {
			if errors.Is(err, ErrUnknownAction) {
				logger.Warn("Ignoring unknown action", slog.String("action", string(action.Kind)))
				continue
			}
			logger.Error("Failed to execute action",
				slog.String("action", string(action.Kind)),
				slog.Int("index", i),
				slog.String("error", err.Error()))
			continue
		}
		logger.Info("Action executed", slog.String("action", string(action.Kind)))
	}
}

func (s *actionExecutor) executeOne(ctx context.Context, member domain.Member, action domain.StructuredAction) error {
	switch action.Kind {
	case domain.ActionAddTransaction:
		var p domain.AddTransactionPayload
		if err := s.decode(action.Data, &p); err != nil {
			return err
		}
		return s.addTransaction(ctx, member, p)
	case domain.ActionAddGoal:
		var p domain.AddGoalPayload
		if err := s.decode(action.Data, &p); err != nil {
			return err
		}
		return s.addGoal(ctx, member, p)
	case domain.ActionAddCategory:
		var p domain.AddCategoryPayload
		if err := s.decode(action.Data, &p); err != nil {
			return err
		}
		return s.addCategory(ctx, p.Name, p.Icon)
	case domain.ActionDeleteTransaction:
		var p domain.DeleteTransactionPayload
		if err := s.decode(action.Data, &p); err != nil {
			return err
		}
		return s.deleteTransaction(ctx, p.Description)
	case domain.ActionDeleteGoal:
		var p domain.DeleteGoalPayload
		if err := s.decode(action.Data, &p); err != nil {
			return err
		}
		return s.deleteGoal(ctx, p.Title)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, action.Kind)
	}
}

// decode unmarshals and validates a payload before anything is written.
func (s *actionExecutor) decode(data json.RawMessage, dst any) error {
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("%w: invalid payload: %v", apperrors.ErrValidation, err)
	}
	if err := s.validate.Struct(dst); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	return nil
}

func (s *actionExecutor) addTransaction(ctx context.Context, member domain.Member, p domain.AddTransactionPayload) error {
	if !p.Amount.IsPositive() {
		return fmt.Errorf("%w: %s", ErrAmountNotPositive, p.Amount)
	}

	date := s.today()
	if p.Date != "" {
		parsed, err := time.Parse(domain.DateLayout, p.Date)
		if err != nil {
			return fmt.Errorf("%w: invalid date %q", apperrors.ErrValidation, p.Date)
		}
		date = parsed
	}

	now := s.now()
	memberID := member.MemberID
	txn := domain.Transaction{
		TransactionID: uuid.NewString(),
		Description:   strings.TrimSpace(p.Description),
		Amount:        p.Amount,
		Type:          p.Type,
		Category:      strings.TrimSpace(p.Category),
		Date:          date,
		Person:        member.Name,
		MemberID:      &memberID,
		PaymentMethod: nonEmpty(p.PaymentMethod),
		Location:      nonEmpty(p.Location),
		Timestamps:    domain.Timestamps{CreatedAt: now, UpdatedAt: now},
	}

	if err := s.txnRepo.SaveTransaction(ctx, txn); err != nil {
		return fmt.Errorf("failed to save transaction: %w", err)
	}

	if err := s.addCategory(ctx, txn.Category, nil); err != nil {
		s.LogError(ctx, err, "Failed to register transaction category", slog.String("category", txn.Category))
	}

	if txn.Type == domain.Expense {
		s.propagateExpense(ctx, txn)
	}
	return nil
}

// propagateExpense adds an expense to every limit goal tracking its category.
// Each increment is a single statement; a failure on one goal does not undo the others.
func (s *actionExecutor) propagateExpense(ctx context.Context, txn domain.Transaction) {
	goals, err := s.goalRepo.ListGoalsByType(ctx, domain.Limit)
	if err != nil {
		s.LogError(ctx, err, "Failed to load limit goals", slog.String("transaction_id", txn.TransactionID))
		return
	}
	for _, goal := range goals {
		if !goal.TracksCategory(txn.Category) {
			continue
		}
		if err := s.goalRepo.IncrementGoalCurrentAmount(ctx, goal.GoalID, txn.Amount); err != nil {
			s.LogError(ctx, err, "Failed to update limit goal",
				slog.String("goal_id", goal.GoalID),
				slog.String("transaction_id", txn.TransactionID))
			continue
		}
		s.LogDebug(ctx, "Limit goal updated",
			slog.String("goal_id", goal.GoalID),
			slog.String("amount", txn.Amount.String()))
	}
}

func (s *actionExecutor) addGoal(ctx context.Context, member domain.Member, p domain.AddGoalPayload) error {
	if !p.TargetAmount.IsPositive() {
		return fmt.Errorf("%w: target %s", ErrAmountNotPositive, p.TargetAmount)
	}
	if p.CurrentAmount.IsNegative() {
		return fmt.Errorf("%w: current amount cannot be negative", apperrors.ErrValidation)
	}

	period := strings.TrimSpace(p.Period)
	if period == "" {
		period = domain.DefaultGoalPeriod
	}

	now := s.now()
	memberID := member.MemberID
	goal := domain.Goal{
		GoalID:        uuid.NewString(),
		Title:         strings.TrimSpace(p.Title),
		TargetAmount:  p.TargetAmount,
		CurrentAmount: p.CurrentAmount,
		Type:          p.Type,
		Category:      goalCategory(p.Category),
		Period:        period,
		StartDate:     s.today(),
		MemberID:      &memberID,
		Timestamps:    domain.Timestamps{CreatedAt: now, UpdatedAt: now},
	}
	if goal.CurrentAmount.IsZero() {
		goal.CurrentAmount = decimal.Zero
	}

	if err := s.goalRepo.SaveGoal(ctx, goal); err != nil {
		return fmt.Errorf("failed to save goal: %w", err)
	}
	return nil
}

// addCategory registers a user category. An existing name is not an error.
func (s *actionExecutor) addCategory(ctx context.Context, name string, icon *string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: category name is required", apperrors.ErrValidation)
	}

	category := domain.Category{
		CategoryID: uuid.NewString(),
		Name:       name,
		Icon:       domain.DefaultCategoryIcon,
		CreatedAt:  s.now(),
	}
	if i := nonEmpty(icon); i != nil {
		category.Icon = *i
	}

	err := s.categoryRepo.SaveCategory(ctx, category)
	if errors.Is(err, apperrors.ErrDuplicate) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to save category: %w", err)
	}
	return nil
}

func (s *actionExecutor) deleteTransaction(ctx context.Context, description string) error {
	description = strings.TrimSpace(description)
	if description == "" {
		return fmt.Errorf("%w: description is required", apperrors.ErrValidation)
	}
	txn, err := s.txnRepo.FindLatestTransactionByDescription(ctx, description)
	if errors.Is(err, apperrors.ErrNotFound) {
		s.LogInfo(ctx, "No transaction matches delete request", slog.String("description", description))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to find transaction: %w", err)
	}
	if err := s.txnRepo.DeleteTransaction(ctx, txn.TransactionID); err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return nil
}

func (s *actionExecutor) deleteGoal(ctx context.Context, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return fmt.Errorf("%w: title is required", apperrors.ErrValidation)
	}
	goal, err := s.goalRepo.FindLatestGoalByTitle(ctx, title)
	if errors.Is(err, apperrors.ErrNotFound) {
		s.LogInfo(ctx, "No goal matches delete request", slog.String("title", title))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to find goal: %w", err)
	}
	if err := s.goalRepo.DeleteGoal(ctx, goal.GoalID); err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("failed to delete goal: %w", err)
	}
	return nil
}

// goalCategory maps the model's "null" and blank categories to "all categories".
func goalCategory(category *string) *string {
	c := nonEmpty(category)
	if c == nil || strings.EqualFold(*c, "null") {
		return nil
	}
	return c
}

func nonEmpty(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
