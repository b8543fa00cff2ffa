package service

import (
	"context"
	"fmt"
	"time"

	apperrors "gostay/internal/errors"
	"gostay/internal/logger"
	"gostay/internal/loyalty"
	"gostay/internal/models"
)

type accrualStore interface {
	TotalConfirmedSpend(ctx context.Context, userID int64) (int64, error)
	GetAccrualEligible(ctx context.Context, userID int64) ([]models.Booking, error)
	GetAccrualCandidateUsers(ctx context.Context) ([]int64, error)
}

type bonusLedger interface {
	CreditEarned(ctx context.Context, userID int64, bookingID string, amount int64, description string) (bool, error)
	Adjust(ctx context.Context, userID, delta int64, description string) error
	ListByUser(ctx context.Context, userID int64) ([]models.BonusTransaction, error)
}

type LoyaltyService struct {
	bookings accrualStore
	bonus    bonusLedger
	users    userGetter
	engine   *loyalty.Engine
	nats     eventPublisher
}

func NewLoyaltyService(bookings accrualStore, bonus bonusLedger, users userGetter, engine *loyalty.Engine, nats eventPublisher) *LoyaltyService {
	return &LoyaltyService{
		bookings: bookings,
		bonus:    bonus,
		users:    users,
		engine:   engine,
		nats:     nats,
	}
}

// RunAccrual credits cashback for the user's completed stays that have not
// been credited yet. The tier is derived from the confirmed spend total as it
// stood before this pass and the same percent is applied to every booking in
// the batch. Each booking is credited in its own transaction, so one failure
// does not block the rest, and a rerun skips everything already credited.
func (s *LoyaltyService) RunAccrual(ctx context.Context, userID int64) error {
	eligible, err := s.bookings.GetAccrualEligible(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get eligible bookings: %w", err)
	}
	if len(eligible) == 0 {
		return nil
	}

	totalSpent, err := s.bookings.TotalConfirmedSpend(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get confirmed spend: %w", err)
	}

	// The confirmed total already includes the bookings about to be
	// credited; back them out so the tier reflects pre-accrual spend.
	for i := range eligible {
		totalSpent -= eligible[i].FinalPrice
	}
	if totalSpent < 0 {
		totalSpent = 0
	}
	tier := s.engine.TierBySpent(totalSpent)

	var firstErr error
	for i := range eligible {
		booking := &eligible[i]
		earned := s.engine.BonusEarned(booking.FinalPrice, totalSpent)
		if earned <= 0 {
			continue
		}

		description := fmt.Sprintf("Кешбэк %d%% за проживание, бронь %s", tier.CashbackPercent, booking.BookingID)
		credited, err := s.bonus.CreditEarned(ctx, userID, booking.BookingID, earned, description)
		if err != nil {
			logger.WithContext(ctx).Error("Failed to credit cashback",
				"error", err,
				"booking_id", booking.BookingID,
				"user_id", userID)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if !credited {
			// Another pass got there first
			continue
		}

		event := models.BonusAccruedEvent{
			BookingID: booking.BookingID,
			UserID:    userID,
			Amount:    earned,
			Tier:      tier.Name,
			Timestamp: time.Now(),
		}
		if err := s.nats.Publish(models.EventBonusAccrued, event); err != nil {
			logger.WithContext(ctx).Error("Failed to publish bonus accrued event",
				"error", err,
				"booking_id", booking.BookingID,
				"event_type", models.EventBonusAccrued)
		}
	}

	if firstErr != nil {
		return fmt.Errorf("accrual pass finished with errors: %w", firstErr)
	}
	return nil
}

// RunAccrualForAll walks every user that has at least one booking waiting
// for accrual. Used by the background job.
func (s *LoyaltyService) RunAccrualForAll(ctx context.Context) error {
	userIDs, err := s.bookings.GetAccrualCandidateUsers(ctx)
	if err != nil {
		return fmt.Errorf("failed to get accrual candidates: %w", err)
	}

	for _, userID := range userIDs {
		if err := s.RunAccrual(ctx, userID); err != nil {
			logger.WithContext(ctx).Error("Accrual pass failed for user",
				"error", err,
				"user_id", userID)
		}
	}
	return nil
}

// Profile returns the user's balance, tier and progress to the next tier.
// Pending cashback is accrued first so the numbers are current.
func (s *LoyaltyService) Profile(ctx context.Context, userID int64) (*models.LoyaltyResponse, error) {
	if err := s.RunAccrual(ctx, userID); err != nil {
		// Stale numbers are better than no profile
		logger.WithContext(ctx).Error("Accrual on profile view failed",
			"error", err,
			"user_id", userID)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %d: %w", userID, apperrors.ErrNotFound)
	}

	totalSpent, err := s.bookings.TotalConfirmedSpend(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get confirmed spend: %w", err)
	}

	tier := s.engine.TierBySpent(totalSpent)
	resp := &models.LoyaltyResponse{
		Balance:         user.BonusBalance,
		TotalSpent:      totalSpent,
		Tier:            tier.Name,
		CashbackPercent: tier.CashbackPercent,
	}

	if next, remaining, ok := s.engine.NextTier(totalSpent); ok {
		resp.NextTier = &models.NextTierInfo{
			Name:      next.Name,
			Remaining: remaining,
		}
	}

	return resp, nil
}

// Transactions returns the user's bonus ledger, newest first
func (s *LoyaltyService) Transactions(ctx context.Context, userID int64) ([]models.BonusTransactionItem, error) {
	transactions, err := s.bonus.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get transactions: %w", err)
	}

	result := make([]models.BonusTransactionItem, len(transactions))
	for i, tx := range transactions {
		item := models.BonusTransactionItem{
			Amount:      tx.Amount,
			Type:        tx.Type,
			Description: tx.Description,
			CreatedAt:   tx.CreatedAt.Format(time.RFC3339),
		}
		if tx.BookingID != nil {
			item.BookingID = *tx.BookingID
		}
		result[i] = item
	}
	return result, nil
}

// AdjustBalance applies a manual admin delta. The ledger row is written in
// the same transaction and the balance is never allowed to go negative.
func (s *LoyaltyService) AdjustBalance(ctx context.Context, userID, delta int64, description string) error {
	if delta == 0 {
		return fmt.Errorf("zero adjustment: %w", apperrors.ErrValidation)
	}
	if err := s.bonus.Adjust(ctx, userID, delta, description); err != nil {
		return fmt.Errorf("failed to adjust balance: %w", err)
	}
	return nil
}
