package errors

import (
	"errors"
	"fmt"
)

var (
	ErrValidation   = errors.New("missing or malformed input")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("user is not authorized")
	ErrForbidden    = errors.New("operation is forbidden for user")

	// ErrDuplicateReview возвращается при повторном отзыве на тот же отель
	ErrDuplicateReview = errors.New("review for this hotel already exists")
)

// BonusLimitError - запрошенное списание превышает потолок в 50% от стоимости
type BonusLimitError struct {
	Requested int64
	Max       int64
}

func (e *BonusLimitError) Error() string {
	return fmt.Sprintf("cannot redeem more than 50%% of the subtotal: requested %d, max %d", e.Requested, e.Max)
}

// InsufficientBalanceError - на балансе меньше бонусов, чем запрошено к списанию
type InsufficientBalanceError struct {
	Requested int64
	Balance   int64
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient bonus balance: requested %d, available %d", e.Requested, e.Balance)
}
