// Package errors provides the application error type used across the
// service layer. Every domain failure is one of four caller-actionable
// kinds (conflict, not-found, bad-request, forbidden) surfaced
// synchronously with no local recovery. Cross-user access is reported as
// not-found to avoid leaking resource existence.
package errors

import "net/http"

// AppError is a structured application error with a stable code, a
// human-readable message, the HTTP status it maps to, and an optional
// wrapped internal error that is logged but never sent to clients.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap returns a copy of sentinel carrying an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage returns a copy of sentinel with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication & authorization errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
	ErrFeatureDisabled    = &AppError{Code: "FEATURE_DISABLED", Message: "This feature is disabled in your settings", StatusCode: http.StatusForbidden}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound   = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail = &AppError{Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists", StatusCode: http.StatusConflict}
)

// Budget & category errors.
var (
	ErrSetupAlreadyComplete = &AppError{Code: "SETUP_ALREADY_COMPLETE", Message: "Budget setup has already been completed for this account", StatusCode: http.StatusConflict}
	ErrBudgetExists         = &AppError{Code: "BUDGET_EXISTS", Message: "A budget already exists for this month", StatusCode: http.StatusConflict}
	ErrBudgetNotFound       = &AppError{Code: "BUDGET_NOT_FOUND", Message: "Budget not found for this month", StatusCode: http.StatusNotFound}
	ErrNoBudgetForMonth     = &AppError{Code: "NO_BUDGET_FOR_MONTH", Message: "No budget exists for this month", StatusCode: http.StatusBadRequest}
	ErrCategoryNotFound     = &AppError{Code: "CATEGORY_NOT_FOUND", Message: "Category not found", StatusCode: http.StatusNotFound}
	ErrInvalidCategory      = &AppError{Code: "INVALID_CATEGORY", Message: "Category is invalid or does not belong to you", StatusCode: http.StatusBadRequest}
	ErrCategoryHasSpending  = &AppError{Code: "CATEGORY_HAS_SPENDING", Message: "Cannot delete a category with linked transactions", StatusCode: http.StatusBadRequest}
)

// Transaction errors.
var (
	ErrTransactionNotFound = &AppError{Code: "TRANSACTION_NOT_FOUND", Message: "Transaction not found", StatusCode: http.StatusNotFound}
)

// Goal errors.
var (
	ErrGoalNotFound            = &AppError{Code: "GOAL_NOT_FOUND", Message: "Savings goal not found", StatusCode: http.StatusNotFound}
	ErrInsufficientFreeToSpend = &AppError{Code: "INSUFFICIENT_FREE_TO_SPEND", Message: "Contribution exceeds the free-to-spend balance", StatusCode: http.StatusBadRequest}
)

// Shopping list errors.
var (
	ErrShoppingListNotFound = &AppError{Code: "SHOPPING_LIST_NOT_FOUND", Message: "Shopping list not found", StatusCode: http.StatusNotFound}
)

// Month-end errors.
var (
	ErrReportExists = &AppError{Code: "REPORT_EXISTS", Message: "This month has already been closed", StatusCode: http.StatusConflict}
)
