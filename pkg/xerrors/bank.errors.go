package xerrors

import "errors"

import "github.com/jackc/pgx/v5/pgconn"

// PGUniqueViolation is the postgres error code for unique_violation.
const PGUniqueViolation = "23505"

func ParsePGErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code // e.g. 23505 for unique_violation
	}
	return "unknown"
}

// Generic
var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrInternalServer = errors.New("internal server error")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrNotFound       = errors.New("not found")
)

// Ledger operations
var (
	// ErrAccountNotFound covers both a missing account and an account the
	// caller does not own. The two cases are indistinguishable on purpose so
	// non-owners cannot probe which account ids exist.
	ErrAccountNotFound   = errors.New("account not found")
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrSameAccount       = errors.New("cannot transfer to the same account")
)

// Statements
var (
	ErrInvalidPeriod     = errors.New("invalid month format, use YYYY-MM")
	ErrStatementNotFound = errors.New("statement not found")
)

// Registration / Login
var (
	ErrUserAlreadyExists  = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrEmailRequired      = errors.New("email required")
	ErrPasswordRequired   = errors.New("password required")
)

// Cards
var (
	ErrCardNotFound = errors.New("card not found")
	ErrInvalidCVV   = errors.New("invalid cvv")
	ErrCardExpiry   = errors.New("invalid card expiry")
)

// Token
var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("expired token")
)
