package hrest

import (
	"errors"
	"net/http"
	"strconv"

	"banking-service/internal/middleware"
	"banking-service/internal/usecase"
	"banking-service/pkg/response"
	"banking-service/pkg/xerrors"

	"github.com/go-chi/chi/v5"
)

type BankRestHandler struct {
	authUC      *usecase.AuthUsecase
	accountUC   *usecase.AccountUsecase
	ledgerUC    *usecase.LedgerUsecase
	statementUC *usecase.StatementUsecase
	cardUC      *usecase.CardUsecase
}

func NewBankRestHandler(
	authUC *usecase.AuthUsecase,
	accountUC *usecase.AccountUsecase,
	ledgerUC *usecase.LedgerUsecase,
	statementUC *usecase.StatementUsecase,
	cardUC *usecase.CardUsecase,
) *BankRestHandler {
	return &BankRestHandler{
		authUC:      authUC,
		accountUC:   accountUC,
		ledgerUC:    ledgerUC,
		statementUC: statementUC,
		cardUC:      cardUC,
	}
}

func (h *BankRestHandler) Health(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// userID pulls the authenticated user out of the request context. Routes
// behind the auth middleware always have it; a miss means a wiring bug.
func userID(r *http.Request) (int64, bool) {
	return middleware.UserIDFrom(r.Context())
}

func accountIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "accountID"), 10, 64)
}

// writeError maps usecase errors onto HTTP statuses. Anything
// unrecognized is a 500 with a generic message.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, xerrors.ErrInvalidAmount),
		errors.Is(err, xerrors.ErrSameAccount),
		errors.Is(err, xerrors.ErrInsufficientFunds),
		errors.Is(err, xerrors.ErrInvalidPeriod),
		errors.Is(err, xerrors.ErrInvalidCVV),
		errors.Is(err, xerrors.ErrCardExpiry),
		errors.Is(err, xerrors.ErrEmailRequired),
		errors.Is(err, xerrors.ErrPasswordRequired):
		response.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, xerrors.ErrInvalidCredentials):
		response.Error(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, xerrors.ErrAccountNotFound),
		errors.Is(err, xerrors.ErrCardNotFound),
		errors.Is(err, xerrors.ErrUserNotFound),
		errors.Is(err, xerrors.ErrStatementNotFound):
		response.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, xerrors.ErrUserAlreadyExists):
		response.Error(w, http.StatusConflict, err.Error())
	default:
		response.Error(w, http.StatusInternalServerError, "internal server error")
	}
}
