package hrest

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"banking-service/pkg/response"
)

type CreateAccountJSON struct {
	Type string `json:"type"`
}

type AmountJSON struct {
	AmountCents int64   `json:"amount_cents"`
	Description *string `json:"description,omitempty"`
}

type TransferJSON struct {
	FromAccountID int64   `json:"from_account_id"`
	ToAccountID   int64   `json:"to_account_id"`
	AmountCents   int64   `json:"amount_cents"`
	Description   *string `json:"description,omitempty"`
}

func (h *BankRestHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	// An empty body means a default account type.
	var in CreateAccountJSON
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil && !errors.Is(err, io.EOF) {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	account, err := h.accountUC.CreateAccount(r.Context(), uid, in.Type)
	if err != nil {
		writeError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, account)
}

func (h *BankRestHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	accounts, err := h.accountUC.ListAccounts(r.Context(), uid)
	if err != nil {
		writeError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, accounts)
}

func (h *BankRestHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	accountID, err := accountIDParam(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "invalid account id")
		return
	}

	balance, err := h.accountUC.GetBalance(r.Context(), uid, accountID)
	if err != nil {
		writeError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]int64{
		"account_id":    accountID,
		"balance_cents": balance,
	})
}

func (h *BankRestHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	accountID, err := accountIDParam(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "invalid account id")
		return
	}

	var in AmountJSON
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	txn, err := h.ledgerUC.Deposit(r.Context(), uid, accountID, in.AmountCents, in.Description)
	if err != nil {
		writeError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, txn)
}

func (h *BankRestHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	accountID, err := accountIDParam(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "invalid account id")
		return
	}

	var in AmountJSON
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	txn, err := h.ledgerUC.Withdraw(r.Context(), uid, accountID, in.AmountCents, in.Description)
	if err != nil {
		writeError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, txn)
}

func (h *BankRestHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var in TransferJSON
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	legs, err := h.ledgerUC.Transfer(r.Context(), uid, in.FromAccountID, in.ToAccountID, in.AmountCents, in.Description)
	if err != nil {
		writeError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, legs)
}

func (h *BankRestHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	accountID, err := accountIDParam(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "invalid account id")
		return
	}

	txns, err := h.accountUC.ListTransactions(r.Context(), uid, accountID)
	if err != nil {
		writeError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, txns)
}
