package hrest

import (
	"encoding/json"
	"net/http"

	"banking-service/pkg/response"

	"github.com/go-chi/chi/v5"
)

type IssueCardJSON struct {
	Brand      string `json:"brand"`
	HolderName string `json:"holder_name"`
	CVV        string `json:"cvv"`
	ExpMonth   int    `json:"exp_month"`
	ExpYear    int    `json:"exp_year"`
}

type CardChargeJSON struct {
	CVV         string  `json:"cvv"`
	AmountCents int64   `json:"amount_cents"`
	Description *string `json:"description,omitempty"`
}

func (h *BankRestHandler) IssueCard(w http.ResponseWriter, r *http.Request) {
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

	var in IssueCardJSON
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	card, err := h.cardUC.IssueCard(r.Context(), uid, accountID, in.Brand, in.HolderName, in.CVV, in.ExpMonth, in.ExpYear)
	if err != nil {
		writeError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, card)
}

func (h *BankRestHandler) ListCards(w http.ResponseWriter, r *http.Request) {
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

	cards, err := h.cardUC.ListCards(r.Context(), uid, accountID)
	if err != nil {
		writeError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, cards)
}

func (h *BankRestHandler) ChargeCard(w http.ResponseWriter, r *http.Request) {
	cardToken := chi.URLParam(r, "cardToken")

	var in CardChargeJSON
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	txn, err := h.cardUC.Charge(r.Context(), cardToken, in.CVV, in.AmountCents, in.Description)
	if err != nil {
		writeError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, txn)
}

func (h *BankRestHandler) RefundCard(w http.ResponseWriter, r *http.Request) {
	cardToken := chi.URLParam(r, "cardToken")

	var in CardChargeJSON
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	txn, err := h.cardUC.Refund(r.Context(), cardToken, in.CVV, in.AmountCents, in.Description)
	if err != nil {
		writeError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, txn)
}
