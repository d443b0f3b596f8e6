package hrest

import (
	"encoding/json"
	"net/http"

	"banking-service/pkg/response"
)

type GenerateStatementJSON struct {
	Period string `json:"period"` // YYYY-MM
}

func (h *BankRestHandler) GenerateStatement(w http.ResponseWriter, r *http.Request) {
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

	var in GenerateStatementJSON
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	st, err := h.statementUC.Generate(r.Context(), uid, accountID, in.Period)
	if err != nil {
		writeError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, st)
}

func (h *BankRestHandler) ListStatements(w http.ResponseWriter, r *http.Request) {
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

	statements, err := h.statementUC.ListStatements(r.Context(), uid, accountID)
	if err != nil {
		writeError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, statements)
}

func (h *BankRestHandler) VerifyBalance(w http.ResponseWriter, r *http.Request) {
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

	check, err := h.statementUC.VerifyBalance(r.Context(), uid, accountID)
	if err != nil {
		writeError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, check)
}
