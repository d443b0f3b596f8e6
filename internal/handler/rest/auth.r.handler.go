package hrest

import (
	"encoding/json"
	"net/http"

	"banking-service/pkg/response"
)

type SignupJSON struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	FullName *string `json:"full_name,omitempty"`
}

type LoginJSON struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *BankRestHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var in SignupJSON
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.authUC.Signup(r.Context(), in.Email, in.Password, in.FullName)
	if err != nil {
		writeError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, user)
}

func (h *BankRestHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in LoginJSON
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, user, err := h.authUC.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]interface{}{
		"access_token": token,
		"token_type":   "bearer",
		"user":         user,
	})
}

func (h *BankRestHandler) Me(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	user, err := h.authUC.Me(r.Context(), uid)
	if err != nil {
		writeError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, user)
}
