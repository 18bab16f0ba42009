package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"stockfolio/backend/internal/service"
)

// Register accepts a multipart form, matching the original web client. The
// photo field carries a URL; media upload itself is handled elsewhere.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		writeJSON(w, http.StatusBadRequest, nil, "invalid form data")
		return
	}

	user, err := h.userSvc.Register(r.Context(), service.RegisterInput{
		Name:     r.FormValue("name"),
		Username: r.FormValue("username"),
		Email:    r.FormValue("email"),
		Pan:      r.FormValue("pan"),
		Password: r.FormValue("password"),
		Role:     r.FormValue("role"),
		Photo:    r.FormValue("photo"),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user, "user registration done")
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, nil, "invalid request body")
		return
	}

	user, pair, err := h.userSvc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	h.setAuthCookies(w, pair)
	writeJSON(w, http.StatusOK, map[string]any{
		"user":         user,
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	}, "User logged in successfully")
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// RefreshToken reissues the token pair from a valid renewal token, taken
// from the refreshToken cookie or the request body.
func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	tokenString := ""
	if cookie, err := r.Cookie("refreshToken"); err == nil {
		tokenString = cookie.Value
	}
	if tokenString == "" {
		var req refreshRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
			tokenString = req.RefreshToken
		}
	}
	if tokenString == "" {
		writeJSON(w, http.StatusUnauthorized, nil, "unauthorized request: refresh token missing")
		return
	}

	user, pair, err := h.userSvc.Refresh(r.Context(), tokenString)
	if err != nil {
		writeError(w, err)
		return
	}

	h.setAuthCookies(w, pair)
	writeJSON(w, http.StatusOK, map[string]any{
		"user":         user,
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	}, "Access token refreshed")
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.userSvc.Logout(r.Context(), currentUser(r).ID); err != nil {
		writeError(w, err)
		return
	}

	h.clearAuthCookies(w)
	writeJSON(w, http.StatusOK, map[string]any{}, "User logged out")
}

func (h *Handler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, currentUser(r), "User fetched successfully")
}

type addMoneyRequest struct {
	Amount int `json:"amount"`
}

func (h *Handler) AddMoney(w http.ResponseWriter, r *http.Request) {
	var req addMoneyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, nil, "invalid request body")
		return
	}

	user, err := h.userSvc.AddMoney(r.Context(), currentUser(r).ID, req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user, "Amount added successfully")
}

func (h *Handler) setAuthCookies(w http.ResponseWriter, pair service.TokenPair) {
	http.SetCookie(w, &http.Cookie{
		Name:     "accessToken",
		Value:    pair.AccessToken,
		Path:     "/",
		MaxAge:   int(h.tokens.AccessTTL().Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     "refreshToken",
		Value:    pair.RefreshToken,
		Path:     "/",
		MaxAge:   int(h.tokens.RefreshTTL().Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearAuthCookies(w http.ResponseWriter) {
	for _, name := range []string{"accessToken", "refreshToken"} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
}

// parseForm handles both multipart and urlencoded bodies.
func parseForm(r *http.Request) error {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return r.ParseMultipartForm(32 << 20)
	}
	return r.ParseForm()
}
