package handler

import "net/http"

func (h *Handler) Invested(w http.ResponseWriter, r *http.Request) {
	invested, err := h.dashSvc.Invested(r.Context(), currentUser(r).ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, invested, "Invest amount fetched")
}

func (h *Handler) Returns(w http.ResponseWriter, r *http.Request) {
	returns, err := h.dashSvc.Returns(r.Context(), currentUser(r).ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, returns, "total return")
}

func (h *Handler) CurrentValue(w http.ResponseWriter, r *http.Request) {
	value, err := h.dashSvc.CurrentValue(r.Context(), currentUser(r).ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, value, "total current value")
}

func (h *Handler) WalletBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := h.dashSvc.WalletBalance(r.Context(), currentUser(r).ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, balance, "wallet balance fetched")
}

func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.dashSvc.GetSummary(r.Context(), currentUser(r).ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary, "dashboard summary fetched")
}
