package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"bnpl-agent/service"
)

type FinancesHandler struct {
	service *service.SnapshotService
}

func NewFinancesHandler(service *service.SnapshotService) *FinancesHandler {
	return &FinancesHandler{service: service}
}

// AvailableFunds returns the financial snapshot for a user.
func (h *FinancesHandler) AvailableFunds(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		http.Error(w, "user_id is required", http.StatusBadRequest)
		return
	}

	snapshot, err := h.service.BuildSnapshot(userID, time.Now())
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(snapshot)
}

// ListUsers lists the available user profiles.
func (h *FinancesHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.service.ListUsers())
}
