package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"bnpl-agent/domain"
	"bnpl-agent/service"
)

type CalendarHandler struct {
	service *service.CalendarService
}

func NewCalendarHandler(service *service.CalendarService) *CalendarHandler {
	return &CalendarHandler{service: service}
}

func (h *CalendarHandler) PaymentCalendar(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var input domain.CartOptimizationInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	items := domain.NewCartItems(input.Items)
	events, err := h.service.PaymentCalendar(input.UserID, items, time.Now())
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(events)
}
