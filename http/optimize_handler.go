package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"bnpl-agent/domain"
	"bnpl-agent/service"
)

type OptimizeHandler struct {
	service *service.OptimizerService
}

func NewOptimizeHandler(service *service.OptimizerService) *OptimizeHandler {
	return &OptimizeHandler{service: service}
}

func (h *OptimizeHandler) OptimizeCart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Validar Content-Type
	contentType := r.Header.Get("Content-Type")
	if !strings.Contains(contentType, "application/json") {
		http.Error(w, "Content-Type must be application/json", http.StatusUnsupportedMediaType)
		return
	}

	var input domain.CartOptimizationInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		log.Printf("Error decoding request body: %v", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	items := domain.NewCartItems(input.Items)
	result, err := h.service.OptimizeCart(input.UserID, items, time.Now())
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		log.Printf("Error optimizing cart: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Codificar JSON en buffer primero para evitar escribir header si falla
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(result); err != nil {
		log.Printf("Error encoding response: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("Error writing response: %v", err)
	}
}
