package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/printhub-store/backend/internal/order"
	"github.com/printhub-store/backend/internal/pricing"
	"github.com/printhub-store/backend/internal/service"
)

func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	if !customerSideRole(roleFrom(r.Context())) {
		respondError(w, http.StatusForbidden, "customers only")
		return
	}

	var input service.CheckoutInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	group, err := s.service.Checkout(r.Context(), input)
	if err != nil {
		s.logger.Error("checkout failed",
			zap.String("user_id", input.UserID),
			zap.String("requested_by", usernameFrom(r.Context())),
			zap.Error(err))
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, group)
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := mux.Vars(r)["id"]

	o, err := s.service.GetOrder(r.Context(), orderID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, o)
}

func (s *Server) handleGetOrderGroup(w http.ResponseWriter, r *http.Request) {
	orderID := mux.Vars(r)["id"]

	o, err := s.service.GetOrder(r.Context(), orderID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	group, err := s.service.GetGroup(r.Context(), o.GroupID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, group)
}

func (s *Server) handleTransition(w http.ResponseWriter, r *http.Request) {
	orderID := mux.Vars(r)["id"]

	var transitionRequest struct {
		Action     string `json:"action"`
		Reason     string `json:"reason"`
		ReturnType string `json:"return_type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&transitionRequest); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	action, err := order.ParseAction(transitionRequest.Action)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	actor, _ := order.ActorFor(action)
	role := roleFrom(r.Context())
	if actor == order.ActorSeller && !sellerSideRole(role) {
		respondError(w, http.StatusForbidden, "seller action")
		return
	}
	if actor == order.ActorCustomer && !customerSideRole(role) {
		respondError(w, http.StatusForbidden, "customer action")
		return
	}

	o, err := s.service.Transition(r.Context(), orderID, service.TransitionRequest{
		Action:     action,
		Reason:     transitionRequest.Reason,
		ReturnType: order.ReturnType(transitionRequest.ReturnType),
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, o)
}

func (s *Server) handleListUserOrders(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userID"]

	lastN := 0
	activeOnly := false

	if lastNStr := r.URL.Query().Get("last"); lastNStr != "" {
		var err error
		lastN, err = strconv.Atoi(lastNStr)
		if err != nil || lastN <= 0 {
			respondError(w, http.StatusBadRequest, "Invalid value for 'last' parameter")
			return
		}
	}

	if activeStr := r.URL.Query().Get("active"); activeStr == "true" {
		activeOnly = true
	}

	orders, err := s.service.ListUserOrders(r.Context(), userID, lastN, activeOnly)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, orders)
}

func (s *Server) handleListSellerOrders(w http.ResponseWriter, r *http.Request) {
	if !sellerSideRole(roleFrom(r.Context())) {
		respondError(w, http.StatusForbidden, "sellers only")
		return
	}

	sellerID := mux.Vars(r)["sellerID"]

	orders, err := s.service.ListSellerOrders(r.Context(), sellerID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, orders)
}

func (s *Server) handleGetGroup(w http.ResponseWriter, r *http.Request) {
	groupID := mux.Vars(r)["groupID"]

	group, err := s.service.GetGroup(r.Context(), groupID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, group)
}

func (s *Server) handleSettleDeliveryFee(w http.ResponseWriter, r *http.Request) {
	groupID := mux.Vars(r)["groupID"]

	if err := s.service.SettleDeliveryFee(r.Context(), groupID); err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Delivery fee settled for group " + groupID,
	})
}

func (s *Server) handleQuoteDelivery(w http.ResponseWriter, r *http.Request) {
	ruleCtx := pricing.RuleContext(r.URL.Query().Get("context"))
	if ruleCtx == "" {
		ruleCtx = pricing.ContextItems
	}

	subtotal, err := strconv.ParseFloat(r.URL.Query().Get("subtotal"), 64)
	if err != nil || subtotal < 0 {
		respondError(w, http.StatusBadRequest, "Invalid value for 'subtotal' parameter")
		return
	}

	quote, err := s.service.QuoteDelivery(r.Context(), ruleCtx, subtotal)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, quote)
}

func (s *Server) handleQuoteXerox(w http.ResponseWriter, r *http.Request) {
	var quoteRequest struct {
		service.XeroxInput
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&quoteRequest); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	quote, err := s.service.QuoteXerox(r.Context(), &quoteRequest.XeroxInput, quoteRequest.Quantity)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, quote)
}

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userID"]
	unreadOnly := r.URL.Query().Get("unread") == "true"

	notifications, err := s.service.ListNotifications(r.Context(), userID, unreadOnly)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, notifications)
}

func (s *Server) handleMarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := s.service.MarkNotificationRead(r.Context(), id); err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Notification marked as read"})
}
