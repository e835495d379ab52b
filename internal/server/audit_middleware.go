package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"
)

func (s *Server) auditLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		entry := AuditLogEntry{
			Timestamp: time.Now(),
			Method:    r.Method,
			Path:      r.URL.Path,
			Handler:   getHandlerName(r.URL.Path, r.Method),
		}

		if username, _, ok := r.BasicAuth(); ok {
			entry.Username = username
		}

		if strings.Contains(r.URL.Path, "/orders/") {
			parts := strings.Split(r.URL.Path, "/")
			for i, part := range parts {
				if part == "orders" && i+1 < len(parts) {
					entry.OrderID = parts[i+1]
					break
				}
			}
		}

		if r.Body != nil && r.Method != http.MethodGet {
			requestBody, _ := io.ReadAll(r.Body)
			r.Body = io.NopCloser(bytes.NewBuffer(requestBody))
			entry.Request = string(requestBody)

			if strings.HasSuffix(r.URL.Path, "/status") {
				var statusRequest struct {
					Action string `json:"action"`
				}
				if err := json.Unmarshal(requestBody, &statusRequest); err == nil {
					entry.Action = statusRequest.Action
				}
			}
		}

		rec := newResponseRecorder(w)

		next.ServeHTTP(rec, r)

		entry.StatusCode = rec.StatusCode()
		entry.Response = string(rec.Body())

		s.AuditManager.LogEntry(r.Context(), entry)
	})
}

func getHandlerName(path string, method string) string {
	switch {
	case strings.HasPrefix(path, "/checkout"):
		return "handleCheckout"
	case strings.HasPrefix(path, "/orders"):
		if strings.HasSuffix(path, "/status") {
			return "handleTransition"
		}
		if strings.HasSuffix(path, "/group") {
			return "handleGetOrderGroup"
		}
		return "handleGetOrder"
	case strings.HasPrefix(path, "/users") && strings.Contains(path, "/orders"):
		return "handleListUserOrders"
	case strings.HasPrefix(path, "/users") && strings.Contains(path, "/notifications"):
		return "handleListNotifications"
	case strings.HasPrefix(path, "/sellers"):
		return "handleListSellerOrders"
	case strings.HasPrefix(path, "/groups"):
		if strings.HasSuffix(path, "/settle") {
			return "handleSettleDeliveryFee"
		}
		return "handleGetGroup"
	case strings.HasPrefix(path, "/pricing/delivery"):
		return "handleQuoteDelivery"
	case strings.HasPrefix(path, "/pricing/xerox"):
		return "handleQuoteXerox"
	case strings.HasPrefix(path, "/notifications"):
		return "handleMarkNotificationRead"
	}

	return "unknown"
}
