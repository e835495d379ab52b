//go:generate mockgen -source ./server.go -destination=./mocks/server.go -package=mock_server
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/printhub-store/backend/internal/order"
	"github.com/printhub-store/backend/internal/pricing"
	"github.com/printhub-store/backend/internal/repository"
	"github.com/printhub-store/backend/internal/service"
)

type OrderService interface {
	Checkout(ctx context.Context, in service.CheckoutInput) (*service.GroupView, error)
	GetOrder(ctx context.Context, orderID string) (*order.Order, error)
	ListUserOrders(ctx context.Context, userID string, lastN int, activeOnly bool) ([]*order.Order, error)
	ListSellerOrders(ctx context.Context, sellerID string) ([]*order.Order, error)
	GetGroup(ctx context.Context, groupID string) (*service.GroupView, error)
	Transition(ctx context.Context, orderID string, req service.TransitionRequest) (*order.Order, error)
	SettleDeliveryFee(ctx context.Context, groupID string) error
	QuoteDelivery(ctx context.Context, ruleCtx pricing.RuleContext, subtotal float64) (*pricing.Quote, error)
	QuoteXerox(ctx context.Context, in *service.XeroxInput, quantity int) (*pricing.PrintQuote, error)
	ListNotifications(ctx context.Context, userID string, unreadOnly bool) ([]*repository.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) error
}

type UserRepo interface {
	ValidateUser(ctx context.Context, username, password string) (string, error)
}

type Server struct {
	service      OrderService
	userRepo     UserRepo
	server       *http.Server
	logger       *zap.Logger
	AuditManager *AuditManager
}

func New(svc OrderService, userRepo UserRepo, auditProducer AuditProducer, logger *zap.Logger) *Server {
	auditManager := NewAuditManager(2, 5, 500*time.Millisecond, auditProducer, logger)
	return &Server{
		service:      svc,
		userRepo:     userRepo,
		logger:       logger,
		AuditManager: auditManager,
	}
}

func (s *Server) Run(ctx context.Context, port string) error {
	router := s.setupRoutes()

	s.server = &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	s.AuditManager.Start(ctx)

	s.logger.Info("server starting", zap.String("port", port))
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down server")

	if err := s.server.Shutdown(ctx); err != nil {
		return err
	}

	s.AuditManager.Shutdown(ctx)
	s.logger.Info("server shutdown completed")

	return nil
}

func (s *Server) setupRoutes() http.Handler {
	router := mux.NewRouter()

	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := router.NewRoute().Subrouter()
	api.Use(s.basicAuthMiddleware, s.auditLogMiddleware)

	api.HandleFunc("/checkout", s.handleCheckout).Methods(http.MethodPost)
	api.HandleFunc("/orders/{id}", s.handleGetOrder).Methods(http.MethodGet)
	api.HandleFunc("/orders/{id}/group", s.handleGetOrderGroup).Methods(http.MethodGet)
	api.HandleFunc("/orders/{id}/status", s.handleTransition).Methods(http.MethodPut)
	api.HandleFunc("/users/{userID}/orders", s.handleListUserOrders).Methods(http.MethodGet)
	api.HandleFunc("/sellers/{sellerID}/orders", s.handleListSellerOrders).Methods(http.MethodGet)
	api.HandleFunc("/groups/{groupID}", s.handleGetGroup).Methods(http.MethodGet)
	api.HandleFunc("/groups/{groupID}/settle", s.handleSettleDeliveryFee).Methods(http.MethodPost)

	api.HandleFunc("/pricing/delivery", s.handleQuoteDelivery).Methods(http.MethodGet)
	api.HandleFunc("/pricing/xerox", s.handleQuoteXerox).Methods(http.MethodPost)

	api.HandleFunc("/users/{userID}/notifications", s.handleListNotifications).Methods(http.MethodGet)
	api.HandleFunc("/notifications/{id}/read", s.handleMarkNotificationRead).Methods(http.MethodPut)

	return router
}
