package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/dkhamitov/order-service/internal/domain"
	"github.com/dkhamitov/order-service/internal/observability"
	"github.com/dkhamitov/order-service/internal/service"
)

//go:generate mockgen -source=httpapi.go -destination=httpapi_mock_test.go -package=httpapi

type OrderService interface {
	CreateWithStats(ctx context.Context, userID int64, items []domain.NewItem) (*domain.Order, service.CreateStats, error)
	ListByUserWithStats(ctx context.Context, userID int64) ([]domain.Order, service.ListStats, error)
	GetByID(ctx context.Context, orderID int64) (*domain.Order, []domain.OrderItem, error)
}

// Pinger reports whether the cache resource is currently reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	service   OrderService
	cachePing Pinger
	logger    *zap.Logger
	metrics   observability.Metrics
	validate  *validator.Validate
	router    chi.Router
}

func New(svc OrderService, cachePing Pinger, logger *zap.Logger, metrics observability.Metrics) *Server {
	s := &Server{
		service:   svc,
		cachePing: cachePing,
		logger:    logger,
		metrics:   metrics,
		validate:  validator.New(),
		router:    chi.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
	)
	s.router.Use(requestLogger(s.logger, s.metrics))

	s.router.Post("/orders", s.createOrder)
	s.router.Get("/orders/user/{userID}", s.listUserOrders)
	s.router.Get("/orders/{orderID}", s.getOrder)
	s.router.Get("/health", s.health)
}

type orderItemRequest struct {
	ProductID int64           `json:"productId" validate:"required"`
	Quantity  int             `json:"quantity" validate:"gt=0"`
	Price     decimal.Decimal `json:"price"`
}

type createOrderRequest struct {
	UserID int64              `json:"userId" validate:"required"`
	Items  []orderItemRequest `json:"items" validate:"min=1,dive"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func (s *Server) createOrder(w http.ResponseWriter, r *http.Request) {
	ct := r.Header.Get("Content-Type")
	if ct != "" && !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		writeJSON(w, http.StatusUnsupportedMediaType, errorResponse{Error: "Content-Type must be application/json"})
		return
	}

	var req createOrderRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		s.logger.Warn("bad create order payload", zap.Error(err))
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid order request", Message: err.Error()})
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid order request", Message: err.Error()})
		return
	}

	items := lo.Map(req.Items, func(it orderItemRequest, _ int) domain.NewItem {
		return domain.NewItem{ProductID: it.ProductID, Quantity: it.Quantity, Price: it.Price}
	})

	order, st, err := s.service.CreateWithStats(r.Context(), req.UserID, items)
	if err != nil {
		if errors.Is(err, domain.ErrNoItems) || errors.Is(err, domain.ErrInvalidItem) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid order request", Message: err.Error()})
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to create order", Message: err.Error()})
		return
	}

	observability.AppendServerTiming(w, "db_write", st.DBWriteMs, "")
	writeJSON(w, http.StatusCreated, map[string]any{"order": order})
}

func (s *Server) listUserOrders(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid user id"})
		return
	}

	orders, st, err := s.service.ListByUserWithStats(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to fetch orders", Message: err.Error()})
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}

	observability.AppendServerTiming(w, "cache", st.CacheMs, "")
	observability.AppendServerTiming(w, "db", st.DBMs, "")
	w.Header().Set("X-Source", string(st.Source))

	writeJSON(w, http.StatusOK, map[string]any{
		"orders": orders,
		"source": st.Source,
	})
}

func (s *Server) getOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid order id"})
		return
	}

	order, items, err := s.service.GetByID(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "Order not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to fetch order", Message: err.Error()})
		return
	}
	if items == nil {
		items = []domain.OrderItem{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"order": order,
		"items": items,
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), time.Second)
	defer cancel()

	cacheState := "connected"
	if err := s.cachePing.Ping(ctx); err != nil {
		cacheState = "disconnected"
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"service":   "order-service",
		"cache":     cacheState,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	return srv.ListenAndServe()
}
