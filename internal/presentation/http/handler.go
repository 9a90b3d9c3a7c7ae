package httppresentation

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/Zhima-Mochi/minishop-store/internal/domain/customer"
	"github.com/Zhima-Mochi/minishop-store/internal/domain/order"
	"github.com/Zhima-Mochi/minishop-store/internal/observability"
	"github.com/Zhima-Mochi/minishop-store/internal/observability/logctx"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// StoreReader is the read-only view of a store the handler exposes.
type StoreReader interface {
	Orders(ctx context.Context) ([]*order.Order, error)
	Customers(ctx context.Context) ([]customer.Customer, error)
}

// SalesCounter reports the number of completed sales.
type SalesCounter interface {
	TotalSales() int64
}

type Handler struct {
	store StoreReader
	sales SalesCounter
	log   observability.Logger
	scope *requestScope
}

const (
	componentHTTPHandler = "http_server"
	headerRequestID      = "X-Request-ID"
)

func NewHandler(store StoreReader, sales SalesCounter, logger observability.Logger, tel observability.Observability) *Handler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = observability.LoggerOf(tel)
	}
	log := baseLogger.With(observability.F("component", componentHTTPHandler))
	return &Handler{
		store: store,
		sales: sales,
		log:   log,
		scope: newRequestScope(log, tel),
	}
}

func (h *Handler) Router() http.Handler {
	mux := http.NewServeMux()

	// trace -> request scope (logger, metrics) -> access log -> handler
	h.muxHandle(mux, http.MethodGet, "/health", h.handleHealth)
	h.muxHandle(mux, http.MethodGet, "/orders", h.handleListOrders)
	h.muxHandle(mux, http.MethodGet, "/customers", h.handleListCustomers)
	h.muxHandle(mux, http.MethodGet, "/sales", h.handleSales)

	return mux
}

func (h *Handler) muxHandle(mux *http.ServeMux, method, route string, handler http.HandlerFunc) {
	wrapped := h.withTrace(h.scope.wrap(h.withAccessLog(handler)))

	mux.HandleFunc(route, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			w.Header().Set("Allow", method)
			writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
			return
		}

		// Store stable route template for low-cardinality labels
		ctx := contextWithRoute(r.Context(), method+" "+route)
		wrapped.ServeHTTP(w, r.WithContext(ctx))
	})
}

type productResponse struct {
	ID     int             `json:"id"`
	Name   string          `json:"name"`
	Price  decimal.Decimal `json:"price"`
	Kind   string          `json:"kind"`
	Detail string          `json:"detail,omitempty"`
}

type orderResponse struct {
	ID         int               `json:"id"`
	CustomerID int               `json:"customer_id"`
	Total      decimal.Decimal   `json:"total"`
	PlacedAt   time.Time         `json:"placed_at"`
	Products   []productResponse `json:"products"`
}

type customerResponse struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type salesResponse struct {
	TotalSales int64 `json:"total_sales"`
}

func (h *Handler) handleListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.store.Orders(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		products := make([]productResponse, 0, len(o.Products))
		for _, p := range o.Products {
			products = append(products, productResponse{
				ID:     p.ID,
				Name:   p.Name,
				Price:  p.Price,
				Kind:   string(p.Kind),
				Detail: p.Detail,
			})
		}
		out = append(out, orderResponse{
			ID:         o.ID,
			CustomerID: o.CustomerID,
			Total:      o.Total(),
			PlacedAt:   o.PlacedAt,
			Products:   products,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.store.Customers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	out := make([]customerResponse, 0, len(customers))
	for _, c := range customers {
		out = append(out, customerResponse{ID: c.ID, Name: c.Name, Email: c.Email})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleSales(w http.ResponseWriter, _ *http.Request) {
	var total int64
	if h.sales != nil {
		total = h.sales.TotalSales()
	}
	writeJSON(w, http.StatusOK, salesResponse{TotalSales: total})
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// withAccessLog writes a single access log after the handler completes.
// It relies on the request-scoped logger injected by requestScope.
func (h *Handler) withAccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := newStatusRecorder(w)

		next.ServeHTTP(lrw, r)

		logctx.FromOr(r.Context(), h.log).Info("http_access",
			observability.F("method", r.Method),
			observability.F("route", routeFromContext(r.Context())),
			observability.F("path", r.URL.Path),
			observability.F("status", lrw.status),
			observability.F("latency_ms", time.Since(start).Milliseconds()),
		)
	})
}

// withTrace creates a server span for the request using OTel and W3C propagation.
func (h *Handler) withTrace(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tracer := otel.Tracer("minishop.http")
		parentCtx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

		route := routeFromContext(parentCtx)
		spanName := route
		if spanName == "unknown" {
			spanName = r.Method + " " + r.URL.Path
		}

		ctxWithSpan, span := tracer.Start(parentCtx,
			spanName,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", r.Method),
				attribute.String("http.route", route),
				attribute.String("http.target", r.URL.Path),
				attribute.String("http.user_agent", r.UserAgent()),
			),
		)
		defer span.End()

		next.ServeHTTP(w, r.WithContext(ctxWithSpan))
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

type routeKey struct{}

// contextWithRoute stores the stable route template in the context so downstream
// metrics/logging can rely on low-cardinality values.
func contextWithRoute(ctx context.Context, route string) context.Context {
	if route == "" {
		return ctx
	}
	return context.WithValue(ctx, routeKey{}, route)
}

func routeFromContext(ctx context.Context) string {
	if ctx == nil {
		return "unknown"
	}
	if route, ok := ctx.Value(routeKey{}).(string); ok && route != "" {
		return route
	}
	return "unknown"
}
