// Package server exposes the settlement engine over HTTP/JSON. The gateway
// callback payload uses the provider's fixed field names (orderId,
// paymentId, signature, obligationId), which is why the transport is plain
// JSON rather than a schema-compiled RPC layer.
package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"settleup/internal/auth"
	"settleup/internal/middleware"
	"settleup/internal/service"
)

// Server holds the handler dependencies.
type Server struct {
	settlements *service.SettlementService
	groups      *service.GroupService
	jwt         *auth.JWTManager
	registry    *prometheus.Registry
}

// New creates a Server.
func New(settlements *service.SettlementService, groups *service.GroupService, jwt *auth.JWTManager, registry *prometheus.Registry) *Server {
	return &Server{
		settlements: settlements,
		groups:      groups,
		jwt:         jwt,
		registry:    registry,
	}
}

// Handler assembles the route table and middleware chain. The gateway
// callback and the operational endpoints skip JWT auth; everything else
// requires an authenticated caller.
func (s *Server) Handler() http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("POST /api/groups", s.handleCreateGroup)
	api.HandleFunc("GET /api/groups/{id}", s.handleGetGroup)
	api.HandleFunc("DELETE /api/groups/{id}", s.handleDeleteGroup)
	api.HandleFunc("GET /api/groups/{id}/balances", s.handleGroupBalances)
	api.HandleFunc("DELETE /api/groups/{id}/members/{memberId}", s.handleRemoveMember)
	api.HandleFunc("POST /api/obligations", s.handleCreateObligation)
	api.HandleFunc("GET /api/obligations/{id}", s.handleGetObligation)
	api.HandleFunc("POST /api/obligations/{id}/orders", s.handleCreateOrder)
	api.HandleFunc("POST /api/obligations/{id}/pay", s.handleMarkPaid)
	api.HandleFunc("POST /api/obligations/{id}/settle", s.handleForceSettle)

	mux := http.NewServeMux()
	mux.Handle("/api/", middleware.RequireAuth(s.jwt)(api))

	// The signature is the authentication on the callback path.
	mux.HandleFunc("POST /api/payments/verify", s.handlePaymentCallback)

	mux.Handle("GET /metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	return middleware.Logging(middleware.CORS(mux))
}
