package server

import (
	"net/http"

	"settleup/internal/middleware"
	"settleup/internal/service"
)

type createOrderRequest struct {
	ParticipantID string `json:"participantId"`
}

type orderResponse struct {
	OrderID  string `json:"orderId"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.ParticipantID == "" {
		req.ParticipantID = middleware.GetUserID(r.Context())
	}

	order, err := s.settlements.CreatePaymentOrder(r.Context(), r.PathValue("id"), req.ParticipantID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, orderResponse{
		OrderID:  order.ID,
		Amount:   order.Amount,
		Currency: order.Currency,
		Receipt:  order.Receipt,
	})
}

// paymentCallbackRequest mirrors the provider's callback payload; the field
// names are fixed for compatibility.
type paymentCallbackRequest struct {
	OrderID      string `json:"orderId"`
	PaymentID    string `json:"paymentId"`
	Signature    string `json:"signature"`
	ObligationID string `json:"obligationId"`
}

func (s *Server) handlePaymentCallback(w http.ResponseWriter, r *http.Request) {
	var req paymentCallbackRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	status, err := s.settlements.Pay(r.Context(), req.ObligationID, service.PaymentProof{
		OrderID:   req.OrderID,
		PaymentID: req.PaymentID,
		Signature: req.Signature,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: status})
}
