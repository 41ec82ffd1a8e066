package server

import (
	"net/http"

	"settleup/internal/middleware"
	"settleup/internal/models"
)

type createObligationRequest struct {
	GroupID     string `json:"groupId"`
	TotalAmount string `json:"totalAmount"`
	Description string `json:"description"`
}

type obligationResponse struct {
	ID          string            `json:"id"`
	GroupID     string            `json:"groupId"`
	Description string            `json:"description"`
	TotalAmount string            `json:"totalAmount"`
	PayerID     string            `json:"payerId"`
	Splits      map[string]string `json:"splits"`
	PaidSplits  map[string]bool   `json:"paidSplits"`
	Status      models.Status     `json:"status"`
	CreatedAt   int64             `json:"createdAt"`
}

func toObligationResponse(o *models.Obligation, status models.Status) obligationResponse {
	splits := make(map[string]string, len(o.Shares))
	paid := make(map[string]bool, len(o.Shares))
	for id, sh := range o.Shares {
		splits[id] = sh.Amount.String()
		paid[id] = sh.Paid
	}
	return obligationResponse{
		ID:          o.ID,
		GroupID:     o.GroupID,
		Description: o.Description,
		TotalAmount: o.Total.String(),
		PayerID:     o.PayerID,
		Splits:      splits,
		PaidSplits:  paid,
		Status:      status,
		CreatedAt:   o.CreatedAt,
	}
}

func (s *Server) handleCreateObligation(w http.ResponseWriter, r *http.Request) {
	var req createObligationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	total, err := models.ParseMoney(req.TotalAmount)
	if err != nil {
		writeError(w, err)
		return
	}

	o, status, err := s.settlements.CreateObligation(r.Context(),
		req.GroupID, middleware.GetUserID(r.Context()), total, req.Description)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toObligationResponse(o, status))
}

func (s *Server) handleGetObligation(w http.ResponseWriter, r *http.Request) {
	o, err := s.settlements.GetObligation(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toObligationResponse(o, o.Status()))
}

type markPaidRequest struct {
	ParticipantID string `json:"participantId"`
}

type statusResponse struct {
	Status models.Status `json:"status"`
}

func (s *Server) handleMarkPaid(w http.ResponseWriter, r *http.Request) {
	var req markPaidRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	caller := middleware.GetUserID(r.Context())
	if req.ParticipantID == "" {
		req.ParticipantID = caller
	}

	status, err := s.settlements.MarkPaid(r.Context(), r.PathValue("id"), req.ParticipantID, caller)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: status})
}

func (s *Server) handleForceSettle(w http.ResponseWriter, r *http.Request) {
	status, err := s.settlements.ForceSettle(r.Context(), r.PathValue("id"), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: status})
}
