package server

import (
	"net/http"
	"time"

	"settleup/internal/middleware"
	"settleup/internal/models"
)

type createGroupRequest struct {
	Name      string   `json:"name"`
	Members   []string `json:"members"`
	EventDate string   `json:"eventDate,omitempty"` // YYYY-MM-DD
}

type groupResponse struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	CreatorID string   `json:"creatorId"`
	Members   []string `json:"members"`
	EventDate string   `json:"eventDate,omitempty"`
	CreatedAt int64    `json:"createdAt"`
}

func toGroupResponse(g *models.Group) groupResponse {
	resp := groupResponse{
		ID:        g.ID,
		Name:      g.Name,
		CreatorID: g.CreatorID,
		Members:   g.Members,
		CreatedAt: g.CreatedAt,
	}
	if g.EventDate != 0 {
		resp.EventDate = time.Unix(g.EventDate, 0).UTC().Format("2006-01-02")
	}
	return resp
}

func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	var eventDate int64
	if req.EventDate != "" {
		t, err := time.Parse("2006-01-02", req.EventDate)
		if err != nil {
			writeError(w, models.ErrValidation)
			return
		}
		eventDate = t.Unix()
	}

	group, err := s.groups.CreateGroup(r.Context(), req.Name, middleware.GetUserID(r.Context()), req.Members, eventDate)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toGroupResponse(group))
}

func (s *Server) handleGetGroup(w http.ResponseWriter, r *http.Request) {
	group, err := s.groups.GetGroup(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toGroupResponse(group))
}

func (s *Server) handleDeleteGroup(w http.ResponseWriter, r *http.Request) {
	err := s.groups.DeleteGroup(r.Context(), r.PathValue("id"), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemoveMember(w http.ResponseWriter, r *http.Request) {
	err := s.groups.RemoveMember(r.Context(),
		r.PathValue("id"),
		middleware.GetUserID(r.Context()),
		r.PathValue("memberId"),
	)
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type balanceResponse struct {
	MemberID    string `json:"memberId"`
	Outstanding string `json:"outstanding"`
	Owed        string `json:"owed"`
	Net         string `json:"net"`
}

type debtEdgeResponse struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount string `json:"amount"`
}

func (s *Server) handleGroupBalances(w http.ResponseWriter, r *http.Request) {
	balances, edges, err := s.groups.Balances(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	respBalances := make([]balanceResponse, len(balances))
	for i, b := range balances {
		respBalances[i] = balanceResponse{
			MemberID:    b.MemberID,
			Outstanding: b.Outstanding.String(),
			Owed:        b.Owed.String(),
			Net:         b.Net.String(),
		}
	}
	respEdges := make([]debtEdgeResponse, len(edges))
	for i, e := range edges {
		respEdges[i] = debtEdgeResponse{From: e.From, To: e.To, Amount: e.Amount.String()}
	}
	writeJSON(w, http.StatusOK, struct {
		Balances []balanceResponse  `json:"balances"`
		Debts    []debtEdgeResponse `json:"debts"`
	}{respBalances, respEdges})
}
