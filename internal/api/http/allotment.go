package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"allotrack-backend/internal/domain"
	"allotrack-backend/internal/service"
)

type createAllotmentRequest struct {
	AssetID            int64  `json:"asset_id" validate:"required,gt=0"`
	OrganizationID     int64  `json:"organization_id" validate:"required,gt=0"`
	HandoverDate       string `json:"handover_date"`
	DueDate            string `json:"due_date"`
	RentPer30DaysCents int64  `json:"rent_per_30_days_cents" validate:"gte=0"`
	CurrentMonthDays   int32  `json:"current_month_days" validate:"gte=0"`
	Notes              string `json:"notes"`
}

func (s *Server) handleCreateAllotment(w http.ResponseWriter, r *http.Request) {
	var req createAllotmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		writeError(w, err)
		return
	}

	handover := time.Now().UTC()
	if req.HandoverDate != "" {
		parsed, err := time.Parse("2006-01-02", req.HandoverDate)
		if err != nil {
			writeBadRequest(w, "handover_date must be YYYY-MM-DD")
			return
		}
		handover = parsed
	}
	var due time.Time
	if req.DueDate != "" {
		parsed, err := time.Parse("2006-01-02", req.DueDate)
		if err != nil {
			writeBadRequest(w, "due_date must be YYYY-MM-DD")
			return
		}
		due = parsed
	}
	days := req.CurrentMonthDays
	if days == 0 {
		days = 30
	}

	allotment, err := s.allotments.Create(r.Context(), service.CreateAllotmentParams{
		AssetID:            req.AssetID,
		OrganizationID:     req.OrganizationID,
		HandoverDate:       handover,
		DueDate:            due,
		RentPer30DaysCents: req.RentPer30DaysCents,
		CurrentMonthDays:   days,
		Notes:              req.Notes,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, allotment)
}

type extendAllotmentRequest struct {
	AdditionalDays        int32  `json:"additional_days" validate:"required,gt=0"`
	NewRentPer30DaysCents *int64 `json:"new_rent_per_30_days_cents" validate:"omitempty,gte=0"`
	Notes                 string `json:"notes"`
}

func (s *Server) handleExtendAllotment(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(mux.Vars(r)["id"])
	if !ok {
		writeBadRequest(w, "invalid allotment id")
		return
	}

	var req extendAllotmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		writeError(w, err)
		return
	}

	allotment, err := s.allotments.Extend(r.Context(), id, req.AdditionalDays, req.NewRentPer30DaysCents, req.Notes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, allotment)
}

type returnAllotmentRequest struct {
	SurrenderDate string `json:"surrender_date"`
	Condition     string `json:"condition" validate:"required,oneof=GOOD DAMAGED"`
	Notes         string `json:"notes"`
}

func (s *Server) handleReturnAllotment(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(mux.Vars(r)["id"])
	if !ok {
		writeBadRequest(w, "invalid allotment id")
		return
	}

	var req returnAllotmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		writeError(w, err)
		return
	}

	surrender := time.Now().UTC()
	if req.SurrenderDate != "" {
		parsed, err := time.Parse("2006-01-02", req.SurrenderDate)
		if err != nil {
			writeBadRequest(w, "surrender_date must be YYYY-MM-DD")
			return
		}
		surrender = parsed
	}

	allotment, err := s.allotments.Return(r.Context(), id, surrender, domain.AssetCondition(req.Condition), req.Notes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, allotment)
}

func (s *Server) handleGetAllotment(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(mux.Vars(r)["id"])
	if !ok {
		writeBadRequest(w, "invalid allotment id")
		return
	}
	allotment, err := s.allotments.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, allotment)
}

func (s *Server) handleListAllotments(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)
	status := r.URL.Query().Get("status")
	allotments, total, err := s.allotments.List(r.Context(), status, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Items: allotments, Total: total, Page: page})
}
