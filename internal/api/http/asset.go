package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"allotrack-backend/internal/domain"
)

type createAssetRequest struct {
	AssetTag     string `json:"asset_tag" validate:"required"`
	SerialNumber string `json:"serial_number"`
	Model        string `json:"model" validate:"required"`
	Processor    string `json:"processor"`
	MemoryGB     int32  `json:"memory_gb" validate:"gte=0"`
	StorageGB    int32  `json:"storage_gb" validate:"gte=0"`
	Location     string `json:"location"`
}

func (s *Server) handleCreateAsset(w http.ResponseWriter, r *http.Request) {
	var req createAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		writeError(w, err)
		return
	}

	asset := &domain.Asset{
		AssetTag:     req.AssetTag,
		SerialNumber: req.SerialNumber,
		Model:        req.Model,
		Processor:    req.Processor,
		MemoryGB:     req.MemoryGB,
		StorageGB:    req.StorageGB,
		Location:     req.Location,
		Status:       domain.AssetStatusAvailable,
	}
	if err := s.assets.Create(r.Context(), asset); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, asset)
}

func (s *Server) handleGetAsset(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(mux.Vars(r)["id"])
	if !ok {
		writeBadRequest(w, "invalid asset id")
		return
	}
	asset, err := s.assets.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, asset)
}

func (s *Server) handleListAssets(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)
	assets, total, err := s.assets.List(r.Context(), page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Items: assets, Total: total, Page: page})
}
