package handler

import (
	"encoding/json"
	"net/http"

	"detailbay/internal/blockedtimes/service"
	"detailbay/pkg/auth"
	httputil "detailbay/pkg/http"
	"detailbay/pkg/logger"
	"detailbay/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type BlockedTimeHandler struct {
	service   service.BlockedTimeService
	adminGate func(httprouter.Handle) httprouter.Handle
	log       *logger.Logger
}

func NewBlockedTimeHandler(service service.BlockedTimeService, adminGate func(httprouter.Handle) httprouter.Handle, log *logger.Logger) *BlockedTimeHandler {
	return &BlockedTimeHandler{
		service:   service,
		adminGate: adminGate,
		log:       log,
	}
}

func (h *BlockedTimeHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	principal, _ := auth.PrincipalFrom(r.Context())

	var block model.BlockedTime
	if err := json.NewDecoder(r.Body).Decode(&block); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "error", writeErr)
		}
		return
	}

	if err := h.service.Create(r.Context(), principal, &block); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, block); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "error", err)
	}
}

func (h *BlockedTimeHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if date := r.URL.Query().Get("date"); date != "" {
		blocks, err := h.service.GetByDate(r.Context(), date)
		if err != nil {
			if writeErr := httputil.WriteError(w, err); writeErr != nil {
				h.log.Error("failed to write error response", "handler", "List", "error", writeErr)
			}
			return
		}
		if err := httputil.WriteSuccess(w, blocks); err != nil {
			h.log.Error("failed to write response", "handler", "List", "error", err)
		}
		return
	}

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "List", "error", writeErr)
		}
		return
	}

	blocks, count, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "List", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, blocks, count, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "List", "error", err)
	}
}

func (h *BlockedTimeHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	block, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, block); err != nil {
		h.log.Error("failed to write response", "handler", "GetByID", "error", err)
	}
}

func (h *BlockedTimeHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	principal, _ := auth.PrincipalFrom(r.Context())

	if err := h.service.Delete(r.Context(), principal, ps.ByName("id")); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Delete", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *BlockedTimeHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/blocked-times", h.adminGate(h.List))
	router.GET("/api/v1/blocked-times/id/:id", h.adminGate(h.GetByID))
	router.POST("/api/v1/blocked-times", h.adminGate(h.Create))
	router.DELETE("/api/v1/blocked-times/id/:id", h.adminGate(h.Delete))
}
