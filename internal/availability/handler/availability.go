package handler

import (
	"net/http"

	"detailbay/internal/availability/service"
	apperrors "detailbay/pkg/errors"
	httputil "detailbay/pkg/http"
	"detailbay/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type AvailabilityHandler struct {
	service service.AvailabilityService
	log     *logger.Logger
}

func NewAvailabilityHandler(service service.AvailabilityService, log *logger.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		service: service,
		log:     log,
	}
}

func (h *AvailabilityHandler) GetDay(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	date := r.URL.Query().Get("date")
	if date == "" {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("Query parameter 'date' is required")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetDay", "error", writeErr)
		}
		return
	}

	day, err := h.service.GetDay(r.Context(), date)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetDay", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, day); err != nil {
		h.log.Error("failed to write response", "handler", "GetDay", "error", err)
	}
}

func (h *AvailabilityHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/availability", h.GetDay)
}
