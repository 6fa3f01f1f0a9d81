package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"detailbay/internal/catalog/service"
	"detailbay/pkg/auth"
	httputil "detailbay/pkg/http"
	"detailbay/pkg/logger"
	"detailbay/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type CatalogHandler struct {
	service   service.CatalogService
	adminGate func(httprouter.Handle) httprouter.Handle
	log       *logger.Logger
}

func NewCatalogHandler(service service.CatalogService, adminGate func(httprouter.Handle) httprouter.Handle, log *logger.Logger) *CatalogHandler {
	return &CatalogHandler{
		service:   service,
		adminGate: adminGate,
		log:       log,
	}
}

func (h *CatalogHandler) ListPackages(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	packages, err := h.service.GetPackages(r.Context())
	if err != nil {
		h.writeError(w, "ListPackages", err)
		return
	}
	h.writeSuccess(w, "ListPackages", packages)
}

func (h *CatalogHandler) ListSubPackages(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	subs, err := h.service.GetSubPackages(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "ListSubPackages", err)
		return
	}
	h.writeSuccess(w, "ListSubPackages", subs)
}

func (h *CatalogHandler) ListAddOns(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	addOns, err := h.service.GetAddOns(r.Context())
	if err != nil {
		h.writeError(w, "ListAddOns", err)
		return
	}
	h.writeSuccess(w, "ListAddOns", addOns)
}

func (h *CatalogHandler) CreatePackage(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	principal, _ := auth.PrincipalFrom(r.Context())

	var pkg model.Package
	if !h.decodeBody(w, r, "CreatePackage", &pkg) {
		return
	}

	if err := h.service.CreatePackage(r.Context(), principal, &pkg); err != nil {
		h.writeError(w, "CreatePackage", err)
		return
	}

	if err := httputil.WriteCreated(w, pkg); err != nil {
		h.log.Error("failed to write created response", "handler", "CreatePackage", "error", err)
	}
}

func (h *CatalogHandler) CreateSubPackage(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	principal, _ := auth.PrincipalFrom(r.Context())

	var sub model.SubPackage
	if !h.decodeBody(w, r, "CreateSubPackage", &sub) {
		return
	}
	sub.PackageID = ps.ByName("id")

	if err := h.service.CreateSubPackage(r.Context(), principal, &sub); err != nil {
		h.writeError(w, "CreateSubPackage", err)
		return
	}

	if err := httputil.WriteCreated(w, sub); err != nil {
		h.log.Error("failed to write created response", "handler", "CreateSubPackage", "error", err)
	}
}

func (h *CatalogHandler) CreateAddOn(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	principal, _ := auth.PrincipalFrom(r.Context())

	var addOn model.AddOn
	if !h.decodeBody(w, r, "CreateAddOn", &addOn) {
		return
	}

	if err := h.service.CreateAddOn(r.Context(), principal, &addOn); err != nil {
		h.writeError(w, "CreateAddOn", err)
		return
	}

	if err := httputil.WriteCreated(w, addOn); err != nil {
		h.log.Error("failed to write created response", "handler", "CreateAddOn", "error", err)
	}
}

func (h *CatalogHandler) SetPrice(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	principal, _ := auth.PrincipalFrom(r.Context())

	var price model.Price
	if !h.decodeBody(w, r, "SetPrice", &price) {
		return
	}

	if err := h.service.SetPrice(r.Context(), principal, &price); err != nil {
		h.writeError(w, "SetPrice", err)
		return
	}

	h.writeSuccess(w, "SetPrice", price)
}

type activeRequest struct {
	IsActive bool `json:"is_active"`
}

func (h *CatalogHandler) SetPackageActive(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	h.setActive(w, r, ps, "SetPackageActive", h.service.SetPackageActive)
}

func (h *CatalogHandler) SetSubPackageActive(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	h.setActive(w, r, ps, "SetSubPackageActive", h.service.SetSubPackageActive)
}

func (h *CatalogHandler) SetAddOnActive(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	h.setActive(w, r, ps, "SetAddOnActive", h.service.SetAddOnActive)
}

func (h *CatalogHandler) setActive(
	w http.ResponseWriter,
	r *http.Request,
	ps httprouter.Params,
	handler string,
	op func(ctx context.Context, principal auth.Principal, id string, active bool) error,
) {
	principal, _ := auth.PrincipalFrom(r.Context())

	var req activeRequest
	if !h.decodeBody(w, r, handler, &req) {
		return
	}

	if err := op(r.Context(), principal, ps.ByName("id"), req.IsActive); err != nil {
		h.writeError(w, handler, err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *CatalogHandler) decodeBody(w http.ResponseWriter, r *http.Request, handler string, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", handler, "error", writeErr)
		}
		return false
	}
	return true
}

func (h *CatalogHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "error", writeErr)
	}
}

func (h *CatalogHandler) writeSuccess(w http.ResponseWriter, handler string, data any) {
	if err := httputil.WriteSuccess(w, data); err != nil {
		h.log.Error("failed to write response", "handler", handler, "error", err)
	}
}

func (h *CatalogHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/catalog/packages", h.ListPackages)
	router.GET("/api/v1/catalog/packages/:id/sub-packages", h.ListSubPackages)
	router.GET("/api/v1/catalog/add-ons", h.ListAddOns)

	router.POST("/api/v1/catalog/packages", h.adminGate(h.CreatePackage))
	router.POST("/api/v1/catalog/packages/:id/sub-packages", h.adminGate(h.CreateSubPackage))
	router.POST("/api/v1/catalog/add-ons", h.adminGate(h.CreateAddOn))
	router.PUT("/api/v1/catalog/prices", h.adminGate(h.SetPrice))
	router.PATCH("/api/v1/catalog/packages/:id/active", h.adminGate(h.SetPackageActive))
	router.PATCH("/api/v1/catalog/sub-packages/:id/active", h.adminGate(h.SetSubPackageActive))
	router.PATCH("/api/v1/catalog/add-ons/:id/active", h.adminGate(h.SetAddOnActive))
}
