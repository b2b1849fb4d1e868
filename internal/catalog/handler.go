package catalog

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/admindesk/admindesk/internal/platform/httpx"
	"github.com/admindesk/admindesk/internal/rbac"
)

// Handler wires HTTP endpoints for permission catalog management.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	guard     rbac.Guard
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, guard rbac.Guard) *Handler {
	return &Handler{logger: logger, service: service, guard: guard, validator: validator.New()}
}

// MountRoutes registers permission routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.guard.Require("permissions.manage", "roles.read")).Get("/", h.list)
	r.With(h.guard.Require("permissions.manage", "roles.read")).Get("/categories", h.categories)
	r.With(h.guard.Require("permissions.manage", "roles.read")).Get("/available", h.available)
	r.With(h.guard.Require("permissions.manage", "roles.read")).Get("/{id}", h.get)
	r.With(h.guard.Require("permissions.manage")).Post("/", h.create)
	r.With(h.guard.Require("permissions.manage")).Patch("/{id}", h.update)
	r.With(h.guard.Require("permissions.manage")).Patch("/{id}/toggle-status", h.toggleStatus)
	r.With(h.guard.Require("permissions.manage")).Delete("/{id}", h.remove)
}

type permissionResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	IsActive    bool   `json:"isActive"`
}

func toResponse(p Permission) permissionResponse {
	return permissionResponse{ID: p.ID, Name: p.Name, Description: p.Description, Category: p.Category, IsActive: p.IsActive}
}

func toResponses(perms []Permission) []permissionResponse {
	out := make([]permissionResponse, 0, len(perms))
	for _, p := range perms {
		out = append(out, toResponse(p))
	}
	return out
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	if category := r.URL.Query().Get("category"); category != "" {
		perms, err := h.service.ListByCategory(r.Context(), category)
		if err != nil {
			h.logger.Error("list permissions by category", slog.Any("error", err))
			httpx.RespondError(w, err)
			return
		}
		httpx.JSON(w, http.StatusOK, toResponses(perms))
		return
	}
	perms, err := h.service.ListAll(r.Context())
	if err != nil {
		h.logger.Error("list permissions", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponses(perms))
}

func (h *Handler) categories(w http.ResponseWriter, r *http.Request) {
	counts, err := h.service.ListCategories(r.Context())
	if err != nil {
		h.logger.Error("list categories", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	type categoryResponse struct {
		Category string `json:"category"`
		Count    int    `json:"count"`
	}
	out := make([]categoryResponse, 0, len(counts))
	for _, c := range counts {
		out = append(out, categoryResponse{Category: c.Category, Count: c.Count})
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) available(w http.ResponseWriter, r *http.Request) {
	grouped, err := h.service.AvailableGrouped(r.Context())
	if err != nil {
		h.logger.Error("available permissions", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	out := make(map[string][]permissionResponse, len(grouped))
	for category, perms := range grouped {
		out[category] = toResponses(perms)
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	p, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, translateErr(err))
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(p))
}

type createPermissionRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Category    string `json:"category" validate:"required"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createPermissionRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	p, err := h.service.Create(r.Context(), req.Name, req.Description, req.Category)
	if err != nil {
		h.logger.Error("create permission", slog.Any("error", err))
		httpx.RespondError(w, translateErr(err))
		return
	}
	httpx.JSON(w, http.StatusCreated, toResponse(p))
}

type updatePermissionRequest struct {
	Description string `json:"description"`
	Category    string `json:"category" validate:"required"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	var req updatePermissionRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	p, err := h.service.Update(r.Context(), id, req.Description, req.Category)
	if err != nil {
		httpx.RespondError(w, translateErr(err))
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(p))
}

func (h *Handler) toggleStatus(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	p, err := h.service.ToggleStatus(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, translateErr(err))
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(p))
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		httpx.RespondError(w, translateErr(err))
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func idParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
