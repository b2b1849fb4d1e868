package roles

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/admindesk/admindesk/internal/platform/httpx"
	"github.com/admindesk/admindesk/internal/rbac"
	"github.com/admindesk/admindesk/internal/shared"
)

// Handler wires HTTP endpoints for role management.
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

// MountRoutes registers role routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.guard.Require("roles.read")).Get("/", h.list)
	r.With(h.guard.Require("roles.read")).Get("/{id}", h.get)
	r.With(h.guard.Require("roles.read")).Get("/slug/{slug}", h.getBySlug)
	r.With(h.guard.Require("roles.create")).Post("/", h.create)
	r.With(h.guard.Require("roles.update")).Patch("/{id}", h.update)
	r.With(h.guard.Require("roles.update")).Patch("/{id}/toggle-status", h.toggleStatus)
	r.With(h.guard.Require("roles.update")).Put("/{id}/permissions", h.setPermissions)
	r.With(h.guard.Require("roles.update")).Patch("/{id}/permissions/{permissionID}", h.setGrantActive)
	r.With(h.guard.Require("roles.delete")).Delete("/{id}", h.remove)
}

type grantResponse struct {
	PermissionID int64  `json:"permissionId"`
	Permission   string `json:"permission"`
	IsActive     bool   `json:"isActive"`
}

type roleResponse struct {
	ID          int64           `json:"id"`
	Slug        string          `json:"slug"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	IsActive    bool            `json:"isActive"`
	UserCount   int             `json:"userCount"`
	Grants      []grantResponse `json:"grants,omitempty"`
	Permissions []string        `json:"permissions"`
}

func toResponse(role Role) roleResponse {
	grants := make([]grantResponse, 0, len(role.Grants))
	for _, g := range role.Grants {
		grants = append(grants, grantResponse{PermissionID: g.PermissionID, Permission: g.Permission, IsActive: g.IsActive})
	}
	return roleResponse{
		ID:          role.ID,
		Slug:        role.Slug,
		Name:        role.Name,
		Description: role.Description,
		IsActive:    role.IsActive,
		UserCount:   role.UserCount,
		Grants:      grants,
		Permissions: role.EffectivePermissions().Names(),
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	all, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list roles", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	out := make([]roleResponse, 0, len(all))
	for _, role := range all {
		out = append(out, toResponse(role))
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	role, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, translateErr(err))
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(role))
}

func (h *Handler) getBySlug(w http.ResponseWriter, r *http.Request) {
	role, err := h.service.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		httpx.RespondError(w, translateErr(err))
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(role))
}

type createRoleRequest struct {
	Slug        string `json:"slug" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRoleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	role, err := h.service.Create(r.Context(), req.Slug, req.Name, req.Description)
	if err != nil {
		h.logger.Error("create role", slog.Any("error", err))
		httpx.RespondError(w, translateErr(err))
		return
	}
	httpx.JSON(w, http.StatusCreated, toResponse(role))
}

type updateRoleRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	var req updateRoleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	role, err := h.service.Update(r.Context(), id, req.Name, req.Description)
	if err != nil {
		httpx.RespondError(w, translateErr(err))
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(role))
}

func (h *Handler) toggleStatus(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	role, err := h.service.ToggleStatus(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, translateErr(err))
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(role))
}

type setPermissionsRequest struct {
	PermissionIDs []int64 `json:"permissionIds" validate:"required"`
}

func (h *Handler) setPermissions(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	var req setPermissionsRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.service.SetPermissions(r.Context(), id, req.PermissionIDs); err != nil {
		h.logger.Error("set role permissions", slog.Any("error", err))
		httpx.RespondError(w, translateErr(err))
		return
	}
	role, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, translateErr(err))
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(role))
}

type setGrantActiveRequest struct {
	IsActive bool `json:"isActive"`
}

func (h *Handler) setGrantActive(w http.ResponseWriter, r *http.Request) {
	roleID, err := idParam(r, "id")
	if err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	permissionID, err := idParam(r, "permissionID")
	if err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	var req setGrantActiveRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.service.SetGrantActive(r.Context(), roleID, permissionID, req.IsActive); err != nil {
		httpx.RespondError(w, translateErr(err))
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, shared.ErrRoleInUse) {
			httpx.Problem(w, http.StatusBadRequest, "Role In Use", err.Error())
			return
		}
		httpx.RespondError(w, translateErr(err))
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func idParam(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

func translateErr(err error) error {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		return httpx.ErrNotFound
	case errors.Is(err, shared.ErrConflict):
		return httpx.ErrDuplicate
	default:
		return err
	}
}
