package users

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

// Handler wires HTTP endpoints for user management.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	guard     rbac.Guard
	audit     *shared.AuditLogger
	validator *validator.Validate
}

// NewHandler constructs a Handler instance. audit may be nil in tests.
func NewHandler(logger *slog.Logger, service *Service, guard rbac.Guard, audit *shared.AuditLogger) *Handler {
	return &Handler{logger: logger, service: service, guard: guard, audit: audit, validator: validator.New()}
}

// MountRoutes registers user routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.guard.Require("users.read")).Get("/", h.list)
	r.With(h.guard.Require("users.read")).Get("/{id}", h.get)
	r.With(h.guard.Require("users.create")).Post("/", h.create)
	r.With(h.guard.Require("users.update")).Patch("/{id}", h.update)
	r.With(h.guard.Require("users.update")).Patch("/{id}/toggle-status", h.toggleStatus)
	r.With(h.guard.Require("users.update")).Patch("/{id}/role", h.assignRole)
	r.With(h.guard.Require("users.delete")).Delete("/{id}", h.remove)
}

type userResponse struct {
	ID          int64    `json:"id"`
	Email       string   `json:"email"`
	FirstName   string   `json:"firstName"`
	LastName    string   `json:"lastName"`
	Phone       string   `json:"phone,omitempty"`
	IsActive    bool     `json:"isActive"`
	IsVerified  bool     `json:"isVerified"`
	IsBlocked   bool     `json:"isBlocked"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

func toResponse(user User) userResponse {
	return userResponse{
		ID:          user.ID,
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Phone:       user.Phone,
		IsActive:    user.IsActive,
		IsVerified:  user.IsVerified,
		IsBlocked:   user.IsBlocked,
		Role:        user.Role.Slug,
		Permissions: user.EffectivePermissions().Names(),
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	all, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list users", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	out := make([]userResponse, 0, len(all))
	for _, user := range all {
		out = append(out, toResponse(user))
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	user, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, translateErr(err))
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(user))
}

type createUserRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Phone     string `json:"phone" validate:"omitempty,min=6"`
	RoleID    int64  `json:"roleId" validate:"required"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	user, err := h.service.Create(r.Context(), CreateInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		RoleID:    req.RoleID,
	})
	if err != nil {
		h.logger.Error("create user", slog.Any("error", err))
		httpx.RespondError(w, translateErr(err))
		return
	}
	h.recordAudit(r, "user.create", user.ID)
	httpx.JSON(w, http.StatusCreated, toResponse(user))
}

type updateUserRequest struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Phone     string `json:"phone" validate:"omitempty,min=6"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	var req updateUserRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	user, err := h.service.Update(r.Context(), id, UpdateParams{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	})
	if err != nil {
		httpx.RespondError(w, translateErr(err))
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(user))
}

func (h *Handler) toggleStatus(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	user, err := h.service.ToggleStatus(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, translateErr(err))
		return
	}
	h.recordAudit(r, "user.toggle_status", user.ID)
	httpx.JSON(w, http.StatusOK, toResponse(user))
}

type assignRoleRequest struct {
	RoleID int64 `json:"roleId" validate:"required"`
}

func (h *Handler) assignRole(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	var req assignRoleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	user, err := h.service.AssignRole(r.Context(), id, req.RoleID)
	if err != nil {
		httpx.RespondError(w, translateErr(err))
		return
	}
	h.recordAudit(r, "user.assign_role", user.ID)
	httpx.JSON(w, http.StatusOK, toResponse(user))
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, shared.ErrSuperAdminImmutable) {
			httpx.Problem(w, http.StatusForbidden, "Forbidden", err.Error())
			return
		}
		httpx.RespondError(w, translateErr(err))
		return
	}
	h.recordAudit(r, "user.delete", id)
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) recordAudit(r *http.Request, action string, entityID int64) {
	if h.audit == nil {
		return
	}
	var actorID int64
	if principal := rbac.PrincipalFromContext(r.Context()); principal != nil {
		actorID = principal.ID
	}
	if err := h.audit.Record(r.Context(), shared.AuditLog{
		ActorID:  actorID,
		Action:   action,
		Entity:   "user",
		EntityID: strconv.FormatInt(entityID, 10),
	}); err != nil {
		h.logger.Warn("audit record", slog.Any("error", err))
	}
}

func idParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func translateErr(err error) error {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		return httpx.ErrNotFound
	case errors.Is(err, shared.ErrEmailTaken):
		return httpx.ErrDuplicate
	default:
		return err
	}
}
