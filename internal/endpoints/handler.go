package endpoints

import (
	"context"
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

type Handler struct {
	logger    *slog.Logger
	service   *Service
	guard     rbac.Guard
	validator *validator.Validate

	// enqueueResync hands the manifest resync to the background worker.
	// When nil the resync runs inline in the request.
	enqueueResync func(context.Context) error
}

func NewHandler(logger *slog.Logger, service *Service, guard rbac.Guard, enqueueResync func(context.Context) error) *Handler {
	return &Handler{
		logger:        logger,
		service:       service,
		guard:         guard,
		validator:     validator.New(),
		enqueueResync: enqueueResync,
	}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.guard.Require("endpoints.read")).Get("/", h.list)
	r.With(h.guard.Require("endpoints.read")).Get("/stats", h.stats)
	r.With(h.guard.Require("endpoints.read")).Get("/{id}", h.get)
	r.With(h.guard.Require("endpoints.update")).Put("/{id}/permissions", h.setPermissions)
	r.With(h.guard.Require("endpoints.update")).Patch("/{id}/toggle-status", h.toggleStatus)
	r.With(h.guard.Require("endpoints.manage")).Post("/resync", h.resync)
	r.With(h.guard.Require("endpoints.manage")).Delete("/{id}", h.remove)
}

type endpointResponse struct {
	ID          int64    `json:"id"`
	Path        string   `json:"path"`
	Method      string   `json:"method"`
	Controller  string   `json:"controller"`
	Action      string   `json:"action"`
	Description string   `json:"description,omitempty"`
	IsActive    bool     `json:"isActive"`
	Permissions []string `json:"permissions"`
}

func toResponse(e Endpoint) endpointResponse {
	perms := e.Permissions
	if perms == nil {
		perms = []string{}
	}
	return endpointResponse{
		ID:          e.ID,
		Path:        e.Path,
		Method:      e.Method,
		Controller:  e.Controller,
		Action:      e.Action,
		Description: e.Description,
		IsActive:    e.IsActive,
		Permissions: perms,
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	var (
		all []Endpoint
		err error
	)
	switch {
	case r.URL.Query().Get("controller") != "":
		all, err = h.service.ListByController(r.Context(), r.URL.Query().Get("controller"))
	case r.URL.Query().Get("active") == "true":
		all, err = h.service.ListActive(r.Context())
	default:
		all, err = h.service.List(r.Context())
	}
	if err != nil {
		h.logger.Error("list endpoints", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	out := make([]endpointResponse, 0, len(all))
	for _, e := range all {
		out = append(out, toResponse(e))
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		h.logger.Error("endpoint stats", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, stats)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	endpoint, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, translateErr(err))
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(endpoint))
}

type setPermissionsRequest struct {
	Permissions []string `json:"permissions" validate:"required"`
}

func (h *Handler) setPermissions(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	var req setPermissionsRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	endpoint, err := h.service.SetPermissions(r.Context(), id, req.Permissions)
	if err != nil {
		httpx.RespondError(w, translateErr(err))
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(endpoint))
}

func (h *Handler) toggleStatus(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	endpoint, err := h.service.ToggleActive(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, translateErr(err))
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(endpoint))
}

func (h *Handler) resync(w http.ResponseWriter, r *http.Request) {
	if h.enqueueResync != nil {
		if err := h.enqueueResync(r.Context()); err != nil {
			h.logger.Error("enqueue manifest resync", slog.Any("error", err))
			httpx.RespondError(w, err)
			return
		}
		httpx.JSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
		return
	}
	if err := h.service.SyncManifest(r.Context(), DefaultManifest()); err != nil {
		h.logger.Error("resync manifest", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "synced"})
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

func translateErr(err error) error {
	if errors.Is(err, shared.ErrNotFound) {
		return httpx.ErrNotFound
	}
	return err
}
