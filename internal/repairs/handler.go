package repairs

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/shoplite/shoplite/internal/platform/httpx"
	"github.com/shoplite/shoplite/internal/shared"
)

type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers routes on the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.show)
	r.Patch("/{id}/status", h.updateStatus)
	r.Post("/{id}/parts", h.addPart)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	req := ListRepairsRequest{Limit: 50}
	if v := r.URL.Query().Get("status"); v != "" {
		status := Status(v)
		req.Status = &status
	}
	if v := r.URL.Query().Get("customer_id"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			req.CustomerID = &id
		}
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			req.Limit = parsed
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			req.Offset = parsed
		}
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	repairs, total, err := h.service.List(r.Context(), req)
	if err != nil {
		h.logger.Error("list repairs failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	if repairs == nil {
		repairs = []Repair{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"repairs": repairs,
		"meta":    shared.NewPagination(req.Offset/req.Limit+1, req.Limit, total),
	})
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	id, ok := repairID(w, r)
	if !ok {
		return
	}
	detail, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, err, "get repair")
		return
	}
	httpx.JSON(w, http.StatusOK, detail)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateRepairRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "malformed json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	rep, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.respondError(w, err, "create repair")
		return
	}
	httpx.JSON(w, http.StatusCreated, rep)
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := repairID(w, r)
	if !ok {
		return
	}
	var req UpdateStatusRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "malformed json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	rep, err := h.service.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		if errors.Is(err, ErrInvalidTransition) {
			httpx.Problem(w, http.StatusConflict, "Invalid Transition", err.Error())
			return
		}
		h.respondError(w, err, "update repair status")
		return
	}
	httpx.JSON(w, http.StatusOK, rep)
}

func (h *Handler) addPart(w http.ResponseWriter, r *http.Request) {
	id, ok := repairID(w, r)
	if !ok {
		return
	}
	var req AddPartRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "malformed json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	part, err := h.service.AddPart(r.Context(), id, req)
	if err != nil {
		h.respondError(w, err, "add repair part")
		return
	}
	httpx.JSON(w, http.StatusCreated, part)
}

func repairID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Repair ID", "repair id must be an integer")
		return 0, false
	}
	return id, true
}

func (h *Handler) respondError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", shared.UserSafeMessage(err))
	case errors.Is(err, shared.ErrAlreadyExists):
		httpx.Problem(w, http.StatusConflict, "Duplicate", shared.UserSafeMessage(err))
	default:
		h.logger.Error(op+" failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
