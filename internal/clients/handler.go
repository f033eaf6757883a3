package clients

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/cherryapp/cherry/internal/platform/httpx"
)

// Handler manages client and debt endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers client routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.handleList)
	r.Post("/", h.handleCreate)
	r.Delete("/{id}", h.handleDelete)
	r.Get("/{id}/debts", h.handleListDebts)
	r.Post("/{id}/debts", h.handleAddDebt)
	r.Put("/debts/{debtID}", h.handleUpdateDebt)
	r.Delete("/debts/{debtID}", h.handleDeleteDebt)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListClients(r.Context())
	if err != nil {
		h.logger.Error("list clients", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if list == nil {
		list = []Client{}
	}
	httpx.JSON(w, http.StatusOK, list)
}

type createClientRequest struct {
	Name string `json:"name" validate:"required"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createClientRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	client, err := h.service.CreateClient(r.Context(), req.Name)
	if err != nil {
		h.respondError(w, err, "create client")
		return
	}
	httpx.JSON(w, http.StatusCreated, client)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err := h.service.DeleteClient(r.Context(), id); err != nil {
		h.respondError(w, err, "delete client")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "client deleted"})
}

func (h *Handler) handleListDebts(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	debts, err := h.service.ListDebts(r.Context(), id)
	if err != nil {
		h.respondError(w, err, "list debts")
		return
	}
	if debts == nil {
		debts = []Debt{}
	}
	httpx.JSON(w, http.StatusOK, debts)
}

type debtRequest struct {
	Date   string  `json:"date" validate:"required"`
	Amount float64 `json:"amount" validate:"required"`
}

func (h *Handler) handleAddDebt(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	var req debtRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "date must be YYYY-MM-DD")
		return
	}
	debt, err := h.service.AddDebt(r.Context(), id, date, req.Amount)
	if err != nil {
		h.respondError(w, err, "add debt")
		return
	}
	httpx.JSON(w, http.StatusCreated, debt)
}

func (h *Handler) handleUpdateDebt(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "debtID"), 10, 64)
	var req debtRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "date must be YYYY-MM-DD")
		return
	}
	debt, err := h.service.UpdateDebt(r.Context(), id, date, req.Amount)
	if err != nil {
		h.respondError(w, err, "update debt")
		return
	}
	httpx.JSON(w, http.StatusOK, debt)
}

func (h *Handler) handleDeleteDebt(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "debtID"), 10, 64)
	if err := h.service.DeleteDebt(r.Context(), id); err != nil {
		h.respondError(w, err, "delete debt")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "debt deleted"})
}

func (h *Handler) respondError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrValidation):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	default:
		h.logger.Error(op, slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}
