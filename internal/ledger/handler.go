package ledger

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/cherryapp/cherry/internal/platform/httpx"
)

// Handler manages ledger endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers ledger routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/months", h.handleListMonths)
	r.Post("/months", h.handleCreateMonth)
	r.Delete("/months/{id}", h.handleDeleteMonth)
	r.Get("/months/{id}/export", h.handleExport)
	r.Get("/months/{id}/sales", h.handleListSales)
	r.Post("/months/{id}/sales", h.handleAddSale)
	r.Put("/sales/{saleID}", h.handleUpdateSale)
	r.Delete("/sales/{saleID}", h.handleDeleteSale)
	r.Get("/months/{id}/expenses", h.handleListExpenses)
	r.Post("/months/{id}/expenses", h.handleAddExpense)
	r.Put("/expenses/{expenseID}", h.handleUpdateExpense)
	r.Delete("/expenses/{expenseID}", h.handleDeleteExpense)
}

func (h *Handler) handleListMonths(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListMonths(r.Context())
	if err != nil {
		h.logger.Error("list months", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if list == nil {
		list = []Month{}
	}
	httpx.JSON(w, http.StatusOK, list)
}

type createMonthRequest struct {
	ID   string `json:"id" validate:"required"`
	Name string `json:"name" validate:"required"`
}

func (h *Handler) handleCreateMonth(w http.ResponseWriter, r *http.Request) {
	var req createMonthRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	month, err := h.service.CreateMonth(r.Context(), req.ID, req.Name)
	if err != nil {
		h.respondError(w, err, "create month")
		return
	}
	httpx.JSON(w, http.StatusCreated, month)
}

func (h *Handler) handleDeleteMonth(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteMonth(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.respondError(w, err, "delete month")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "month deleted"})
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	monthID := chi.URLParam(r, "id")
	var buf bytes.Buffer
	if err := h.service.Export(r.Context(), monthID, &buf); err != nil {
		h.respondError(w, err, "export month")
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="ledger-%s.xlsx"`, monthID))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

type saleRequest struct {
	Date     string   `json:"date" validate:"required"`
	Cost     *float64 `json:"cost" validate:"required"`
	Expenses *float64 `json:"expenses" validate:"required"`
	Amount   *float64 `json:"amount" validate:"required"`
}

func (h *Handler) decodeSale(w http.ResponseWriter, r *http.Request) (time.Time, saleRequest, bool) {
	var req saleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return time.Time{}, req, false
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return time.Time{}, req, false
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "date must be YYYY-MM-DD")
		return time.Time{}, req, false
	}
	return date, req, true
}

func (h *Handler) handleListSales(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListSales(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err, "list sales")
		return
	}
	if list == nil {
		list = []Sale{}
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) handleAddSale(w http.ResponseWriter, r *http.Request) {
	date, req, ok := h.decodeSale(w, r)
	if !ok {
		return
	}
	sale, err := h.service.AddSale(r.Context(), chi.URLParam(r, "id"), date, *req.Cost, *req.Expenses, *req.Amount)
	if err != nil {
		h.respondError(w, err, "add sale")
		return
	}
	httpx.JSON(w, http.StatusCreated, sale)
}

func (h *Handler) handleUpdateSale(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "saleID"), 10, 64)
	date, req, ok := h.decodeSale(w, r)
	if !ok {
		return
	}
	sale, err := h.service.UpdateSale(r.Context(), id, date, *req.Cost, *req.Expenses, *req.Amount)
	if err != nil {
		h.respondError(w, err, "update sale")
		return
	}
	httpx.JSON(w, http.StatusOK, sale)
}

func (h *Handler) handleDeleteSale(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "saleID"), 10, 64)
	if err := h.service.DeleteSale(r.Context(), id); err != nil {
		h.respondError(w, err, "delete sale")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "sale deleted"})
}

type expenseRequest struct {
	Concept    string   `json:"concept" validate:"required"`
	Total      *float64 `json:"total" validate:"required"`
	Percentage *float64 `json:"percentage" validate:"required"`
}

func (h *Handler) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListExpenses(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err, "list expenses")
		return
	}
	if list == nil {
		list = []FixedExpense{}
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) handleAddExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	expense, err := h.service.AddExpense(r.Context(), chi.URLParam(r, "id"), req.Concept, *req.Total, *req.Percentage)
	if err != nil {
		h.respondError(w, err, "add expense")
		return
	}
	httpx.JSON(w, http.StatusCreated, expense)
}

func (h *Handler) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "expenseID"), 10, 64)
	var req expenseRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	expense, err := h.service.UpdateExpense(r.Context(), id, req.Concept, *req.Total, *req.Percentage)
	if err != nil {
		h.respondError(w, err, "update expense")
		return
	}
	httpx.JSON(w, http.StatusOK, expense)
}

func (h *Handler) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "expenseID"), 10, 64)
	if err := h.service.DeleteExpense(r.Context(), id); err != nil {
		h.respondError(w, err, "delete expense")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "expense deleted"})
}

func (h *Handler) respondError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrDuplicate):
		httpx.Problem(w, http.StatusConflict, "Duplicate", err.Error())
	case errors.Is(err, ErrValidation):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	default:
		h.logger.Error(op, slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}
