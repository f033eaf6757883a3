package orders

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/cherryapp/cherry/internal/catalog"
	"github.com/cherryapp/cherry/internal/platform/httpx"
)

// Handler manages purchase-order endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers order routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.handleList)
	r.Post("/", h.handleCreate)
	r.Get("/{id}", h.handleGet)
	r.Put("/{id}", h.handleUpdate)
	r.Delete("/{id}", h.handleDelete)
	r.Get("/{id}/lines", h.handleListLines)
	r.Post("/{id}/lines", h.handleAddLine)
	r.Post("/{id}/scan", h.handleScan)
	r.Put("/lines/{lineID}", h.handleUpdateLine)
	r.Delete("/lines/{lineID}", h.handleDeleteLine)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list orders", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if list == nil {
		list = []Order{}
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	order, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, err, "get order")
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

type createOrderRequest struct {
	SupplierID int64  `json:"supplier_id" validate:"required"`
	Date       string `json:"date"`
	Notes      string `json:"notes"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	var date time.Time
	if req.Date != "" {
		var err error
		date, err = time.Parse("2006-01-02", req.Date)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "date must be YYYY-MM-DD")
			return
		}
	}
	order, err := h.service.Create(r.Context(), req.SupplierID, date, req.Notes)
	if err != nil {
		h.respondError(w, err, "create order")
		return
	}
	httpx.JSON(w, http.StatusCreated, order)
}

type updateOrderRequest struct {
	Status string   `json:"status" validate:"required"`
	Notes  string   `json:"notes"`
	Total  *float64 `json:"total"`
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	var req updateOrderRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	order, err := h.service.Update(r.Context(), id, Status(req.Status), req.Notes, req.Total)
	if err != nil {
		h.respondError(w, err, "update order")
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.respondError(w, err, "delete order")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "order deleted"})
}

func (h *Handler) handleListLines(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	lines, err := h.service.Lines(r.Context(), id)
	if err != nil {
		h.respondError(w, err, "list lines")
		return
	}
	if lines == nil {
		lines = []Line{}
	}
	httpx.JSON(w, http.StatusOK, lines)
}

type addLineRequest struct {
	ProductID int64 `json:"product_id" validate:"required"`
	Quantity  int   `json:"quantity" validate:"required,gt=0"`
}

func (h *Handler) handleAddLine(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	var req addLineRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	line, err := h.service.AddLine(r.Context(), id, req.ProductID, req.Quantity)
	if err != nil {
		h.respondError(w, err, "add line")
		return
	}
	httpx.JSON(w, http.StatusCreated, line)
}

type updateLineRequest struct {
	Quantity  int      `json:"quantity" validate:"required,gt=0"`
	UnitPrice *float64 `json:"unit_price" validate:"required"`
}

func (h *Handler) handleUpdateLine(w http.ResponseWriter, r *http.Request) {
	lineID, _ := strconv.ParseInt(chi.URLParam(r, "lineID"), 10, 64)
	var req updateLineRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	line, err := h.service.UpdateLine(r.Context(), lineID, req.Quantity, *req.UnitPrice)
	if err != nil {
		h.respondError(w, err, "update line")
		return
	}
	httpx.JSON(w, http.StatusOK, line)
}

func (h *Handler) handleDeleteLine(w http.ResponseWriter, r *http.Request) {
	lineID, _ := strconv.ParseInt(chi.URLParam(r, "lineID"), 10, 64)
	if err := h.service.DeleteLine(r.Context(), lineID); err != nil {
		h.respondError(w, err, "delete line")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "line deleted"})
}

type scanRequest struct {
	Barcode string `json:"barcode" validate:"required"`
}

func (h *Handler) handleScan(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	var req scanRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	result, err := h.service.Scan(r.Context(), id, req.Barcode)
	if err != nil {
		h.respondError(w, err, "scan")
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) respondError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrLineNotFound),
		errors.Is(err, ErrCodeUnknown), errors.Is(err, ErrProductNotInOrder),
		errors.Is(err, ErrSupplierNotFound), errors.Is(err, catalog.ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrMaxReceived):
		httpx.Problem(w, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, ErrNoSupplierPrice), errors.Is(err, ErrValidation):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	default:
		h.logger.Error(op, slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}
