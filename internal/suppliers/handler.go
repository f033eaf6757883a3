package suppliers

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

// Handler manages supplier, invoice and payment endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers supplier routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.handleList)
	r.Post("/", h.handleCreate)
	r.Delete("/{id}", h.handleDelete)
	r.Get("/{id}/invoices", h.handleListInvoices)
	r.Post("/{id}/invoices", h.handleAddInvoice)
	r.Put("/invoices/{invoiceID}", h.handleUpdateInvoice)
	r.Delete("/invoices/{invoiceID}", h.handleDeleteInvoice)
	r.Get("/{id}/payments", h.handleListPayments)
	r.Post("/{id}/payments", h.handleAddPayment)
	r.Put("/payments/{paymentID}", h.handleUpdatePayment)
	r.Delete("/payments/{paymentID}", h.handleDeletePayment)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListSuppliers(r.Context())
	if err != nil {
		h.logger.Error("list suppliers", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if list == nil {
		list = []Supplier{}
	}
	httpx.JSON(w, http.StatusOK, list)
}

type createSupplierRequest struct {
	Name string `json:"name" validate:"required"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createSupplierRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	supplier, err := h.service.CreateSupplier(r.Context(), req.Name)
	if err != nil {
		h.respondError(w, err, "create supplier")
		return
	}
	httpx.JSON(w, http.StatusCreated, supplier)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err := h.service.DeleteSupplier(r.Context(), id); err != nil {
		h.respondError(w, err, "delete supplier")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "supplier deleted"})
}

func (h *Handler) handleListInvoices(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	invoices, err := h.service.ListInvoices(r.Context(), id)
	if err != nil {
		h.respondError(w, err, "list invoices")
		return
	}
	if invoices == nil {
		invoices = []Invoice{}
	}
	httpx.JSON(w, http.StatusOK, invoices)
}

type invoiceRequest struct {
	Date     string  `json:"date" validate:"required"`
	DueDate  string  `json:"due_date"`
	Number   string  `json:"number"`
	Amount   float64 `json:"amount" validate:"required"`
	Rejected float64 `json:"rejected"`
}

func (req invoiceRequest) toInvoice() (Invoice, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return Invoice{}, err
	}
	inv := Invoice{Date: date, Number: req.Number, Amount: req.Amount, Rejected: req.Rejected}
	if req.DueDate != "" {
		due, err := time.Parse("2006-01-02", req.DueDate)
		if err != nil {
			return Invoice{}, err
		}
		inv.DueDate = &due
	}
	return inv, nil
}

func (h *Handler) handleAddInvoice(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	var req invoiceRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	invoice, err := req.toInvoice()
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "dates must be YYYY-MM-DD")
		return
	}
	invoice.SupplierID = id
	created, err := h.service.AddInvoice(r.Context(), invoice)
	if err != nil {
		h.respondError(w, err, "add invoice")
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) handleUpdateInvoice(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "invoiceID"), 10, 64)
	var req invoiceRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	invoice, err := req.toInvoice()
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "dates must be YYYY-MM-DD")
		return
	}
	invoice.ID = id
	updated, err := h.service.UpdateInvoice(r.Context(), invoice)
	if err != nil {
		h.respondError(w, err, "update invoice")
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}

func (h *Handler) handleDeleteInvoice(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "invoiceID"), 10, 64)
	if err := h.service.DeleteInvoice(r.Context(), id); err != nil {
		h.respondError(w, err, "delete invoice")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "invoice deleted"})
}

func (h *Handler) handleListPayments(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	payments, err := h.service.ListPayments(r.Context(), id)
	if err != nil {
		h.respondError(w, err, "list payments")
		return
	}
	if payments == nil {
		payments = []Payment{}
	}
	httpx.JSON(w, http.StatusOK, payments)
}

type paymentRequest struct {
	Date   string  `json:"date" validate:"required"`
	Amount float64 `json:"amount" validate:"required"`
}

func (h *Handler) handleAddPayment(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	var req paymentRequest
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
	created, err := h.service.AddPayment(r.Context(), Payment{SupplierID: id, Date: date, Amount: req.Amount})
	if err != nil {
		h.respondError(w, err, "add payment")
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) handleUpdatePayment(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "paymentID"), 10, 64)
	var req paymentRequest
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
	updated, err := h.service.UpdatePayment(r.Context(), Payment{ID: id, Date: date, Amount: req.Amount})
	if err != nil {
		h.respondError(w, err, "update payment")
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}

func (h *Handler) handleDeletePayment(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "paymentID"), 10, 64)
	if err := h.service.DeletePayment(r.Context(), id); err != nil {
		h.respondError(w, err, "delete payment")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "payment deleted"})
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
