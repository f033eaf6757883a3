package migration

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cherryapp/cherry/internal/platform/httpx"
)

// Handler manages migration endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers migration routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.handleImport)
	r.Delete("/wipe", h.handleWipe)
}

func (h *Handler) handleImport(w http.ResponseWriter, r *http.Request) {
	var payload Payload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	report, err := h.service.Import(r.Context(), payload)
	if err != nil {
		h.logger.Error("import batch", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	h.logger.Info("import batch finished",
		slog.String("batch_id", report.BatchID),
		slog.Int("errors", len(report.Errors)))
	httpx.JSON(w, http.StatusOK, report)
}

func (h *Handler) handleWipe(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Wipe(r.Context()); err != nil {
		h.logger.Error("wipe", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "all business data removed"})
}
