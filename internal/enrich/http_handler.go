package enrich

import (
	"errors"
	"net/http"
	"time"

	"librarycatalog/internal/auth"
	"librarycatalog/internal/book"
	"librarycatalog/internal/httpx"
	"librarycatalog/internal/isbn"
	"librarycatalog/internal/platform/openlibrary"

	"go.uber.org/zap"
)

type HTTPHandler struct {
	service *Service
	logger  *zap.Logger
	now     func() time.Time
}

func NewHTTPHandler(service *Service, logger *zap.Logger, now func() time.Time) *HTTPHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	return &HTTPHandler{service: service, logger: logger, now: now}
}

type enrichRequest struct {
	ISBN string `json:"isbn" validate:"required,max=32"`
	// Draft is optional; a missing draft starts from the new-book defaults.
	Draft *book.Draft `json:"draft"`
}

type sourceView struct {
	Title       string   `json:"title"`
	Authors     []string `json:"authors"`
	Subjects    []string `json:"subjects"`
	PublishDate string   `json:"publish_date"`
}

type enrichResponse struct {
	Draft        book.Draft `json:"draft"`
	YearInferred bool       `json:"year_inferred"`
	Source       sourceView `json:"source"`
}

// Enrich handles POST /v1/admin/books/enrich
func (h *HTTPHandler) Enrich(w http.ResponseWriter, r *http.Request) {
	var req enrichRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	if details := httpx.ValidateStruct(req); len(details) > 0 {
		httpx.JSONError(w, r, http.StatusUnprocessableEntity, "VALIDATION_FAILED", "Validation failed", details)
		return
	}

	draft := book.NewDraft(h.now())
	if req.Draft != nil {
		draft = *req.Draft
	}

	res, err := h.service.Enrich(r.Context(), httpx.SessionFrom(r), draft, req.ISBN)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	resp := enrichResponse{Draft: res.Draft, YearInferred: res.Draft.YearInferred}
	if res.Source != nil {
		resp.Source = sourceView{
			Title:       res.Source.Title,
			Authors:     res.Source.Authors,
			Subjects:    res.Source.Subjects,
			PublishDate: res.Source.PublishDate,
		}
	}
	httpx.JSONSuccess(w, r, resp, nil)
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *book.ValidationError
	switch {
	case errors.As(err, &verr):
		httpx.JSONError(w, r, http.StatusUnprocessableEntity, "VALIDATION_FAILED", verr.Reason, []httpx.ErrorDetail{
			{Field: verr.Field, Message: verr.Reason},
		})
	case errors.Is(err, auth.ErrUnauthenticated):
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
	case errors.Is(err, auth.ErrForbidden):
		httpx.JSONError(w, r, http.StatusForbidden, "FORBIDDEN", "Admin access required", nil)
	case errors.Is(err, isbn.ErrInvalid):
		httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_ISBN", "ISBN must be 10-13 digits", []httpx.ErrorDetail{
			{Field: "isbn", Message: "ISBN must be 10-13 digits"},
		})
	case errors.Is(err, openlibrary.ErrNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "No bibliographic record for this ISBN", nil)
	case errors.Is(err, openlibrary.ErrTransport):
		httpx.JSONError(w, r, http.StatusBadGateway, "LOOKUP_FAILED", "Bibliographic lookup failed", nil)
	default:
		h.logger.Error("enrich request failed",
			zap.String("request_id", httpx.RequestIDFrom(r)),
			zap.Error(err),
		)
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}
