package book

import (
	"errors"
	"net/http"

	"librarycatalog/internal/auth"
	"librarycatalog/internal/httpx"

	"go.uber.org/zap"
)

type HTTPHandler struct {
	service *Service
	logger  *zap.Logger
}

func NewHTTPHandler(service *Service, logger *zap.Logger) *HTTPHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPHandler{service: service, logger: logger}
}

// bookResponse is a record together with its availability summary.
type bookResponse struct {
	Book
	Availability Availability `json:"availability"`
}

func toResponse(b Book) bookResponse {
	return bookResponse{Book: b, Availability: b.Availability()}
}

func toResponses(books []Book) []bookResponse {
	out := make([]bookResponse, 0, len(books))
	for _, b := range books {
		out = append(out, toResponse(b))
	}
	return out
}

// List handles GET /v1/books
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	f := Filters{
		Search:   query.Get("search"),
		Category: query.Get("category"),
		Author:   query.Get("author"),
	}

	books, err := h.service.List(r.Context(), f)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, toResponses(books), map[string]any{"total": len(books)})
}

// Get handles GET /v1/books/{id}
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		http.NotFound(w, r)
		return
	}

	b, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, toResponse(b), nil)
}

// ListAdmin handles GET /v1/admin/books
func (h *HTTPHandler) ListAdmin(w http.ResponseWriter, r *http.Request) {
	books, err := h.service.ListAdmin(r.Context(), httpx.SessionFrom(r), r.URL.Query().Get("q"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, toResponses(books), map[string]any{"total": len(books)})
}

// Create handles POST /v1/admin/books
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	d, ok := h.decodeDraft(w, r)
	if !ok {
		return
	}

	b, err := h.service.Create(r.Context(), httpx.SessionFrom(r), d)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccessCreated(w, r, toResponse(b))
}

// Update handles PUT /v1/admin/books/{id}
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		http.NotFound(w, r)
		return
	}
	d, ok := h.decodeDraft(w, r)
	if !ok {
		return
	}

	b, err := h.service.Update(r.Context(), httpx.SessionFrom(r), id, d)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, toResponse(b), nil)
}

// Delete handles DELETE /v1/admin/books/{id}
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		http.NotFound(w, r)
		return
	}

	if err := h.service.Delete(r.Context(), httpx.SessionFrom(r), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccessNoContent(w)
}

func (h *HTTPHandler) decodeDraft(w http.ResponseWriter, r *http.Request) (Draft, bool) {
	var d Draft
	if err := httpx.DecodeJSON(r, &d); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return Draft{}, false
	}
	if details := httpx.ValidateStruct(d); len(details) > 0 {
		httpx.JSONError(w, r, http.StatusUnprocessableEntity, "VALIDATION_FAILED", "Validation failed", details)
		return Draft{}, false
	}
	return d, true
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		httpx.JSONError(w, r, http.StatusUnprocessableEntity, "VALIDATION_FAILED", verr.Reason, []httpx.ErrorDetail{
			{Field: verr.Field, Message: verr.Reason},
		})
	case errors.Is(err, auth.ErrUnauthenticated):
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
	case errors.Is(err, auth.ErrForbidden):
		httpx.JSONError(w, r, http.StatusForbidden, "FORBIDDEN", "Admin access required", nil)
	case errors.Is(err, ErrNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
	case errors.Is(err, ErrDuplicateISBN):
		httpx.JSONError(w, r, http.StatusConflict, "DUPLICATE_ISBN", "A book with this ISBN already exists", nil)
	default:
		h.logger.Error("catalog request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", httpx.RequestIDFrom(r)),
			zap.Error(err),
		)
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}
