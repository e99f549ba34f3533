package api

import (
	"net/http"

	"github.com/aiktc/portal/internal/campus"
)

// ViewsHandler serves the two role-scoped dashboard projections. Visibility
// is decided entirely by the view builder.
type ViewsHandler struct {
	builder *campus.ViewBuilder
}

func NewViewsHandler(builder *campus.ViewBuilder) *ViewsHandler {
	return &ViewsHandler{builder: builder}
}

func (h *ViewsHandler) StudentView(w http.ResponseWriter, r *http.Request) {
	view, err := h.builder.BuildStudentView(r.Context(), actorID(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, view, http.StatusOK)
}

func (h *ViewsHandler) FacultyView(w http.ResponseWriter, r *http.Request) {
	view, err := h.builder.BuildFacultyView(r.Context(), actorID(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, view, http.StatusOK)
}
