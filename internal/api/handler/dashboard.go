package handler

import (
	"context"
	"net/http"

	"github.com/gitarena/gitarena/internal/admin/dashboard"
	"github.com/gitarena/gitarena/internal/api/response"
)

// ViewModelBuilder assembles the dashboard view-model.
// *dashboard.Builder satisfies this interface.
type ViewModelBuilder interface {
	Build(ctx context.Context) dashboard.ViewModel
}

type Dashboard struct {
	builder ViewModelBuilder
}

func NewDashboard(builder ViewModelBuilder) *Dashboard {
	return &Dashboard{builder: builder}
}

// Get returns the admin dashboard view-model. The builder degrades failed
// sections to placeholders, so this endpoint always answers 200 with a
// renderable structure.
func (h *Dashboard) Get(w http.ResponseWriter, r *http.Request) {
	vm := h.builder.Build(r.Context())
	response.WriteJSON(w, http.StatusOK, vm)
}
