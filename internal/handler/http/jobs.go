package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nuzum-sa/nuzum-backend-go/internal/handler/http/middleware"
	"github.com/nuzum-sa/nuzum-backend-go/internal/handler/http/response"
	"github.com/nuzum-sa/nuzum-backend-go/internal/pkg/jobs"
)

type JobHandler interface {
	Get(w http.ResponseWriter, r *http.Request)
}

type jobHandlerImpl struct {
	registry *jobs.Registry
}

func NewJobHandler(registry *jobs.Registry) JobHandler {
	return &jobHandlerImpl{registry: registry}
}

// Get polls one background job. Owners only.
func (h *jobHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "id")
	if jobID == "" {
		response.BadRequest(w, "Job ID is required", nil)
		return
	}

	d, err := h.registry.Get(jobID, middleware.CurrentUser(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, d)
}
