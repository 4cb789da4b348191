// Package v1 provides the public, read-mostly content API consumed by the website.
// Only publicly readable resources are served, inactive records are hidden and
// public-excluded fields are stripped.
package v1

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/campusweb/content-server/internal/api/common"
	"github.com/campusweb/content-server/internal/filtering"
	"github.com/campusweb/content-server/internal/service"
)

// ResourceListResponse is the body of GET /resources
type ResourceListResponse struct {
	Resources []service.ResourceInfo `json:"resources"`
}

// OptionsResponse is the body of GET /{resource}/options
type OptionsResponse struct {
	Resource string              `json:"resource"`
	Options  map[string][]string `json:"options"`
}

// CalendarResponse is the body of GET /calendar
type CalendarResponse struct {
	From   string                  `json:"from"`
	To     string                  `json:"to"`
	Events []service.CalendarEntry `json:"events"`
}

// Routes handles HTTP requests for the public content API
type Routes struct {
	service service.ContentService
}

// NewRoutes creates a new Routes instance with the given service
func NewRoutes(svc service.ContentService) *Routes {
	return &Routes{
		service: svc,
	}
}

// Router creates and configures the public content API router
func Router(svc service.ContentService) http.Handler {
	routes := NewRoutes(svc)

	r := chi.NewRouter()

	r.Get("/resources", routes.listResources)
	r.Get("/calendar", routes.calendar)

	r.Route("/{resource}", func(r chi.Router) {
		r.Get("/", routes.listRecords)
		r.Post("/", routes.submitRecord)
		r.Get("/options", routes.listOptions)
		r.Get("/{id}", routes.getRecord)
	})

	return r
}

// listResources handles GET /api/v1/resources
func (routes *Routes) listResources(w http.ResponseWriter, r *http.Request) {
	infos, err := routes.service.ListResources(r.Context(), service.WithVisibility(service.VisibilityPublic))
	if err != nil {
		common.WriteServiceError(w, r, err)
		return
	}
	common.WriteJSONResponse(w, ResourceListResponse{Resources: infos}, http.StatusOK)
}

// listRecords handles GET /api/v1/{resource}
func (routes *Routes) listRecords(w http.ResponseWriter, r *http.Request) {
	resource, err := common.GetAndValidateURLParam(r, "resource")
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	opts, err := common.ParseListOptions(r, service.VisibilityPublic)
	if err != nil {
		common.WriteServiceError(w, r, err)
		return
	}

	result, err := routes.service.ListRecords(r.Context(), resource, opts...)
	if err != nil {
		common.WriteServiceError(w, r, err)
		return
	}
	common.WriteJSONResponse(w, result, http.StatusOK)
}

// listOptions handles GET /api/v1/{resource}/options
func (routes *Routes) listOptions(w http.ResponseWriter, r *http.Request) {
	resource, err := common.GetAndValidateURLParam(r, "resource")
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	options, err := routes.service.ListFilterOptions(r.Context(), resource, service.WithVisibility(service.VisibilityPublic))
	if err != nil {
		common.WriteServiceError(w, r, err)
		return
	}
	common.WriteJSONResponse(w, OptionsResponse{Resource: resource, Options: options}, http.StatusOK)
}

// getRecord handles GET /api/v1/{resource}/{id}
func (routes *Routes) getRecord(w http.ResponseWriter, r *http.Request) {
	resource, err := common.GetAndValidateURLParam(r, "resource")
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	id, err := common.GetAndValidateURLParam(r, "id")
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	rec, err := routes.service.GetRecord(r.Context(), resource, id, service.WithVisibility(service.VisibilityPublic))
	if err != nil {
		common.WriteServiceError(w, r, err)
		return
	}
	common.WriteJSONResponse(w, rec, http.StatusOK)
}

// submitRecord handles POST /api/v1/{resource}, the enquiry and feedback forms.
// Submissions are stored inactive until an administrator publishes them.
func (routes *Routes) submitRecord(w http.ResponseWriter, r *http.Request) {
	resource, err := common.GetAndValidateURLParam(r, "resource")
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	rec, err := common.DecodeRecordBody(w, r)
	if err != nil {
		common.WriteServiceError(w, r, err)
		return
	}

	created, err := routes.service.CreateRecord(r.Context(), resource, rec, service.WithVisibility(service.VisibilityPublic))
	if err != nil {
		common.WriteServiceError(w, r, err)
		return
	}
	common.WriteJSONResponse(w, created, http.StatusCreated)
}

// calendar handles GET /api/v1/calendar?from=YYYY-MM-DD&to=YYYY-MM-DD.
// A missing to selects the single day given by from.
func (routes *Routes) calendar(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseDateRange(r)
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	events, err := routes.service.ListEvents(r.Context(), from, to)
	if err != nil {
		common.WriteServiceError(w, r, err)
		return
	}
	common.WriteJSONResponse(w, CalendarResponse{
		From:   from.Format(filtering.DateLayout),
		To:     to.Format(filtering.DateLayout),
		Events: events,
	}, http.StatusOK)
}

func parseDateRange(r *http.Request) (time.Time, time.Time, error) {
	query := r.URL.Query()
	rawFrom := query.Get("from")
	if rawFrom == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("from parameter is required")
	}
	from, err := filtering.ParseDate(rawFrom)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid from parameter: %w", err)
	}

	to := from
	if rawTo := query.Get("to"); rawTo != "" {
		if to, err = filtering.ParseDate(rawTo); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid to parameter: %w", err)
		}
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("to must not be before from")
	}
	return from, to, nil
}
