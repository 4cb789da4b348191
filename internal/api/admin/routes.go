// Package admin provides the content management API. Every record is visible
// regardless of its active flag and mutations are forwarded to the backend.
package admin

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/campusweb/content-server/internal/api/common"
	"github.com/campusweb/content-server/internal/logger"
	"github.com/campusweb/content-server/internal/service"
	"github.com/campusweb/content-server/internal/spreadsheet"
)

// MaxImportBytes bounds the size of an uploaded workbook
const MaxImportBytes = 10 << 20

// ResourceListResponse is the body of GET /resources
type ResourceListResponse struct {
	Resources []service.ResourceInfo `json:"resources"`
}

// OptionsResponse is the body of GET /{resource}/options
type OptionsResponse struct {
	Resource string              `json:"resource"`
	Options  map[string][]string `json:"options"`
}

// SyncResponse is the body of POST /{resource}/sync
type SyncResponse struct {
	Resource string `json:"resource"`
	Status   string `json:"status"`
}

// ImportFailure describes a workbook row that could not be created
type ImportFailure struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// ImportResponse is the body of POST /{resource}/import.xlsx
type ImportResponse struct {
	Resource string          `json:"resource"`
	Created  int             `json:"created"`
	Failed   []ImportFailure `json:"failed"`
}

// Routes handles HTTP requests for the admin API
type Routes struct {
	service service.ContentService
}

// NewRoutes creates a new Routes instance with the given service
func NewRoutes(svc service.ContentService) *Routes {
	return &Routes{
		service: svc,
	}
}

// Router creates and configures the admin API router
func Router(svc service.ContentService) http.Handler {
	routes := NewRoutes(svc)

	r := chi.NewRouter()

	r.Get("/resources", routes.listResources)

	r.Route("/{resource}", func(r chi.Router) {
		r.Get("/", routes.listRecords)
		r.Post("/", routes.createRecord)
		r.Get("/options", routes.listOptions)
		r.Get("/export.xlsx", routes.exportRecords)
		r.Post("/import.xlsx", routes.importRecords)
		r.Post("/sync", routes.requestSync)
		r.Get("/{id}", routes.getRecord)
		r.Put("/{id}", routes.updateRecord)
		r.Delete("/{id}", routes.deleteRecord)
	})

	return r
}

var adminView = service.WithVisibility(service.VisibilityAdmin)

// listResources handles GET /admin/v1/resources
func (routes *Routes) listResources(w http.ResponseWriter, r *http.Request) {
	infos, err := routes.service.ListResources(r.Context(), adminView)
	if err != nil {
		common.WriteServiceError(w, r, err)
		return
	}
	common.WriteJSONResponse(w, ResourceListResponse{Resources: infos}, http.StatusOK)
}

// listRecords handles GET /admin/v1/{resource}
func (routes *Routes) listRecords(w http.ResponseWriter, r *http.Request) {
	resource, ok := resourceParam(w, r)
	if !ok {
		return
	}
	result, ok := routes.filteredView(w, r, resource)
	if !ok {
		return
	}
	common.WriteJSONResponse(w, result, http.StatusOK)
}

// listOptions handles GET /admin/v1/{resource}/options
func (routes *Routes) listOptions(w http.ResponseWriter, r *http.Request) {
	resource, ok := resourceParam(w, r)
	if !ok {
		return
	}

	options, err := routes.service.ListFilterOptions(r.Context(), resource, adminView)
	if err != nil {
		common.WriteServiceError(w, r, err)
		return
	}
	common.WriteJSONResponse(w, OptionsResponse{Resource: resource, Options: options}, http.StatusOK)
}

// exportRecords handles GET /admin/v1/{resource}/export.xlsx. The workbook
// holds the same filtered and sorted view as the list endpoint.
func (routes *Routes) exportRecords(w http.ResponseWriter, r *http.Request) {
	resource, ok := resourceParam(w, r)
	if !ok {
		return
	}
	result, ok := routes.filteredView(w, r, resource)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := spreadsheet.Write(&buf, resource, result.Columns, result.Records); err != nil {
		common.WriteServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", spreadsheet.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", resource+".xlsx"))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		logger.Errorf("Failed to write export of %s: %v", resource, err)
	}
}

// importRecords handles POST /admin/v1/{resource}/import.xlsx. Each data row
// is created as a separate record; rows that fail are reported and skipped.
func (routes *Routes) importRecords(w http.ResponseWriter, r *http.Request) {
	resource, ok := resourceParam(w, r)
	if !ok {
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxImportBytes))
	if err != nil {
		common.WriteErrorResponse(w, "failed to read workbook: "+err.Error(), http.StatusBadRequest)
		return
	}
	rows, err := spreadsheet.Read(bytes.NewReader(data))
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp := ImportResponse{Resource: resource, Failed: []ImportFailure{}}
	for _, row := range rows {
		if _, err := routes.service.CreateRecord(r.Context(), resource, row.Record, adminView); err != nil {
			if code := common.StatusForError(err); code == http.StatusNotFound || code == http.StatusMethodNotAllowed {
				common.WriteServiceError(w, r, err)
				return
			}
			resp.Failed = append(resp.Failed, ImportFailure{Row: row.Number, Error: err.Error()})
			continue
		}
		resp.Created++
	}

	logger.Infow("workbook imported", "resource", resource, "created", resp.Created, "failed", len(resp.Failed))
	common.WriteJSONResponse(w, resp, http.StatusOK)
}

// getRecord handles GET /admin/v1/{resource}/{id}
func (routes *Routes) getRecord(w http.ResponseWriter, r *http.Request) {
	resource, id, ok := recordParams(w, r)
	if !ok {
		return
	}

	rec, err := routes.service.GetRecord(r.Context(), resource, id, adminView)
	if err != nil {
		common.WriteServiceError(w, r, err)
		return
	}
	common.WriteJSONResponse(w, rec, http.StatusOK)
}

// createRecord handles POST /admin/v1/{resource}
func (routes *Routes) createRecord(w http.ResponseWriter, r *http.Request) {
	resource, ok := resourceParam(w, r)
	if !ok {
		return
	}
	rec, err := common.DecodeRecordBody(w, r)
	if err != nil {
		common.WriteServiceError(w, r, err)
		return
	}

	created, err := routes.service.CreateRecord(r.Context(), resource, rec, adminView)
	if err != nil {
		common.WriteServiceError(w, r, err)
		return
	}
	common.WriteJSONResponse(w, created, http.StatusCreated)
}

// updateRecord handles PUT /admin/v1/{resource}/{id}
func (routes *Routes) updateRecord(w http.ResponseWriter, r *http.Request) {
	resource, id, ok := recordParams(w, r)
	if !ok {
		return
	}
	rec, err := common.DecodeRecordBody(w, r)
	if err != nil {
		common.WriteServiceError(w, r, err)
		return
	}

	updated, err := routes.service.UpdateRecord(r.Context(), resource, id, rec)
	if err != nil {
		common.WriteServiceError(w, r, err)
		return
	}
	common.WriteJSONResponse(w, updated, http.StatusOK)
}

// deleteRecord handles DELETE /admin/v1/{resource}/{id}
func (routes *Routes) deleteRecord(w http.ResponseWriter, r *http.Request) {
	resource, id, ok := recordParams(w, r)
	if !ok {
		return
	}

	if err := routes.service.DeleteRecord(r.Context(), resource, id); err != nil {
		common.WriteServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// requestSync handles POST /admin/v1/{resource}/sync. The refetch runs in the
// background; the response only confirms it was scheduled.
func (routes *Routes) requestSync(w http.ResponseWriter, r *http.Request) {
	resource, ok := resourceParam(w, r)
	if !ok {
		return
	}

	if err := routes.service.RequestSync(r.Context(), resource); err != nil {
		common.WriteServiceError(w, r, err)
		return
	}
	common.WriteJSONResponse(w, SyncResponse{Resource: resource, Status: "scheduled"}, http.StatusAccepted)
}

func (routes *Routes) filteredView(w http.ResponseWriter, r *http.Request, resource string) (*service.ListResult, bool) {
	opts, err := common.ParseListOptions(r, service.VisibilityAdmin)
	if err != nil {
		common.WriteServiceError(w, r, err)
		return nil, false
	}
	result, err := routes.service.ListRecords(r.Context(), resource, opts...)
	if err != nil {
		common.WriteServiceError(w, r, err)
		return nil, false
	}
	return result, true
}

func resourceParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	resource, err := common.GetAndValidateURLParam(r, "resource")
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return "", false
	}
	return resource, true
}

func recordParams(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	resource, ok := resourceParam(w, r)
	if !ok {
		return "", "", false
	}
	id, err := common.GetAndValidateURLParam(r, "id")
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return "", "", false
	}
	return resource, id, true
}
