// Package regulations exposes the catalog service over HTTP.
package regulations

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"baukatalog/internal/blob"
	"baukatalog/internal/core"
	"baukatalog/pkg/katalog"
)

// Handler provides HTTP access to the regulation catalog.
type Handler struct {
	Service *core.Service
	// Archive serves the raw payloads kept by catalog imports; nil disables
	// the /catalogs routes.
	Archive *blob.CatalogArchive
	// MaxImportBytes caps the import payload size; zero means 64 MiB.
	MaxImportBytes int64
}

// NewHandler constructs a regulation HTTP handler.
func NewHandler(svc *core.Service) *Handler {
	return &Handler{Service: svc}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.Service == nil {
		writeError(w, http.StatusInternalServerError, "regulation service not configured")
		return
	}

	path := strings.TrimSuffix(r.URL.Path, "/")
	switch {
	case r.Method == http.MethodGet && path == "/api/v1/regulations":
		h.handleList(w, r)
	case r.Method == http.MethodGet && strings.HasPrefix(path, "/api/v1/regulations/number/"):
		h.handleByNumber(w, r, strings.TrimPrefix(path, "/api/v1/regulations/number/"))
	case r.Method == http.MethodPost && path == "/api/v1/regulations/zoom":
		h.handleZoom(w, r)
	case r.Method == http.MethodPost && path == "/api/v1/regulations/positions":
		h.handlePositions(w, r)
	case r.Method == http.MethodPost && path == "/api/v1/regulations/import":
		h.handleImport(w, r)
	case r.Method == http.MethodGet && path == "/api/v1/catalogs":
		h.handleCatalogList(w, r)
	case r.Method == http.MethodGet && strings.HasPrefix(path, "/api/v1/catalogs/"):
		h.handleCatalogFetch(w, r, strings.TrimPrefix(path, "/api/v1/catalogs/"))
	default:
		http.NotFound(w, r)
	}
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	q := core.RecordQuery{
		Type:      katalog.EntityType(query.Get("entity_type")),
		ULG:       query.Get("ulg_nr"),
		Grundtext: query.Get("grundtext_nr"),
	}
	if lg := query.Get("lg_nr"); lg != "" {
		q.LGNumbers = strings.Split(lg, ",")
	}
	var err error
	if q.Limit, err = intParam(query.Get("limit")); err != nil {
		writeError(w, http.StatusBadRequest, "invalid limit")
		return
	}
	if q.Offset, err = intParam(query.Get("offset")); err != nil {
		writeError(w, http.StatusBadRequest, "invalid offset")
		return
	}
	records, total, err := h.Service.ListRegulations(r.Context(), q)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if records == nil {
		records = []core.Record{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"regulations": records, "total": total})
}

func (h *Handler) handleByNumber(w http.ResponseWriter, r *http.Request, fullNumber string) {
	if fullNumber == "" {
		http.NotFound(w, r)
		return
	}
	rec, ok, err := h.Service.RegulationByNumber(r.Context(), fullNumber)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "regulation not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"regulation": rec})
}

type zoomRequest struct {
	LG          string `json:"lg_nr"`
	TargetType  string `json:"target_type"`
	TargetValue string `json:"target_value"`
	ULG         string `json:"ulg_nr"`
	Grundtext   string `json:"grundtext_nr"`
}

func (h *Handler) handleZoom(w http.ResponseWriter, r *http.Request) {
	var req zoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid zoom request payload")
		return
	}
	if req.LG == "" || req.TargetType == "" || req.TargetValue == "" {
		writeError(w, http.StatusBadRequest, "lg_nr, target_type and target_value required")
		return
	}
	tree, found, err := h.Service.ZoomEntity(r.Context(), core.ZoomEntityRequest{
		LG:        req.LG,
		Target:    katalog.EntityType(req.TargetType),
		Value:     req.TargetValue,
		ULG:       req.ULG,
		Grundtext: req.Grundtext,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if tree == nil {
		writeError(w, http.StatusNotFound, "lg not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"found": found, "entity": tree})
}

type positionsRequest struct {
	PositionNumbers []string `json:"position_numbers"`
}

func (h *Handler) handlePositions(w http.ResponseWriter, r *http.Request) {
	var req positionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid positions request payload")
		return
	}
	if len(req.PositionNumbers) == 0 {
		writeError(w, http.StatusBadRequest, "position_numbers required")
		return
	}
	trees, err := h.Service.AssemblePositions(r.Context(), req.PositionNumbers)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	// A single LG comes back as one object, several as a list.
	if len(trees) == 1 {
		writeJSON(w, http.StatusOK, trees[0])
		return
	}
	if trees == nil {
		trees = []*core.Object{}
	}
	writeJSON(w, http.StatusOK, trees)
}

func (h *Handler) handleImport(w http.ResponseWriter, r *http.Request) {
	limit := h.MaxImportBytes
	if limit <= 0 {
		limit = 64 << 20
	}
	payload, err := io.ReadAll(io.LimitReader(r.Body, limit+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "unable to read import payload")
		return
	}
	if int64(len(payload)) > limit {
		writeError(w, http.StatusRequestEntityTooLarge, "import payload too large")
		return
	}
	if len(payload) == 0 {
		writeError(w, http.StatusBadRequest, "empty import payload")
		return
	}
	name := r.URL.Query().Get("name")
	summary, err := h.Service.ImportCatalog(r.Context(), name, payload)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"import": summary})
}

func (h *Handler) handleCatalogList(w http.ResponseWriter, r *http.Request) {
	if h.Archive == nil {
		writeError(w, http.StatusNotFound, "catalog archive not configured")
		return
	}
	infos, err := h.Archive.List(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "catalog archive unavailable")
		return
	}
	if infos == nil {
		infos = []blob.Info{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"catalogs": infos})
}

func (h *Handler) handleCatalogFetch(w http.ResponseWriter, r *http.Request, rest string) {
	if h.Archive == nil || rest == "" {
		writeError(w, http.StatusNotFound, "catalog archive not configured")
		return
	}
	payload, err := h.Archive.Fetch(r.Context(), "catalogs/"+rest)
	if errors.Is(err, blob.ErrNotFound) {
		writeError(w, http.StatusNotFound, "archived catalog not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "catalog archive unavailable")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}

func intParam(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, errors.New("invalid integer parameter")
	}
	return n, nil
}

func writeServiceError(w http.ResponseWriter, err error) {
	var (
		formatErr    katalog.InvalidFormatError
		targetErr    katalog.InvalidTargetTypeError
		ambiguousErr katalog.AmbiguousScopeError
		storageErr   katalog.StorageUnavailableError
	)
	switch {
	case errors.As(err, &formatErr), errors.As(err, &targetErr):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &ambiguousErr):
		writeError(w, http.StatusConflict, err.Error())
	case errors.As(err, &storageErr):
		writeError(w, http.StatusServiceUnavailable, "storage unavailable")
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}
