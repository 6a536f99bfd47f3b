package core

import (
	"context"
	"time"

	"baukatalog/pkg/katalog"
)

// Service exposes the catalog operations consumed by the API boundary. All
// tree results are canonicalized before being handed back. Every operation is
// traced and measured; diagnostic notes from the filters surface as warn-level
// log entries instead of errors.
type Service struct {
	store   Store
	archive PayloadArchive
	logger  Logger
	metrics MetricsRecorder
	tracer  Tracer
}

// NewService constructs a service backed by the supplied store.
func NewService(store Store, opts ...ServiceOption) *Service {
	s := &Service{
		store:   store,
		logger:  noopLogger{},
		metrics: noopMetricsRecorder{},
		tracer:  noopTracer{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store returns the backing store.
func (s *Service) Store() Store { return s.store }

func (s *Service) instrument(ctx context.Context, operation string, fn func(context.Context) error) error {
	ctx, span := s.tracer.Start(ctx, operation)
	start := time.Now()
	err := fn(ctx)
	s.metrics.Observe(ctx, operation, err == nil, time.Since(start))
	span.End(err)
	return err
}

func (s *Service) logNotes(operation string, notes []string) {
	for _, note := range notes {
		s.logger.Warn(note, "operation", operation)
	}
}

// RegulationByNumber fetches a single stored row by its full number and
// returns its embedded subtree as persisted at ingestion time. This read mode
// never rejoins children; callers wanting fresh joins use AssemblePositions.
func (s *Service) RegulationByNumber(ctx context.Context, fullNumber string) (Record, bool, error) {
	var (
		rec   Record
		found bool
	)
	err := s.instrument(ctx, "regulation_by_number", func(ctx context.Context) error {
		if !validFullNumber(fullNumber) {
			return katalog.InvalidFormatError{Input: fullNumber}
		}
		var err error
		rec, found, err = s.store.GetByFullNumber(ctx, fullNumber)
		if err != nil {
			return katalog.StorageUnavailableError{Op: "get by full number", Err: err}
		}
		if !found {
			s.logger.Debug("no regulation for full number", "full_nr", fullNumber)
		}
		return nil
	})
	return rec, found, err
}

// ListRegulations returns the matching rows plus the unpaginated total.
func (s *Service) ListRegulations(ctx context.Context, q RecordQuery) ([]Record, int, error) {
	var (
		records []Record
		total   int
	)
	err := s.instrument(ctx, "list_regulations", func(ctx context.Context) error {
		var err error
		records, err = s.store.List(ctx, q)
		if err != nil {
			return katalog.StorageUnavailableError{Op: "list regulations", Err: err}
		}
		total, err = s.store.Count(ctx, q)
		if err != nil {
			return katalog.StorageUnavailableError{Op: "count regulations", Err: err}
		}
		return nil
	})
	return records, total, err
}

// ZoomEntityRequest addresses one child entity inside a stored LG subtree.
type ZoomEntityRequest struct {
	LG        string
	Target    EntityType
	Value     string
	ULG       string
	Grundtext string
}

// ZoomEntity loads the LG row and prunes its embedded subtree to the single
// requested entity. When the request carries no scope and the target value
// occurs under more than one branch, the call fails with AmbiguousScopeError
// rather than silently picking the first branch. A missing target yields
// found=false with the containers emptied, never an error.
func (s *Service) ZoomEntity(ctx context.Context, req ZoomEntityRequest) (*Object, bool, error) {
	var (
		result *Object
		found  bool
	)
	err := s.instrument(ctx, "zoom_entity", func(ctx context.Context) error {
		rec, ok, err := s.store.GetByFullNumber(ctx, req.LG)
		if err != nil {
			return katalog.StorageUnavailableError{Op: "get lg", Err: err}
		}
		if !ok || rec.Document == nil {
			s.logger.Debug("lg not found", "lg_nr", req.LG)
			return nil
		}
		zreq := ZoomRequest{Target: req.Target, Value: req.Value, ULG: req.ULG, Grundtext: req.Grundtext}
		candidates := ZoomCandidates(rec.Document, rec.Type, zreq)
		if candidates > 1 && unscoped(req) {
			return katalog.AmbiguousScopeError{Target: req.Target, Value: req.Value, Candidates: candidates}
		}
		tree, notes, err := Zoom(rec.Document, rec.Type, zreq)
		if err != nil {
			return err
		}
		s.logNotes("zoom_entity", notes)
		result = Canonicalize(tree)
		found = candidates > 0
		return nil
	})
	return result, found, err
}

func unscoped(req ZoomEntityRequest) bool {
	switch req.Target {
	case EntityGrundtext:
		return req.ULG == ""
	case EntityFolgeposition:
		return req.ULG == "" || req.Grundtext == ""
	default:
		return false
	}
}

// KeepPositions filters a caller-supplied LG subtree down to the given
// position numbers. Malformed numbers and numbers pointing at missing
// branches are skipped with a logged warning.
func (s *Service) KeepPositions(ctx context.Context, lgRoot *Object, positions []string) (*Object, error) {
	var result *Object
	err := s.instrument(ctx, "keep_positions", func(context.Context) error {
		codes, notes := ParsePositionList(positions)
		tree, keepNotes := KeepPositions(lgRoot, codes)
		s.logNotes("keep_positions", append(notes, keepNotes...))
		result = Canonicalize(tree)
		return nil
	})
	return result, err
}

// AssemblePositions rebuilds the requested positions from stored rows, one
// subtree per LG, ordered by LG number.
func (s *Service) AssemblePositions(ctx context.Context, positions []string) ([]*Object, error) {
	var results []*Object
	err := s.instrument(ctx, "assemble_positions", func(ctx context.Context) error {
		trees, notes, err := AssemblePositions(ctx, s.store, positions)
		if err != nil {
			return err
		}
		s.logNotes("assemble_positions", notes)
		results = make([]*Object, len(trees))
		for i, tree := range trees {
			results[i] = Canonicalize(tree)
		}
		return nil
	})
	return results, err
}

// ImportSummary reports the outcome of a catalog import.
type ImportSummary struct {
	LGs        int    `json:"lgs"`
	Records    int    `json:"records"`
	ArchiveKey string `json:"archive_key,omitempty"`
}

// ImportCatalog ingests a raw catalog payload: the original bytes are
// archived first, then one row per node is persisted. An archive failure is
// logged but does not block ingestion.
func (s *Service) ImportCatalog(ctx context.Context, name string, payload []byte) (ImportSummary, error) {
	var summary ImportSummary
	err := s.instrument(ctx, "import_catalog", func(ctx context.Context) error {
		catalog, err := katalog.DecodeDocumentList(payload)
		if err != nil {
			single, serr := katalog.DecodeDocument(payload)
			if serr != nil {
				return katalog.InvalidFormatError{Input: "catalog payload"}
			}
			catalog = []*Object{single}
		}
		if s.archive != nil {
			key, err := s.archive.Archive(ctx, name, payload)
			if err != nil {
				s.logger.Warn("catalog archive failed", "error", err)
			} else {
				summary.ArchiveKey = key
			}
		}
		records := BuildRecords(catalog)
		if err := s.store.PutRecords(ctx, records); err != nil {
			return katalog.StorageUnavailableError{Op: "put records", Err: err}
		}
		summary.LGs = len(catalog)
		summary.Records = len(records)
		s.logger.Info("catalog imported", "lgs", summary.LGs, "records", summary.Records)
		return nil
	})
	return summary, err
}

// validFullNumber accepts the stored full-number forms: an LG prefix (2
// digits), a ULG prefix (4), a Grundtext (6), or a Folgeposition (6 digits
// plus one uppercase letter).
func validFullNumber(text string) bool {
	digits := len(text)
	if digits == 7 {
		if text[6] < 'A' || text[6] > 'Z' {
			return false
		}
		digits = 6
	}
	if digits != 2 && digits != 4 && digits != 6 {
		return false
	}
	for i := 0; i < digits; i++ {
		if text[i] < '0' || text[i] > '9' {
			return false
		}
	}
	return true
}
