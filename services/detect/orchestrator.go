package detect

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"skinective/pkg/ident"
	"skinective/pkg/vision"
)

// Stage names the pipeline step a detection run last completed. Every stage
// is a possible termination point.
type Stage string

const (
	StageReceived        Stage = "received"
	StageValidated       Stage = "validated"
	StagePreprocessed    Stage = "preprocessed"
	StageInferred        Stage = "inferred"
	StageLabelResolved   Stage = "label_resolved"
	StageDiseaseLookedUp Stage = "disease_looked_up"
	StageArchived        Stage = "archived"
	StagePersisted       Stage = "persisted"
)

// Classifier runs the lesion model on a prepared tensor.
type Classifier interface {
	Infer(ctx context.Context, t *vision.Tensor) ([]float32, error)
}

// DiseaseCatalog resolves canonical disease names to catalog metadata.
type DiseaseCatalog interface {
	FindByName(ctx context.Context, name string) (Disease, error)
	Names(ctx context.Context) ([]string, error)
}

// HistoryStore appends and reads detection history records.
type HistoryStore interface {
	Insert(ctx context.Context, rec DetectHistory) error
	ListAll(ctx context.Context) ([]DetectHistory, error)
	ListByUser(ctx context.Context, userID string) ([]HistoryWithDisease, error)
}

// UserDirectory answers user existence checks on the read path.
type UserDirectory interface {
	Exists(ctx context.Context, userID string) (bool, error)
}

// ImageArchive durably stores uploaded images and returns a retrieval URL.
type ImageArchive interface {
	Store(ctx context.Context, key, contentType string, data []byte) (string, error)
	Discard(ctx context.Context, key string) error
}

// Request is the transient input to one detection run. HasFile distinguishes
// "no file part" from "file part with an empty filename".
type Request struct {
	UserID      string
	Filename    string
	ContentType string
	Image       []byte
	HasFile     bool
}

// Result is the successful outcome of a detection run.
type Result struct {
	History DetectHistory
	Disease Disease
}

// Orchestrator sequences one detection request through validation,
// preprocessing, inference, label resolution, catalog lookup, archiving, and
// persistence. No step retries and no step is idempotent: resubmitting the
// same image mints new identifiers, a new blob, and a new history row.
type Orchestrator struct {
	classifier Classifier
	catalog    DiseaseCatalog
	archive    ImageArchive
	history    HistoryStore
	logger     *log.Logger

	// Swapped out in tests.
	now   func() time.Time
	newID func() (string, error)
}

// NewOrchestrator wires the pipeline's collaborators. All of them are shared
// process-lifetime dependencies injected by the composition root.
func NewOrchestrator(classifier Classifier, catalog DiseaseCatalog, archive ImageArchive, history HistoryStore, logger *log.Logger) *Orchestrator {
	if logger == nil {
		logger = log.Default()
	}
	return &Orchestrator{
		classifier: classifier,
		catalog:    catalog,
		archive:    archive,
		history:    history,
		logger:     logger,
		now:        time.Now,
		newID:      ident.New,
	}
}

// Detect runs the full pipeline for one request. It returns either a Result
// or a single *Error; no partial-success outcome exists. The catalog lookup
// happens before the archive upload, so a missing catalog row leaves no blob
// behind.
func (o *Orchestrator) Detect(ctx context.Context, req Request) (_ *Result, err error) {
	started := o.now()
	defer func() { observeDetection(started, err) }()

	// Validated.
	if !req.HasFile {
		return nil, badRequest(StageValidated, "No file part in the request.")
	}
	if strings.TrimSpace(req.Filename) == "" {
		return nil, badRequest(StageValidated, "No selected file.")
	}

	// Preprocessed.
	tensor, perr := vision.Prepare(req.Image)
	if perr != nil {
		return nil, internal(StagePreprocessed, "Could not decode the uploaded image.", perr)
	}

	// Inferred.
	scores, ierr := o.classifier.Infer(ctx, tensor)
	if ierr != nil {
		return nil, internal(StageInferred, "Classification failed.", ierr)
	}

	// LabelResolved.
	label, lerr := vision.ResolveLabel(scores)
	if lerr != nil {
		return nil, internal(StageLabelResolved, "Classification produced an unusable result.", lerr)
	}

	// DiseaseLookedUp.
	disease, derr := o.catalog.FindByName(ctx, label)
	if derr != nil {
		if errors.Is(derr, ErrDiseaseNotFound) {
			return nil, notFound(StageDiseaseLookedUp, "Disease not found in database.")
		}
		return nil, internal(StageDiseaseLookedUp, "Disease lookup failed.", derr)
	}

	// Archived. The blob name and the history id are independent draws.
	blobName, gerr := o.newID()
	if gerr != nil {
		return nil, internal(StageArchived, "Could not generate an identifier.", gerr)
	}
	blobKey := ArchivePrefix + blobName

	imageURL, aerr := o.archive.Store(ctx, blobKey, req.ContentType, req.Image)
	if aerr != nil {
		return nil, internal(StageArchived, "Could not archive the uploaded image.", aerr)
	}

	// Persisted.
	historyID, gerr := o.newID()
	if gerr != nil {
		o.discardBlob(ctx, blobKey)
		return nil, internal(StagePersisted, "Could not generate an identifier.", gerr)
	}

	rec := DetectHistory{
		DetectHistoryID: historyID,
		UserID:          req.UserID,
		DiseaseID:       disease.DiseaseID,
		HistoryImgURL:   imageURL,
		CreatedAt:       o.now().UTC(),
	}
	if perr := o.history.Insert(ctx, rec); perr != nil {
		o.discardBlob(ctx, blobKey)
		return nil, internal(StagePersisted, "Could not record the detection.", perr)
	}

	return &Result{History: rec, Disease: disease}, nil
}

// discardBlob removes an archived image after a later step failed. Cleanup is
// best effort: a failure here leaves an orphaned but harmless blob, which is
// logged and never surfaced to the caller.
func (o *Orchestrator) discardBlob(ctx context.Context, key string) {
	if err := o.archive.Discard(ctx, key); err != nil {
		o.logger.Printf("WARN orphaned archive blob %s: %v", key, err)
	}
}
