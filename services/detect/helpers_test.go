package detect

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"log"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"skinective/pkg/vision"
)

var errAlwaysFails = errors.New("simulated collaborator failure")

func testJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 90, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

// scoresFor builds an 8-length vector whose argmax is idx.
func scoresFor(idx int) []float32 {
	scores := make([]float32, len(vision.Labels))
	for i := range scores {
		scores[i] = 0.01
	}
	scores[idx] = 0.97
	return scores
}

type fakeClassifier struct {
	scores []float32
	err    error
	calls  int
}

func (f *fakeClassifier) Infer(ctx context.Context, t *vision.Tensor) ([]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.scores, nil
}

type fakeCatalog struct {
	diseases map[string]Disease
	err      error
}

func newFakeCatalog(names ...string) *fakeCatalog {
	c := &fakeCatalog{diseases: make(map[string]Disease)}
	for _, name := range names {
		c.diseases[name] = Disease{
			DiseaseID:          uuid.New(),
			DiseaseName:        name,
			DiseaseDescription: name + " description",
			DiseaseAction:      name + " action",
		}
	}
	return c
}

func (f *fakeCatalog) FindByName(ctx context.Context, name string) (Disease, error) {
	if f.err != nil {
		return Disease{}, f.err
	}
	d, ok := f.diseases[name]
	if !ok {
		return Disease{}, ErrDiseaseNotFound
	}
	return d, nil
}

func (f *fakeCatalog) Names(ctx context.Context) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	names := make([]string, 0, len(f.diseases))
	for name := range f.diseases {
		names = append(names, name)
	}
	return names, nil
}

type fakeArchive struct {
	stored       map[string][]byte
	contentTypes map[string]string
	discarded    []string
	storeErr     error
	discardErr   error
}

func newFakeArchive() *fakeArchive {
	return &fakeArchive{
		stored:       make(map[string][]byte),
		contentTypes: make(map[string]string),
	}
}

func (f *fakeArchive) Store(ctx context.Context, key, contentType string, data []byte) (string, error) {
	if f.storeErr != nil {
		return "", f.storeErr
	}
	f.stored[key] = data
	f.contentTypes[key] = contentType
	return "https://archive.test/" + key, nil
}

func (f *fakeArchive) Discard(ctx context.Context, key string) error {
	if f.discardErr != nil {
		return f.discardErr
	}
	f.discarded = append(f.discarded, key)
	delete(f.stored, key)
	return nil
}

type fakeHistory struct {
	records   []DetectHistory
	catalog   *fakeCatalog
	insertErr error
	listErr   error
}

func (f *fakeHistory) Insert(ctx context.Context, rec DetectHistory) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.records = append(f.records, rec)
	return nil
}

func (f *fakeHistory) ListAll(ctx context.Context) ([]DetectHistory, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]DetectHistory(nil), f.records...), nil
}

func (f *fakeHistory) ListByUser(ctx context.Context, userID string) ([]HistoryWithDisease, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []HistoryWithDisease
	for _, rec := range f.records {
		if rec.UserID != userID {
			continue
		}
		joined := HistoryWithDisease{DetectHistory: rec}
		if f.catalog != nil {
			for _, d := range f.catalog.diseases {
				if d.DiseaseID == rec.DiseaseID {
					joined.DiseaseName = d.DiseaseName
					joined.DiseaseAction = d.DiseaseAction
					joined.DiseaseDescription = d.DiseaseDescription
				}
			}
		}
		out = append(out, joined)
	}
	return out, nil
}

type fakeUsers struct {
	known map[string]bool
	err   error
}

func (f *fakeUsers) Exists(ctx context.Context, userID string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.known[userID], nil
}

type fixture struct {
	classifier *fakeClassifier
	catalog    *fakeCatalog
	archive    *fakeArchive
	history    *fakeHistory
	orch       *Orchestrator
}

func newFixture(scores []float32) *fixture {
	classifier := &fakeClassifier{scores: scores}
	catalog := newFakeCatalog(vision.Labels...)
	archive := newFakeArchive()
	history := &fakeHistory{catalog: catalog}
	orch := NewOrchestrator(classifier, catalog, archive, history, log.New(io.Discard, "", 0))
	orch.now = func() time.Time { return time.Date(2025, 6, 1, 12, 30, 45, 0, time.UTC) }
	return &fixture{
		classifier: classifier,
		catalog:    catalog,
		archive:    archive,
		history:    history,
		orch:       orch,
	}
}

// sequencedIDs makes identifier minting deterministic for a test.
func (f *fixture) sequencedIDs() {
	n := 0
	f.orch.newID = func() (string, error) {
		n++
		return fmt.Sprintf("TESTID%010d", n), nil
	}
}

func validRequest(t *testing.T) Request {
	return Request{
		UserID:      "u1",
		Filename:    "lesion.jpg",
		ContentType: "image/jpeg",
		Image:       testJPEG(t, 512, 512),
		HasFile:     true,
	}
}
