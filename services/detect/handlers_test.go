package detect

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestAPI(t *testing.T, f *fixture, users *fakeUsers) http.Handler {
	t.Helper()
	if users == nil {
		users = &fakeUsers{known: map[string]bool{}}
	}
	api := &API{
		store:        &Store{},
		orchestrator: f.orch,
		catalog:      f.catalog,
		history:      f.history,
		users:        users,
		config:       Config{Bucket: "test-bucket", MaxUploadMB: 10},
		logger:       log.New(io.Discard, "", 0),
	}
	routes, err := api.Routes()
	require.NoError(t, err)
	return routes
}

func multipartBody(t *testing.T, fieldFile bool, filename string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if fieldFile {
		part, err := writer.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	} else {
		require.NoError(t, writer.WriteField("note", "no file here"))
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	return payload
}

func TestHandleDetectNoFilePart(t *testing.T) {
	f := newFixture(scoresFor(2))
	routes := newTestAPI(t, f, nil)

	body, contentType := multipartBody(t, false, "", nil)
	req := httptest.NewRequest(http.MethodPost, "/detect/u1", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	routes.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	payload := decodeEnvelope(t, rec)
	require.Equal(t, false, payload["status"])
	require.Equal(t, "No file part in the request.", payload["message"])
}

func TestHandleDetectNonMultipartBody(t *testing.T) {
	f := newFixture(scoresFor(2))
	routes := newTestAPI(t, f, nil)

	req := httptest.NewRequest(http.MethodPost, "/detect/u1", bytes.NewBufferString("{}"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	routes.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "No file part in the request.", decodeEnvelope(t, rec)["message"])
}

func TestHandleDetectEmptyFilename(t *testing.T) {
	f := newFixture(scoresFor(2))
	routes := newTestAPI(t, f, nil)

	body, contentType := multipartBody(t, true, "", testJPEG(t, 32, 32))
	req := httptest.NewRequest(http.MethodPost, "/detect/u1", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	routes.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "No selected file.", decodeEnvelope(t, rec)["message"])
}

func TestHandleDetectSuccess(t *testing.T) {
	f := newFixture(scoresFor(2))
	routes := newTestAPI(t, f, nil)

	body, contentType := multipartBody(t, true, "lesion.jpg", testJPEG(t, 512, 512))
	req := httptest.NewRequest(http.MethodPost, "/detect/u1", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	routes.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	payload := decodeEnvelope(t, rec)
	require.Equal(t, true, payload["status"])
	require.Equal(t, "Disease Detected", payload["message"])

	data, ok := payload["data"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "Athlete Foot", data["diseaseName"])
	require.Equal(t, "Athlete Foot action", data["diseaseAction"])
	require.Equal(t, "Athlete Foot description", data["diseaseDescription"])
	require.Len(t, data["detectHistoryId"], 16)

	require.Len(t, f.history.records, 1)
	require.Equal(t, "u1", f.history.records[0].UserID)
}

func TestHandleDetectCatalogMiss(t *testing.T) {
	f := newFixture(scoresFor(2))
	delete(f.catalog.diseases, "Athlete Foot")
	routes := newTestAPI(t, f, nil)

	body, contentType := multipartBody(t, true, "lesion.jpg", testJPEG(t, 64, 64))
	req := httptest.NewRequest(http.MethodPost, "/detect/u1", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	routes.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "Disease not found in database.", decodeEnvelope(t, rec)["message"])
}

func TestHandleDetectInternalErrorIsGeneric(t *testing.T) {
	f := newFixture(scoresFor(2))
	f.archive.storeErr = errAlwaysFails
	routes := newTestAPI(t, f, nil)

	body, contentType := multipartBody(t, true, "lesion.jpg", testJPEG(t, 64, 64))
	req := httptest.NewRequest(http.MethodPost, "/detect/u1", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	routes.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	payload := decodeEnvelope(t, rec)
	require.Equal(t, false, payload["status"])
	// The raw cause stays out of the response body.
	require.NotContains(t, rec.Body.String(), errAlwaysFails.Error())
	require.Equal(t, "Could not archive the uploaded image.", payload["message"])
}

func TestHandleHistory(t *testing.T) {
	f := newFixture(scoresFor(1))
	_, err := f.orch.Detect(t.Context(), validRequest(t))
	require.NoError(t, err)

	routes := newTestAPI(t, f, nil)
	req := httptest.NewRequest(http.MethodGet, "/detect/history", nil)
	rec := httptest.NewRecorder()
	routes.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	payload := decodeEnvelope(t, rec)
	require.Equal(t, true, payload["status"])
	require.Equal(t, "Detection history retrieved successfully.", payload["message"])

	data, ok := payload["data"].([]any)
	require.True(t, ok)
	require.Len(t, data, 1)
	row := data[0].(map[string]any)
	require.Equal(t, "u1", row["userId"])
	require.Equal(t, "2025-06-01 12:30:45", row["createdAt"])
	// The plain listing carries no disease join.
	require.NotContains(t, row, "diseaseName")

	created, perr := time.Parse(historyTimeLayout, row["createdAt"].(string))
	require.NoError(t, perr)
	require.False(t, created.IsZero())
}

func TestHandleHistoryByUserUnknown(t *testing.T) {
	f := newFixture(scoresFor(1))
	routes := newTestAPI(t, f, &fakeUsers{known: map[string]bool{}})

	req := httptest.NewRequest(http.MethodGet, "/detect/history/unknown-user", nil)
	rec := httptest.NewRecorder()
	routes.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	payload := decodeEnvelope(t, rec)
	require.Equal(t, false, payload["status"])
	require.Contains(t, payload["message"], "unknown-user")
	require.NotContains(t, payload, "data")
}

func TestHandleHistoryByUserEmpty(t *testing.T) {
	f := newFixture(scoresFor(1))
	routes := newTestAPI(t, f, &fakeUsers{known: map[string]bool{"u2": true}})

	req := httptest.NewRequest(http.MethodGet, "/detect/history/u2", nil)
	rec := httptest.NewRecorder()
	routes.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	payload := decodeEnvelope(t, rec)
	require.Contains(t, payload["message"], "u2")
	require.Contains(t, payload["message"], "has no detection history")

	data, ok := payload["data"].([]any)
	require.True(t, ok)
	require.Empty(t, data)
}

func TestHandleHistoryByUserJoined(t *testing.T) {
	f := newFixture(scoresFor(7))
	_, err := f.orch.Detect(t.Context(), validRequest(t))
	require.NoError(t, err)

	routes := newTestAPI(t, f, &fakeUsers{known: map[string]bool{"u1": true}})
	req := httptest.NewRequest(http.MethodGet, "/detect/history/u1", nil)
	rec := httptest.NewRecorder()
	routes.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	payload := decodeEnvelope(t, rec)
	require.Equal(t, true, payload["status"])

	data := payload["data"].([]any)
	require.Len(t, data, 1)
	row := data[0].(map[string]any)
	require.Equal(t, "Shingles", row["diseaseName"])
	require.Equal(t, "Shingles action", row["diseaseAction"])
	require.Equal(t, "Shingles description", row["diseaseDescription"])
	require.Equal(t, "u1", row["userId"])
}

func TestHandleHome(t *testing.T) {
	f := newFixture(nil)
	routes := newTestAPI(t, f, nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	routes.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var payload map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.NotEmpty(t, payload["message"])
}
