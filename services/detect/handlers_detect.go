package detect

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// detectData is the success payload of POST /detect/{userId}.
type detectData struct {
	DetectHistoryID    string `json:"detectHistoryId"`
	DiseaseName        string `json:"diseaseName"`
	DiseaseAction      string `json:"diseaseAction"`
	DiseaseDescription string `json:"diseaseDescription"`
}

func (a *API) handleDetect(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	req := Request{UserID: userID}

	if err := r.ParseMultipartForm(a.config.MaxUploadMB << 20); err == nil {
		if file, header, ferr := r.FormFile("file"); ferr == nil {
			req.HasFile = true
			req.Filename = header.Filename
			req.ContentType = header.Header.Get("Content-Type")

			data, rerr := io.ReadAll(file)
			file.Close()
			if rerr != nil {
				respondFail(w, http.StatusInternalServerError, "Could not read the uploaded file.", nil)
				return
			}
			req.Image = data
		} else if _, ok := r.MultipartForm.Value["file"]; ok {
			// A part named "file" with an empty filename parses as a form
			// value, not a file. It still counts as a present file part so
			// validation reports the empty filename, not a missing part.
			req.HasFile = true
		}
	}

	result, err := a.orchestrator.Detect(r.Context(), req)
	if err != nil {
		a.respondPipelineError(w, err)
		return
	}

	a.publishDetection(result.History, result.Disease)

	respondOK(w, http.StatusOK, "Disease Detected", detectData{
		DetectHistoryID:    result.History.DetectHistoryID,
		DiseaseName:        result.Disease.DiseaseName,
		DiseaseAction:      result.Disease.DiseaseAction,
		DiseaseDescription: result.Disease.DiseaseDescription,
	})
}

// respondPipelineError maps a tagged pipeline error onto the wire. Only the
// kind and its stable message cross the trust boundary; the underlying cause
// is logged here and nowhere else.
func (a *API) respondPipelineError(w http.ResponseWriter, err error) {
	var derr *Error
	if !errors.As(err, &derr) {
		a.logger.Printf("ERROR detection pipeline: %v", err)
		respondFail(w, http.StatusInternalServerError, "Detection failed.", nil)
		return
	}

	switch derr.Kind {
	case KindBadRequest:
		respondFail(w, http.StatusBadRequest, derr.Message, nil)
	case KindNotFound:
		a.logger.Printf("WARN detection pipeline stage=%s: %s", derr.Stage, derr.Message)
		respondFail(w, http.StatusNotFound, derr.Message, nil)
	default:
		a.logger.Printf("ERROR detection pipeline stage=%s: %v", derr.Stage, derr.Cause)
		respondFail(w, http.StatusInternalServerError, derr.Message, nil)
	}
}
