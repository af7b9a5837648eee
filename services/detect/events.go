package detect

import "encoding/json"

// publishDetection announces a recorded detection on the bus. Nil-safe and
// fire-and-forget: a missing broker or a failed publish never affects the
// request outcome.
func (a *API) publishDetection(rec DetectHistory, disease Disease) {
	if a.store.Bus == nil {
		return
	}

	payload := map[string]any{
		"detectHistoryId": rec.DetectHistoryID,
		"userId":          rec.UserID,
		"diseaseId":       rec.DiseaseID,
		"diseaseName":     disease.DiseaseName,
		"historyImgUrl":   rec.HistoryImgURL,
		"createdAt":       rec.CreatedAt,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	if err := a.store.Bus.Publish(detectionRecordedSubject, data); err != nil {
		a.logger.Printf("WARN publish detection event: %v", err)
	}
}
