package detect

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// historyItem is one row of GET /detect/history.
type historyItem struct {
	DetectHistoryID string `json:"detectHistoryId"`
	UserID          string `json:"userId"`
	DiseaseID       string `json:"diseaseId"`
	HistoryImgURL   string `json:"historyImgUrl"`
	CreatedAt       string `json:"createdAt"`
}

// historyJoinedItem is one row of GET /detect/history/{userId}.
type historyJoinedItem struct {
	historyItem
	DiseaseName        string `json:"diseaseName"`
	DiseaseAction      string `json:"diseaseAction"`
	DiseaseDescription string `json:"diseaseDescription"`
}

func toHistoryItem(rec DetectHistory) historyItem {
	return historyItem{
		DetectHistoryID: rec.DetectHistoryID,
		UserID:          rec.UserID,
		DiseaseID:       rec.DiseaseID.String(),
		HistoryImgURL:   rec.HistoryImgURL,
		CreatedAt:       rec.CreatedAt.Format(historyTimeLayout),
	}
}

func (a *API) handleHistory(w http.ResponseWriter, r *http.Request) {
	records, err := a.history.ListAll(r.Context())
	if err != nil {
		a.logger.Printf("ERROR list detection history: %v", err)
		respondFail(w, http.StatusInternalServerError, "Could not retrieve detection history.", nil)
		return
	}

	items := make([]historyItem, 0, len(records))
	for _, rec := range records {
		items = append(items, toHistoryItem(rec))
	}

	respondOK(w, http.StatusOK, "Detection history retrieved successfully.", items)
}

func (a *API) handleHistoryByUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	exists, err := a.users.Exists(r.Context(), userID)
	if err != nil {
		a.logger.Printf("ERROR look up user %s: %v", userID, err)
		respondFail(w, http.StatusInternalServerError, "Could not retrieve detection history.", nil)
		return
	}
	if !exists {
		respondFail(w, http.StatusNotFound, fmt.Sprintf("User with ID %s not found.", userID), nil)
		return
	}

	records, err := a.history.ListByUser(r.Context(), userID)
	if err != nil {
		a.logger.Printf("ERROR list detection history for %s: %v", userID, err)
		respondFail(w, http.StatusInternalServerError, "Could not retrieve detection history.", nil)
		return
	}

	if len(records) == 0 {
		// A known user without history is its own outcome: 404 with empty data.
		respondFail(w, http.StatusNotFound,
			fmt.Sprintf("User with ID %s has no detection history.", userID), []historyJoinedItem{})
		return
	}

	items := make([]historyJoinedItem, 0, len(records))
	for _, rec := range records {
		items = append(items, historyJoinedItem{
			historyItem:        toHistoryItem(rec.DetectHistory),
			DiseaseName:        rec.DiseaseName,
			DiseaseAction:      rec.DiseaseAction,
			DiseaseDescription: rec.DiseaseDescription,
		})
	}

	respondOK(w, http.StatusOK,
		fmt.Sprintf("Detection history for userId %s retrieved successfully.", userID), items)
}
