package detect

import (
	"time"

	"github.com/google/uuid"
)

// Disease is one row of the disease catalog. Names are unique and correspond
// 1:1 with the classifier's label table.
type Disease struct {
	DiseaseID          uuid.UUID `json:"diseaseId" db:"disease_id"`
	DiseaseName        string    `json:"diseaseName" db:"disease_name"`
	DiseaseDescription string    `json:"diseaseDescription" db:"disease_description"`
	DiseaseAction      string    `json:"diseaseAction" db:"disease_action"`
}

// DetectHistory is one append-only detection log entry. Rows are created
// exactly once per successful pipeline run and never updated.
type DetectHistory struct {
	DetectHistoryID string    `json:"detectHistoryId" db:"detect_history_id"`
	UserID          string    `json:"userId" db:"user_id"`
	DiseaseID       uuid.UUID `json:"diseaseId" db:"disease_id"`
	HistoryImgURL   string    `json:"historyImgUrl" db:"history_img_url"`
	CreatedAt       time.Time `json:"-" db:"created_at"`
}

// HistoryWithDisease is a history row joined with its catalog metadata, used
// by the per-user lookup.
type HistoryWithDisease struct {
	DetectHistory
	DiseaseName        string `db:"disease_name"`
	DiseaseAction      string `db:"disease_action"`
	DiseaseDescription string `db:"disease_description"`
}

// User is consulted read-only by the history-by-user endpoint.
type User struct {
	UserID    string    `json:"userId" db:"user_id"`
	UserName  string    `json:"userName" db:"user_name"`
	UserEmail string    `json:"userEmail" db:"user_email"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// historyTimeLayout is the wire format for createdAt fields.
const historyTimeLayout = "2006-01-02 15:04:05"
