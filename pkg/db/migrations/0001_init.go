// Package migrations holds the embedded schema history for the detection
// service. Each migration is Go code so the schema can be expressed with the
// same model structs the service reasons about.
package migrations

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

func init() {
	goose.AddMigrationContext(upInit, downInit)
}

// Disease is one row of the catalog the classifier labels resolve against.
// diseaseName is unique; the label table and this catalog stay 1:1.
type Disease struct {
	DiseaseID          uuid.UUID `gorm:"column:disease_id;type:uuid;primaryKey"`
	DiseaseName        string    `gorm:"column:disease_name;type:text;uniqueIndex;not null"`
	DiseaseDescription string    `gorm:"column:disease_description;type:text;not null"`
	DiseaseAction      string    `gorm:"column:disease_action;type:text;not null"`
}

// User is consulted read-only by the history-by-user lookup. The detection
// pipeline itself never validates against it.
type User struct {
	UserID    string    `gorm:"column:user_id;type:text;primaryKey"`
	UserName  string    `gorm:"column:user_name;type:text"`
	UserEmail string    `gorm:"column:user_email;type:text;uniqueIndex"`
	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz;not null;default:now();autoCreateTime"`
}

// DetectHistory is the append-only detection log. Rows are never updated or
// deleted by the service.
type DetectHistory struct {
	DetectHistoryID string    `gorm:"column:detect_history_id;type:varchar(16);primaryKey"`
	UserID          string    `gorm:"column:user_id;type:text;not null;index"`
	DiseaseID       uuid.UUID `gorm:"column:disease_id;type:uuid;not null"`
	HistoryImgURL   string    `gorm:"column:history_img_url;type:text;not null"`
	CreatedAt       time.Time `gorm:"column:created_at;type:timestamptz;not null"`
	Disease         Disease   `gorm:"foreignKey:DiseaseID;references:DiseaseID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

func openGorm(tx *sql.Tx) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{Conn: tx, PreferSimpleProtocol: true}), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{SingularTable: false},
		Logger:         logger.Default.LogMode(logger.Silent),
	})
}

func upInit(ctx context.Context, tx *sql.Tx) error {
	gormDB, err := openGorm(tx)
	if err != nil {
		return err
	}

	if err := gormDB.WithContext(ctx).AutoMigrate(
		&Disease{},
		&User{},
		&DetectHistory{},
	); err != nil {
		return err
	}

	return gormDB.WithContext(ctx).Migrator().CreateConstraint(&DetectHistory{}, "Disease")
}

func downInit(ctx context.Context, tx *sql.Tx) error {
	gormDB, err := openGorm(tx)
	if err != nil {
		return err
	}

	return gormDB.WithContext(ctx).Migrator().DropTable(
		&DetectHistory{},
		&User{},
		&Disease{},
	)
}
