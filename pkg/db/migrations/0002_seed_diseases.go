package migrations

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	"gorm.io/gorm/clause"

	"skinective/pkg/vision"
)

func init() {
	goose.AddMigrationContext(upSeedDiseases, downSeedDiseases)
}

// catalogSeed carries the baseline metadata for every class the model can
// output. Keyed by vision.Labels so a label without seed data fails loudly
// at migration time instead of as a per-request lookup miss.
var catalogSeed = map[string]struct {
	description string
	action      string
}{
	"Cellulitis": {
		description: "A bacterial infection of the deeper layers of skin causing redness, swelling, and warmth, most often on the lower legs.",
		action:      "See a doctor promptly; cellulitis usually requires a course of oral antibiotics. Keep the area elevated and clean.",
	},
	"Impetigo": {
		description: "A highly contagious bacterial skin infection producing red sores that rupture and form honey-colored crusts, common around the nose and mouth.",
		action:      "Consult a doctor for antibiotic ointment or tablets. Avoid scratching and wash hands frequently to limit spread.",
	},
	"Athlete Foot": {
		description: "A fungal infection between the toes and on the soles causing itching, scaling, and cracked skin, thriving in warm damp footwear.",
		action:      "Apply an over-the-counter antifungal cream and keep feet dry. See a doctor if it does not clear within two weeks.",
	},
	"Nail Fungus": {
		description: "A fungal infection of the nail plate leading to thickened, discolored, and brittle nails, usually on the toes.",
		action:      "Use topical antifungal treatment; persistent cases may need prescription oral antifungals. Trim and disinfect nail tools.",
	},
	"Ringworm": {
		description: "A contagious fungal infection of the skin forming an itchy, ring-shaped rash with a clearer center.",
		action:      "Treat with an antifungal cream for two to four weeks. Wash bedding and avoid sharing towels or clothing.",
	},
	"Cutaneous Larva Migrans": {
		description: "A parasitic skin infection from hookworm larvae producing winding, raised, intensely itchy tracks, typically on feet or hands.",
		action:      "See a doctor for antiparasitic medication such as albendazole or ivermectin. Avoid walking barefoot on contaminated soil.",
	},
	"Chickenpox": {
		description: "A viral infection causing an itchy blistering rash with fever, spreading from the trunk to the face and limbs.",
		action:      "Rest, stay hydrated, and relieve itching with calamine lotion. Seek medical care for adults, infants, or severe symptoms.",
	},
	"Shingles": {
		description: "A reactivation of the chickenpox virus causing a painful blistering rash in a band on one side of the body.",
		action:      "See a doctor within 72 hours of rash onset; early antiviral treatment reduces severity and the risk of lingering nerve pain.",
	},
}

func upSeedDiseases(ctx context.Context, tx *sql.Tx) error {
	gormDB, err := openGorm(tx)
	if err != nil {
		return err
	}

	for _, name := range vision.Labels {
		seed, ok := catalogSeed[name]
		if !ok {
			return fmt.Errorf("migrations: no catalog seed for label %s", name)
		}
		row := Disease{
			DiseaseID:          uuid.New(),
			DiseaseName:        name,
			DiseaseDescription: seed.description,
			DiseaseAction:      seed.action,
		}
		if err := gormDB.WithContext(ctx).
			Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "disease_name"}}, DoNothing: true}).
			Create(&row).Error; err != nil {
			return err
		}
	}

	return nil
}

func downSeedDiseases(ctx context.Context, tx *sql.Tx) error {
	gormDB, err := openGorm(tx)
	if err != nil {
		return err
	}

	return gormDB.WithContext(ctx).
		Where("disease_name IN ?", vision.Labels).
		Delete(&Disease{}).Error
}
