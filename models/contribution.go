package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Contribution is a recurring due definition (a "cotisation"). Every
// member is expected to pay MontantUnitaire once per contribution.
type Contribution struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Type            string             `bson:"type" json:"type"`
	Description     string             `bson:"description,omitempty" json:"description,omitempty"`
	MontantUnitaire float64            `bson:"montant_unitaire" json:"montant_unitaire"`
	DateEcheance    *time.Time         `bson:"date_echeance,omitempty" json:"date_echeance"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updated_at"`
}
