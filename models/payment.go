package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment links one member to one contribution. At most one row exists
// per (membre_id, cotisation_id) pair; toggling a status updates the
// existing row in place. DatePaiement is nil whenever Payer is false.
type Payment struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	MembreID     primitive.ObjectID `bson:"membre_id" json:"membre_id"`
	CotisationID primitive.ObjectID `bson:"cotisation_id" json:"cotisation_id"`
	Payer        bool               `bson:"payer" json:"payer"`
	DatePaiement *time.Time         `bson:"date_paiement,omitempty" json:"date_paiement"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}

// PaymentWithLinks is a payment enriched with its member and
// contribution, used for report rendering only.
type PaymentWithLinks struct {
	Payment    `bson:",inline"`
	Membre     *Member       `bson:"membre,omitempty" json:"membre,omitempty"`
	Cotisation *Contribution `bson:"cotisation,omitempty" json:"cotisation,omitempty"`
}
