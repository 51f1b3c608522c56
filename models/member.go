package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Member struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Nom       string             `bson:"nom" json:"nom"`
	Prenom    string             `bson:"prenom" json:"prenom"`
	Telephone string             `bson:"telephone,omitempty" json:"telephone,omitempty"`
	Email     string             `bson:"email,omitempty" json:"email,omitempty"`
	PhotoURL  string             `bson:"photo_url,omitempty" json:"photo_url,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}
