package controllers

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	config "github.com/mdiallo/cotisation-manager-go/config"
	models "github.com/mdiallo/cotisation-manager-go/models"
	reconcile "github.com/mdiallo/cotisation-manager-go/reconcile"
)

// fetchSnapshot reads all three collections in one pass so the derived
// views are computed over a single consistent-enough read. Handlers
// call it again after every write instead of patching local state.
func fetchSnapshot(ctx context.Context, cfg *config.Config) (reconcile.Snapshot, error) {
	var snapshot reconcile.Snapshot

	cursor, err := cfg.Collection("membres").Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "nom", Value: 1}, {Key: "prenom", Value: 1}}))
	if err != nil {
		return snapshot, fmt.Errorf("could not fetch members: %w", err)
	}
	if err := cursor.All(ctx, &snapshot.Members); err != nil {
		return snapshot, fmt.Errorf("could not decode members: %w", err)
	}

	cursor, err = cfg.Collection("cotisations").Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "date_echeance", Value: -1}}))
	if err != nil {
		return snapshot, fmt.Errorf("could not fetch contributions: %w", err)
	}
	if err := cursor.All(ctx, &snapshot.Contributions); err != nil {
		return snapshot, fmt.Errorf("could not decode contributions: %w", err)
	}

	cursor, err = cfg.Collection("paiements").Find(ctx, bson.M{})
	if err != nil {
		return snapshot, fmt.Errorf("could not fetch payments: %w", err)
	}
	if err := cursor.All(ctx, &snapshot.Payments); err != nil {
		return snapshot, fmt.Errorf("could not decode payments: %w", err)
	}

	return snapshot, nil
}

// findContribution looks a contribution up in the snapshot, nil when
// it is not there.
func findContribution(snapshot reconcile.Snapshot, id string) *models.Contribution {
	for i := range snapshot.Contributions {
		if snapshot.Contributions[i].ID.Hex() == id {
			return &snapshot.Contributions[i]
		}
	}
	return nil
}
