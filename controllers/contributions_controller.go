package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	config "github.com/mdiallo/cotisation-manager-go/config"
	models "github.com/mdiallo/cotisation-manager-go/models"
	reconcile "github.com/mdiallo/cotisation-manager-go/reconcile"
	utils "github.com/mdiallo/cotisation-manager-go/utils"
)

// parseDueDate accepts RFC3339 or plain YYYY-MM-DD.
func parseDueDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ---------------- CREATE ----------------
func CreateContribution(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Type            string  `json:"type" binding:"required"`
			Description     string  `json:"description"`
			MontantUnitaire float64 `json:"montant_unitaire"`
			DateEcheance    string  `json:"date_echeance"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if input.MontantUnitaire <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "montant_unitaire must be greater than 0"})
			return
		}

		dueDate, err := parseDueDate(input.DateEcheance)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date_echeance"})
			return
		}

		now := time.Now()
		contribution := models.Contribution{
			ID:              primitive.NewObjectID(),
			Type:            input.Type,
			Description:     input.Description,
			MontantUnitaire: input.MontantUnitaire,
			DateEcheance:    dueDate,
			CreatedAt:       now,
			UpdatedAt:       now,
		}

		col := cfg.Collection("cotisations")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if _, err := col.InsertOne(ctx, contribution); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create contribution"})
			return
		}

		c.JSON(http.StatusCreated, contribution)
	}
}

// ---------------- LIST ----------------
func ListContributions(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		col := cfg.Collection("cotisations")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		// descending sort ranks null/missing due dates after dated ones,
		// matching the dashboard's latest-contribution rule
		opts := options.Find().SetSort(bson.D{{Key: "date_echeance", Value: -1}})
		cursor, err := col.Find(ctx, bson.M{}, opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch contributions"})
			return
		}

		var contributions []models.Contribution
		if err := cursor.All(ctx, &contributions); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not decode contributions"})
			return
		}

		if len(contributions) == 0 {
			c.JSON(http.StatusOK, []models.Contribution{})
			return
		}

		latest := contributions[0]
		for _, ctn := range contributions {
			if ctn.UpdatedAt.After(latest.UpdatedAt) {
				latest = ctn
			}
		}
		etag := utils.GenerateETag(latest.ID, latest.UpdatedAt)
		if match := c.GetHeader("If-None-Match"); match != "" && match == etag {
			c.Status(http.StatusNotModified)
			return
		}
		c.Header("ETag", etag)
		c.Header("Last-Modified", latest.UpdatedAt.UTC().Format(http.TimeFormat))

		c.JSON(http.StatusOK, contributions)
	}
}

// ---------------- GET ----------------
func GetContribution(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contribution id"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var contribution models.Contribution
		err = cfg.Collection("cotisations").FindOne(ctx, bson.M{"_id": oid}).Decode(&contribution)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "contribution not found"})
			return
		}

		etag := utils.GenerateETag(contribution.ID, contribution.UpdatedAt)
		if match := c.GetHeader("If-None-Match"); match != "" && match == etag {
			c.Status(http.StatusNotModified)
			return
		}
		c.Header("ETag", etag)

		c.JSON(http.StatusOK, contribution)
	}
}

// ---------------- UPDATE ----------------
func UpdateContribution(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contribution id"})
			return
		}

		var input struct {
			Type            string   `json:"type"`
			Description     string   `json:"description"`
			MontantUnitaire *float64 `json:"montant_unitaire"`
			DateEcheance    *string  `json:"date_echeance"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		update := bson.M{"updated_at": time.Now()}
		unset := bson.M{}
		if input.Type != "" {
			update["type"] = input.Type
		}
		if input.Description != "" {
			update["description"] = input.Description
		}
		if input.MontantUnitaire != nil {
			if *input.MontantUnitaire <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "montant_unitaire must be greater than 0"})
				return
			}
			update["montant_unitaire"] = *input.MontantUnitaire
		}
		if input.DateEcheance != nil {
			// empty string clears the due date
			if *input.DateEcheance == "" {
				unset["date_echeance"] = ""
			} else {
				dueDate, err := parseDueDate(*input.DateEcheance)
				if err != nil {
					c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date_echeance"})
					return
				}
				update["date_echeance"] = dueDate
			}
		}

		if len(update) == 1 && len(unset) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
			return
		}

		change := bson.M{"$set": update}
		if len(unset) > 0 {
			change["$unset"] = unset
		}

		col := cfg.Collection("cotisations")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		res, err := col.UpdateOne(ctx, bson.M{"_id": oid}, change)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update contribution"})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "contribution not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "contribution updated", "id": oid.Hex()})
	}
}

// ---------------- DELETE ----------------
// Payment rows pointing at the deleted contribution are left in place;
// the rollup excludes them from collected totals.
func DeleteContribution(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contribution id"})
			return
		}

		col := cfg.Collection("cotisations")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		res, err := col.DeleteOne(ctx, bson.M{"_id": oid})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete contribution"})
			return
		}
		if res.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "contribution not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "contribution deleted", "id": oid.Hex()})
	}
}

// ---------------- REMINDERS ----------------
// SendContributionReminders emails every unpaid member of a
// contribution who has an address on file.
func SendContributionReminders(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contribution id"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		var contribution models.Contribution
		err = cfg.Collection("cotisations").FindOne(ctx, bson.M{"_id": oid}).Decode(&contribution)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "contribution not found"})
			return
		}

		snapshot, err := fetchSnapshot(ctx, cfg)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		statuses := reconcile.ResolveStatuses(snapshot.Members, snapshot.Payments, oid)

		sent := 0
		skipped := 0
		for _, status := range statuses {
			if status.Paid {
				continue
			}
			if status.Member.Email == "" {
				skipped++
				continue
			}
			body := utils.ReminderEmailBody(status.Member.Prenom, contribution.Type,
				contribution.MontantUnitaire, contribution.DateEcheance)
			name := status.Member.Prenom + " " + status.Member.Nom
			if err := utils.SendEmail(status.Member.Email, name, "Rappel de cotisation", body); err != nil {
				skipped++
				continue
			}
			sent++
		}

		c.JSON(http.StatusOK, gin.H{"sent": sent, "skipped": skipped})
	}
}
