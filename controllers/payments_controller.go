package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	config "github.com/mdiallo/cotisation-manager-go/config"
	models "github.com/mdiallo/cotisation-manager-go/models"
	reconcile "github.com/mdiallo/cotisation-manager-go/reconcile"
)

// ---------------- LIST ----------------
func ListPayments(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		col := cfg.Collection("paiements")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		// --- Build filter ---
		filter := bson.M{}
		if membreID := c.Query("membre_id"); membreID != "" {
			if oid, err := primitive.ObjectIDFromHex(membreID); err == nil {
				filter["membre_id"] = oid
			}
		}
		if cotisationID := c.Query("cotisation_id"); cotisationID != "" {
			if oid, err := primitive.ObjectIDFromHex(cotisationID); err == nil {
				filter["cotisation_id"] = oid
			}
		}
		if payer := c.Query("payer"); payer != "" {
			filter["payer"] = payer == "true"
		}

		cursor, err := col.Find(ctx, filter)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch payments"})
			return
		}

		var payments []models.Payment
		if err := cursor.All(ctx, &payments); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not decode payments"})
			return
		}
		if payments == nil {
			payments = []models.Payment{}
		}

		c.JSON(http.StatusOK, payments)
	}
}

// ---------------- LIST WITH LINKS ----------------
// ListPaymentsJoined returns payments enriched with their member and
// contribution, for report rendering.
func ListPaymentsJoined(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		col := cfg.Collection("paiements")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		pipeline := mongo.Pipeline{
			{{Key: "$lookup", Value: bson.M{
				"from":         "membres",
				"localField":   "membre_id",
				"foreignField": "_id",
				"as":           "membre",
			}}},
			{{Key: "$unwind", Value: bson.M{"path": "$membre", "preserveNullAndEmptyArrays": true}}},
			{{Key: "$lookup", Value: bson.M{
				"from":         "cotisations",
				"localField":   "cotisation_id",
				"foreignField": "_id",
				"as":           "cotisation",
			}}},
			{{Key: "$unwind", Value: bson.M{"path": "$cotisation", "preserveNullAndEmptyArrays": true}}},
		}

		cursor, err := col.Aggregate(ctx, pipeline)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch payments"})
			return
		}

		var payments []models.PaymentWithLinks
		if err := cursor.All(ctx, &payments); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not decode payments"})
			return
		}
		if payments == nil {
			payments = []models.PaymentWithLinks{}
		}

		c.JSON(http.StatusOK, payments)
	}
}

// ---------------- SET STATUS ----------------
// SetPaymentStatus toggles one member's paid flag for one
// contribution. The existing row, if any, is updated in place so the
// pair never gets a second row. Last write wins on concurrent toggles.
func SetPaymentStatus(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			MembreID     string  `json:"membre_id" binding:"required"`
			CotisationID string  `json:"cotisation_id" binding:"required"`
			Payer        *bool   `json:"payer" binding:"required"`
			DatePaiement *string `json:"date_paiement"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		membreID, err := primitive.ObjectIDFromHex(input.MembreID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid membre_id"})
			return
		}
		cotisationID, err := primitive.ObjectIDFromHex(input.CotisationID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid cotisation_id"})
			return
		}

		var explicitDate *time.Time
		if input.DatePaiement != nil && *input.DatePaiement != "" {
			parsed, err := parseDueDate(*input.DatePaiement)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date_paiement"})
				return
			}
			explicitDate = parsed
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		// both references must exist before any write
		if err := cfg.Collection("membres").FindOne(ctx, bson.M{"_id": membreID}).Err(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "member not found"})
			return
		}
		if err := cfg.Collection("cotisations").FindOne(ctx, bson.M{"_id": cotisationID}).Err(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "contribution not found"})
			return
		}

		col := cfg.Collection("paiements")

		// resolve the existing row for the pair; this lookup is what
		// keeps the one-row-per-pair invariant
		var existingID *primitive.ObjectID
		var existing models.Payment
		err = col.FindOne(ctx, bson.M{"membre_id": membreID, "cotisation_id": cotisationID}).Decode(&existing)
		switch {
		case err == nil:
			existingID = &existing.ID
		case err == mongo.ErrNoDocuments:
			// first toggle for this pair, plan a create
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		change := reconcile.PlanStatusChange(existingID, membreID, cotisationID, *input.Payer, explicitDate, time.Now())

		now := time.Now()
		switch change.Op {
		case reconcile.OpUpdate:
			update := bson.M{"$set": bson.M{
				"payer":      change.Payer,
				"updated_at": now,
			}}
			if change.DatePaiement != nil {
				update["$set"].(bson.M)["date_paiement"] = change.DatePaiement
			} else {
				update["$unset"] = bson.M{"date_paiement": ""}
			}
			if _, err := col.UpdateOne(ctx, bson.M{"_id": change.PaymentID}, update); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
		case reconcile.OpCreate:
			payment := models.Payment{
				ID:           primitive.NewObjectID(),
				MembreID:     change.MembreID,
				CotisationID: change.CotisationID,
				Payer:        change.Payer,
				DatePaiement: change.DatePaiement,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			if _, err := col.InsertOne(ctx, payment); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
		}

		// re-read so the response reflects stored state, not the plan
		var stored models.Payment
		err = col.FindOne(ctx, bson.M{"membre_id": membreID, "cotisation_id": cotisationID}).Decode(&stored)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not reload payment"})
			return
		}

		c.JSON(http.StatusOK, stored)
	}
}

// ---------------- STATUS GRID ----------------
// GetContributionStatuses returns one paid/unpaid line per member for
// the payment grid of one contribution.
func GetContributionStatuses(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contribution id"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		snapshot, err := fetchSnapshot(ctx, cfg)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		contribution := findContribution(snapshot, oid.Hex())
		if contribution == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "contribution not found"})
			return
		}

		statuses := reconcile.ResolveStatuses(snapshot.Members, snapshot.Payments, oid)
		c.JSON(http.StatusOK, gin.H{
			"contribution": contribution,
			"statuses":     statuses,
		})
	}
}

// ---------------- SUMMARY ----------------
func GetContributionSummary(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contribution id"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		snapshot, err := fetchSnapshot(ctx, cfg)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		// unknown id yields the zero summary, not an error
		contribution := findContribution(snapshot, oid.Hex())
		summary := reconcile.Summarize(snapshot.Members, snapshot.Payments, contribution)

		c.JSON(http.StatusOK, gin.H{
			"contribution": contribution,
			"summary":      summary,
		})
	}
}
