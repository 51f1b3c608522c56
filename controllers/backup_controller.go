package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	config "github.com/mdiallo/cotisation-manager-go/config"
	models "github.com/mdiallo/cotisation-manager-go/models"
)

// ---------------- EXPORT ----------------
// ExportBackup dumps the three collections as one JSON document, the
// same shape the mobile app writes to its backup file.
func ExportBackup(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		snapshot, err := fetchSnapshot(ctx, cfg)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.Header("Content-Disposition",
			`attachment; filename="backup_`+time.Now().Format("2006-01-02")+`.json"`)
		c.JSON(http.StatusOK, gin.H{
			"exported_at": time.Now().UTC(),
			"membres":     snapshot.Members,
			"cotisations": snapshot.Contributions,
			"paiements":   snapshot.Payments,
		})
	}
}

// ---------------- RESTORE ----------------
// RestoreBackup replaces the three collections with a previously
// exported document. All-or-nothing per collection: a failed insert
// aborts before later collections are touched.
func RestoreBackup(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Membres     []models.Member       `json:"membres"`
			Cotisations []models.Contribution `json:"cotisations"`
			Paiements   []models.Payment      `json:"paiements"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if input.Membres == nil && input.Cotisations == nil && input.Paiements == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "empty backup document"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		type batch struct {
			collection string
			docs       []interface{}
		}

		batches := []batch{
			{"membres", toDocs(input.Membres)},
			{"cotisations", toDocs(input.Cotisations)},
			{"paiements", toDocs(input.Paiements)},
		}

		for _, b := range batches {
			col := cfg.Collection(b.collection)
			if _, err := col.DeleteMany(ctx, bson.M{}); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{
					"error":      "failed to clear collection",
					"collection": b.collection,
				})
				return
			}
			if len(b.docs) == 0 {
				continue
			}
			if _, err := col.InsertMany(ctx, b.docs); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{
					"error":      "failed to restore collection",
					"collection": b.collection,
				})
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"message":     "backup restored",
			"membres":     len(input.Membres),
			"cotisations": len(input.Cotisations),
			"paiements":   len(input.Paiements),
		})
	}
}

func toDocs[T any](rows []T) []interface{} {
	docs := make([]interface{}, len(rows))
	for i := range rows {
		docs[i] = rows[i]
	}
	return docs
}
