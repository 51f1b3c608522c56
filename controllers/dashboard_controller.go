package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	config "github.com/mdiallo/cotisation-manager-go/config"
	models "github.com/mdiallo/cotisation-manager-go/models"
	reconcile "github.com/mdiallo/cotisation-manager-go/reconcile"
)

// ---------------- DASHBOARD ----------------
// GetDashboard summarizes one contribution: the one passed as
// ?cotisation_id, else the one with the latest due date.
func GetDashboard(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		snapshot, err := fetchSnapshot(ctx, cfg)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		var contribution *models.Contribution
		if id := c.Query("cotisation_id"); id != "" {
			contribution = findContribution(snapshot, id)
		} else {
			contribution = reconcile.LatestContribution(snapshot.Contributions)
		}

		summary := reconcile.Summarize(snapshot.Members, snapshot.Payments, contribution)

		var statuses []models.MemberPaymentStatus
		if contribution != nil {
			statuses = reconcile.ResolveStatuses(snapshot.Members, snapshot.Payments, contribution.ID)
		}

		c.JSON(http.StatusOK, gin.H{
			"total_members": len(snapshot.Members),
			"contribution":  contribution,
			"summary":       summary,
			"statuses":      statuses,
		})
	}
}
