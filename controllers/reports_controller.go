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

type contributionReport struct {
	Contribution models.Contribution   `json:"contribution"`
	Summary      models.PaymentSummary `json:"summary"`
}

// ---------------- REPORT ----------------
// GetReports returns the global rollup plus one summary per
// contribution, contributions ordered latest due date first.
func GetReports(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		snapshot, err := fetchSnapshot(ctx, cfg)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		report := reconcile.Rollup(snapshot.Members, snapshot.Contributions, snapshot.Payments)

		summaries := make([]contributionReport, 0, len(snapshot.Contributions))
		for i := range snapshot.Contributions {
			contribution := snapshot.Contributions[i]
			summaries = append(summaries, contributionReport{
				Contribution: contribution,
				Summary:      reconcile.Summarize(snapshot.Members, snapshot.Payments, &contribution),
			})
		}

		c.JSON(http.StatusOK, gin.H{
			"report":        report,
			"contributions": summaries,
		})
	}
}

// ---------------- EXPORT ----------------
// ExportReport produces the structured document handed to the export
// sink: report title, rollup stats and the full tables.
func ExportReport(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		snapshot, err := fetchSnapshot(ctx, cfg)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		report := reconcile.Rollup(snapshot.Members, snapshot.Contributions, snapshot.Payments)

		summaries := make([]contributionReport, 0, len(snapshot.Contributions))
		for i := range snapshot.Contributions {
			contribution := snapshot.Contributions[i]
			summaries = append(summaries, contributionReport{
				Contribution: contribution,
				Summary:      reconcile.Summarize(snapshot.Members, snapshot.Payments, &contribution),
			})
		}

		c.JSON(http.StatusOK, gin.H{
			"title":         "Rapport des cotisations",
			"generated_at":  time.Now().UTC(),
			"report":        report,
			"contributions": summaries,
			"membres":       snapshot.Members,
			"paiements":     snapshot.Payments,
		})
	}
}
