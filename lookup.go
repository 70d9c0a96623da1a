package main

import (
	"errors"
	"fmt"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/toolhub/toolhub_backend/matching"
	"github.com/toolhub/toolhub_backend/models"
)

type lookupRequest struct {
	Query  string `json:"query" binding:"required"`
	Vendor string `json:"vendor"`
}

type lookupResult struct {
	Name   string            `json:"name"`
	Vendor string            `json:"vendor"`
	Status string            `json:"status"`
	Score  float64           `json:"score"`
	Fields map[string]string `json:"fields,omitempty"`
}

func toLookupResults(cands []matching.MatchCandidate) []lookupResult {
	results := make([]lookupResult, 0, len(cands))
	for _, cand := range cands {
		status := cand.Record.Status
		if status == "" {
			// Rows with no workflow annotation are live inventory.
			status = "Available"
		}
		results = append(results, lookupResult{
			Name:   cand.Record.Name,
			Vendor: cand.Record.Vendor,
			Status: status,
			Score:  math.Round(cand.Score),
			Fields: cand.Record.Fields,
		})
	}
	return results
}

func (app *application) lookupHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req lookupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
			return
		}

		snap, record, err := app.loadLatestSnapshot(c.Request.Context())
		if errors.Is(err, models.ErrNoInventory) {
			c.JSON(http.StatusOK, gin.H{
				"state":   "no_inventory",
				"results": []lookupResult{},
			})
			return
		}
		if errors.Is(err, errSnapshotUnverified) {
			c.JSON(http.StatusOK, gin.H{
				"state":             "unverified",
				"inventory_version": record.Version,
				"results":           []lookupResult{},
			})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to load inventory"})
			return
		}

		found := app.engine.Lookup(req.Query, snap, req.Vendor)
		resp := gin.H{
			"state":             "ok",
			"inventory_version": snap.Version,
			"results":           toLookupResults(found),
		}
		if len(found) == 0 {
			suggestions := app.engine.Suggest(req.Query, snap, 0)
			resp["suggestions"] = toLookupResults(suggestions)
		}

		app.appendAudit(c.Request.Context(), models.AuditActionLookup,
			fmt.Sprintf("lookup %q matched %d records", req.Query, len(found)))
		c.JSON(http.StatusOK, resp)
	}
}
