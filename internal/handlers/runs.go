package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/betlegend/sitetools/internal/store"
	"github.com/betlegend/sitetools/internal/validate"
	"github.com/betlegend/sitetools/internal/worker"
)

const (
	defaultRunLimit = 20
	maxRunLimit     = 100
)

// RunReader reads stored runs. store.Runs satisfies it.
type RunReader interface {
	RecentRuns(ctx context.Context, limit int) ([]store.Run, error)
	GetRun(ctx context.Context, id string) (*store.Run, error)
}

// Runner starts a validation run. *worker.Job satisfies it.
type Runner interface {
	Run(ctx context.Context, trigger string, rels []string) (*store.Run, *validate.Report, error)
}

func PingHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "BetLegend site tools API is live"})
	}
}

func ListRunsHandler(runs RunReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := defaultRunLimit
		if s := c.Query("limit"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil || n < 1 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
				return
			}
			limit = min(n, maxRunLimit)
		}

		list, err := runs.RecentRuns(c.Request.Context(), limit)
		if err != nil {
			fmt.Printf("ERROR [ListRuns]: %v\n", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load runs"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"runs": list})
	}
}

func GetRunHandler(runs RunReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		run, err := runs.GetRun(c.Request.Context(), c.Param("id"))
		if errors.Is(err, store.ErrRunNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
			return
		}
		if err != nil {
			fmt.Printf("ERROR [GetRun]: %v\n", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load run"})
			return
		}
		c.JSON(http.StatusOK, run)
	}
}

type validateRequest struct {
	Paths []string `json:"paths"`
}

// ValidateHandler runs the validator over the whole site, or over the
// relative paths given in the body, and returns the stored run.
func ValidateHandler(runner Runner) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req validateRequest
		if c.Request.ContentLength != 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
				return
			}
		}

		run, rep, err := runner.Run(c.Request.Context(), "api", req.Paths)
		if errors.Is(err, worker.ErrNotPage) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err != nil {
			fmt.Printf("ERROR [Validate]: %v\n", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Validation run failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"run":       run,
			"exit_code": rep.ExitCode(),
		})
	}
}
