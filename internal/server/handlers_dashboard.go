package server

import (
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/content-pipeline/internal/db"
)

// handleDashboard returns the read-only rollup: total documents,
// published documents, and runs created since local midnight. The three
// counts are independent reads, fetched concurrently.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var counts db.DashboardCounts
	g, ctx := errgroup.WithContext(r.Context())

	g.Go(func() error {
		total, err := s.store.CountDocuments(ctx)
		counts.TotalDocuments = total
		return err
	})
	g.Go(func() error {
		published, err := s.store.CountDocumentsByStatus(ctx, db.DocumentStatusPublished)
		counts.PublishedDocuments = published
		return err
	})
	g.Go(func() error {
		todayRuns, err := s.store.CountRunsSince(ctx, startOfDay)
		counts.TodayRuns = todayRuns
		return err
	})

	if err := g.Wait(); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, counts)
}
