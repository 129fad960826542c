package web

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"

	"github.com/krisalay/sheets-cache/types"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleRecords searches and pages the cached records. An unavailable sheet
// shows up as zero records, never as an error.
func (s *Server) handleRecords(c *gin.Context) {
	raw := c.Query("query")
	if raw == "" {
		raw = c.Query("q")
	}
	query := strings.ToLower(strings.TrimSpace(raw))

	page := 1
	if p, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil && p > 0 {
		page = p
	}

	matched := filterRecords(s.cache.Records(c.Request.Context()), query)
	items, totalPages := paginate(matched, page, s.pageSize)

	c.JSON(http.StatusOK, gin.H{
		"query":       query,
		"records":     items,
		"count":       len(items),
		"total":       len(matched),
		"page":        page,
		"total_pages": totalPages,
	})
}

func (s *Server) handleStatus(c *gin.Context) {
	st := s.cache.Status()

	age := "never"
	if st.HasEntry {
		age = humanize.Time(st.FetchedAt)
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  st,
		"fetched": age,
	})
}

func (s *Server) handleRefresh(c *gin.Context) {
	records, err := s.cache.Refresh(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"kind":    types.ErrorKind(err),
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"records": len(records),
	})
}

// filterRecords keeps the records with any value containing query.
// query must already be lower-cased; empty keeps everything.
func filterRecords(records []types.Record, query string) []types.Record {
	if query == "" {
		return records
	}

	out := make([]types.Record, 0, len(records))
	for _, r := range records {
		if r.Contains(query) {
			out = append(out, r)
		}
	}
	return out
}

// paginate returns the 1-based page of records and the page count (at least 1).
// A page past the end is empty.
func paginate(records []types.Record, page, size int) ([]types.Record, int) {
	totalPages := (len(records) + size - 1) / size
	if totalPages < 1 {
		totalPages = 1
	}

	// Checked before multiplying: (page-1)*size overflows for huge pages.
	if page < 1 || page > totalPages {
		return []types.Record{}, totalPages
	}

	start := (page - 1) * size

	end := start + size
	if end > len(records) {
		end = len(records)
	}
	return records[start:end], totalPages
}
