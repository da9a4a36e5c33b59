package api

import (
	"errors"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glaido/newshub/app/aggregator"
	"github.com/glaido/newshub/app/article"
	"github.com/glaido/newshub/app/scheduler"
	"github.com/glaido/newshub/app/store"
)

func NewHandler(st store.Store, sched SchedulerInterface, sources []SourceInfo, version string) *Handler {
	return &Handler{
		store:     st,
		scheduler: sched,
		sources:   sources,
		version:   version,
	}
}

// GetArticles lists stored articles, optionally filtered by source
// (?source=) or to bookmarked ones only (?saved=true). Recency flags
// are recomputed at read time.
func (h *Handler) GetArticles(c *gin.Context) {
	source := c.Query("source")
	savedOnly := c.Query("saved") == "true"

	articles, err := h.store.LoadArticles(source)
	if err != nil {
		slog.Error("Failed to load articles", "source", source, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load articles"})
		return
	}

	savedIDs, err := h.savedIDSet()
	if err != nil {
		slog.Error("Failed to load bookmarks", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load bookmarks"})
		return
	}

	if savedOnly {
		articles = filterSaved(articles, savedIDs)
	}

	for i := range articles {
		articles[i].RefreshIsNew()
	}

	state, err := h.store.LoadScrapeState()
	if err != nil {
		slog.Error("Failed to load scrape state", "error", err)
		state = make(map[string]article.ScrapeState)
	}

	c.JSON(http.StatusOK, gin.H{
		"articles":     articles,
		"total":        len(articles),
		"saved_ids":    sortedKeys(savedIDs),
		"sources":      h.sourceSummary(state),
		"last_updated": lastUpdated(state),
	})
}

// GetSavedArticles lists bookmarked articles only.
func (h *Handler) GetSavedArticles(c *gin.Context) {
	articles, err := h.store.LoadArticles("")
	if err != nil {
		slog.Error("Failed to load articles", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load articles"})
		return
	}

	savedIDs, err := h.savedIDSet()
	if err != nil {
		slog.Error("Failed to load bookmarks", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load bookmarks"})
		return
	}

	saved := filterSaved(articles, savedIDs)
	for i := range saved {
		saved[i].RefreshIsNew()
	}

	c.JSON(http.StatusOK, gin.H{
		"articles": saved,
		"total":    len(saved),
	})
}

type saveRequest struct {
	ArticleID string `json:"article_id"`
}

// SaveBookmark creates a bookmark for an article id. Re-saving an
// already-saved id is a no-op, not an error.
func (h *Handler) SaveBookmark(c *gin.Context) {
	var req saveRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ArticleID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing article_id"})
		return
	}

	created, err := h.store.SaveBookmark(req.ArticleID)
	if err != nil {
		slog.Error("Failed to save bookmark", "article_id", req.ArticleID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save bookmark"})
		return
	}

	status := "saved"
	if !created {
		status = "already_saved"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     status,
		"article_id": req.ArticleID,
	})
}

func (h *Handler) RemoveBookmark(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing article id parameter"})
		return
	}

	if err := h.store.RemoveBookmark(id); err != nil {
		if errors.Is(err, store.ErrBookmarkNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Bookmark not found"})
			return
		}
		slog.Error("Failed to remove bookmark", "article_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove bookmark"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "removed",
		"article_id": id,
	})
}

// TriggerScrape runs an aggregation pass on demand, scoped to a single
// source when ?source= is given.
func (h *Handler) TriggerScrape(c *gin.Context) {
	source := c.Query("source")

	result, err := h.scheduler.RunCycle(c.Request.Context(), source)
	if err != nil {
		switch {
		case errors.Is(err, aggregator.ErrUnknownSource):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown source: " + source})
		case errors.Is(err, scheduler.ErrCycleInProgress):
			c.JSON(http.StatusConflict, gin.H{"error": "Aggregation cycle already in progress"})
		default:
			slog.Error("Aggregation pass failed", "source", source, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Aggregation pass failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":         "complete",
		"new_articles":   result.NewArticles,
		"total_articles": result.TotalArticles,
	})
}

// GetStatus reports per-source scrape state. Registered sources with
// no state record yet are reported as never_run.
func (h *Handler) GetStatus(c *gin.Context) {
	state, err := h.store.LoadScrapeState()
	if err != nil {
		slog.Error("Failed to load scrape state", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load scrape state"})
		return
	}

	articles, err := h.store.LoadArticles("")
	if err != nil {
		slog.Error("Failed to load articles", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load articles"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sources":        h.sourceSummary(state),
		"total_articles": len(articles),
		"last_updated":   lastUpdated(state),
	})
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
		"version":   h.version,
	}

	if err := h.store.CheckConnection(); err != nil {
		health["store"] = "unavailable"
		c.JSON(http.StatusServiceUnavailable, health)
		return
	}
	health["store"] = "ok"

	if articles, err := h.store.LoadArticles(""); err == nil {
		health["articles"] = len(articles)
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) savedIDSet() (map[string]bool, error) {
	bookmarks, err := h.store.LoadBookmarks()
	if err != nil {
		return nil, err
	}

	ids := make(map[string]bool, len(bookmarks))
	for _, b := range bookmarks {
		ids[b.ArticleID] = true
	}
	return ids, nil
}

// sourceSummary combines the registered sources with their stored state
// records; sources without a record are reported as never_run.
func (h *Handler) sourceSummary(state map[string]article.ScrapeState) map[string]interface{} {
	summary := make(map[string]interface{}, len(h.sources))

	for _, src := range h.sources {
		info := map[string]interface{}{
			"display_name": src.Display,
			"status":       article.StatusNeverRun,
		}

		if record, ok := state[src.Key]; ok {
			info["status"] = record.Status
			info["articles_found"] = record.ArticlesFound
			if record.LastScrapedAt != nil {
				info["last_scraped_at"] = record.LastScrapedAt.Format(time.RFC3339)
			}
			if record.ErrorMessage != "" {
				info["error_message"] = record.ErrorMessage
			}
		}

		summary[src.Key] = info
	}

	return summary
}

func filterSaved(articles []article.Article, savedIDs map[string]bool) []article.Article {
	saved := make([]article.Article, 0, len(savedIDs))
	for _, a := range articles {
		if savedIDs[a.ID] {
			saved = append(saved, a)
		}
	}
	return saved
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func lastUpdated(state map[string]article.ScrapeState) *string {
	var latest *time.Time
	for _, record := range state {
		if record.LastScrapedAt == nil {
			continue
		}
		if latest == nil || record.LastScrapedAt.After(*latest) {
			latest = record.LastScrapedAt
		}
	}
	if latest == nil {
		return nil
	}
	formatted := latest.Format(time.RFC3339)
	return &formatted
}
