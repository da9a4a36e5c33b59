package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/glaido/newshub/app/article"
)

var _ Store = (*SQLiteStore)(nil)

// SQLiteStore persists the collections in a single SQLite database.
// Timestamps are stored as RFC 3339 strings so lexicographic ordering
// matches chronological ordering.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) LoadArticles(source string) ([]article.Article, error) {
	query := `
		SELECT id, title, COALESCE(subtitle, ''), url, source, source_display,
		       author, published_date, scraped_at, COALESCE(thumbnail, ''),
		       COALESCE(summary, ''), tags
		FROM articles`
	args := []interface{}{}

	if source != "" {
		query += ` WHERE source = ?`
		args = append(args, source)
	}
	query += ` ORDER BY published_date IS NULL, published_date DESC, id`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load articles: %w", err)
	}
	defer rows.Close()

	var articles []article.Article
	for rows.Next() {
		var a article.Article
		var published sql.NullString
		var scraped, tags string

		err := rows.Scan(&a.ID, &a.Title, &a.Subtitle, &a.URL, &a.Source,
			&a.SourceDisplay, &a.Author, &published, &scraped, &a.Thumbnail,
			&a.Summary, &tags)
		if err != nil {
			return nil, fmt.Errorf("failed to scan article row: %w", err)
		}

		a.PublishedAt = parseStoredTime(published)
		if t, err := time.Parse(time.RFC3339, scraped); err == nil {
			a.ScrapedAt = t
		}
		if err := json.Unmarshal([]byte(tags), &a.Tags); err != nil {
			a.Tags = nil
		}

		articles = append(articles, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating article rows: %w", err)
	}

	return articles, nil
}

func (s *SQLiteStore) SaveArticles(articles []article.Article) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO articles (
			id, title, subtitle, url, source, source_display, author,
			published_date, scraped_at, thumbnail, summary, tags
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			title = excluded.title,
			subtitle = excluded.subtitle,
			url = excluded.url,
			source = excluded.source,
			source_display = excluded.source_display,
			author = excluded.author,
			published_date = excluded.published_date,
			scraped_at = excluded.scraped_at,
			thumbnail = excluded.thumbnail,
			summary = excluded.summary,
			tags = excluded.tags
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, a := range articles {
		tags, err := json.Marshal(a.Tags)
		if err != nil {
			return fmt.Errorf("failed to encode tags: %w", err)
		}

		_, err = stmt.Exec(a.ID, a.Title, a.Subtitle, a.URL, a.Source,
			a.SourceDisplay, a.Author, formatStoredTime(a.PublishedAt),
			a.ScrapedAt.UTC().Format(time.RFC3339), a.Thumbnail, a.Summary,
			string(tags))
		if err != nil {
			return fmt.Errorf("failed to upsert article %s: %w", a.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit articles: %w", err)
	}
	return nil
}

func (s *SQLiteStore) LoadBookmarks() ([]article.Bookmark, error) {
	rows, err := s.db.Query(`SELECT article_id, saved_at FROM bookmarks ORDER BY saved_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to load bookmarks: %w", err)
	}
	defer rows.Close()

	var bookmarks []article.Bookmark
	for rows.Next() {
		var b article.Bookmark
		var saved string
		if err := rows.Scan(&b.ArticleID, &saved); err != nil {
			return nil, fmt.Errorf("failed to scan bookmark row: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, saved); err == nil {
			b.SavedAt = t
		}
		bookmarks = append(bookmarks, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bookmark rows: %w", err)
	}

	return bookmarks, nil
}

func (s *SQLiteStore) SaveBookmark(articleID string) (bool, error) {
	res, err := s.db.Exec(`
		INSERT INTO bookmarks (article_id, saved_at) VALUES (?, ?)
		ON CONFLICT (article_id) DO NOTHING
	`, articleID, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return false, fmt.Errorf("failed to save bookmark: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check bookmark insert: %w", err)
	}
	return affected > 0, nil
}

func (s *SQLiteStore) RemoveBookmark(articleID string) error {
	res, err := s.db.Exec(`DELETE FROM bookmarks WHERE article_id = ?`, articleID)
	if err != nil {
		return fmt.Errorf("failed to remove bookmark: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check bookmark delete: %w", err)
	}
	if affected == 0 {
		return ErrBookmarkNotFound
	}
	return nil
}

func (s *SQLiteStore) LoadScrapeState() (map[string]article.ScrapeState, error) {
	rows, err := s.db.Query(`
		SELECT source, last_scraped_at, articles_found, status, COALESCE(error_message, '')
		FROM scrape_state`)
	if err != nil {
		return nil, fmt.Errorf("failed to load scrape state: %w", err)
	}
	defer rows.Close()

	state := make(map[string]article.ScrapeState)
	for rows.Next() {
		var st article.ScrapeState
		var scraped sql.NullString
		if err := rows.Scan(&st.Source, &scraped, &st.ArticlesFound, &st.Status, &st.ErrorMessage); err != nil {
			return nil, fmt.Errorf("failed to scan scrape state row: %w", err)
		}
		st.LastScrapedAt = parseStoredTime(scraped)
		state[st.Source] = st
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating scrape state rows: %w", err)
	}

	return state, nil
}

func (s *SQLiteStore) SaveScrapeState(state map[string]article.ScrapeState) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for source, st := range state {
		_, err := tx.Exec(`
			INSERT INTO scrape_state (source, last_scraped_at, articles_found, status, error_message)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT (source) DO UPDATE SET
				last_scraped_at = excluded.last_scraped_at,
				articles_found = excluded.articles_found,
				status = excluded.status,
				error_message = excluded.error_message
		`, source, formatStoredTime(st.LastScrapedAt), st.ArticlesFound, st.Status, st.ErrorMessage)
		if err != nil {
			return fmt.Errorf("failed to upsert scrape state for %s: %w", source, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit scrape state: %w", err)
	}
	return nil
}

func (s *SQLiteStore) CheckConnection() error {
	return s.db.Ping()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func formatStoredTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

func parseStoredTime(v sql.NullString) *time.Time {
	if !v.Valid || v.String == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, v.String)
	if err != nil {
		return nil
	}
	utc := t.UTC()
	return &utc
}
