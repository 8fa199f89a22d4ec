package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/forumkit/forumkit/internal/model"
	"github.com/forumkit/forumkit/internal/store"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// Single connection keeps the pragma effective and sidesteps
	// SQLITE_BUSY under concurrent writers.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := applySchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// migrations is an ordered list of SQL migrations.
// Each migration runs exactly once, tracked by schema_version table.
var migrations = []string{
	// Migration 1: Initial schema
	`
CREATE TABLE IF NOT EXISTS threads (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	creator TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL,
	last_activity INTEGER NOT NULL,
	view_count INTEGER NOT NULL DEFAULT 0,
	reply_count INTEGER NOT NULL DEFAULT 0,
	share_pubkey TEXT
);
CREATE INDEX IF NOT EXISTS idx_threads_last_activity ON threads(last_activity DESC);

CREATE TABLE IF NOT EXISTS posts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	thread_id INTEGER NOT NULL,
	author TEXT NOT NULL,
	text TEXT NOT NULL,
	image TEXT,
	time INTEGER NOT NULL,
	edited INTEGER NOT NULL DEFAULT 0,
	seen INTEGER NOT NULL DEFAULT 0,
	view_count INTEGER NOT NULL DEFAULT 0,
	last_viewed INTEGER,
	is_initial_post INTEGER NOT NULL DEFAULT 0,
	FOREIGN KEY(thread_id) REFERENCES threads(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_posts_thread_id ON posts(thread_id);
CREATE INDEX IF NOT EXISTS idx_posts_time ON posts(thread_id, time);

CREATE TABLE IF NOT EXISTS documents (
	id TEXT PRIMARY KEY,
	thread_id INTEGER NOT NULL,
	title TEXT NOT NULL,
	content TEXT NOT NULL,
	type TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL,
	last_viewed INTEGER,
	view_count INTEGER NOT NULL DEFAULT 0,
	FOREIGN KEY(thread_id) REFERENCES threads(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_documents_thread_id ON documents(thread_id);

CREATE TABLE IF NOT EXISTS webhooks (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	thread_id INTEGER NOT NULL,
	url TEXT NOT NULL,
	api_key TEXT,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL,
	last_triggered INTEGER,
	FOREIGN KEY(thread_id) REFERENCES threads(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_webhooks_thread_id ON webhooks(thread_id);

CREATE TABLE IF NOT EXISTS api_keys (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	thread_id INTEGER NOT NULL,
	key_name TEXT NOT NULL,
	api_key TEXT NOT NULL,
	permissions TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL,
	FOREIGN KEY(thread_id) REFERENCES threads(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_api_keys_thread_id ON api_keys(thread_id);
`,
	// Future migrations go here:
	// Migration 2: `ALTER TABLE ...`,
}

func applySchema(db *sql.DB) error {
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		)
	`); err != nil {
		return err
	}

	var currentVersion int
	row := db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_version`)
	if err := row.Scan(&currentVersion); err != nil {
		return err
	}

	for i := currentVersion; i < len(migrations); i++ {
		if _, err := db.Exec(migrations[i]); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
		if _, err := db.Exec(`INSERT INTO schema_version (version) VALUES (?)`, i+1); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", i+1, err)
		}
	}

	return nil
}

// ============================================================================
// THREADS
// ============================================================================

func (s *Store) CreateThread(ctx context.Context, title, creator, initialPost, image string) (model.Thread, error) {
	now := time.Now()
	res, err := s.db.ExecContext(ctx, `
INSERT INTO threads (title, creator, created_at, updated_at, last_activity, view_count, reply_count)
VALUES (?, ?, ?, ?, ?, 0, 0)
`, title, creator, now.Unix(), now.Unix(), now.Unix())
	if err != nil {
		return model.Thread{}, err
	}
	threadID, err := res.LastInsertId()
	if err != nil {
		return model.Thread{}, err
	}

	// The initial post goes through the ordinary create-post path so the
	// reply_count/last_activity bookkeeping is the same as for replies.
	post := model.Post{
		ThreadID:      threadID,
		Author:        creator,
		Text:          initialPost,
		Image:         image,
		Time:          now,
		IsInitialPost: true,
	}
	if _, err := s.CreatePost(ctx, &post); err != nil {
		return model.Thread{}, err
	}

	// Re-read without counting the creator's own read as a view.
	return s.LookupThread(ctx, threadID)
}

func (s *Store) GetThread(ctx context.Context, id int64) (model.Thread, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE threads SET view_count = view_count + 1 WHERE id = ?`, id)
	if err != nil {
		return model.Thread{}, err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return model.Thread{}, store.ErrThreadNotFound
	}
	return s.LookupThread(ctx, id)
}

func (s *Store) LookupThread(ctx context.Context, id int64) (model.Thread, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, title, creator, created_at, updated_at, last_activity, view_count, reply_count, share_pubkey
FROM threads
WHERE id = ?
`, id)
	t, err := scanThread(row)
	if err != nil {
		return model.Thread{}, err
	}
	posts, err := s.ListPosts(ctx, id)
	if err != nil {
		return model.Thread{}, err
	}
	docs, err := s.ListDocuments(ctx, id)
	if err != nil {
		return model.Thread{}, err
	}
	t.Posts = posts
	t.Documents = docs
	return t, nil
}

func (s *Store) ListThreads(ctx context.Context) ([]model.Thread, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, title, creator, created_at, updated_at, last_activity, view_count, reply_count, share_pubkey
FROM threads
ORDER BY last_activity DESC
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var threads []model.Thread
	for rows.Next() {
		t, err := scanThread(rows)
		if err != nil {
			return nil, err
		}
		threads = append(threads, t)
	}
	return threads, rows.Err()
}

func (s *Store) DeleteThread(ctx context.Context, id int64) error {
	// ON DELETE CASCADE removes posts, documents, webhooks and api keys.
	res, err := s.db.ExecContext(ctx, `DELETE FROM threads WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return store.ErrThreadNotFound
	}
	return nil
}

func (s *Store) SetSharePubkey(ctx context.Context, threadID int64, pubkey string) error {
	res, err := s.db.ExecContext(ctx, `
UPDATE threads SET share_pubkey = ?, updated_at = ? WHERE id = ?
`, nullIfEmpty(pubkey), time.Now().Unix(), threadID)
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return store.ErrThreadNotFound
	}
	return nil
}

// ============================================================================
// POSTS
// ============================================================================

func (s *Store) CreatePost(ctx context.Context, post *model.Post) (int64, error) {
	if post.Time.IsZero() {
		post.Time = time.Now()
	}
	res, err := s.db.ExecContext(ctx, `
INSERT INTO posts (thread_id, author, text, image, time, edited, seen, view_count, is_initial_post)
VALUES (?, ?, ?, ?, ?, 0, 0, 0, ?)
`, post.ThreadID, post.Author, post.Text, nullIfEmpty(post.Image), post.Time.Unix(), boolToInt(post.IsInitialPost))
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	post.ID = id

	if _, err := s.db.ExecContext(ctx, `
UPDATE threads SET reply_count = reply_count + 1, last_activity = ?, updated_at = ? WHERE id = ?
`, post.Time.Unix(), post.Time.Unix(), post.ThreadID); err != nil {
		return 0, err
	}
	return id, nil
}

func (s *Store) GetPost(ctx context.Context, id int64) (model.Post, error) {
	res, err := s.db.ExecContext(ctx, `
UPDATE posts SET view_count = view_count + 1, seen = 1, last_viewed = ? WHERE id = ?
`, time.Now().Unix(), id)
	if err != nil {
		return model.Post{}, err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return model.Post{}, store.ErrPostNotFound
	}
	return s.LookupPost(ctx, id)
}

func (s *Store) LookupPost(ctx context.Context, id int64) (model.Post, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, thread_id, author, text, image, time, edited, seen, view_count, last_viewed, is_initial_post
FROM posts
WHERE id = ?
`, id)
	return scanPost(row)
}

func (s *Store) ListPosts(ctx context.Context, threadID int64) ([]model.Post, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, thread_id, author, text, image, time, edited, seen, view_count, last_viewed, is_initial_post
FROM posts
WHERE thread_id = ?
ORDER BY time ASC, id ASC
`, threadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPosts(rows)
}

func (s *Store) GetLatestPosts(ctx context.Context, threadID int64, opts store.PostListOpts) ([]model.Post, error) {
	limit := clamp(opts.Limit, 1, 200)
	var rows *sql.Rows
	var err error
	if opts.After > 0 {
		rows, err = s.db.QueryContext(ctx, `
SELECT id, thread_id, author, text, image, time, edited, seen, view_count, last_viewed, is_initial_post
FROM posts
WHERE thread_id = ? AND time > ?
ORDER BY time ASC, id ASC
LIMIT ?
`, threadID, opts.After, limit)
	} else {
		rows, err = s.db.QueryContext(ctx, `
SELECT id, thread_id, author, text, image, time, edited, seen, view_count, last_viewed, is_initial_post
FROM posts
WHERE thread_id = ?
ORDER BY time ASC, id ASC
LIMIT ?
`, threadID, limit)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPosts(rows)
}

func (s *Store) UpdatePost(ctx context.Context, id int64, text, image string) (model.Post, error) {
	// edited flips on, time stays put.
	res, err := s.db.ExecContext(ctx, `
UPDATE posts SET text = ?, image = ?, edited = 1 WHERE id = ?
`, text, nullIfEmpty(image), id)
	if err != nil {
		return model.Post{}, err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return model.Post{}, store.ErrPostNotFound
	}
	return s.LookupPost(ctx, id)
}

func (s *Store) DeletePost(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return store.ErrPostNotFound
	}
	return nil
}

// ============================================================================
// DOCUMENTS
// ============================================================================

func (s *Store) CreateDocument(ctx context.Context, doc *model.Document) error {
	now := time.Now()
	doc.CreatedAt = now
	doc.UpdatedAt = now
	res, err := s.db.ExecContext(ctx, `
INSERT INTO documents (id, thread_id, title, content, type, created_at, updated_at, view_count)
VALUES (?, ?, ?, ?, ?, ?, ?, 0)
`, doc.ID, doc.ThreadID, doc.Title, string(doc.Content), doc.Type, now.Unix(), now.Unix())
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return store.ErrCreateFailed
	}
	return nil
}

func (s *Store) GetDocument(ctx context.Context, id string) (model.Document, error) {
	res, err := s.db.ExecContext(ctx, `
UPDATE documents SET view_count = view_count + 1, last_viewed = ? WHERE id = ?
`, time.Now().Unix(), id)
	if err != nil {
		return model.Document{}, err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return model.Document{}, store.ErrDocumentNotFound
	}
	return s.LookupDocument(ctx, id)
}

func (s *Store) LookupDocument(ctx context.Context, id string) (model.Document, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, thread_id, title, content, type, created_at, updated_at, last_viewed, view_count
FROM documents
WHERE id = ?
`, id)
	return scanDocument(row)
}

func (s *Store) ListDocuments(ctx context.Context, threadID int64) ([]model.Document, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, thread_id, title, content, type, created_at, updated_at, last_viewed, view_count
FROM documents
WHERE thread_id = ?
ORDER BY created_at ASC, id ASC
`, threadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []model.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

func (s *Store) UpdateDocument(ctx context.Context, id string, upd store.DocumentUpdate) (model.Document, error) {
	sets := make([]string, 0, 4)
	args := make([]any, 0, 5)
	if upd.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *upd.Title)
	}
	if upd.Content != nil {
		sets = append(sets, "content = ?")
		args = append(args, string(upd.Content))
	}
	if upd.Type != nil {
		sets = append(sets, "type = ?")
		args = append(args, *upd.Type)
	}
	if len(sets) == 0 {
		return model.Document{}, store.ErrNoUpdates
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now().Unix(), id)

	res, err := s.db.ExecContext(ctx, fmt.Sprintf(`UPDATE documents SET %s WHERE id = ?`, strings.Join(sets, ", ")), args...)
	if err != nil {
		return model.Document{}, err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return model.Document{}, store.ErrDocumentNotFound
	}
	return s.LookupDocument(ctx, id)
}

func (s *Store) DeleteDocument(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return store.ErrDocumentNotFound
	}
	return nil
}

// ============================================================================
// WEBHOOKS
// ============================================================================

func (s *Store) CreateWebhook(ctx context.Context, hook *model.Webhook) (int64, error) {
	now := time.Now()
	hook.CreatedAt = now
	hook.UpdatedAt = now
	res, err := s.db.ExecContext(ctx, `
INSERT INTO webhooks (thread_id, url, api_key, created_at, updated_at)
VALUES (?, ?, ?, ?, ?)
`, hook.ThreadID, hook.URL, nullIfEmpty(hook.APIKey), now.Unix(), now.Unix())
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	hook.ID = id
	return id, nil
}

func (s *Store) ListWebhooks(ctx context.Context, threadID int64) ([]model.Webhook, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, thread_id, url, api_key, created_at, updated_at, last_triggered
FROM webhooks
WHERE thread_id = ?
ORDER BY created_at ASC, id ASC
`, threadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hooks []model.Webhook
	for rows.Next() {
		var h model.Webhook
		var apiKey sql.NullString
		var created, updated int64
		var triggered sql.NullInt64
		if err := rows.Scan(&h.ID, &h.ThreadID, &h.URL, &apiKey, &created, &updated, &triggered); err != nil {
			return nil, err
		}
		if apiKey.Valid {
			h.APIKey = apiKey.String
		}
		h.CreatedAt = time.Unix(created, 0)
		h.UpdatedAt = time.Unix(updated, 0)
		if triggered.Valid {
			t := time.Unix(triggered.Int64, 0)
			h.LastTriggered = &t
		}
		hooks = append(hooks, h)
	}
	return hooks, rows.Err()
}

func (s *Store) DeleteWebhook(ctx context.Context, threadID, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM webhooks WHERE id = ? AND thread_id = ?`, id, threadID)
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return store.ErrWebhookNotFound
	}
	return nil
}

func (s *Store) MarkWebhookTriggered(ctx context.Context, id int64) error {
	now := time.Now().Unix()
	_, err := s.db.ExecContext(ctx, `
UPDATE webhooks SET last_triggered = ?, updated_at = ? WHERE id = ?
`, now, now, id)
	return err
}

// ============================================================================
// API KEYS
// ============================================================================

func (s *Store) CreateAPIKey(ctx context.Context, key *model.APIKey) (int64, error) {
	now := time.Now()
	key.CreatedAt = now
	key.UpdatedAt = now
	res, err := s.db.ExecContext(ctx, `
INSERT INTO api_keys (thread_id, key_name, api_key, permissions, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
`, key.ThreadID, key.KeyName, key.APIKey, key.Permissions.Encode(), now.Unix(), now.Unix())
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	key.ID = id
	return id, nil
}

func (s *Store) ListAPIKeys(ctx context.Context, threadID int64) ([]model.APIKey, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, thread_id, key_name, api_key, permissions, created_at, updated_at
FROM api_keys
WHERE thread_id = ?
ORDER BY created_at ASC, id ASC
`, threadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []model.APIKey
	for rows.Next() {
		var k model.APIKey
		var perms sql.NullString
		var created, updated int64
		if err := rows.Scan(&k.ID, &k.ThreadID, &k.KeyName, &k.APIKey, &perms, &created, &updated); err != nil {
			return nil, err
		}
		// Decoded once here; corrupt blobs fall back to read-only.
		k.Permissions = model.ParsePermissions(perms.String)
		k.CreatedAt = time.Unix(created, 0)
		k.UpdatedAt = time.Unix(updated, 0)
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

func (s *Store) DeleteAPIKey(ctx context.Context, threadID, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM api_keys WHERE id = ? AND thread_id = ?`, id, threadID)
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return store.ErrKeyNotFound
	}
	return nil
}

// ============================================================================
// STATS
// ============================================================================

func (s *Store) GetSiteStats(ctx context.Context) (model.SiteStats, error) {
	var stats model.SiteStats
	row := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM threads`)
	if err := row.Scan(&stats.Threads); err != nil {
		return stats, err
	}
	row = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`)
	if err := row.Scan(&stats.Posts); err != nil {
		return stats, err
	}
	row = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`)
	if err := row.Scan(&stats.Documents); err != nil {
		return stats, err
	}
	return stats, nil
}

// ============================================================================
// HELPERS
// ============================================================================

func scanThread(scanner interface{ Scan(dest ...any) error }) (model.Thread, error) {
	var t model.Thread
	var created, updated, activity int64
	var pubkey sql.NullString
	if err := scanner.Scan(&t.ID, &t.Title, &t.Creator, &created, &updated, &activity, &t.ViewCount, &t.ReplyCount, &pubkey); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Thread{}, store.ErrThreadNotFound
		}
		return model.Thread{}, err
	}
	if pubkey.Valid {
		t.SharePubkey = pubkey.String
	}
	t.CreatedAt = time.Unix(created, 0)
	t.UpdatedAt = time.Unix(updated, 0)
	t.LastActivity = time.Unix(activity, 0)
	return t, nil
}

func scanPost(scanner interface{ Scan(dest ...any) error }) (model.Post, error) {
	var p model.Post
	var image sql.NullString
	var postTime int64
	var edited, seen, initial int
	var viewed sql.NullInt64
	if err := scanner.Scan(&p.ID, &p.ThreadID, &p.Author, &p.Text, &image, &postTime, &edited, &seen, &p.ViewCount, &viewed, &initial); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Post{}, store.ErrPostNotFound
		}
		return model.Post{}, err
	}
	if image.Valid {
		p.Image = image.String
	}
	p.Time = time.Unix(postTime, 0)
	p.Edited = edited == 1
	p.Seen = seen == 1
	p.IsInitialPost = initial == 1
	if viewed.Valid {
		t := time.Unix(viewed.Int64, 0)
		p.LastViewed = &t
	}
	return p, nil
}

func scanDocument(scanner interface{ Scan(dest ...any) error }) (model.Document, error) {
	var d model.Document
	var content string
	var created, updated int64
	var viewed sql.NullInt64
	if err := scanner.Scan(&d.ID, &d.ThreadID, &d.Title, &content, &d.Type, &created, &updated, &viewed, &d.ViewCount); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Document{}, store.ErrDocumentNotFound
		}
		return model.Document{}, err
	}
	d.Content = []byte(content)
	d.CreatedAt = time.Unix(created, 0)
	d.UpdatedAt = time.Unix(updated, 0)
	if viewed.Valid {
		t := time.Unix(viewed.Int64, 0)
		d.LastViewed = &t
	}
	return d, nil
}

func collectPosts(rows *sql.Rows) ([]model.Post, error) {
	var posts []model.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func clamp(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullIfEmpty(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}
