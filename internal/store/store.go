package store

import (
	"context"
	"errors"

	"github.com/forumkit/forumkit/internal/model"
)

var (
	ErrThreadNotFound   = errors.New("thread not found")
	ErrPostNotFound     = errors.New("post not found")
	ErrDocumentNotFound = errors.New("document not found")
	ErrWebhookNotFound  = errors.New("webhook not found")
	ErrKeyNotFound      = errors.New("api key not found")
	ErrNoUpdates        = errors.New("no updates provided")
	ErrCreateFailed     = errors.New("create failed")
)

// PostListOpts drives the forward-polling cursor on the latest-posts path:
// when After > 0 only posts strictly newer are returned, ordered by time
// ascending so callers can append.
type PostListOpts struct {
	Limit int
	After int64
}

// DocumentUpdate carries only the fields the caller supplied. A nil field
// is left untouched; an update with every field nil is ErrNoUpdates.
type DocumentUpdate struct {
	Title   *string
	Content []byte
	Type    *string
}

type Store interface {
	ThreadStore
	PostStore
	DocumentStore
	WebhookStore
	APIKeyStore
	GetSiteStats(ctx context.Context) (model.SiteStats, error)
	Close() error
}

type ThreadStore interface {
	// CreateThread inserts the thread and its initial post through the same
	// path ordinary replies take, so reply_count/last_activity bookkeeping
	// is identical for the first and all subsequent posts.
	CreateThread(ctx context.Context, title, creator, initialPost, image string) (model.Thread, error)
	// GetThread is the public read path: it increments view_count and
	// returns the thread with posts and documents attached.
	GetThread(ctx context.Context, id int64) (model.Thread, error)
	// LookupThread is the side-effect-free read used internally (auth
	// resolution, post-create re-reads). It never touches view_count.
	LookupThread(ctx context.Context, id int64) (model.Thread, error)
	ListThreads(ctx context.Context) ([]model.Thread, error)
	// DeleteThread removes the thread and, by cascade, every post,
	// document, webhook and api key referencing it.
	DeleteThread(ctx context.Context, id int64) error
	SetSharePubkey(ctx context.Context, threadID int64, pubkey string) error
}

type PostStore interface {
	CreatePost(ctx context.Context, post *model.Post) (int64, error)
	// GetPost is the public view path: +view_count, seen=true, last_viewed.
	GetPost(ctx context.Context, id int64) (model.Post, error)
	LookupPost(ctx context.Context, id int64) (model.Post, error)
	ListPosts(ctx context.Context, threadID int64) ([]model.Post, error)
	GetLatestPosts(ctx context.Context, threadID int64, opts PostListOpts) ([]model.Post, error)
	// UpdatePost sets edited=true and leaves time untouched.
	UpdatePost(ctx context.Context, id int64, text, image string) (model.Post, error)
	DeletePost(ctx context.Context, id int64) error
}

type DocumentStore interface {
	CreateDocument(ctx context.Context, doc *model.Document) error
	// GetDocument is the public view path: +view_count, last_viewed.
	GetDocument(ctx context.Context, id string) (model.Document, error)
	LookupDocument(ctx context.Context, id string) (model.Document, error)
	ListDocuments(ctx context.Context, threadID int64) ([]model.Document, error)
	UpdateDocument(ctx context.Context, id string, upd DocumentUpdate) (model.Document, error)
	DeleteDocument(ctx context.Context, id string) error
}

type WebhookStore interface {
	CreateWebhook(ctx context.Context, hook *model.Webhook) (int64, error)
	ListWebhooks(ctx context.Context, threadID int64) ([]model.Webhook, error)
	DeleteWebhook(ctx context.Context, threadID, id int64) error
	MarkWebhookTriggered(ctx context.Context, id int64) error
}

type APIKeyStore interface {
	CreateAPIKey(ctx context.Context, key *model.APIKey) (int64, error)
	ListAPIKeys(ctx context.Context, threadID int64) ([]model.APIKey, error)
	DeleteAPIKey(ctx context.Context, threadID, id int64) error
}
