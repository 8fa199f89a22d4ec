package sqlite

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/forumkit/forumkit/internal/model"
	"github.com/forumkit/forumkit/internal/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	path := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	st, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return st
}

func TestThreadLifecycle(t *testing.T) {
	st := newTestStore(t)
	defer st.Close()
	ctx := context.Background()

	thread, err := st.CreateThread(ctx, "First Thread", "alice", "hello world", "")
	if err != nil {
		t.Fatalf("create thread: %v", err)
	}
	if thread.Title != "First Thread" || thread.Creator != "alice" {
		t.Fatalf("unexpected thread: %+v", thread)
	}
	if len(thread.Posts) != 1 {
		t.Fatalf("expected 1 initial post, got %d", len(thread.Posts))
	}
	if !thread.Posts[0].IsInitialPost {
		t.Fatalf("expected initial post flag")
	}
	if thread.Posts[0].Author != "alice" {
		t.Fatalf("initial post author should be the creator, got %s", thread.Posts[0].Author)
	}
	// Initial post goes through the ordinary create-post path.
	if thread.ReplyCount != 1 {
		t.Fatalf("expected reply_count 1 after creation, got %d", thread.ReplyCount)
	}
	// The creation re-read must not count as a view.
	if thread.ViewCount != 0 {
		t.Fatalf("expected view_count 0 after creation, got %d", thread.ViewCount)
	}

	post := model.Post{ThreadID: thread.ID, Author: "bob", Text: "a reply"}
	if _, err := st.CreatePost(ctx, &post); err != nil {
		t.Fatalf("create post: %v", err)
	}
	updated, err := st.LookupThread(ctx, thread.ID)
	if err != nil {
		t.Fatalf("lookup thread: %v", err)
	}
	if updated.ReplyCount != 2 {
		t.Fatalf("expected reply_count 2, got %d", updated.ReplyCount)
	}
	if updated.LastActivity.Before(thread.LastActivity) {
		t.Fatalf("last_activity did not advance")
	}
}

func TestGetThreadCountsViews(t *testing.T) {
	st := newTestStore(t)
	defer st.Close()
	ctx := context.Background()

	thread, err := st.CreateThread(ctx, "Views", "alice", "first", "")
	if err != nil {
		t.Fatalf("create thread: %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := st.GetThread(ctx, thread.ID); err != nil {
			t.Fatalf("get thread: %v", err)
		}
	}
	// Quiet lookup must not add a fourth view.
	got, err := st.LookupThread(ctx, thread.ID)
	if err != nil {
		t.Fatalf("lookup thread: %v", err)
	}
	if got.ViewCount != 3 {
		t.Fatalf("expected view_count 3, got %d", got.ViewCount)
	}

	if _, err := st.GetThread(ctx, 9999); !errors.Is(err, store.ErrThreadNotFound) {
		t.Fatalf("expected ErrThreadNotFound, got %v", err)
	}
}

func TestPostViewPath(t *testing.T) {
	st := newTestStore(t)
	defer st.Close()
	ctx := context.Background()

	thread, err := st.CreateThread(ctx, "Posts", "alice", "first", "")
	if err != nil {
		t.Fatalf("create thread: %v", err)
	}
	postID := thread.Posts[0].ID

	var got model.Post
	for i := 0; i < 3; i++ {
		got, err = st.GetPost(ctx, postID)
		if err != nil {
			t.Fatalf("get post: %v", err)
		}
		if !got.Seen {
			t.Fatalf("expected seen=true after view %d", i+1)
		}
	}
	if got.ViewCount != 3 {
		t.Fatalf("expected view_count 3, got %d", got.ViewCount)
	}
	if got.LastViewed == nil {
		t.Fatalf("expected last_viewed to be set")
	}
}

func TestUpdatePostKeepsTime(t *testing.T) {
	st := newTestStore(t)
	defer st.Close()
	ctx := context.Background()

	thread, err := st.CreateThread(ctx, "Edit", "alice", "original", "")
	if err != nil {
		t.Fatalf("create thread: %v", err)
	}
	original := thread.Posts[0]

	updated, err := st.UpdatePost(ctx, original.ID, "edited text", "")
	if err != nil {
		t.Fatalf("update post: %v", err)
	}
	if !updated.Edited {
		t.Fatalf("expected edited=true")
	}
	if updated.Text != "edited text" {
		t.Fatalf("unexpected text: %s", updated.Text)
	}
	if !updated.Time.Equal(original.Time) {
		t.Fatalf("time changed on edit: %v -> %v", original.Time, updated.Time)
	}

	if _, err := st.UpdatePost(ctx, 9999, "x", ""); !errors.Is(err, store.ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
}

func TestLatestPostsCursor(t *testing.T) {
	st := newTestStore(t)
	defer st.Close()
	ctx := context.Background()

	thread, err := st.CreateThread(ctx, "Cursor", "alice", "first", "")
	if err != nil {
		t.Fatalf("create thread: %v", err)
	}
	base := time.Now().Add(-time.Hour).Truncate(time.Second)
	for i := 1; i <= 5; i++ {
		post := model.Post{
			ThreadID: thread.ID,
			Author:   "bob",
			Text:     fmt.Sprintf("post %d", i),
			Time:     base.Add(time.Duration(i) * time.Minute),
		}
		if _, err := st.CreatePost(ctx, &post); err != nil {
			t.Fatalf("create post %d: %v", i, err)
		}
	}

	cursor := base.Add(3 * time.Minute).Unix()
	posts, err := st.GetLatestPosts(ctx, thread.ID, store.PostListOpts{Limit: 2, After: cursor})
	if err != nil {
		t.Fatalf("get latest posts: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("expected 2 posts, got %d", len(posts))
	}
	// Strictly newer than the cursor, ascending.
	if posts[0].Text != "post 4" || posts[1].Text != "post 5" {
		t.Fatalf("unexpected posts: %s, %s", posts[0].Text, posts[1].Text)
	}
	for _, p := range posts {
		if p.Time.Unix() <= cursor {
			t.Fatalf("post %q not strictly newer than cursor", p.Text)
		}
	}

	all, err := st.GetLatestPosts(ctx, thread.ID, store.PostListOpts{Limit: 50})
	if err != nil {
		t.Fatalf("get latest posts without cursor: %v", err)
	}
	if len(all) != 6 {
		t.Fatalf("expected 6 posts, got %d", len(all))
	}
}

func TestDocumentLifecycle(t *testing.T) {
	st := newTestStore(t)
	defer st.Close()
	ctx := context.Background()

	thread, err := st.CreateThread(ctx, "Docs", "alice", "first", "")
	if err != nil {
		t.Fatalf("create thread: %v", err)
	}

	doc := model.Document{
		ID:       "doc-1",
		ThreadID: thread.ID,
		Title:    "Spec",
		Content:  []byte(`"hello"`),
		Type:     "text",
	}
	if err := st.CreateDocument(ctx, &doc); err != nil {
		t.Fatalf("create document: %v", err)
	}

	got, err := st.GetDocument(ctx, "doc-1")
	if err != nil {
		t.Fatalf("get document: %v", err)
	}
	if got.ViewCount != 1 || got.LastViewed == nil {
		t.Fatalf("view bookkeeping not applied: %+v", got)
	}

	title := "Spec v2"
	updated, err := st.UpdateDocument(ctx, "doc-1", store.DocumentUpdate{Title: &title})
	if err != nil {
		t.Fatalf("update document: %v", err)
	}
	if updated.Title != "Spec v2" {
		t.Fatalf("title not updated: %s", updated.Title)
	}
	if string(updated.Content) != `"hello"` {
		t.Fatalf("content should be untouched, got %s", updated.Content)
	}
	if !updated.UpdatedAt.After(got.CreatedAt) && !updated.UpdatedAt.Equal(got.CreatedAt) {
		t.Fatalf("updated_at not bumped")
	}

	if _, err := st.UpdateDocument(ctx, "doc-1", store.DocumentUpdate{}); !errors.Is(err, store.ErrNoUpdates) {
		t.Fatalf("expected ErrNoUpdates, got %v", err)
	}
	if _, err := st.UpdateDocument(ctx, "missing", store.DocumentUpdate{Title: &title}); !errors.Is(err, store.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}

	if err := st.DeleteDocument(ctx, "doc-1"); err != nil {
		t.Fatalf("delete document: %v", err)
	}
	if _, err := st.LookupDocument(ctx, "doc-1"); !errors.Is(err, store.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound after delete, got %v", err)
	}
}

func TestCascadeDelete(t *testing.T) {
	st := newTestStore(t)
	defer st.Close()
	ctx := context.Background()

	thread, err := st.CreateThread(ctx, "Doomed", "alice", "first", "")
	if err != nil {
		t.Fatalf("create thread: %v", err)
	}
	for i := 0; i < 3; i++ {
		post := model.Post{ThreadID: thread.ID, Author: "bob", Text: "reply"}
		if _, err := st.CreatePost(ctx, &post); err != nil {
			t.Fatalf("create post: %v", err)
		}
	}
	doc := model.Document{ID: "cascade-doc", ThreadID: thread.ID, Title: "d", Content: []byte(`{}`), Type: "json"}
	if err := st.CreateDocument(ctx, &doc); err != nil {
		t.Fatalf("create document: %v", err)
	}
	hook := model.Webhook{ThreadID: thread.ID, URL: "http://example.com/hook"}
	if _, err := st.CreateWebhook(ctx, &hook); err != nil {
		t.Fatalf("create webhook: %v", err)
	}
	key := model.APIKey{ThreadID: thread.ID, KeyName: "k", APIKey: "secret", Permissions: model.DefaultPermissions()}
	if _, err := st.CreateAPIKey(ctx, &key); err != nil {
		t.Fatalf("create api key: %v", err)
	}

	if err := st.DeleteThread(ctx, thread.ID); err != nil {
		t.Fatalf("delete thread: %v", err)
	}

	if _, err := st.LookupThread(ctx, thread.ID); !errors.Is(err, store.ErrThreadNotFound) {
		t.Fatalf("expected ErrThreadNotFound, got %v", err)
	}
	if posts, _ := st.ListPosts(ctx, thread.ID); len(posts) != 0 {
		t.Fatalf("expected 0 posts after cascade, got %d", len(posts))
	}
	if docs, _ := st.ListDocuments(ctx, thread.ID); len(docs) != 0 {
		t.Fatalf("expected 0 documents after cascade, got %d", len(docs))
	}
	if hooks, _ := st.ListWebhooks(ctx, thread.ID); len(hooks) != 0 {
		t.Fatalf("expected 0 webhooks after cascade, got %d", len(hooks))
	}
	if keys, _ := st.ListAPIKeys(ctx, thread.ID); len(keys) != 0 {
		t.Fatalf("expected 0 api keys after cascade, got %d", len(keys))
	}

	if err := st.DeleteThread(ctx, thread.ID); !errors.Is(err, store.ErrThreadNotFound) {
		t.Fatalf("expected ErrThreadNotFound on second delete, got %v", err)
	}
}

func TestSharePubkeyOverwrites(t *testing.T) {
	st := newTestStore(t)
	defer st.Close()
	ctx := context.Background()

	thread, err := st.CreateThread(ctx, "Shared", "alice", "first", "")
	if err != nil {
		t.Fatalf("create thread: %v", err)
	}
	if err := st.SetSharePubkey(ctx, thread.ID, "first-token"); err != nil {
		t.Fatalf("set share pubkey: %v", err)
	}
	if err := st.SetSharePubkey(ctx, thread.ID, "second-token"); err != nil {
		t.Fatalf("rotate share pubkey: %v", err)
	}
	got, err := st.LookupThread(ctx, thread.ID)
	if err != nil {
		t.Fatalf("lookup thread: %v", err)
	}
	if got.SharePubkey != "second-token" {
		t.Fatalf("expected overwrite, got %s", got.SharePubkey)
	}

	if err := st.SetSharePubkey(ctx, thread.ID, ""); err != nil {
		t.Fatalf("clear share pubkey: %v", err)
	}
	got, _ = st.LookupThread(ctx, thread.ID)
	if got.SharePubkey != "" {
		t.Fatalf("expected cleared pubkey, got %s", got.SharePubkey)
	}

	if err := st.SetSharePubkey(ctx, 9999, "x"); !errors.Is(err, store.ErrThreadNotFound) {
		t.Fatalf("expected ErrThreadNotFound, got %v", err)
	}
}

func TestCorruptPermissionsFallBackToDefault(t *testing.T) {
	st := newTestStore(t)
	defer st.Close()
	ctx := context.Background()

	thread, err := st.CreateThread(ctx, "Keys", "alice", "first", "")
	if err != nil {
		t.Fatalf("create thread: %v", err)
	}
	now := time.Now().Unix()
	if _, err := st.db.ExecContext(ctx, `
INSERT INTO api_keys (thread_id, key_name, api_key, permissions, created_at, updated_at)
VALUES (?, 'legacy', 'legacy-key', 'not json at all', ?, ?)
`, thread.ID, now, now); err != nil {
		t.Fatalf("insert corrupt key: %v", err)
	}

	keys, err := st.ListAPIKeys(ctx, thread.ID)
	if err != nil {
		t.Fatalf("list api keys: %v", err)
	}
	if len(keys) != 1 {
		t.Fatalf("expected 1 key, got %d", len(keys))
	}
	want := model.Permissions{Read: true}
	if keys[0].Permissions != want {
		t.Fatalf("expected read-only default, got %+v", keys[0].Permissions)
	}
}

func TestWebhookTriggered(t *testing.T) {
	st := newTestStore(t)
	defer st.Close()
	ctx := context.Background()

	thread, err := st.CreateThread(ctx, "Hooks", "alice", "first", "")
	if err != nil {
		t.Fatalf("create thread: %v", err)
	}
	hook := model.Webhook{ThreadID: thread.ID, URL: "http://example.com", APIKey: "s3cret"}
	if _, err := st.CreateWebhook(ctx, &hook); err != nil {
		t.Fatalf("create webhook: %v", err)
	}

	hooks, _ := st.ListWebhooks(ctx, thread.ID)
	if len(hooks) != 1 || hooks[0].LastTriggered != nil {
		t.Fatalf("unexpected webhooks: %+v", hooks)
	}
	if hooks[0].APIKey != "s3cret" {
		t.Fatalf("secret not round-tripped")
	}

	if err := st.MarkWebhookTriggered(ctx, hook.ID); err != nil {
		t.Fatalf("mark triggered: %v", err)
	}
	hooks, _ = st.ListWebhooks(ctx, thread.ID)
	if hooks[0].LastTriggered == nil {
		t.Fatalf("expected last_triggered to be set")
	}

	if err := st.DeleteWebhook(ctx, thread.ID, hook.ID); err != nil {
		t.Fatalf("delete webhook: %v", err)
	}
	if err := st.DeleteWebhook(ctx, thread.ID, hook.ID); !errors.Is(err, store.ErrWebhookNotFound) {
		t.Fatalf("expected ErrWebhookNotFound, got %v", err)
	}
}

func TestSiteStats(t *testing.T) {
	st := newTestStore(t)
	defer st.Close()
	ctx := context.Background()

	if _, err := st.CreateThread(ctx, "A", "alice", "first", ""); err != nil {
		t.Fatalf("create thread: %v", err)
	}
	thread, err := st.CreateThread(ctx, "B", "bob", "first", "")
	if err != nil {
		t.Fatalf("create thread: %v", err)
	}
	doc := model.Document{ID: "stats-doc", ThreadID: thread.ID, Title: "d", Content: []byte(`1`), Type: "json"}
	if err := st.CreateDocument(ctx, &doc); err != nil {
		t.Fatalf("create document: %v", err)
	}

	stats, err := st.GetSiteStats(ctx)
	if err != nil {
		t.Fatalf("get stats: %v", err)
	}
	if stats.Threads != 2 || stats.Posts != 2 || stats.Documents != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}
