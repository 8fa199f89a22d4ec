package httpapp

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/forumkit/forumkit/internal/authz"
	"github.com/forumkit/forumkit/internal/config"
	"github.com/forumkit/forumkit/internal/metrics"
	"github.com/forumkit/forumkit/internal/model"
	"github.com/forumkit/forumkit/internal/rate"
	"github.com/forumkit/forumkit/internal/store"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dispatcher is the webhook fan-out the server notifies after successful
// mutations. Dispatch must not return until all deliveries finished; the
// server detaches it from the response path itself.
type Dispatcher interface {
	Dispatch(ctx context.Context, threadID int64, eventType string, payload any)
}

type Server struct {
	store      store.Store
	resolver   *authz.Resolver
	dispatcher Dispatcher
	limiter    rate.Limiter
	cfg        config.Config
	metricsH   http.Handler
}

func NewServer(st store.Store, resolver *authz.Resolver, dispatcher Dispatcher, limiter rate.Limiter, cfg config.Config) *Server {
	return &Server{
		store:      st,
		resolver:   resolver,
		dispatcher: dispatcher,
		limiter:    limiter,
		cfg:        cfg,
		metricsH:   promhttp.Handler(),
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/metrics" {
		s.metricsH.ServeHTTP(w, r)
		return
	}
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	if strings.HasPrefix(r.URL.Path, "/api/") {
		s.handleAPI(rec, r)
	} else {
		notFound(rec)
	}
	metrics.HTTPRequests.WithLabelValues(r.Method, statusClass(rec.status)).Inc()
}

func (s *Server) handleAPI(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api")
	segments := splitPath(path)

	if !s.isPublic(r.Method, segments) {
		if !s.authorize(w, r) {
			return
		}
		if isMutating(r.Method) && !s.allowRateLimit(w, r) {
			return
		}
	}

	switch {
	case len(segments) == 1 && segments[0] == "threads":
		if r.Method == http.MethodGet {
			s.handleListThreads(w, r)
			return
		}
		if r.Method == http.MethodPost {
			s.handleCreateThread(w, r)
			return
		}
	case len(segments) == 2 && segments[0] == "threads":
		if r.Method == http.MethodGet {
			s.handleGetThread(w, r, segments[1])
			return
		}
		if r.Method == http.MethodDelete {
			s.handleDeleteThread(w, r, segments[1])
			return
		}
	case len(segments) == 3 && segments[0] == "threads" && segments[1] == "latest":
		if r.Method == http.MethodGet {
			s.handleLatestPosts(w, r, segments[2])
			return
		}
	case len(segments) == 3 && segments[0] == "threads" && segments[2] == "posts":
		if r.Method == http.MethodGet {
			s.handleListPosts(w, r, segments[1])
			return
		}
		if r.Method == http.MethodPost {
			s.handleCreatePost(w, r, segments[1])
			return
		}
	case len(segments) == 3 && segments[0] == "threads" && segments[2] == "documents":
		if r.Method == http.MethodGet {
			s.handleListDocuments(w, r, segments[1])
			return
		}
	case len(segments) == 3 && segments[0] == "threads" && segments[2] == "webhooks":
		if r.Method == http.MethodGet {
			s.handleListWebhooks(w, r, segments[1])
			return
		}
		if r.Method == http.MethodPost {
			s.handleCreateWebhook(w, r, segments[1])
			return
		}
	case len(segments) == 4 && segments[0] == "threads" && segments[2] == "webhooks":
		if r.Method == http.MethodDelete {
			s.handleDeleteWebhook(w, r, segments[1], segments[3])
			return
		}
	case len(segments) == 3 && segments[0] == "threads" && segments[2] == "keys":
		if r.Method == http.MethodGet {
			s.handleListAPIKeys(w, r, segments[1])
			return
		}
		if r.Method == http.MethodPost {
			s.handleCreateAPIKey(w, r, segments[1])
			return
		}
	case len(segments) == 4 && segments[0] == "threads" && segments[2] == "keys":
		if r.Method == http.MethodDelete {
			s.handleDeleteAPIKey(w, r, segments[1], segments[3])
			return
		}
	case len(segments) == 3 && segments[0] == "threads" && segments[2] == "share":
		if r.Method == http.MethodPost {
			s.handleCreateShare(w, r, segments[1])
			return
		}
		if r.Method == http.MethodDelete {
			s.handleDeleteShare(w, r, segments[1])
			return
		}
	case len(segments) == 2 && segments[0] == "posts":
		if r.Method == http.MethodGet {
			s.handleGetPost(w, r, segments[1])
			return
		}
		if r.Method == http.MethodPut {
			s.handleUpdatePost(w, r, segments[1])
			return
		}
		if r.Method == http.MethodDelete {
			s.handleDeletePost(w, r, segments[1])
			return
		}
	case len(segments) == 1 && segments[0] == "documents":
		if r.Method == http.MethodPost {
			s.handleCreateDocument(w, r)
			return
		}
	case len(segments) == 2 && segments[0] == "documents":
		if r.Method == http.MethodGet {
			s.handleGetDocument(w, r, segments[1])
			return
		}
		if r.Method == http.MethodPut {
			s.handleUpdateDocument(w, r, segments[1])
			return
		}
		if r.Method == http.MethodDelete {
			s.handleDeleteDocument(w, r, segments[1])
			return
		}
	case len(segments) == 1 && segments[0] == "stats":
		if r.Method == http.MethodGet {
			s.handleGetStats(w, r)
			return
		}
	}

	notFound(w)
}

// isPublic reports routes that bypass the resolver entirely: the global
// thread listing and the stats endpoint carry no thread scope and expose no
// per-thread data beyond what the product treats as public.
func (s *Server) isPublic(method string, segments []string) bool {
	if method != http.MethodGet {
		return false
	}
	if len(segments) == 1 && (segments[0] == "threads" || segments[0] == "stats") {
		return true
	}
	return false
}

// authorize runs the request through the resolver and writes the denial
// when access is refused. The thread id is extracted here, typed, so the
// resolver never parses paths.
func (s *Server) authorize(w http.ResponseWriter, r *http.Request) bool {
	credential := authz.Credential(r)
	threadID := authz.ThreadIDFromPath(r.URL.Path)
	decision := s.resolver.Resolve(r.Context(), credential, threadID, r.Method)
	if decision.Allowed {
		return true
	}
	payload := map[string]any{"error": string(decision.Reason)}
	if decision.Required != "" {
		payload["required"] = decision.Required
	}
	writeJSON(w, decision.Status, payload)
	return false
}

// ============================================================================
// THREADS
// ============================================================================

func (s *Server) handleListThreads(w http.ResponseWriter, r *http.Request) {
	threads, err := s.store.ListThreads(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if threads == nil {
		threads = []model.Thread{}
	}
	writeJSON(w, http.StatusOK, threads)
}

func (s *Server) handleCreateThread(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title       string `json:"title"`
		Creator     string `json:"creator"`
		InitialPost string `json:"initial_post"`
		Image       string `json:"image"`
	}
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Title == "" || req.Creator == "" || req.InitialPost == "" {
		writeError(w, http.StatusBadRequest, errors.New("title, creator and initial_post are required"))
		return
	}
	thread, err := s.store.CreateThread(r.Context(), req.Title, req.Creator, req.InitialPost, req.Image)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, thread)
}

func (s *Server) handleGetThread(w http.ResponseWriter, r *http.Request, idStr string) {
	id, ok := parseID(w, idStr)
	if !ok {
		return
	}
	thread, err := s.store.GetThread(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, thread)
}

func (s *Server) handleDeleteThread(w http.ResponseWriter, r *http.Request, idStr string) {
	id, ok := parseID(w, idStr)
	if !ok {
		return
	}
	if err := s.store.DeleteThread(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Thread deleted"})
}

// ============================================================================
// POSTS
// ============================================================================

func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request, threadIDStr string) {
	threadID, ok := parseID(w, threadIDStr)
	if !ok {
		return
	}
	if _, err := s.store.LookupThread(r.Context(), threadID); err != nil {
		writeStoreError(w, err)
		return
	}
	posts, err := s.store.ListPosts(r.Context(), threadID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if posts == nil {
		posts = []model.Post{}
	}
	writeJSON(w, http.StatusOK, posts)
}

func (s *Server) handleLatestPosts(w http.ResponseWriter, r *http.Request, threadIDStr string) {
	threadID, ok := parseID(w, threadIDStr)
	if !ok {
		return
	}
	if _, err := s.store.LookupThread(r.Context(), threadID); err != nil {
		writeStoreError(w, err)
		return
	}
	opts := store.PostListOpts{
		Limit: parseIntDefault(r.URL.Query().Get("limit"), 50),
		After: parseInt64Default(r.URL.Query().Get("after"), 0),
	}
	posts, err := s.store.GetLatestPosts(r.Context(), threadID, opts)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if posts == nil {
		posts = []model.Post{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"posts":  posts,
		"cursor": nextCursor(posts, opts.After),
	})
}

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request, threadIDStr string) {
	threadID, ok := parseID(w, threadIDStr)
	if !ok {
		return
	}
	var req struct {
		Author string `json:"author"`
		Text   string `json:"text"`
		Image  string `json:"image"`
	}
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, errors.New("text is required"))
		return
	}
	if req.Author == "" {
		req.Author = "user"
	}
	if _, err := s.store.LookupThread(r.Context(), threadID); err != nil {
		writeStoreError(w, err)
		return
	}
	post := model.Post{ThreadID: threadID, Author: req.Author, Text: req.Text, Image: req.Image}
	if _, err := s.store.CreatePost(r.Context(), &post); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.notify(threadID, "post.created", post)
	writeJSON(w, http.StatusCreated, post)
}

func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request, idStr string) {
	id, ok := parseID(w, idStr)
	if !ok {
		return
	}
	post, err := s.store.GetPost(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (s *Server) handleUpdatePost(w http.ResponseWriter, r *http.Request, idStr string) {
	id, ok := parseID(w, idStr)
	if !ok {
		return
	}
	var req struct {
		Text  string `json:"text"`
		Image string `json:"image"`
	}
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, errors.New("text is required"))
		return
	}
	post, err := s.store.UpdatePost(r.Context(), id, req.Text, req.Image)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	s.notify(post.ThreadID, "post.updated", post)
	writeJSON(w, http.StatusOK, post)
}

func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request, idStr string) {
	id, ok := parseID(w, idStr)
	if !ok {
		return
	}
	post, err := s.store.LookupPost(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if err := s.store.DeletePost(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}
	s.notify(post.ThreadID, "post.deleted", map[string]any{"id": id, "thread_id": post.ThreadID})
	writeJSON(w, http.StatusOK, map[string]any{"message": "Post deleted"})
}

// ============================================================================
// DOCUMENTS
// ============================================================================

func (s *Server) handleCreateDocument(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID       string          `json:"id"`
		ThreadID int64           `json:"thread_id"`
		Title    string          `json:"title"`
		Content  json.RawMessage `json:"content"`
		Type     string          `json:"type"`
	}
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.ThreadID == 0 || req.Title == "" || len(req.Content) == 0 || req.Type == "" {
		writeError(w, http.StatusBadRequest, errors.New("thread_id, title, content and type are required"))
		return
	}
	if _, err := s.store.LookupThread(r.Context(), req.ThreadID); err != nil {
		writeStoreError(w, err)
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	doc := model.Document{
		ID:       req.ID,
		ThreadID: req.ThreadID,
		Title:    req.Title,
		Content:  req.Content,
		Type:     req.Type,
	}
	if err := s.store.CreateDocument(r.Context(), &doc); err != nil {
		writeStoreError(w, err)
		return
	}
	s.notify(doc.ThreadID, "document.created", doc)
	writeJSON(w, http.StatusCreated, doc)
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request, threadIDStr string) {
	threadID, ok := parseID(w, threadIDStr)
	if !ok {
		return
	}
	if _, err := s.store.LookupThread(r.Context(), threadID); err != nil {
		writeStoreError(w, err)
		return
	}
	docs, err := s.store.ListDocuments(r.Context(), threadID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	// Keyed by id, matching the shape document clients expect.
	byID := make(map[string]model.Document, len(docs))
	for _, d := range docs {
		byID[d.ID] = d
	}
	writeJSON(w, http.StatusOK, byID)
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request, id string) {
	doc, err := s.store.GetDocument(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleUpdateDocument(w http.ResponseWriter, r *http.Request, id string) {
	var req struct {
		Title   *string         `json:"title"`
		Content json.RawMessage `json:"content"`
		Type    *string         `json:"type"`
	}
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	upd := store.DocumentUpdate{Title: req.Title, Type: req.Type}
	if len(req.Content) > 0 {
		upd.Content = req.Content
	}
	doc, err := s.store.UpdateDocument(r.Context(), id, upd)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	s.notify(doc.ThreadID, "document.updated", doc)
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request, id string) {
	doc, err := s.store.LookupDocument(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if err := s.store.DeleteDocument(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}
	s.notify(doc.ThreadID, "document.deleted", map[string]any{"id": id, "thread_id": doc.ThreadID})
	writeJSON(w, http.StatusOK, map[string]any{"message": "Document deleted"})
}

// ============================================================================
// WEBHOOKS
// ============================================================================

func (s *Server) handleCreateWebhook(w http.ResponseWriter, r *http.Request, threadIDStr string) {
	threadID, ok := parseID(w, threadIDStr)
	if !ok {
		return
	}
	var req struct {
		URL    string `json:"url"`
		APIKey string `json:"api_key"`
	}
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.URL == "" {
		writeError(w, http.StatusBadRequest, errors.New("url is required"))
		return
	}
	if _, err := s.store.LookupThread(r.Context(), threadID); err != nil {
		writeStoreError(w, err)
		return
	}
	hook := model.Webhook{ThreadID: threadID, URL: req.URL, APIKey: req.APIKey}
	if _, err := s.store.CreateWebhook(r.Context(), &hook); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, hook)
}

func (s *Server) handleListWebhooks(w http.ResponseWriter, r *http.Request, threadIDStr string) {
	threadID, ok := parseID(w, threadIDStr)
	if !ok {
		return
	}
	hooks, err := s.store.ListWebhooks(r.Context(), threadID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if hooks == nil {
		hooks = []model.Webhook{}
	}
	writeJSON(w, http.StatusOK, hooks)
}

func (s *Server) handleDeleteWebhook(w http.ResponseWriter, r *http.Request, threadIDStr, idStr string) {
	threadID, ok := parseID(w, threadIDStr)
	if !ok {
		return
	}
	id, ok := parseID(w, idStr)
	if !ok {
		return
	}
	if err := s.store.DeleteWebhook(r.Context(), threadID, id); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Webhook deleted"})
}

// ============================================================================
// API KEYS
// ============================================================================

func (s *Server) handleCreateAPIKey(w http.ResponseWriter, r *http.Request, threadIDStr string) {
	threadID, ok := parseID(w, threadIDStr)
	if !ok {
		return
	}
	var req struct {
		KeyName     string             `json:"key_name"`
		Permissions *model.Permissions `json:"permissions"`
	}
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.KeyName == "" {
		writeError(w, http.StatusBadRequest, errors.New("key_name is required"))
		return
	}
	if _, err := s.store.LookupThread(r.Context(), threadID); err != nil {
		writeStoreError(w, err)
		return
	}
	perms := model.DefaultPermissions()
	if req.Permissions != nil {
		perms = *req.Permissions
	}
	value, err := randomToken(32)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	key := model.APIKey{ThreadID: threadID, KeyName: req.KeyName, APIKey: value, Permissions: perms}
	if _, err := s.store.CreateAPIKey(r.Context(), &key); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, key)
}

func (s *Server) handleListAPIKeys(w http.ResponseWriter, r *http.Request, threadIDStr string) {
	threadID, ok := parseID(w, threadIDStr)
	if !ok {
		return
	}
	keys, err := s.store.ListAPIKeys(r.Context(), threadID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if keys == nil {
		keys = []model.APIKey{}
	}
	writeJSON(w, http.StatusOK, keys)
}

func (s *Server) handleDeleteAPIKey(w http.ResponseWriter, r *http.Request, threadIDStr, idStr string) {
	threadID, ok := parseID(w, threadIDStr)
	if !ok {
		return
	}
	id, ok := parseID(w, idStr)
	if !ok {
		return
	}
	if err := s.store.DeleteAPIKey(r.Context(), threadID, id); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "API key deleted"})
}

// ============================================================================
// SHARE
// ============================================================================

func (s *Server) handleCreateShare(w http.ResponseWriter, r *http.Request, threadIDStr string) {
	threadID, ok := parseID(w, threadIDStr)
	if !ok {
		return
	}
	token, err := randomToken(24)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	// Single-valued per thread: a second share overwrites the first.
	if err := s.store.SetSharePubkey(r.Context(), threadID, token); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"share_pubkey": token,
		"credential":   "narrow_" + token,
	})
}

func (s *Server) handleDeleteShare(w http.ResponseWriter, r *http.Request, threadIDStr string) {
	threadID, ok := parseID(w, threadIDStr)
	if !ok {
		return
	}
	if err := s.store.SetSharePubkey(r.Context(), threadID, ""); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Share link revoked"})
}

// ============================================================================
// STATS
// ============================================================================

func (s *Server) handleGetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.GetSiteStats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// ============================================================================
// HELPERS
// ============================================================================

// notify hands the event to the dispatcher on a detached goroutine: the
// mutation is already committed, so "persisted before fired" holds, and the
// response does not wait on third-party endpoints.
func (s *Server) notify(threadID int64, eventType string, payload any) {
	go s.dispatcher.Dispatch(context.Background(), threadID, eventType, payload)
}

func (s *Server) allowRateLimit(w http.ResponseWriter, r *http.Request) bool {
	if s.limiter == nil {
		return true
	}
	if s.limiter.Allow(s.clientIP(r), s.cfg.RateLimits.WritePerMinute) {
		return true
	}
	writeJSON(w, http.StatusTooManyRequests, map[string]any{"error": "rate limit exceeded"})
	return false
}

func (s *Server) clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		parts := strings.Split(fwd, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

func parseID(w http.ResponseWriter, idStr string) (int64, bool) {
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid id"))
		return 0, false
	}
	return id, true
}

func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrThreadNotFound),
		errors.Is(err, store.ErrPostNotFound),
		errors.Is(err, store.ErrDocumentNotFound),
		errors.Is(err, store.ErrWebhookNotFound),
		errors.Is(err, store.ErrKeyNotFound):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, store.ErrNoUpdates):
		writeError(w, http.StatusBadRequest, err)
	default:
		writeError(w, http.StatusInternalServerError, err)
	}
}

func readJSON(body io.ReadCloser, dest any) error {
	defer body.Close()
	dec := json.NewDecoder(io.LimitReader(body, 1<<20))
	return dec.Decode(dest)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]any{"error": err.Error()})
}

func notFound(w http.ResponseWriter) {
	writeError(w, http.StatusNotFound, errors.New("not found"))
}

func parseIntDefault(value string, def int) int {
	if value == "" {
		return def
	}
	if n, err := strconv.Atoi(value); err == nil {
		return n
	}
	return def
}

func parseInt64Default(value string, def int64) int64 {
	if value == "" {
		return def
	}
	if n, err := strconv.ParseInt(value, 10, 64); err == nil {
		return n
	}
	return def
}

func nextCursor(posts []model.Post, prev int64) int64 {
	if len(posts) == 0 {
		return prev
	}
	return posts[len(posts)-1].Time.Unix()
}

func randomToken(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func statusClass(status int) string {
	return strconv.Itoa(status/100) + "xx"
}
