package model

import (
	"encoding/json"
	"time"
)

type Thread struct {
	ID           int64      `json:"id"`
	Title        string     `json:"title"`
	Creator      string     `json:"creator"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	LastActivity time.Time  `json:"last_activity"`
	ViewCount    int        `json:"view_count"`
	ReplyCount   int        `json:"reply_count"`
	SharePubkey  string     `json:"-"`
	Posts        []Post     `json:"posts,omitempty"`
	Documents    []Document `json:"documents,omitempty"`
}

type Post struct {
	ID            int64      `json:"id"`
	ThreadID      int64      `json:"thread_id"`
	Author        string     `json:"author"`
	Text          string     `json:"text"`
	Image         string     `json:"image,omitempty"`
	Time          time.Time  `json:"time"`
	Edited        bool       `json:"edited"`
	Seen          bool       `json:"seen"`
	ViewCount     int        `json:"view_count"`
	LastViewed    *time.Time `json:"last_viewed,omitempty"`
	IsInitialPost bool       `json:"is_initial_post"`
}

// Document content is stored as raw JSON; callers send either a string or
// nested arrays, so it is never decoded server-side.
type Document struct {
	ID         string          `json:"id"`
	ThreadID   int64           `json:"thread_id"`
	Title      string          `json:"title"`
	Content    json.RawMessage `json:"content"`
	Type       string          `json:"type"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	LastViewed *time.Time      `json:"last_viewed,omitempty"`
	ViewCount  int             `json:"view_count"`
}

// Webhook is a thread-owned outbound endpoint. APIKey is an HMAC signing
// secret, not an authorization credential.
type Webhook struct {
	ID            int64      `json:"id"`
	ThreadID      int64      `json:"thread_id"`
	URL           string     `json:"url"`
	APIKey        string     `json:"-"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	LastTriggered *time.Time `json:"last_triggered,omitempty"`
}

// APIKey is a credential scoped to exactly one thread.
type APIKey struct {
	ID          int64       `json:"id"`
	ThreadID    int64       `json:"thread_id"`
	KeyName     string      `json:"key_name"`
	APIKey      string      `json:"api_key"`
	Permissions Permissions `json:"permissions"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

type Permissions struct {
	Read   bool `json:"read"`
	Write  bool `json:"write"`
	Delete bool `json:"delete"`
}

// DefaultPermissions is the fallback for a missing or corrupt permission
// blob: read-only. Deny-all would break existing keys, allow-all would be a
// privilege escalation.
func DefaultPermissions() Permissions {
	return Permissions{Read: true}
}

// ParsePermissions decodes the serialized flag set once at load time,
// falling back to the read-only default when the value does not parse.
func ParsePermissions(raw string) Permissions {
	if raw == "" {
		return DefaultPermissions()
	}
	var p Permissions
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return DefaultPermissions()
	}
	return p
}

func (p Permissions) Encode() string {
	b, _ := json.Marshal(p)
	return string(b)
}

type SiteStats struct {
	Threads   int64 `json:"threads"`
	Posts     int64 `json:"posts"`
	Documents int64 `json:"documents"`
}
