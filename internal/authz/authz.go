// Package authz decides whether a request credential may act on a thread.
//
// Three schemes are tried in order, first match wins: a narrow share token
// (prefix "narrow_") checked against the thread's share_pubkey, the
// process-wide master key, and finally a thread-scoped API key whose
// read/write/delete flags gate the HTTP method.
package authz

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strconv"
	"strings"

	"github.com/forumkit/forumkit/internal/model"
	"github.com/forumkit/forumkit/internal/store"
)

const narrowPrefix = "narrow_"

type Reason string

const (
	ReasonMissingCredential      Reason = "missing_credential"
	ReasonInvalidCredential      Reason = "invalid_credential"
	ReasonInvalidNarrowToken     Reason = "invalid_narrow_token"
	ReasonInsufficientPermission Reason = "insufficient_permission"
	ReasonThreadNotFound         Reason = "thread_not_found"
	ReasonThreadIDNotFound       Reason = "thread_id_not_found"
)

// Decision is the outcome of a resolve call. For denials, Status carries
// the HTTP status the route layer should answer with and Required names the
// permission flag that was missing, when that is the cause.
type Decision struct {
	Allowed  bool
	Reason   Reason
	Status   int
	Required string
}

func allow() Decision {
	return Decision{Allowed: true, Status: http.StatusOK}
}

func deny(reason Reason) Decision {
	status := http.StatusForbidden
	switch reason {
	case ReasonMissingCredential:
		status = http.StatusUnauthorized
	case ReasonThreadNotFound, ReasonThreadIDNotFound:
		status = http.StatusNotFound
	}
	return Decision{Reason: reason, Status: status}
}

type Resolver struct {
	store     store.Store
	masterKey string
}

func NewResolver(st store.Store, masterKey string) *Resolver {
	return &Resolver{store: st, masterKey: masterKey}
}

// Resolve decides access for a bearer credential against an optional thread
// scope. threadID is nil when the request path carries no thread id; lookups
// performed here are read-only and never bump view counters.
func (r *Resolver) Resolve(ctx context.Context, credential string, threadID *int64, method string) Decision {
	if credential == "" {
		return deny(ReasonMissingCredential)
	}

	if token, ok := strings.CutPrefix(credential, narrowPrefix); ok {
		if threadID == nil {
			return deny(ReasonThreadIDNotFound)
		}
		thread, err := r.store.LookupThread(ctx, *threadID)
		if err != nil {
			return deny(ReasonThreadNotFound)
		}
		if thread.SharePubkey == "" || subtle.ConstantTimeCompare([]byte(token), []byte(thread.SharePubkey)) != 1 {
			return deny(ReasonInvalidNarrowToken)
		}
		// Share tokens are not method-restricted. See design notes.
		return allow()
	}

	if r.masterKey != "" && subtle.ConstantTimeCompare([]byte(credential), []byte(r.masterKey)) == 1 {
		return allow()
	}

	if threadID == nil {
		return deny(ReasonThreadIDNotFound)
	}
	keys, err := r.store.ListAPIKeys(ctx, *threadID)
	if err != nil {
		return deny(ReasonInvalidCredential)
	}
	for _, key := range keys {
		if subtle.ConstantTimeCompare([]byte(key.APIKey), []byte(credential)) == 1 {
			return checkMethod(key.Permissions, method)
		}
	}
	return deny(ReasonInvalidCredential)
}

func checkMethod(perms model.Permissions, method string) Decision {
	var granted bool
	var required string
	switch method {
	case http.MethodGet, http.MethodHead:
		granted, required = perms.Read, "read"
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		granted, required = perms.Write, "write"
	case http.MethodDelete:
		granted, required = perms.Delete, "delete"
	default:
		granted, required = false, "write"
	}
	if !granted {
		d := deny(ReasonInsufficientPermission)
		d.Required = required
		return d
	}
	return allow()
}

// Credential extracts the bearer value from an Authorization header.
// A missing or malformed header yields the empty credential, which Resolve
// turns into a missing-credential denial.
func Credential(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

// ThreadIDFromPath finds the thread id in a request path: the segment
// immediately following a literal "threads" component, skipping a "latest"
// segment if one sits in between. Returns nil when no valid numeric id is
// present, so callers pass the typed id (or its absence) to Resolve.
func ThreadIDFromPath(path string) *int64 {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i, seg := range segments {
		if seg != "threads" {
			continue
		}
		j := i + 1
		if j < len(segments) && segments[j] == "latest" {
			j++
		}
		if j >= len(segments) {
			return nil
		}
		id, err := strconv.ParseInt(segments[j], 10, 64)
		if err != nil {
			return nil
		}
		return &id
	}
	return nil
}
