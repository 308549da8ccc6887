package domain

import (
	"errors"
	"strings"
	"time"
)

// Kind classifies a shop notice for the storefront.
type Kind string

const (
	KindInfo    Kind = "info"
	KindWarning Kind = "warning"
	KindClosed  Kind = "closed"
)

var (
	ErrInvalidKind   = errors.New("invalid notice kind")
	ErrTitleRequired = errors.New("notice title is required")
	ErrNoNotice      = errors.New("no active notice")
)

// Notice is the announcement shown on top of the storefront, e.g. holiday hours.
type Notice struct {
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	Kind      Kind       `json:"kind"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// NewNotice validates and builds a notice. ttl <= 0 keeps it until removed.
func NewNotice(title, message string, kind Kind, ttl time.Duration, now time.Time) (*Notice, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if kind == "" {
		kind = KindInfo
	}
	switch kind {
	case KindInfo, KindWarning, KindClosed:
	default:
		return nil, ErrInvalidKind
	}

	n := &Notice{
		Title:     title,
		Message:   strings.TrimSpace(message),
		Kind:      kind,
		CreatedAt: now.UTC(),
	}
	if ttl > 0 {
		exp := n.CreatedAt.Add(ttl)
		n.ExpiresAt = &exp
	}
	return n, nil
}

// TTL returns the remaining lifetime at now, 0 when permanent.
func (n *Notice) TTL(now time.Time) time.Duration {
	if n.ExpiresAt == nil {
		return 0
	}
	return n.ExpiresAt.Sub(now)
}
