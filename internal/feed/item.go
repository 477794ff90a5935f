package feed

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// Item is a generated email. Identity is ID.
type Item struct {
	ID      string `json:"id"`
	Sender  string `json:"sender"`
	Subject string `json:"subject"`
	Body    string `json:"content"`
}

// errMalformed marks entries that are skipped without failing the batch.
var errMalformed = errors.New("malformed item")

// wireItem accepts ids encoded as JSON strings or numbers.
type wireItem struct {
	ID      json.RawMessage `json:"id"`
	Sender  string          `json:"sender"`
	Subject string          `json:"subject"`
	Content string          `json:"content"`
}

// decodeItem parses one raw batch entry. Any missing or empty required
// field makes the entry malformed.
func decodeItem(raw json.RawMessage) (Item, error) {
	var w wireItem
	if err := json.Unmarshal(raw, &w); err != nil {
		return Item{}, fmt.Errorf("%w: %w", errMalformed, err)
	}
	id, err := decodeID(w.ID)
	if err != nil {
		return Item{}, err
	}

	var missing []string
	if id == "" {
		missing = append(missing, "id")
	}
	if w.Sender == "" {
		missing = append(missing, "sender")
	}
	if w.Subject == "" {
		missing = append(missing, "subject")
	}
	if w.Content == "" {
		missing = append(missing, "content")
	}
	if len(missing) > 0 {
		return Item{}, fmt.Errorf("%w: missing %s", errMalformed, strings.Join(missing, ", "))
	}

	return Item{ID: id, Sender: w.Sender, Subject: w.Subject, Body: w.Content}, nil
}

func decodeID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), nil
	}
	return "", fmt.Errorf("%w: id must be a string or number, got %s", errMalformed, raw)
}

// ItemSet is an insertion-ordered set of items keyed by ID. It only grows.
type ItemSet struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]Item
}

// NewItemSet creates an empty set.
func NewItemSet() *ItemSet {
	return &ItemSet{byID: make(map[string]Item)}
}

// Add inserts item unless its ID is already present. It reports whether the
// item was inserted.
func (s *ItemSet) Add(item Item) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[item.ID]; ok {
		return false
	}
	s.byID[item.ID] = item
	s.order = append(s.order, item.ID)
	return true
}

// Len returns the number of items.
func (s *ItemSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Items returns the items in insertion order.
func (s *ItemSet) Items() []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Item, len(s.order))
	for i, id := range s.order {
		out[i] = s.byID[id]
	}
	return out
}
