// ABOUTME: In-memory fake of the Memos REST API for tests.
// ABOUTME: Records every request so tests can assert exact upstream traffic.

package memostest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	Prefix = "/api/v1"
	Token  = "test-token"
)

// Call is one request as seen by the fake.
type Call struct {
	Method    string
	Path      string
	Query     string
	Body      string
	Header    http.Header
	RequestID string
}

// Server is a non-caching fake Memos instance. The zero value is not usable;
// call NewServer.
type Server struct {
	*httptest.Server

	mu     sync.Mutex
	memos  map[string]map[string]any
	order  []string
	nextID int
	calls  []Call

	// Delay is applied before every response.
	Delay time.Duration
	// Handler, when set, replaces the fake's routing entirely.
	Handler http.HandlerFunc
}

func NewServer() *Server {
	s := &Server{memos: make(map[string]map[string]any), nextID: 1}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	return s
}

// Seed stores a memo and returns its resource name.
func (s *Server) Seed(content string, tags ...string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insert(content, "PRIVATE", tags)
}

func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

func (s *Server) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func (s *Server) LastCall() Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.calls) == 0 {
		return Call{}
	}
	return s.calls[len(s.calls)-1]
}

func (s *Server) insert(content, visibility string, tags []string) string {
	id := strconv.Itoa(s.nextID)
	s.nextID++
	now := time.Date(2026, 1, 31, 7, 4, 5, 0, time.UTC).Add(time.Duration(s.nextID) * time.Minute)
	if tags == nil {
		tags = []string{}
	}
	s.memos[id] = map[string]any{
		"name":       "memos/" + id,
		"content":    content,
		"visibility": visibility,
		"state":      "NORMAL",
		"creator":    "users/1",
		"createTime": now.Format(time.RFC3339),
		"updateTime": now.Format(time.RFC3339),
		"tags":       tags,
	}
	s.order = append(s.order, id)
	return "memos/" + id
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	s.mu.Lock()
	s.calls = append(s.calls, Call{
		Method:    r.Method,
		Path:      r.URL.Path,
		Query:     r.URL.RawQuery,
		Body:      string(body),
		Header:    r.Header.Clone(),
		RequestID: r.Header.Get("X-Request-Id"),
	})
	delay := s.Delay
	override := s.Handler
	s.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}
	if override != nil {
		r.Body = io.NopCloser(strings.NewReader(string(body)))
		override(w, r)
		return
	}

	if r.Header.Get("Authorization") != "Bearer "+Token {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"code": 16, "message": "invalid access token"})
		return
	}

	path := strings.TrimPrefix(r.URL.Path, Prefix)
	switch {
	case path == "/memos" && r.Method == http.MethodPost:
		s.create(w, body)
	case path == "/memos" && r.Method == http.MethodGet:
		s.list(w, r)
	case strings.HasPrefix(path, "/memos/"):
		s.memo(w, r, strings.TrimPrefix(path, "/memos/"), body)
	case path == "/tags" && r.Method == http.MethodGet:
		s.tags(w)
	case path == "/user/me" && r.Method == http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{"name": "users/1", "username": "harper", "nickname": "Harper", "role": "HOST"})
	default:
		writeJSON(w, http.StatusNotFound, map[string]any{"code": 5, "message": "route not found"})
	}
}

func (s *Server) create(w http.ResponseWriter, body []byte) {
	var req struct {
		Content    string `json:"content"`
		Visibility string `json:"visibility"`
	}
	if err := json.Unmarshal(body, &req); err != nil || strings.TrimSpace(req.Content) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"code": 3, "message": "content is required"})
		return
	}
	s.mu.Lock()
	name := s.insert(req.Content, req.Visibility, nil)
	memo := s.memos[strings.TrimPrefix(name, "memos/")]
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, memo)
}

var containsFilter = regexp.MustCompile(`^content\.contains\("((?:[^"\\]|\\.)*)"\)$`)

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var needle string
	if f := q.Get("filter"); f != "" {
		m := containsFilter.FindStringSubmatch(f)
		if m == nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"code": 3, "message": "invalid filter"})
			return
		}
		needle = strings.NewReplacer(`\"`, `"`, `\\`, `\`).Replace(m[1])
	}
	pageSize, _ := strconv.Atoi(q.Get("pageSize"))

	s.mu.Lock()
	defer s.mu.Unlock()
	memos := []map[string]any{}
	for i := len(s.order) - 1; i >= 0; i-- {
		memo, ok := s.memos[s.order[i]]
		if !ok {
			continue
		}
		if needle != "" && !strings.Contains(memo["content"].(string), needle) {
			continue
		}
		if v := q.Get("visibility"); v != "" && memo["visibility"] != v {
			continue
		}
		if tag := q.Get("tag"); tag != "" && !hasTag(memo, tag) {
			continue
		}
		memos = append(memos, memo)
		if pageSize > 0 && len(memos) == pageSize {
			break
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"memos": memos, "nextPageToken": ""})
}

func (s *Server) memo(w http.ResponseWriter, r *http.Request, id string, body []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	memo, ok := s.memos[id]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"code": 5, "message": "memo not found"})
		return
	}
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, memo)
	case http.MethodPatch:
		var patch map[string]any
		if err := json.Unmarshal(body, &patch); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"code": 3, "message": "invalid body"})
			return
		}
		for k, v := range patch {
			if k == "rowStatus" {
				k = "state"
			}
			memo[k] = v
		}
		writeJSON(w, http.StatusOK, memo)
	case http.MethodDelete:
		delete(s.memos, id)
		writeJSON(w, http.StatusOK, map[string]any{})
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"message": "method not allowed"})
	}
}

func (s *Server) tags(w http.ResponseWriter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set := map[string]bool{}
	for _, memo := range s.memos {
		for _, t := range memo["tags"].([]string) {
			set[t] = true
		}
	}
	tags := make([]string, 0, len(set))
	for t := range set {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	writeJSON(w, http.StatusOK, map[string]any{"tags": tags})
}

func hasTag(memo map[string]any, tag string) bool {
	for _, t := range memo["tags"].([]string) {
		if t == tag {
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
