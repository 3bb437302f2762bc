package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const fileName = "session.json"

var ErrNoSession = errors.New("no session")

// Session is what a login leaves behind: the cookies the API set.
type Session struct {
	Cookies   []Cookie  `json:"cookies"`
	Source    string    `json:"source"`     // "env" | "file"
	CreatedAt time.Time `json:"created_at"` // when we saved to file
}

type Cookie struct {
	Name    string     `json:"name"`
	Value   string     `json:"value"`
	Path    string     `json:"path,omitempty"`
	Expires *time.Time `json:"expires,omitempty"`
}

type Store interface {
	Load() (*Session, error)
	Save(s *Session) error
	Clear() error
}

// FileStore keeps the session in Dir/session.json, owner-only. A non-empty
// EnvCookie ("name=value") wins over the file.
type FileStore struct {
	Dir       string
	EnvCookie string
	Now       func() time.Time
}

// DefaultDir is ~/.tada.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home: %w", err)
	}
	return filepath.Join(home, ".tada"), nil
}

func NewFileStore(dir, envCookie string) (*FileStore, error) {
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	return &FileStore{Dir: dir, EnvCookie: strings.TrimSpace(envCookie), Now: time.Now}, nil
}

func (s *FileStore) path() string {
	return filepath.Join(s.Dir, fileName)
}

func (s *FileStore) Load() (*Session, error) {
	// 1) env override
	if s.EnvCookie != "" {
		name, value, ok := strings.Cut(s.EnvCookie, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("session cookie override must be name=value")
		}
		return &Session{
			Cookies: []Cookie{{Name: strings.TrimSpace(name), Value: strings.TrimSpace(value), Path: "/"}},
			Source:  "env",
		}, nil
	}

	// 2) file
	b, err := os.ReadFile(s.path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("read session: %w", err)
	}
	var sess Session
	if err := json.Unmarshal(b, &sess); err != nil {
		return nil, fmt.Errorf("parse session: %w", err)
	}
	sess.Cookies = sess.live(s.now())
	if len(sess.Cookies) == 0 {
		return nil, ErrNoSession
	}
	sess.Source = "file"
	return &sess, nil
}

func (s *FileStore) Save(sess *Session) error {
	if sess == nil || len(sess.Cookies) == 0 {
		return fmt.Errorf("empty session")
	}
	// ensure the dir exists with 0700
	if err := os.MkdirAll(s.Dir, 0o700); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	out := *sess
	out.Source = "file"
	if out.CreatedAt.IsZero() {
		out.CreatedAt = s.now()
	}
	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	// write with 0600 (owner-only)
	if err := os.WriteFile(s.path(), b, 0o600); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// Clear forgets the file session. An env session is left alone.
func (s *FileStore) Clear() error {
	if err := os.Remove(s.path()); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("remove: %w", err)
	}
	return nil
}

func (s *FileStore) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func (s *Session) live(now time.Time) []Cookie {
	out := make([]Cookie, 0, len(s.Cookies))
	for _, c := range s.Cookies {
		if c.Expires != nil && !c.Expires.After(now) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// HTTPCookies converts to net/http cookies.
func (s *Session) HTTPCookies() []*http.Cookie {
	out := make([]*http.Cookie, 0, len(s.Cookies))
	for _, c := range s.Cookies {
		hc := &http.Cookie{Name: c.Name, Value: c.Value, Path: c.Path}
		if c.Expires != nil {
			hc.Expires = *c.Expires
		}
		out = append(out, hc)
	}
	return out
}

// FromHTTPCookies builds a session from jar cookies.
func FromHTTPCookies(cookies []*http.Cookie) *Session {
	sess := &Session{}
	for _, c := range cookies {
		ck := Cookie{Name: c.Name, Value: c.Value, Path: c.Path}
		if !c.Expires.IsZero() {
			exp := c.Expires
			ck.Expires = &exp
		}
		sess.Cookies = append(sess.Cookies, ck)
	}
	return sess
}
