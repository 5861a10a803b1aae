package storage

import (
	"sync"

	"github.com/google/uuid"
	"github.com/lehigh-university-libraries/wordcards/internal/batch"
	"github.com/lehigh-university-libraries/wordcards/internal/models"
)

// SessionStore keeps one controller per session
type SessionStore struct {
	sessions map[string]*batch.Controller
	mu       sync.RWMutex
}

func New() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*batch.Controller),
	}
}

// Create stores ctrl under a new random ID and returns the ID.
func (s *SessionStore) Create(ctrl *batch.Controller) string {
	id := uuid.NewString()
	s.Set(id, ctrl)
	return id
}

func (s *SessionStore) Get(sessionID string) (*batch.Controller, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ctrl, exists := s.sessions[sessionID]
	return ctrl, exists
}

func (s *SessionStore) Set(sessionID string, ctrl *batch.Controller) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = ctrl
}

func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Delete removes a session and releases its previews.
func (s *SessionStore) Delete(sessionID string) bool {
	s.mu.Lock()
	ctrl, exists := s.sessions[sessionID]
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	if exists {
		ctrl.Release()
	}
	return exists
}

// PreviewStore hands out revocable handles to selected images
type PreviewStore struct {
	images map[string]models.ImageInput
	mu     sync.RWMutex
}

func NewPreviewStore() *PreviewStore {
	return &PreviewStore{
		images: make(map[string]models.ImageInput),
	}
}

func (p *PreviewStore) Put(img models.ImageInput) string {
	handle := uuid.NewString()
	p.mu.Lock()
	defer p.mu.Unlock()
	p.images[handle] = img
	return handle
}

func (p *PreviewStore) Get(handle string) (models.ImageInput, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	img, exists := p.images[handle]
	return img, exists
}

func (p *PreviewStore) Revoke(handle string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.images, handle)
}

func (p *PreviewStore) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.images)
}
