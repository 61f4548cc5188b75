package service

import (
	"context"
	"sync"
)

// SecurityVerifier is the boundary to the external security
// collaborator. The payment processor calls ResetVerification once per
// successful payment so the next booking cycle requires a fresh
// challenge.
type SecurityVerifier interface {
	ResetVerification(ctx context.Context, sessionID string) error
}

// MemorySecurity tracks verified sessions in memory. It stands in for
// the real security collaborator in single-process deployments and in
// tests.
type MemorySecurity struct {
	mu       sync.Mutex
	verified map[string]bool
}

// NewMemorySecurity returns an empty verification tracker.
func NewMemorySecurity() *MemorySecurity {
	return &MemorySecurity{verified: make(map[string]bool)}
}

// MarkVerified records that a session passed its challenge.
func (s *MemorySecurity) MarkVerified(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.verified[sessionID] = true
}

// Verified reports whether a session is currently verified.
func (s *MemorySecurity) Verified(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.verified[sessionID]
}

// ResetVerification implements SecurityVerifier.
func (s *MemorySecurity) ResetVerification(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.verified, sessionID)
	return nil
}
