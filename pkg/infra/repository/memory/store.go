// Package memory holds in-process implementations of the domain repositories.
// Records live for the lifetime of the process and are kept in insertion order.
package memory

import (
	"sync"

	"github.com/NeuralTrust/FollowerManager/pkg/domain/follower"
	"github.com/NeuralTrust/FollowerManager/pkg/domain/removal"
	"github.com/NeuralTrust/FollowerManager/pkg/domain/settings"
	"github.com/NeuralTrust/FollowerManager/pkg/domain/user"
)

// Store is the shared backing state of the memory repositories. A single
// mutex guards every table so cross-table reads stay consistent.
type Store struct {
	mu        sync.RWMutex
	users     []user.User
	followers []follower.Follower
	removals  []removal.Removal
	settings  []settings.Settings
}

func NewStore() *Store {
	return &Store{}
}

// Reset drops every record.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = nil
	s.followers = nil
	s.removals = nil
	s.settings = nil
}

func (s *Store) Users() user.Repository {
	return &userRepository{store: s}
}

func (s *Store) Followers() follower.Repository {
	return &followerRepository{store: s}
}

func (s *Store) Removals() removal.Repository {
	return &removalRepository{store: s}
}

func (s *Store) Settings() settings.Repository {
	return &settingsRepository{store: s}
}

func window(total, offset, limit int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if offset > total {
		offset = total
	}
	end := offset + limit
	if limit < 0 || end > total {
		end = total
	}
	return offset, end
}
