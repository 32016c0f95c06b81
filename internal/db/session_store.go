package db

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// SavedSession is the single-row record persisting a resumable identity
// across process restarts. The blob is opaque to the client.
type SavedSession struct {
	ID        uint   `gorm:"primaryKey"`
	UID       string `gorm:"column:uid"`
	Email     string
	Blob      string
	UpdatedAt time.Time
}

// SessionStore persists and restores the saved session.
type SessionStore struct {
	store *gorm.DB
}

func NewSessionStore(store *gorm.DB) *SessionStore {
	return &SessionStore{store: store}
}

// Save upserts the saved session. Only one is kept.
func (s *SessionStore) Save(uid, email, blob string) error {
	if err := s.Clear(); err != nil {
		return err
	}
	rec := SavedSession{UID: uid, Email: email, Blob: blob}
	return s.store.Create(&rec).Error
}

// Load returns the saved session, or nil when none exists.
func (s *SessionStore) Load() (*SavedSession, error) {
	var rec SavedSession
	err := s.store.Order("updated_at desc").First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Clear drops any saved session.
func (s *SessionStore) Clear() error {
	return s.store.Where("1 = 1").Delete(&SavedSession{}).Error
}
