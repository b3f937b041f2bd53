// Package appstate holds the signed-in session and the wishlist. It is an
// explicit container passed to whoever needs it; there is no package-level
// state.
package appstate

import (
	"context"
	"errors"
	"sync"
	"time"

	apperrors "gemfinder/internal/common/errors"
	"gemfinder/internal/common/logger"
	"gemfinder/internal/models"
)

var (
	ErrNotLoggedIn = errors.New("NOT_LOGGED_IN")
	ErrEmptyUserID = errors.New("user id is required")
	ErrEmptyGemID  = errors.New("gem id is required")
)

// WishlistSyncer pushes wishlist changes to the backend.
type WishlistSyncer interface {
	AddToWishlist(ctx context.Context, gemID string) error
	RemoveFromWishlist(ctx context.Context, gemID string) error
}

type Container struct {
	persister Persister
	syncer    WishlistSyncer
	logger    logger.Logger
	now       func() time.Time

	mu       sync.RWMutex
	session  *models.Session
	wishlist []string
}

// New builds a container. syncer may be nil, in which case wishlist changes
// are kept locally only.
func New(persister Persister, syncer WishlistSyncer, log logger.Logger) *Container {
	if persister == nil {
		persister = NewMemoryPersister()
	}
	return &Container{
		persister: persister,
		syncer:    syncer,
		logger:    log.WithFields(map[string]interface{}{"component": "appstate"}),
		now:       time.Now,
	}
}

// Restore loads the persisted session and wishlist.
func (c *Container) Restore(ctx context.Context) error {
	session, err := c.persister.LoadSession(ctx)
	if err != nil {
		return apperrors.NewStatePersistFailedError("restore session", err)
	}
	wishlist, err := c.persister.LoadWishlist(ctx)
	if err != nil {
		return apperrors.NewStatePersistFailedError("restore wishlist", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = session
	c.wishlist = wishlist
	if session == nil {
		c.wishlist = nil
	}
	return nil
}

func (c *Container) Login(ctx context.Context, session models.Session) error {
	if session.UserID == "" {
		return ErrEmptyUserID
	}
	if session.LoggedInAt.IsZero() {
		session.LoggedInAt = c.now().UTC()
	}

	if err := c.persister.SaveSession(ctx, &session); err != nil {
		return apperrors.NewStatePersistFailedError("login", err)
	}

	c.mu.Lock()
	c.session = &session
	c.mu.Unlock()

	c.logger.Info("logged in", map[string]interface{}{
		"userId": session.UserID,
		"role":   session.Role,
	})
	return nil
}

// Logout clears the session and the wishlist, in memory and persisted.
func (c *Container) Logout(ctx context.Context) error {
	c.mu.Lock()
	c.session = nil
	c.wishlist = nil
	c.mu.Unlock()

	if err := c.persister.Clear(ctx); err != nil {
		return apperrors.NewStatePersistFailedError("logout", err)
	}
	c.logger.Info("logged out", nil)
	return nil
}

func (c *Container) Session() (models.Session, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.session == nil {
		return models.Session{}, false
	}
	return *c.session, true
}

func (c *Container) Wishlist() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string{}, c.wishlist...)
}

func (c *Container) InWishlist(gemID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return indexOf(c.wishlist, gemID) >= 0
}

// ToggleWishlist adds or removes gemID and reports whether it is now in the
// wishlist. The change is visible immediately; if the backend or the
// persister rejects it, it is rolled back and the error returned. A persist
// failure after the backend accepted the change also reverses it on the
// backend.
func (c *Container) ToggleWishlist(ctx context.Context, gemID string) (bool, error) {
	if gemID == "" {
		return false, ErrEmptyGemID
	}

	c.mu.Lock()
	if c.session == nil {
		c.mu.Unlock()
		return false, ErrNotLoggedIn
	}
	pos := indexOf(c.wishlist, gemID)
	adding := pos < 0
	if adding {
		c.wishlist = append(c.wishlist, gemID)
	} else {
		c.wishlist = without(c.wishlist, gemID)
	}
	c.mu.Unlock()

	log := c.logger.WithFields(map[string]interface{}{"gemId": gemID, "adding": adding})

	if err := c.sync(ctx, gemID, adding); err != nil {
		c.rollback(gemID, adding, pos)
		log.Warn("wishlist change rolled back", map[string]interface{}{"error": err.Error()})
		return !adding, err
	}

	var err error
	if adding {
		err = c.persister.AddWishlist(ctx, gemID)
	} else {
		err = c.persister.RemoveWishlist(ctx, gemID)
	}
	if err != nil {
		// The backend already holds the change; take it back there as well.
		if undoErr := c.sync(ctx, gemID, !adding); undoErr != nil {
			log.Error("wishlist diverged from backend", map[string]interface{}{
				"error":     err.Error(),
				"undoError": undoErr.Error(),
			})
		}
		c.rollback(gemID, adding, pos)
		log.Warn("wishlist change not persisted", map[string]interface{}{"error": err.Error()})
		return !adding, apperrors.NewStatePersistFailedError("toggle wishlist", err)
	}

	log.Debug("wishlist updated", nil)
	return adding, nil
}

func (c *Container) sync(ctx context.Context, gemID string, adding bool) error {
	if c.syncer == nil {
		return nil
	}
	if adding {
		return c.syncer.AddToWishlist(ctx, gemID)
	}
	return c.syncer.RemoveFromWishlist(ctx, gemID)
}

// rollback undoes an optimistic change unless a later call already did.
func (c *Container) rollback(gemID string, added bool, pos int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return
	}
	present := indexOf(c.wishlist, gemID) >= 0
	switch {
	case added && present:
		c.wishlist = without(c.wishlist, gemID)
	case !added && !present:
		if pos > len(c.wishlist) {
			pos = len(c.wishlist)
		}
		restored := make([]string, 0, len(c.wishlist)+1)
		restored = append(restored, c.wishlist[:pos]...)
		restored = append(restored, gemID)
		c.wishlist = append(restored, c.wishlist[pos:]...)
	}
}
