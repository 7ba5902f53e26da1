// Package session tracks the per-caller founder/premium flags and the free
// usage counter behind the audio endpoint. These are cookie-backed markers
// with no cryptographic binding; they gate cost, not security.
package session

import (
	"github.com/gofiber/fiber/v2"
	fsession "github.com/gofiber/fiber/v2/middleware/session"
)

// FreeUses is how many audio requests a session gets before it needs the
// premium or founder flag.
const FreeUses = 3

// Access is the caller's standing, loaded from the session and passed
// explicitly into the quota check.
type Access struct {
	Founder bool `json:"founder"`
	Premium bool `json:"premium"`
	Uses    int  `json:"uses"`
}

// Allow reports whether this caller may run the audio pipeline.
func (a Access) Allow() bool {
	return a.Unlimited() || a.Uses < FreeUses
}

// Unlimited reports whether the usage counter applies to this caller.
func (a Access) Unlimited() bool {
	return a.Founder || a.Premium
}

const (
	keyFounder = "founder"
	keyPremium = "premium"
	keyUses    = "uses"
)

// Store wraps the fiber session store with Access load/save.
type Store struct {
	sessions *fsession.Store
}

func NewStore() *Store {
	return &Store{sessions: fsession.New()}
}

// Load reads the caller's Access from their session. A fresh session yields
// the zero Access.
func (s *Store) Load(c *fiber.Ctx) (Access, error) {
	sess, err := s.sessions.Get(c)
	if err != nil {
		return Access{}, err
	}
	var a Access
	if v, ok := sess.Get(keyFounder).(bool); ok {
		a.Founder = v
	}
	if v, ok := sess.Get(keyPremium).(bool); ok {
		a.Premium = v
	}
	if v, ok := sess.Get(keyUses).(int); ok {
		a.Uses = v
	}
	return a, nil
}

// Save writes the Access back to the caller's session.
func (s *Store) Save(c *fiber.Ctx, a Access) error {
	sess, err := s.sessions.Get(c)
	if err != nil {
		return err
	}
	sess.Set(keyFounder, a.Founder)
	sess.Set(keyPremium, a.Premium)
	sess.Set(keyUses, a.Uses)
	return sess.Save()
}

// Clear destroys the caller's session entirely.
func (s *Store) Clear(c *fiber.Ctx) error {
	sess, err := s.sessions.Get(c)
	if err != nil {
		return err
	}
	return sess.Destroy()
}
