// Package account manages registered users and the logged-in session.
package account

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/theirongolddev/fintrack/internal/model"
	"github.com/theirongolddev/fintrack/internal/store"
)

// Reasons carried by a SessionEvent.
const (
	ReasonLogin    = "login"
	ReasonLogout   = "logout"
	ReasonRegister = "register"
	ReasonPassword = "password"
	ReasonSync     = "sync"
)

// SessionEvent is broadcast whenever the session or the user list changes.
type SessionEvent struct {
	Reason string
	User   *model.User // logged-in user after the change, nil when logged out
}

// Directory holds the registered users, the session pointer and the
// remembered email. It keeps an in-memory view of the session that Sync
// refreshes from the store.
type Directory struct {
	store store.Store

	mu        sync.Mutex
	session   *model.User
	lastEmail string

	obsMu     sync.Mutex
	nextObsID int
	observers map[int]func(SessionEvent)
}

// New loads the persisted session and remembered email from s.
func New(s store.Store) (*Directory, error) {
	d := &Directory{
		store:     s,
		observers: make(map[int]func(SessionEvent)),
	}
	session, last, err := d.readSession()
	if err != nil {
		return nil, err
	}
	d.session = session
	d.lastEmail = last
	return d, nil
}

// List returns every registered user in registration order.
func (d *Directory) List() ([]model.User, error) {
	users, _, err := store.Load[[]model.User](d.store, store.KeyUsers)
	if err != nil {
		return nil, fmt.Errorf("loading users: %w", err)
	}
	return users, nil
}

// FindByCredentials returns the user whose email and password both match
// exactly. No trimming or case folding is applied.
func (d *Directory) FindByCredentials(email, password string) (model.User, bool, error) {
	users, err := d.List()
	if err != nil {
		return model.User{}, false, err
	}
	for _, u := range users {
		if u.Email == email && u.Password == password {
			return u, true, nil
		}
	}
	return model.User{}, false, nil
}

// Register appends a new user. It does not log the user in.
func (d *Directory) Register(name, email, password string) (model.User, error) {
	d.mu.Lock()
	users, err := d.List()
	if err != nil {
		d.mu.Unlock()
		return model.User{}, err
	}
	for _, u := range users {
		if u.Email == email {
			d.mu.Unlock()
			return model.User{}, model.ErrDuplicateEmail
		}
	}

	u := model.User{ID: email, Name: name, Email: email, Password: password}
	if err := store.Save(d.store, store.KeyUsers, append(users, u)); err != nil {
		d.mu.Unlock()
		return model.User{}, err
	}
	ev := SessionEvent{Reason: ReasonRegister, User: copyUser(d.session)}
	d.mu.Unlock()

	log.Debug().Str("email", email).Msg("user registered")
	d.notify(ev)
	return u, nil
}

// ChangePassword replaces the password of the user with userID after checking
// current. The session is left alone; callers mirror the change with
// MirrorSession when the user is logged in.
func (d *Directory) ChangePassword(userID, current, next string) (model.User, error) {
	d.mu.Lock()
	users, err := d.List()
	if err != nil {
		d.mu.Unlock()
		return model.User{}, err
	}

	idx := -1
	for i, u := range users {
		if u.ID == userID {
			idx = i
			break
		}
	}
	if idx < 0 {
		d.mu.Unlock()
		return model.User{}, model.ErrUserNotFound
	}
	if users[idx].Password != current {
		d.mu.Unlock()
		return model.User{}, model.ErrIncorrectPassword
	}

	users[idx].Password = next
	if err := store.Save(d.store, store.KeyUsers, users); err != nil {
		d.mu.Unlock()
		return model.User{}, err
	}
	updated := users[idx]
	ev := SessionEvent{Reason: ReasonPassword, User: copyUser(d.session)}
	d.mu.Unlock()

	log.Debug().Str("user", userID).Msg("password changed")
	d.notify(ev)
	return updated, nil
}

// MirrorSession rewrites the session snapshot when u is the logged-in user.
// It reports whether the session was updated.
func (d *Directory) MirrorSession(u model.User) (bool, error) {
	d.mu.Lock()
	if d.session == nil || d.session.ID != u.ID {
		d.mu.Unlock()
		return false, nil
	}
	if err := store.Save(d.store, store.KeyLoggedInUser, u); err != nil {
		d.mu.Unlock()
		return false, err
	}
	d.session = copyUser(&u)
	ev := SessionEvent{Reason: ReasonPassword, User: copyUser(d.session)}
	d.mu.Unlock()

	d.notify(ev)
	return true, nil
}

// Login writes the session and remembered email when the credentials match.
// A mismatch returns nil with no error and leaves the store untouched.
func (d *Directory) Login(email, password string) (*model.User, error) {
	u, ok, err := d.FindByCredentials(email, password)
	if err != nil || !ok {
		return nil, err
	}

	d.mu.Lock()
	if err := store.Save(d.store, store.KeyLoggedInUser, u); err != nil {
		d.mu.Unlock()
		return nil, err
	}
	if err := store.SetString(d.store, store.KeyLastUserEmail, u.Email); err != nil {
		d.mu.Unlock()
		return nil, err
	}
	d.session = copyUser(&u)
	d.lastEmail = u.Email
	ev := SessionEvent{Reason: ReasonLogin, User: copyUser(d.session)}
	d.mu.Unlock()

	log.Debug().Str("email", email).Msg("logged in")
	d.notify(ev)
	return &u, nil
}

// Logout clears the session. The remembered email is kept.
func (d *Directory) Logout() error {
	d.mu.Lock()
	if err := d.store.Remove(store.KeyLoggedInUser); err != nil {
		d.mu.Unlock()
		return err
	}
	d.session = nil
	d.mu.Unlock()

	log.Debug().Msg("logged out")
	d.notify(SessionEvent{Reason: ReasonLogout})
	return nil
}

// Session returns the logged-in user, or nil.
func (d *Directory) Session() *model.User {
	d.mu.Lock()
	defer d.mu.Unlock()
	return copyUser(d.session)
}

// Owner returns the logged-in user's email, or "" when nobody is logged in.
func (d *Directory) Owner() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.session == nil {
		return ""
	}
	return d.session.Email
}

// LastEmail returns the email of the most recent successful login.
func (d *Directory) LastEmail() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastEmail
}

// Sync re-reads the persisted session and remembered email, which another
// process may have changed, and broadcasts when the session differs from the
// in-memory view. It is advisory and does not lock anything.
func (d *Directory) Sync() (bool, error) {
	session, last, err := d.readSession()
	if err != nil {
		return false, err
	}

	d.mu.Lock()
	changed := !sameUser(d.session, session)
	d.session = session
	d.lastEmail = last
	ev := SessionEvent{Reason: ReasonSync, User: copyUser(session)}
	d.mu.Unlock()

	if changed {
		log.Debug().Bool("logged_in", session != nil).Msg("session changed externally")
		d.notify(ev)
	}
	return changed, nil
}

// OnSessionChanged registers fn to be called after every session change.
// The returned func removes it.
func (d *Directory) OnSessionChanged(fn func(SessionEvent)) func() {
	d.obsMu.Lock()
	defer d.obsMu.Unlock()
	d.nextObsID++
	id := d.nextObsID
	d.observers[id] = fn
	return func() {
		d.obsMu.Lock()
		defer d.obsMu.Unlock()
		delete(d.observers, id)
	}
}

func (d *Directory) notify(ev SessionEvent) {
	d.obsMu.Lock()
	fns := make([]func(SessionEvent), 0, len(d.observers))
	for _, fn := range d.observers {
		fns = append(fns, fn)
	}
	d.obsMu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

func (d *Directory) readSession() (*model.User, string, error) {
	u, ok, err := store.Load[model.User](d.store, store.KeyLoggedInUser)
	if err != nil {
		return nil, "", fmt.Errorf("loading session: %w", err)
	}
	last, _, err := store.GetString(d.store, store.KeyLastUserEmail)
	if err != nil {
		return nil, "", fmt.Errorf("loading last email: %w", err)
	}
	if !ok {
		return nil, last, nil
	}
	return &u, last, nil
}

func copyUser(u *model.User) *model.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

func sameUser(a, b *model.User) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
