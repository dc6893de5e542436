package account

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/fintrack/internal/model"
	"github.com/theirongolddev/fintrack/internal/store"
)

func newDirectory(t *testing.T) (*Directory, *store.Memory) {
	t.Helper()
	s := store.NewMemory()
	d, err := New(s)
	require.NoError(t, err)
	return d, s
}

func TestRegisterDuplicateEmail(t *testing.T) {
	d, _ := newDirectory(t)

	u, err := d.Register("Asha", "asha@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", u.ID)
	assert.Nil(t, d.Session(), "registration must not log in")

	_, err = d.Register("Other Asha", "asha@example.com", "another")
	assert.ErrorIs(t, err, model.ErrDuplicateEmail)
	assert.Equal(t, "An account with this email already exists.", err.Error())

	users, err := d.List()
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestRegisterEmailIsCaseSensitive(t *testing.T) {
	d, _ := newDirectory(t)
	_, err := d.Register("A", "a@b.co", "secret1")
	require.NoError(t, err)
	_, err = d.Register("A", "A@b.co", "secret1")
	require.NoError(t, err)

	users, err := d.List()
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "a@b.co", users[0].Email)
	assert.Equal(t, "A@b.co", users[1].Email)
}

func TestFindByCredentialsExactMatch(t *testing.T) {
	d, _ := newDirectory(t)
	_, err := d.Register("A", "a@b.co", "secret1")
	require.NoError(t, err)

	_, ok, err := d.FindByCredentials(" a@b.co", "secret1")
	require.NoError(t, err)
	assert.False(t, ok)

	u, ok, err := d.FindByCredentials("a@b.co", "secret1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "A", u.Name)
}

func TestLoginWrongPasswordLeavesStateUntouched(t *testing.T) {
	d, s := newDirectory(t)
	_, err := d.Register("A", "a@b.co", "secret1")
	require.NoError(t, err)
	require.NoError(t, store.SetString(s, store.KeyLastUserEmail, "earlier@b.co"))
	_, err = d.Sync()
	require.NoError(t, err)

	u, err := d.Login("a@b.co", "wrong")
	require.NoError(t, err)
	assert.Nil(t, u)

	_, ok, err := s.Get(store.KeyLoggedInUser)
	require.NoError(t, err)
	assert.False(t, ok)

	last, _, err := store.GetString(s, store.KeyLastUserEmail)
	require.NoError(t, err)
	assert.Equal(t, "earlier@b.co", last)
	assert.Equal(t, "earlier@b.co", d.LastEmail())
}

func TestLoginLogout(t *testing.T) {
	d, s := newDirectory(t)
	_, err := d.Register("A", "a@b.co", "secret1")
	require.NoError(t, err)

	u, err := d.Login("a@b.co", "secret1")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "a@b.co", d.Owner())

	persisted, ok, err := store.Load[model.User](s, store.KeyLoggedInUser)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, *u, persisted)

	require.NoError(t, d.Logout())
	assert.Nil(t, d.Session())
	assert.Equal(t, "", d.Owner())
	assert.Equal(t, "a@b.co", d.LastEmail(), "remembered email survives logout")

	reopened, err := New(s)
	require.NoError(t, err)
	assert.Nil(t, reopened.Session())
	assert.Equal(t, "a@b.co", reopened.LastEmail())
}

func TestChangePassword(t *testing.T) {
	d, _ := newDirectory(t)
	_, err := d.Register("A", "a@b.co", "secret1")
	require.NoError(t, err)

	_, err = d.ChangePassword("missing@b.co", "secret1", "newpass")
	assert.ErrorIs(t, err, model.ErrUserNotFound)

	_, err = d.ChangePassword("a@b.co", "nope", "newpass")
	assert.ErrorIs(t, err, model.ErrIncorrectPassword)

	u, err := d.ChangePassword("a@b.co", "secret1", "newpass")
	require.NoError(t, err)
	assert.Equal(t, "newpass", u.Password)

	_, ok, err := d.FindByCredentials("a@b.co", "newpass")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMirrorSessionOnlyForLoggedInUser(t *testing.T) {
	d, s := newDirectory(t)
	_, err := d.Register("A", "a@b.co", "secret1")
	require.NoError(t, err)
	_, err = d.Register("B", "b@b.co", "secret2")
	require.NoError(t, err)
	_, err = d.Login("a@b.co", "secret1")
	require.NoError(t, err)

	other, err := d.ChangePassword("b@b.co", "secret2", "changed")
	require.NoError(t, err)
	mirrored, err := d.MirrorSession(other)
	require.NoError(t, err)
	assert.False(t, mirrored)

	self, err := d.ChangePassword("a@b.co", "secret1", "changed")
	require.NoError(t, err)
	assert.Equal(t, "secret1", d.Session().Password, "session untouched until mirrored")

	mirrored, err = d.MirrorSession(self)
	require.NoError(t, err)
	assert.True(t, mirrored)
	assert.Equal(t, "changed", d.Session().Password)

	persisted, _, err := store.Load[model.User](s, store.KeyLoggedInUser)
	require.NoError(t, err)
	assert.Equal(t, "changed", persisted.Password)
}

func TestSessionChangedNotifications(t *testing.T) {
	d, _ := newDirectory(t)

	var reasons []string
	unsubscribe := d.OnSessionChanged(func(ev SessionEvent) {
		reasons = append(reasons, ev.Reason)
	})

	_, err := d.Register("A", "a@b.co", "secret1")
	require.NoError(t, err)
	_, err = d.Login("a@b.co", "secret1")
	require.NoError(t, err)
	_, err = d.ChangePassword("a@b.co", "secret1", "secret2")
	require.NoError(t, err)
	require.NoError(t, d.Logout())

	unsubscribe()
	_, err = d.Login("a@b.co", "secret2")
	require.NoError(t, err)

	assert.Equal(t, []string{ReasonRegister, ReasonLogin, ReasonPassword, ReasonLogout}, reasons)
}

func TestSyncPicksUpExternalLogin(t *testing.T) {
	s := store.NewMemory()
	first, err := New(s)
	require.NoError(t, err)
	second, err := New(s)
	require.NoError(t, err)

	_, err = first.Register("A", "a@b.co", "secret1")
	require.NoError(t, err)

	var got *model.User
	second.OnSessionChanged(func(ev SessionEvent) { got = ev.User })

	_, err = first.Login("a@b.co", "secret1")
	require.NoError(t, err)
	assert.Nil(t, second.Session())

	changed, err := second.Sync()
	require.NoError(t, err)
	assert.True(t, changed)
	require.NotNil(t, got)
	assert.Equal(t, "a@b.co", got.Email)
	assert.Equal(t, "a@b.co", second.LastEmail())

	changed, err = second.Sync()
	require.NoError(t, err)
	assert.False(t, changed)

	require.NoError(t, first.Logout())
	changed, err = second.Sync()
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Nil(t, got)
}
