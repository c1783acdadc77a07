package service

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/Payphone-Digital/userhub/internal/dto"
	apperrors "github.com/Payphone-Digital/userhub/internal/errors"
	"github.com/Payphone-Digital/userhub/internal/model"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeState backs the in-memory stores. The fake transaction manager
// snapshots it before running a write and restores it on error, matching
// a rollback.
type fakeState struct {
	users       map[uint]model.User
	tokens      map[string]model.UserToken
	nextUserID  uint
	nextTokenID uint
}

func newFakeState() *fakeState {
	return &fakeState{
		users:  make(map[uint]model.User),
		tokens: make(map[string]model.UserToken),
	}
}

func (s *fakeState) clone() *fakeState {
	c := newFakeState()
	for id, u := range s.users {
		c.users[id] = u
	}
	for v, tk := range s.tokens {
		c.tokens[v] = tk
	}
	c.nextUserID = s.nextUserID
	c.nextTokenID = s.nextTokenID
	return c
}

func (s *fakeState) addUser(name string) uint {
	s.nextUserID++
	s.users[s.nextUserID] = model.User{
		Model:        gorm.Model{ID: s.nextUserID},
		Name:         name,
		LastActiveAt: time.Now().UTC(),
	}
	return s.nextUserID
}

func (s *fakeState) addToken(userID uint, value string) {
	s.nextTokenID++
	s.tokens[value] = model.UserToken{ID: s.nextTokenID, Token: value, UserID: userID}
}

func (s *fakeState) tokensOf(userID uint) []string {
	var values []string
	for _, tk := range s.tokens {
		if tk.UserID == userID {
			values = append(values, tk.Token)
		}
	}
	sort.Strings(values)
	return values
}

type fakeUserStore struct{ s *fakeState }

func (f *fakeUserStore) GetByID(_ context.Context, id uint) (*model.User, error) {
	stored, ok := f.s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	user := stored
	user.Tokens = nil
	for _, tk := range f.s.tokens {
		if tk.UserID == id {
			user.Tokens = append(user.Tokens, tk)
		}
	}
	sort.Slice(user.Tokens, func(i, j int) bool { return user.Tokens[i].ID < user.Tokens[j].ID })
	return &user, nil
}

func (f *fakeUserStore) GetByName(_ context.Context, name string) (*model.User, error) {
	for _, u := range f.s.users {
		if u.Name == name {
			user := u
			return &user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserStore) FindAll(ctx context.Context) ([]model.User, error) {
	var users []model.User
	for id := range f.s.users {
		u, _ := f.GetByID(ctx, id)
		users = append(users, *u)
	}
	return users, nil
}

func (f *fakeUserStore) FindAllActive(ctx context.Context, cutoff time.Time) ([]model.User, error) {
	all, _ := f.FindAll(ctx)
	var users []model.User
	for _, u := range all {
		if !u.LastActiveAt.Before(cutoff) {
			users = append(users, u)
		}
	}
	return users, nil
}

func (f *fakeUserStore) FindAllInactive(ctx context.Context, cutoff time.Time) ([]model.User, error) {
	all, _ := f.FindAll(ctx)
	var users []model.User
	for _, u := range all {
		if u.LastActiveAt.Before(cutoff) {
			users = append(users, u)
		}
	}
	return users, nil
}

func (f *fakeUserStore) Search(ctx context.Context, query string, limit int) ([]model.User, error) {
	all, _ := f.FindAll(ctx)
	var users []model.User
	for _, u := range all {
		if !u.Disabled && strings.Contains(u.Name, query) {
			users = append(users, u)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Name < users[j].Name })
	if len(users) > limit {
		users = users[:limit]
	}
	return users, nil
}

func (f *fakeUserStore) Create(_ context.Context, user *model.User) error {
	for _, u := range f.s.users {
		if u.Name == user.Name {
			return &pgconn.PgError{Code: "23505", ConstraintName: "uq_users_name"}
		}
	}
	f.s.nextUserID++
	user.ID = f.s.nextUserID
	user.CreatedAt = time.Now().UTC()
	stored := *user
	stored.Tokens = nil
	f.s.users[user.ID] = stored
	return nil
}

func (f *fakeUserStore) Save(_ context.Context, user *model.User) error {
	stored := *user
	stored.Tokens = nil
	f.s.users[user.ID] = stored
	return nil
}

type fakeTokenStore struct{ s *fakeState }

func (f *fakeTokenStore) GetByToken(_ context.Context, value string) (*model.UserToken, error) {
	tk, ok := f.s.tokens[value]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := tk
	return &out, nil
}

func (f *fakeTokenStore) Create(_ context.Context, userToken *model.UserToken) error {
	if _, exists := f.s.tokens[userToken.Token]; exists {
		return &pgconn.PgError{Code: "23505", ConstraintName: "uq_user_tokens_token"}
	}
	f.s.nextTokenID++
	userToken.ID = f.s.nextTokenID
	f.s.tokens[userToken.Token] = *userToken
	return nil
}

func (f *fakeTokenStore) Delete(_ context.Context, userToken *model.UserToken) error {
	delete(f.s.tokens, userToken.Token)
	return nil
}

type fakeTxManager struct{ s *fakeState }

func (m *fakeTxManager) Transaction(_ context.Context, fn func(userStore, tokenStore) error) error {
	snapshot := m.s.clone()
	if err := fn(&fakeUserStore{m.s}, &fakeTokenStore{m.s}); err != nil {
		*m.s = *snapshot
		return err
	}
	return nil
}

func newFakeService() (*UserService, *fakeState) {
	state := newFakeState()
	svc := &UserService{
		users:     &fakeUserStore{state},
		tokens:    &fakeTokenStore{state},
		tx:        &fakeTxManager{state},
		staleness: NewStalenessPolicy(720 * time.Hour),
	}
	return svc, state
}

func TestCreateReturnsCommittedUser(t *testing.T) {
	svc, _ := newFakeService()

	resp, err := svc.Create(context.Background(), &dto.CreateUserRequest{Name: "Alice"})
	require.NoError(t, err)

	assert.Equal(t, "Alice", resp.Name)
	assert.False(t, resp.Disabled)
	assert.Empty(t, resp.Tokens)
	assert.False(t, resp.LastActiveAt.IsZero())
}

func TestCreateDuplicateName(t *testing.T) {
	svc, state := newFakeService()
	state.addUser("Alice")

	_, err := svc.Create(context.Background(), &dto.CreateUserRequest{Name: "Alice"})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUserAlreadyExists))
	assert.Len(t, state.users, 1)
}

func TestCreateWithTokenOwnedByAnotherUser(t *testing.T) {
	svc, state := newFakeService()
	aliceID := state.addUser("Alice")
	state.addToken(aliceID, "abc")

	_, err := svc.Create(context.Background(), &dto.CreateUserRequest{Name: "Bob", Token: "abc"})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeTokenAlreadyInUse))

	// the aborted create leaves no trace
	assert.Len(t, state.users, 1)
	assert.Equal(t, []string{"abc"}, state.tokensOf(aliceID))
}

func TestUpdateTokenConflictLeavesTokenSetsUnchanged(t *testing.T) {
	t.Run("conflicting token first", func(t *testing.T) {
		svc, state := newFakeService()
		aliceID := state.addUser("Alice")
		bobID := state.addUser("Bob")
		state.addToken(aliceID, "abc")
		state.addToken(bobID, "bob-1")

		tokens := []string{"abc", "fresh"}
		_, err := svc.Update(context.Background(), bobID, &dto.UpdateUserRequest{Tokens: &tokens})
		require.Error(t, err)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeTokenAlreadyInUse))

		assert.Equal(t, []string{"abc"}, state.tokensOf(aliceID))
		assert.Equal(t, []string{"bob-1"}, state.tokensOf(bobID))
	})

	t.Run("conflict after a token was already written", func(t *testing.T) {
		svc, state := newFakeService()
		aliceID := state.addUser("Alice")
		bobID := state.addUser("Bob")
		state.addToken(aliceID, "abc")
		state.addToken(bobID, "bob-1")

		// "fresh" is created before the conflict on "abc"; the abort
		// must take it back down with the rest of the write
		tokens := []string{"fresh", "abc"}
		_, err := svc.Update(context.Background(), bobID, &dto.UpdateUserRequest{Tokens: &tokens})
		require.Error(t, err)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeTokenAlreadyInUse))

		_, exists := state.tokens["fresh"]
		assert.False(t, exists)
		assert.Equal(t, []string{"abc"}, state.tokensOf(aliceID))
		assert.Equal(t, []string{"bob-1"}, state.tokensOf(bobID))
	})
}

func TestUpdateRenameToOwnName(t *testing.T) {
	svc, state := newFakeService()
	id := state.addUser("Alice")

	resp, err := svc.Update(context.Background(), id, &dto.UpdateUserRequest{Name: "Alice"})
	require.NoError(t, err)
	assert.Equal(t, "Alice", resp.Name)
}

func TestUpdateRenameToTakenName(t *testing.T) {
	svc, state := newFakeService()
	state.addUser("Alice")
	bobID := state.addUser("Bob")

	_, err := svc.Update(context.Background(), bobID, &dto.UpdateUserRequest{Name: "Alice"})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUserAlreadyExists))
	assert.Equal(t, "Bob", state.users[bobID].Name)
}

func TestUpdateMissingUser(t *testing.T) {
	svc, _ := newFakeService()

	_, err := svc.Update(context.Background(), 42, &dto.UpdateUserRequest{Name: "Alice"})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUserNotFound))
}

func TestUpdateReconcilesTokenSet(t *testing.T) {
	svc, state := newFakeService()
	id := state.addUser("Alice")
	state.addToken(id, "keep")
	state.addToken(id, "drop")

	tokens := []string{"keep", "fresh"}
	resp, err := svc.Update(context.Background(), id, &dto.UpdateUserRequest{Tokens: &tokens})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"keep", "fresh"}, resp.Tokens)
	assert.Equal(t, []string{"fresh", "keep"}, state.tokensOf(id))
}
