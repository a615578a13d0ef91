// internal/jobs/reconcile/handler_test.go
package reconcile

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tender-scheduler/internal/common/logger"
	"tender-scheduler/internal/roleauthority"
)

// ==========================
// Test Helper Functions
// ==========================

type fakeStore struct {
	mu        sync.Mutex
	ids       []string
	listErr   error
	deleteErr map[string]error
	deleted   []string
}

func (f *fakeStore) ListUserIDs(ctx context.Context) ([]string, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.ids, nil
}

func (f *fakeStore) Delete(ctx context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err, ok := f.deleteErr[userID]; ok {
		return err
	}
	f.deleted = append(f.deleted, userID)
	return nil
}

func (f *fakeStore) deletedIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deleted...)
}

type fakeAuthority struct {
	roles  map[string][]string
	errors map[string]error
}

func (f *fakeAuthority) GetUserRoles(ctx context.Context, userID string) ([]string, error) {
	if err, ok := f.errors[userID]; ok {
		return nil, err
	}
	if roles, ok := f.roles[userID]; ok {
		return roles, nil
	}
	return nil, roleauthority.ErrUserNotFound
}

func createTestHandler(t *testing.T, store *fakeStore, authority *fakeAuthority) *Handler {
	t.Helper()

	return NewHandler(&Config{
		AuthorizedRoles: []string{"customer", "administrator"},
		Concurrency:     2,
		RecordTimeout:   time.Second,
	}, store, authority, logger.NewTestLogger(t))
}

// ==========================
// Run
// ==========================

func TestRun_DeletesUnknownUser(t *testing.T) {
	store := &fakeStore{ids: []string{"user-1"}}
	authority := &fakeAuthority{}

	h := createTestHandler(t, store, authority)

	result, err := h.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Checked)
	assert.Equal(t, 1, result.Deleted)
	assert.Equal(t, []string{"user-1"}, store.deletedIDs())
}

func TestRun_DeletesUserWithoutAuthorizedRole(t *testing.T) {
	store := &fakeStore{ids: []string{"user-1"}}
	authority := &fakeAuthority{roles: map[string][]string{
		"user-1": {"subscriber"},
	}}

	h := createTestHandler(t, store, authority)

	result, err := h.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Deleted)
	assert.Equal(t, []string{"user-1"}, store.deletedIDs())
}

func TestRun_RetainsAuthorizedUsers(t *testing.T) {
	store := &fakeStore{ids: []string{"user-1", "user-2"}}
	authority := &fakeAuthority{roles: map[string][]string{
		"user-1": {"customer"},
		"user-2": {"subscriber", "administrator"},
	}}

	h := createTestHandler(t, store, authority)

	result, err := h.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, result.Retained)
	assert.Equal(t, 0, result.Deleted)
	assert.Empty(t, store.deletedIDs())
}

func TestRun_TransientLookupFailureKeepsUser(t *testing.T) {
	store := &fakeStore{ids: []string{"user-1"}}
	authority := &fakeAuthority{errors: map[string]error{
		"user-1": fmt.Errorf("gateway timeout"),
	}}

	h := createTestHandler(t, store, authority)

	result, err := h.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 0, result.Deleted)
	assert.Empty(t, store.deletedIDs())
}

func TestRun_DeleteFailureIsRecorded(t *testing.T) {
	store := &fakeStore{
		ids:       []string{"user-1"},
		deleteErr: map[string]error{"user-1": fmt.Errorf("access denied")},
	}
	authority := &fakeAuthority{}

	h := createTestHandler(t, store, authority)

	result, err := h.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 0, result.Deleted)
}

func TestRun_ListFailureAbortsRun(t *testing.T) {
	store := &fakeStore{listErr: fmt.Errorf("table missing")}

	h := createTestHandler(t, store, &fakeAuthority{})

	result, err := h.Run(context.Background())
	require.Error(t, err)
	assert.Nil(t, result)
}

func TestRun_MixedPopulation(t *testing.T) {
	store := &fakeStore{ids: []string{"user-1", "user-2", "user-3", "user-4"}}
	authority := &fakeAuthority{
		roles: map[string][]string{
			"user-1": {"customer"},
			"user-2": {"subscriber"},
		},
		errors: map[string]error{
			"user-4": fmt.Errorf("gateway timeout"),
		},
	}

	h := createTestHandler(t, store, authority)

	result, err := h.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, result.Checked)
	assert.Equal(t, 1, result.Retained)
	assert.Equal(t, 2, result.Deleted) // user-2 unauthorized, user-3 unknown
	assert.Equal(t, 1, result.Failed)
	assert.ElementsMatch(t, []string{"user-2", "user-3"}, store.deletedIDs())
}
