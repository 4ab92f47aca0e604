package nfc

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-tag/internal/adapters/capabilities/useragent"
	kvmemory "pet-tag/internal/adapters/kv/memory"
	storememory "pet-tag/internal/adapters/storage/memory"
	"pet-tag/internal/domain/pets"
)

const (
	androidChrome = "Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0 Mobile Safari/537.36"
	iPhoneSafari  = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_5 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.5 Mobile/15E148 Safari/604.1"
)

type failingSetNFC struct {
	*pets.Service
	fail bool
}

func (f *failingSetNFC) SetNFC(ctx context.Context, petID string, connected bool, tagID string) (pets.Pet, error) {
	if f.fail {
		return pets.Pet{}, errors.New("db down")
	}
	return f.Service.SetNFC(ctx, petID, connected, tagID)
}

func newTestService(t *testing.T) (*Service, *failingSetNFC, pets.Pet) {
	t.Helper()
	petSvc := pets.NewService(storememory.NewPetRepo(), nil)
	p, err := petSvc.Create(context.Background(), "owner-1", pets.CreateInput{Name: "Luna"})
	require.NoError(t, err)

	store := &failingSetNFC{Service: petSvc}
	svc := NewService(store, kvmemory.NewStore(), useragent.NewResolver(false), "https://tag.example/", nil)
	return svc, store, p
}

func TestStatus(t *testing.T) {
	svc, _, p := newTestService(t)
	ctx := context.Background()

	st, err := svc.Status(ctx, p.ID, "owner-1", androidChrome)
	require.NoError(t, err)
	assert.Equal(t, "https://tag.example/p/"+p.ID, st.URL)
	assert.True(t, st.Supported)
	assert.Empty(t, st.Instructions)

	uris, err := DecodeURIs(st.NDEFMessage)
	require.NoError(t, err)
	assert.Equal(t, []string{st.URL}, uris)

	st, err = svc.Status(ctx, p.ID, "owner-1", iPhoneSafari)
	require.NoError(t, err)
	assert.False(t, st.Supported)
	assert.NotEmpty(t, st.Instructions)

	_, err = svc.Status(ctx, p.ID, "someone-else", androidChrome)
	assert.ErrorIs(t, err, pets.ErrForbidden)
}

func TestPairing_EmptyTagHappyPath(t *testing.T) {
	svc, store, p := newTestService(t)
	ctx := context.Background()

	sess, err := svc.StartPairing(ctx, p.ID, "owner-1", androidChrome)
	require.NoError(t, err)
	assert.Equal(t, StateScanning, sess.State)

	sess, err = svc.Read(ctx, p.ID, "owner-1", sess.ID, ReadInput{SerialNumber: "04:a2:3f"})
	require.NoError(t, err)
	assert.Equal(t, StateWriting, sess.State)

	sess, err = svc.Written(ctx, p.ID, "owner-1", sess.ID, "")
	require.NoError(t, err)
	assert.Equal(t, StateSuccess, sess.State)

	got, err := store.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, got.NFCConnected)
	assert.Equal(t, "04:a2:3f", got.TagID)

	_, err = svc.Cancel(ctx, p.ID, "owner-1", sess.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestPairing_SameURLSkipsConfirm(t *testing.T) {
	svc, _, p := newTestService(t)
	ctx := context.Background()

	sess, err := svc.StartPairing(ctx, p.ID, "owner-1", androidChrome)
	require.NoError(t, err)

	sess, err = svc.Read(ctx, p.ID, "owner-1", sess.ID, ReadInput{
		Records: []TagRecord{{RecordType: "url", URL: svc.ProfileURL(p.ID) + "/"}},
	})
	require.NoError(t, err)
	assert.Equal(t, StateWriting, sess.State)
}

func TestPairing_OtherContentNeedsConfirm(t *testing.T) {
	svc, _, p := newTestService(t)
	ctx := context.Background()

	sess, err := svc.StartPairing(ctx, p.ID, "owner-1", androidChrome)
	require.NoError(t, err)

	raw, err := EncodeURI("https://other.example/x")
	require.NoError(t, err)
	sess, err = svc.Read(ctx, p.ID, "owner-1", sess.ID, ReadInput{Message: raw})
	require.NoError(t, err)
	assert.Equal(t, StateConfirm, sess.State)
	assert.Equal(t, []string{"https://other.example/x"}, sess.ExistingContent)

	_, err = svc.Written(ctx, p.ID, "owner-1", sess.ID, "x")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	sess, err = svc.Confirm(ctx, p.ID, "owner-1", sess.ID)
	require.NoError(t, err)
	assert.Equal(t, StateWriting, sess.State)
}

func TestPairing_UnsupportedPlatform(t *testing.T) {
	svc, _, p := newTestService(t)
	ctx := context.Background()

	sess, err := svc.StartPairing(ctx, p.ID, "owner-1", iPhoneSafari)
	require.NoError(t, err)
	assert.Equal(t, StateError, sess.State)
	assert.Equal(t, ReasonUnsupportedPlatform, sess.Reason)

	_, err = svc.Read(ctx, p.ID, "owner-1", sess.ID, ReadInput{})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestPairing_FailedCatalog(t *testing.T) {
	svc, _, p := newTestService(t)
	ctx := context.Background()

	sess, err := svc.StartPairing(ctx, p.ID, "owner-1", androidChrome)
	require.NoError(t, err)

	sess, err = svc.Fail(ctx, p.ID, "owner-1", sess.ID, "NotAllowedError")
	require.NoError(t, err)
	assert.Equal(t, StateError, sess.State)
	assert.Equal(t, ReasonNotAllowed, sess.Reason)
	assert.Equal(t, ReasonNotAllowed.Message(), sess.Message)

	sess, err = svc.Cancel(ctx, p.ID, "owner-1", sess.ID)
	require.NoError(t, err)
	assert.Equal(t, StateIdle, sess.State)

	assert.Equal(t, ReasonGeneric, ParseReason("weird"))
	assert.Equal(t, ReasonTimeout, ParseReason("timeout"))
}

func TestPairing_WrittenDBFailureKeepsWriting(t *testing.T) {
	svc, store, p := newTestService(t)
	ctx := context.Background()

	sess, err := svc.StartPairing(ctx, p.ID, "owner-1", androidChrome)
	require.NoError(t, err)
	sess, err = svc.Read(ctx, p.ID, "owner-1", sess.ID, ReadInput{})
	require.NoError(t, err)

	store.fail = true
	_, err = svc.Written(ctx, p.ID, "owner-1", sess.ID, "sn-1")
	require.Error(t, err)

	sess, err = svc.GetSession(ctx, p.ID, "owner-1", sess.ID)
	require.NoError(t, err)
	assert.Equal(t, StateWriting, sess.State)

	store.fail = false
	sess, err = svc.Written(ctx, p.ID, "owner-1", sess.ID, "sn-1")
	require.NoError(t, err)
	assert.Equal(t, StateSuccess, sess.State)
}

func TestPairing_SessionScopeAndExpiry(t *testing.T) {
	svc, store, p := newTestService(t)
	ctx := context.Background()

	sess, err := svc.StartPairing(ctx, p.ID, "owner-1", androidChrome)
	require.NoError(t, err)

	other, err := store.Create(ctx, "owner-1", pets.CreateInput{Name: "Milo"})
	require.NoError(t, err)
	_, err = svc.GetSession(ctx, other.ID, "owner-1", sess.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = svc.GetSession(ctx, p.ID, "owner-1", "nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	later := time.Now().Add(SessionTTL + time.Minute)
	svc.now = func() time.Time { return later }
	_, err = svc.GetSession(ctx, p.ID, "owner-1", sess.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestDisconnect(t *testing.T) {
	svc, store, p := newTestService(t)
	ctx := context.Background()

	_, err := store.SetNFC(ctx, p.ID, true, "sn-9")
	require.NoError(t, err)

	got, err := svc.Disconnect(ctx, p.ID, "owner-1")
	require.NoError(t, err)
	assert.False(t, got.NFCConnected)
	assert.Empty(t, got.TagID)

	_, err = svc.Disconnect(ctx, p.ID, "intruder")
	assert.ErrorIs(t, err, pets.ErrForbidden)
}

func TestMarkConnected_ManualRoute(t *testing.T) {
	svc, store, p := newTestService(t)
	ctx := context.Background()

	// iPhone: sin Web NFC, el dueño graba con una app y lo marca a mano.
	st, err := svc.Status(ctx, p.ID, "owner-1", iPhoneSafari)
	require.NoError(t, err)
	require.False(t, st.Supported)
	assert.Contains(t, st.Instructions[len(st.Instructions)-1], "mark the tag as connected")

	sess, err := svc.StartPairing(ctx, p.ID, "owner-1", iPhoneSafari)
	require.NoError(t, err)
	require.Equal(t, StateError, sess.State)

	_, err = svc.MarkConnected(ctx, p.ID, "intruder", "04:aa")
	assert.ErrorIs(t, err, pets.ErrForbidden)

	_, err = svc.MarkConnected(ctx, p.ID, "owner-1", strings.Repeat("a", MaxSerialNumber+1))
	assert.ErrorIs(t, err, ErrInvalidInput)

	got, err := svc.MarkConnected(ctx, p.ID, "owner-1", " 04:aa ")
	require.NoError(t, err)
	assert.True(t, got.NFCConnected)
	assert.Equal(t, "04:aa", got.TagID)

	stored, err := store.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, stored.NFCConnected)

	store.fail = true
	_, err = svc.MarkConnected(ctx, p.ID, "owner-1", "")
	assert.Error(t, err)
}

func TestPairing_TransitionsReturnSavedUpdatedAt(t *testing.T) {
	svc, _, p := newTestService(t)
	ctx := context.Background()

	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return clock }

	sess, err := svc.StartPairing(ctx, p.ID, "owner-1", androidChrome)
	require.NoError(t, err)

	clock = clock.Add(30 * time.Second)
	sess, err = svc.Read(ctx, p.ID, "owner-1", sess.ID, ReadInput{SerialNumber: "sn-1"})
	require.NoError(t, err)
	assert.Equal(t, clock, sess.UpdatedAt)

	stored, err := svc.GetSession(ctx, p.ID, "owner-1", sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.UpdatedAt, stored.UpdatedAt)

	clock = clock.Add(30 * time.Second)
	sess, err = svc.Written(ctx, p.ID, "owner-1", sess.ID, "")
	require.NoError(t, err)
	assert.Equal(t, clock, sess.UpdatedAt)
}
