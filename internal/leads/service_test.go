package leads

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nestinghomes/nestinghomes-web/internal/apperror"
	"github.com/nestinghomes/nestinghomes-web/pkg/logging"
)

type recordingObserver struct {
	name  string
	err   error
	leads []*Lead
}

func (o *recordingObserver) Name() string { return o.name }

func (o *recordingObserver) LeadCreated(_ context.Context, lead *Lead) error {
	o.leads = append(o.leads, lead)
	return o.err
}

type stubGuard struct {
	claimErr error
	seen     map[string]bool
	released []string
}

func (g *stubGuard) Claim(_ context.Context, fp string) (bool, error) {
	if g.claimErr != nil {
		return false, g.claimErr
	}
	if g.seen == nil {
		g.seen = map[string]bool{}
	}
	if g.seen[fp] {
		return false, nil
	}
	g.seen[fp] = true
	return true, nil
}

func (g *stubGuard) Release(_ context.Context, fp string) error {
	delete(g.seen, fp)
	g.released = append(g.released, fp)
	return nil
}

func validRequest() *CreateLeadRequest {
	return &CreateLeadRequest{Name: "  Jane Owner ", Email: "jane@example.com ", Message: "Duplex in Fullerton"}
}

func TestServiceCaptureNormalizesAndNotifies(t *testing.T) {
	email := &recordingObserver{name: "email"}
	queue := &recordingObserver{name: "queue"}
	svc := NewService(NewInMemoryRepository(), logging.New("error"), WithObservers(email, nil, queue))

	lead, err := svc.Capture(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, "Jane Owner", lead.Name)
	assert.Equal(t, "jane@example.com", lead.Email)
	assert.Equal(t, DefaultSource, lead.Source)
	require.Len(t, email.leads, 1)
	require.Len(t, queue.leads, 1)
	assert.Equal(t, lead.ID, queue.leads[0].ID)
}

func TestServiceCaptureObserverFailureDoesNotFailLead(t *testing.T) {
	broken := &recordingObserver{name: "archive", err: errors.New("s3 down")}
	after := &recordingObserver{name: "email"}
	svc := NewService(NewInMemoryRepository(), logging.New("error"), WithObservers(broken, after))

	lead, err := svc.Capture(context.Background(), validRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, lead.ID)
	assert.Len(t, after.leads, 1)
}

func TestServiceCaptureValidation(t *testing.T) {
	svc := NewService(NewInMemoryRepository(), logging.New("error"))

	_, err := svc.Capture(context.Background(), &CreateLeadRequest{Name: "   ", Email: "x@example.com"})
	var verr *apperror.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "name is required", verr.First())
}

func TestServiceCaptureRejectsDuplicates(t *testing.T) {
	guard := &stubGuard{}
	svc := NewService(NewInMemoryRepository(), logging.New("error"), WithDuplicateGuard(guard))

	_, err := svc.Capture(context.Background(), validRequest())
	require.NoError(t, err)

	_, err = svc.Capture(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrDuplicateLead)
}

func TestServiceCaptureReleasesFingerprintOnStoreFailure(t *testing.T) {
	guard := &stubGuard{}
	svc := NewService(failingRepository{}, logging.New("error"), WithDuplicateGuard(guard))

	_, err := svc.Capture(context.Background(), validRequest())
	require.Error(t, err)
	assert.Len(t, guard.released, 1)
	assert.Empty(t, guard.seen)
}

func TestServiceCaptureFailsOpenWhenGuardErrors(t *testing.T) {
	guard := &stubGuard{claimErr: errors.New("redis: connection refused")}
	svc := NewService(NewInMemoryRepository(), logging.New("error"), WithDuplicateGuard(guard))

	lead, err := svc.Capture(context.Background(), validRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, lead.ID)
}

func TestRedisDuplicateGuardWindow(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	guard := NewRedisDuplicateGuard(client, 10*time.Minute)
	ctx := context.Background()

	fresh, err := guard.Claim(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, fresh)

	fresh, err = guard.Claim(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, fresh)
	assert.Equal(t, 10*time.Minute, mr.TTL(dedupeKeyPrefix+"abc"))

	mr.FastForward(11 * time.Minute)
	fresh, err = guard.Claim(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, fresh)

	require.NoError(t, guard.Release(ctx, "abc"))
	assert.False(t, mr.Exists(dedupeKeyPrefix+"abc"))
}

func TestRedisDuplicateGuardDisabled(t *testing.T) {
	assert.Nil(t, NewRedisDuplicateGuard(nil, time.Minute))

	var guard *RedisDuplicateGuard
	fresh, err := guard.Claim(context.Background(), "abc")
	require.NoError(t, err)
	assert.True(t, fresh)
	assert.NoError(t, guard.Release(context.Background(), "abc"))
}

func TestFingerprintIgnoresCaseAndSpacing(t *testing.T) {
	a := &CreateLeadRequest{Name: "Jane", Email: "Jane@Example.com", Message: "Hi"}
	b := &CreateLeadRequest{Name: " jane ", Email: "jane@example.com", Message: "hi "}
	c := &CreateLeadRequest{Name: "Jane", Email: "jane@example.com", Message: "Hello"}

	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
}
