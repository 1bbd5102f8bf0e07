package registry_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	vmerrors "vmctl/pkg/errors"
	"vmctl/pkg/identifier"
	"vmctl/pkg/models"
	"vmctl/pkg/registry"
)

type sequenceIDs struct {
	ids []string
	err error
}

func (s *sequenceIDs) GenerateRandom() (string, error) {
	if s.err != nil {
		return "", s.err
	}

	id := s.ids[0]
	s.ids = s.ids[1:]

	return id, nil
}

func fixedClock(unix int64) func() time.Time {
	return func() time.Time { return time.Unix(unix, 0) }
}

func mustSpec(t *testing.T, cpu, mem int, image string) models.VMSpec {
	t.Helper()
	spec, err := models.NewVMSpec(cpu, mem, image)
	require.NoError(t, err)
	return spec
}

func TestCreateThenStop(t *testing.T) {
	reg := registry.New(identifier.New(), nil)
	spec := mustSpec(t, 2, 32, "ubuntu-24.04")

	id, err := reg.Create(spec)
	require.NoError(t, err)
	assert.True(t, identifier.IsValid(id), "id %q should be 32 lowercase hex chars", id)

	rec, err := reg.Get(id)
	require.NoError(t, err)
	assert.Equal(t, models.RunningState, rec.Status.State)

	got, err := reg.Stop(id)
	require.NoError(t, err)
	assert.Equal(t, spec, got.Spec)
	assert.Equal(t, models.StoppedState, got.Status.State)

	rec, err = reg.Get(id)
	require.NoError(t, err)
	assert.Equal(t, models.StoppedState, rec.Status.State)
	assert.Equal(t, spec, rec.Spec)
}

func TestStop_idempotent(t *testing.T) {
	now := int64(1000)
	reg := registry.New(identifier.New(), func() time.Time { return time.Unix(now, 0) })
	spec := mustSpec(t, 4, 64, "alpine:3.20")

	id, err := reg.Create(spec)
	require.NoError(t, err)

	now = 2000
	first, err := reg.Stop(id)
	require.NoError(t, err)

	now = 3000
	second, err := reg.Stop(id)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, spec, second.Spec)
	assert.Equal(t, int64(2000), second.Status.StoppedAt)

	rec, err := reg.Get(id)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), rec.Status.CreatedAt)
	assert.Equal(t, int64(2000), rec.Status.StoppedAt, "second stop should not move StoppedAt")
}

func TestStop_returnsCopy(t *testing.T) {
	reg := registry.New(identifier.New(), fixedClock(1700000000))
	spec := mustSpec(t, 2, 32, "ubuntu-24.04")

	id, err := reg.Create(spec)
	require.NoError(t, err)

	rec, err := reg.Stop(id)
	require.NoError(t, err)
	assert.Equal(t, id, rec.ID)
	assert.Equal(t, int64(1700000000), rec.Status.StoppedAt)

	rec.Status.State = models.RunningState

	stored, err := reg.Get(id)
	require.NoError(t, err)
	assert.Equal(t, models.StoppedState, stored.Status.State)
}

func TestStop_notFound(t *testing.T) {
	reg := registry.New(identifier.New(), nil)

	_, err := reg.Stop("nonexistent-id")
	require.Error(t, err)
	assert.True(t, vmerrors.IsNotFound(err))

	var nf vmerrors.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "nonexistent-id", nf.ID)
	assert.Equal(t, 0, reg.Len(), "a failed stop must not insert anything")
}

func TestGet_notFound(t *testing.T) {
	reg := registry.New(identifier.New(), nil)

	rec, err := reg.Get("c9abe3b66fc544c78e355968119081ed")
	assert.Nil(t, rec)
	assert.True(t, vmerrors.IsNotFound(err))
}

func TestCreate_distinctIDs(t *testing.T) {
	reg := registry.New(identifier.New(), nil)
	spec := mustSpec(t, 2, 32, "debian:bookworm")

	first, err := reg.Create(spec)
	require.NoError(t, err)
	second, err := reg.Create(spec)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.Equal(t, 2, reg.Len())
}

func TestCreate_zeroSpec(t *testing.T) {
	reg := registry.New(identifier.New(), nil)

	_, err := reg.Create(models.VMSpec{})
	assert.ErrorIs(t, err, vmerrors.ErrSpecRequired)
	assert.Equal(t, 0, reg.Len())
}

func TestCreate_idServiceFailure(t *testing.T) {
	boom := errors.New("entropy exhausted")
	reg := registry.New(&sequenceIDs{err: boom}, nil)

	_, err := reg.Create(mustSpec(t, 1, 9, "alpine:3.20"))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, reg.Len())
}

func TestCreate_retriesOnCollision(t *testing.T) {
	ids := &sequenceIDs{ids: []string{"aaaa", "aaaa", "bbbb"}}
	reg := registry.New(ids, nil)
	spec := mustSpec(t, 1, 9, "alpine:3.20")

	first, err := reg.Create(spec)
	require.NoError(t, err)
	second, err := reg.Create(spec)
	require.NoError(t, err)

	assert.Equal(t, "aaaa", first)
	assert.Equal(t, "bbbb", second)
}

func TestCreate_givesUpAfterRepeatedCollisions(t *testing.T) {
	ids := &sequenceIDs{ids: []string{"aaaa", "aaaa", "aaaa", "aaaa"}}
	reg := registry.New(ids, nil)
	spec := mustSpec(t, 1, 9, "alpine:3.20")

	_, err := reg.Create(spec)
	require.NoError(t, err)

	_, err = reg.Create(spec)
	assert.ErrorIs(t, err, vmerrors.ErrIDCollision)
	assert.Equal(t, 1, reg.Len())
}

func TestList_ordered(t *testing.T) {
	now := int64(10)
	reg := registry.New(&sequenceIDs{ids: []string{"cccc", "aaaa", "bbbb"}}, func() time.Time { return time.Unix(now, 0) })
	spec := mustSpec(t, 1, 9, "alpine:3.20")

	_, err := reg.Create(spec)
	require.NoError(t, err)
	now = 20
	_, err = reg.Create(spec)
	require.NoError(t, err)
	_, err = reg.Create(spec)
	require.NoError(t, err)

	list := reg.List()
	require.Len(t, list, 3)
	assert.Equal(t, "cccc", list[0].ID)
	assert.Equal(t, "aaaa", list[1].ID)
	assert.Equal(t, "bbbb", list[2].ID)
}

func TestList_returnsCopies(t *testing.T) {
	reg := registry.New(identifier.New(), fixedClock(1))
	id, err := reg.Create(mustSpec(t, 1, 9, "alpine:3.20"))
	require.NoError(t, err)

	list := reg.List()
	require.Len(t, list, 1)
	list[0].Status.State = models.StoppedState

	rec, err := reg.Get(id)
	require.NoError(t, err)
	assert.Equal(t, models.RunningState, rec.Status.State)
}

func TestCounts(t *testing.T) {
	reg := registry.New(identifier.New(), nil)
	spec := mustSpec(t, 1, 9, "alpine:3.20")

	ids := make([]string, 3)
	for i := range ids {
		id, err := reg.Create(spec)
		require.NoError(t, err)
		ids[i] = id
	}

	_, err := reg.Stop(ids[0])
	require.NoError(t, err)

	counts := reg.Counts()
	assert.Equal(t, 2, counts[models.RunningState])
	assert.Equal(t, 1, counts[models.StoppedState])
}

func TestConcurrentCreateAndStop(t *testing.T) {
	reg := registry.New(identifier.New(), nil)
	spec := mustSpec(t, 8, 128, "ubuntu-24.04")

	const workers = 16
	const perWorker = 50

	var wg sync.WaitGroup
	idsCh := make(chan string, workers*perWorker)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				id, err := reg.Create(spec)
				if err != nil {
					t.Errorf("create: %v", err)
					return
				}
				if _, err := reg.Stop(id); err != nil {
					t.Errorf("stop: %v", err)
					return
				}
				idsCh <- id
			}
		}()
	}

	wg.Wait()
	close(idsCh)

	seen := map[string]struct{}{}
	for id := range idsCh {
		seen[id] = struct{}{}
	}

	assert.Len(t, seen, workers*perWorker)
	assert.Equal(t, workers*perWorker, reg.Len())
	assert.Equal(t, workers*perWorker, reg.Counts()[models.StoppedState])
}

func TestRegistry_roundTripProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		reg := registry.New(identifier.New(), nil)

		n := rapid.IntRange(1, 20).Draw(rt, "n")
		issued := make(map[string]models.VMSpec, n)

		for i := 0; i < n; i++ {
			spec, err := models.NewVMSpec(
				rapid.IntRange(1, 64).Draw(rt, "cpu"),
				rapid.IntRange(9, 1024).Draw(rt, "mem"),
				rapid.SampledFrom(models.AllowedImages()).Draw(rt, "image"),
			)
			if err != nil {
				rt.Fatalf("valid spec rejected: %v", err)
			}

			id, err := reg.Create(spec)
			if err != nil {
				rt.Fatalf("create: %v", err)
			}
			if _, dup := issued[id]; dup {
				rt.Fatalf("id %s issued twice", id)
			}
			issued[id] = spec
		}

		for id, want := range issued {
			for i := 0; i < 2; i++ {
				got, err := reg.Stop(id)
				if err != nil {
					rt.Fatalf("stop %s: %v", id, err)
				}
				if got.Spec != want {
					rt.Fatalf("stop %s returned %v, want %v", id, got, want)
				}
			}
		}

		unknown := rapid.StringMatching(`[a-z\-]{1,40}`).Draw(rt, "unknown")
		if _, issuedID := issued[unknown]; !issuedID {
			if _, err := reg.Stop(unknown); !vmerrors.IsNotFound(err) {
				rt.Fatalf("stop of unknown id %q: got %v, want not found", unknown, err)
			}
		}
	})
}
