package registry

import (
	"fmt"
	"sort"
	"sync"
	"time"

	vmerrors "vmctl/pkg/errors"
	"vmctl/pkg/models"
	"vmctl/pkg/ports"
)

// maxIDAttempts bounds how many identifiers are drawn before giving up on a
// collision.
const maxIDAttempts = 3

// Registry is an in-memory store of vm records keyed by generated id. Records
// are never removed and their spec never changes.
type Registry struct {
	ids   ports.IDService
	clock func() time.Time

	mu      sync.Mutex
	records map[string]*models.VMRecord
}

// New creates an empty registry minting ids from ids.
func New(ids ports.IDService, clock func() time.Time) *Registry {
	if clock == nil {
		clock = time.Now
	}

	return &Registry{
		ids:     ids,
		clock:   clock,
		records: make(map[string]*models.VMRecord),
	}
}

// Create implements ports.VMRegistry.
func (r *Registry) Create(spec models.VMSpec) (string, error) {
	if spec.IsZero() {
		return "", vmerrors.ErrSpecRequired
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id, err := r.newID()
	if err != nil {
		return "", err
	}

	r.records[id] = &models.VMRecord{
		ID:   id,
		Spec: spec,
		Status: models.VMStatus{
			State:     models.RunningState,
			CreatedAt: r.clock().Unix(),
		},
	}

	return id, nil
}

// newID must be called with mu held.
func (r *Registry) newID() (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id, err := r.ids.GenerateRandom()
		if err != nil {
			return "", fmt.Errorf("generating vm id: %w", err)
		}

		if _, exists := r.records[id]; !exists {
			return id, nil
		}
	}

	return "", vmerrors.ErrIDCollision
}

// Stop implements ports.VMRegistry. Stopping a stopped vm succeeds and
// leaves StoppedAt at its first value.
func (r *Registry) Stop(id string) (*models.VMRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[id]
	if !ok {
		return nil, vmerrors.NewNotFound(id)
	}

	if rec.Status.State != models.StoppedState {
		rec.Status.State = models.StoppedState
		rec.Status.StoppedAt = r.clock().Unix()
	}

	cp := *rec

	return &cp, nil
}

// Get implements ports.VMRegistry.
func (r *Registry) Get(id string) (*models.VMRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[id]
	if !ok {
		return nil, vmerrors.NewNotFound(id)
	}

	cp := *rec

	return &cp, nil
}

// List implements ports.VMRegistry.
func (r *Registry) List() []*models.VMRecord {
	r.mu.Lock()
	list := make([]*models.VMRecord, 0, len(r.records))
	for _, rec := range r.records {
		cp := *rec
		list = append(list, &cp)
	}
	r.mu.Unlock()

	sort.Slice(list, func(i, j int) bool {
		if list[i].Status.CreatedAt != list[j].Status.CreatedAt {
			return list[i].Status.CreatedAt < list[j].Status.CreatedAt
		}

		return list[i].ID < list[j].ID
	})

	return list
}

// Len returns the number of records.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.records)
}

// Counts implements ports.VMRegistry.
func (r *Registry) Counts() map[models.VMState]int {
	counts := map[models.VMState]int{
		models.RunningState: 0,
		models.StoppedState: 0,
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rec := range r.records {
		counts[rec.Status.State]++
	}

	return counts
}
