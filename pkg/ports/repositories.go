package ports

import (
	"vmctl/pkg/models"
)

// VMRegistry is the port definition for the in-memory vm registry.
type VMRegistry interface {
	// Create will store the supplied spec under a newly minted id and return the id.
	Create(spec models.VMSpec) (string, error)
	// Stop marks the vm with the given id as stopped and returns a copy of
	// the updated record.
	Stop(id string) (*models.VMRecord, error)
	// Get returns a copy of the vm record with the given id.
	Get(id string) (*models.VMRecord, error)
	// List returns copies of all vm records, oldest first.
	List() []*models.VMRecord
	// Counts returns the number of records per state.
	Counts() map[models.VMState]int
}
