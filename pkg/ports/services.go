package ports

import (
	"context"

	"vmctl/pkg/models"
)

// IDService is a port for a service that mints vm identifiers.
type IDService interface {
	// GenerateRandom returns a new random identifier.
	GenerateRandom() (string, error)
}

// StartVMInput is a start request as received from a client, before validation.
type StartVMInput struct {
	CPUCount  int
	MemSizeGB int
	Image     string
}

// VMService is the port definition for the vm use cases.
type VMService interface {
	// StartVM validates the input and registers a new vm, returning its id.
	StartVM(ctx context.Context, input StartVMInput) (string, error)
	// StopVM marks the vm as stopped and returns its record.
	StopVM(ctx context.Context, id string) (*models.VMRecord, error)
	// GetVM returns the vm record with the given id.
	GetVM(ctx context.Context, id string) (*models.VMRecord, error)
	// ListVMs returns all vm records.
	ListVMs(ctx context.Context) ([]*models.VMRecord, error)
}
