package app

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	vmerrors "vmctl/pkg/errors"
	"vmctl/pkg/log"
	"vmctl/pkg/models"
	"vmctl/pkg/ports"
)

// StartVM implements ports.VMService.
func (a *App) StartVM(ctx context.Context, input ports.StartVMInput) (string, error) {
	logger := log.GetLogger(ctx).WithField("action", "start")

	spec, err := models.NewVMSpec(input.CPUCount, input.MemSizeGB, input.Image)
	if err != nil {
		a.recordValidationFailure(err)
		logger.WithError(err).Debug("rejected vm spec")

		return "", fmt.Errorf("validating vm spec: %w", err)
	}

	id, err := a.ports.Registry.Create(spec)
	if err != nil {
		return "", fmt.Errorf("registering vm: %w", err)
	}

	if a.metrics != nil {
		a.metrics.VMCreated.Inc()
	}

	logger.WithFields(logrus.Fields{
		"vm":          id,
		"cpu_count":   spec.CPUCount(),
		"mem_size_gb": spec.MemSizeGB(),
		"image":       spec.Image(),
	}).Info("vm started")

	return id, nil
}

// StopVM implements ports.VMService.
func (a *App) StopVM(ctx context.Context, id string) (*models.VMRecord, error) {
	logger := log.GetLogger(ctx).WithFields(logrus.Fields{"action": "stop", "vm": id})

	if id == "" {
		return nil, vmerrors.ErrVMIDRequired
	}

	rec, err := a.ports.Registry.Stop(id)
	if err != nil {
		logger.WithError(err).Debug("stop failed")

		return nil, fmt.Errorf("stopping vm %s: %w", id, err)
	}

	if a.metrics != nil {
		a.metrics.VMStopped.Inc()
	}

	logger.WithField("spec", rec.Spec.String()).Info("vm stopped")

	return rec, nil
}

// GetVM implements ports.VMService.
func (a *App) GetVM(ctx context.Context, id string) (*models.VMRecord, error) {
	if id == "" {
		return nil, vmerrors.ErrVMIDRequired
	}

	rec, err := a.ports.Registry.Get(id)
	if err != nil {
		return nil, fmt.Errorf("getting vm %s: %w", id, err)
	}

	log.GetLogger(ctx).WithField("vm", id).Debug("vm fetched")

	return rec, nil
}

// ListVMs implements ports.VMService.
func (a *App) ListVMs(ctx context.Context) ([]*models.VMRecord, error) {
	vms := a.ports.Registry.List()

	log.GetLogger(ctx).WithField("count", len(vms)).Debug("vms listed")

	return vms, nil
}

func (a *App) recordValidationFailure(err error) {
	if a.metrics == nil {
		return
	}

	list, ok := vmerrors.AsValidation(err)
	if !ok {
		return
	}

	for _, field := range list.Fields() {
		a.metrics.ValidationFailures.WithLabelValues(field).Inc()
	}
}
