package models

import (
	"encoding/json"
	"fmt"
	"strings"

	vmerrors "vmctl/pkg/errors"
)

// VMState is the lifecycle label of a vm record. Stopping a vm only changes
// the label, no runtime is involved.
type VMState string

const (
	RunningState VMState = "running"
	StoppedState VMState = "stopped"
)

// Bounds for the numeric spec fields, exclusive on both ends.
const (
	cpuCountAbove  = 0
	cpuCountBelow  = 65
	memSizeGBAbove = 8
	memSizeGBBelow = 1025
)

// Field names as they appear on the wire.
const (
	FieldCPUCount  = "cpu_count"
	FieldMemSizeGB = "mem_size_gb"
	FieldImage     = "image"
)

var allowedImages = []string{"ubuntu-24.04", "debian:bookworm", "alpine:3.20"}

// AllowedImages returns the accepted image names in declaration order.
func AllowedImages() []string {
	images := make([]string, len(allowedImages))
	copy(images, allowedImages)

	return images
}

func oneOf(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = "'" + v + "'"
	}

	if len(quoted) == 1 {
		return quoted[0]
	}

	return strings.Join(quoted[:len(quoted)-1], ", ") + " or " + quoted[len(quoted)-1]
}

func isAllowedImage(image string) bool {
	for _, allowed := range allowedImages {
		if image == allowed {
			return true
		}
	}

	return false
}

// VMSpec represents the validated specification of a vm. The zero value is
// not a valid spec; use NewVMSpec.
type VMSpec struct {
	cpuCount  int
	memSizeGB int
	image     string
}

// NewVMSpec validates the supplied values and builds a VMSpec from them.
// Every failing field is reported in the returned ValidationErrors.
func NewVMSpec(cpuCount, memSizeGB int, image string) (VMSpec, error) {
	var errs vmerrors.ValidationErrors

	errs = append(errs, checkRange(FieldCPUCount, cpuCount, cpuCountAbove, cpuCountBelow)...)
	errs = append(errs, checkRange(FieldMemSizeGB, memSizeGB, memSizeGBAbove, memSizeGBBelow)...)

	if !isAllowedImage(image) {
		errs = append(errs, vmerrors.ValidationError{
			Field:      FieldImage,
			Kind:       vmerrors.KindLiteral,
			Constraint: "must be " + oneOf(allowedImages),
			Value:      image,
		})
	}

	if len(errs) > 0 {
		return VMSpec{}, errs
	}

	return VMSpec{cpuCount: cpuCount, memSizeGB: memSizeGB, image: image}, nil
}

func checkRange(field string, value, above, below int) vmerrors.ValidationErrors {
	switch {
	case value <= above:
		return vmerrors.ValidationErrors{{
			Field:      field,
			Kind:       vmerrors.KindGreaterThan,
			Constraint: fmt.Sprintf("must be greater than %d", above),
			Value:      value,
		}}
	case value >= below:
		return vmerrors.ValidationErrors{{
			Field:      field,
			Kind:       vmerrors.KindLessThan,
			Constraint: fmt.Sprintf("must be less than %d", below),
			Value:      value,
		}}
	}

	return nil
}

// CPUCount is the number of vcpus requested.
func (s VMSpec) CPUCount() int { return s.cpuCount }

// MemSizeGB is the amount of memory requested in gigabytes.
func (s VMSpec) MemSizeGB() int { return s.memSizeGB }

// Image is the disk image name.
func (s VMSpec) Image() string { return s.image }

// IsZero reports whether s was built without NewVMSpec.
func (s VMSpec) IsZero() bool { return s == VMSpec{} }

func (s VMSpec) String() string {
	return fmt.Sprintf("cpu=%d mem=%dGB image=%s", s.cpuCount, s.memSizeGB, s.image)
}

type vmSpecJSON struct {
	CPUCount  int    `json:"cpu_count"`
	MemSizeGB int    `json:"mem_size_gb"`
	Image     string `json:"image"`
}

// MarshalJSON implements json.Marshaler.
func (s VMSpec) MarshalJSON() ([]byte, error) {
	return json.Marshal(vmSpecJSON{CPUCount: s.cpuCount, MemSizeGB: s.memSizeGB, Image: s.image})
}

// UnmarshalJSON implements json.Unmarshaler. Decoding goes through
// NewVMSpec so an invalid spec can never be decoded.
func (s *VMSpec) UnmarshalJSON(data []byte) error {
	var raw vmSpecJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	spec, err := NewVMSpec(raw.CPUCount, raw.MemSizeGB, raw.Image)
	if err != nil {
		return err
	}

	*s = spec

	return nil
}

// VMRecord is a vm known to the registry.
type VMRecord struct {
	// ID is the identifier minted by the registry.
	ID string `json:"id"`
	// Spec is the specification the vm was started with.
	Spec VMSpec `json:"spec"`
	// Status is the lifecycle status of the vm.
	Status VMStatus `json:"status"`
}

// VMStatus contains the lifecycle status of the vm.
type VMStatus struct {
	// State is the current lifecycle label.
	State VMState `json:"state"`
	// CreatedAt is the unix time the record was created at.
	CreatedAt int64 `json:"created_at"`
	// StoppedAt is the unix time the record was first stopped at, zero while running.
	StoppedAt int64 `json:"stopped_at,omitempty"`
}
