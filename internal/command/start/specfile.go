package start

import (
	"fmt"
	"strconv"
	"strings"

	units "github.com/docker/go-units"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"

	"vmctl/pkg/ports"
)

// SpecFile is the on-disk description of a vm.
//
//	[hardware]
//	cores = 2
//	memory = "32GiB"
//	image = "ubuntu-24.04"
type SpecFile struct {
	Hardware struct {
		Cores  int    `toml:"cores"`
		Memory any    `toml:"memory"`
		Image  string `toml:"image"`
	} `toml:"hardware"`
}

// LoadSpecFile reads and parses the spec file at path.
func LoadSpecFile(fs afero.Fs, path string) (*SpecFile, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("reading spec file %s: %w", path, err)
	}

	spec := &SpecFile{}
	if err := toml.Unmarshal(data, spec); err != nil {
		return nil, fmt.Errorf("parsing spec file %s: %w", path, err)
	}

	return spec, nil
}

// ParseMemoryGB converts a memory value to whole gigabytes. A bare number is
// taken as gigabytes; anything else is parsed as a RAM size such as 32GiB or
// 32g and must be a whole number of GiB.
func ParseMemoryGB(value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}

	if gb, err := strconv.Atoi(value); err == nil {
		return gb, nil
	}

	bytes, err := units.RAMInBytes(value)
	if err != nil {
		return 0, fmt.Errorf("parsing memory %q: %w", value, err)
	}

	if bytes%units.GiB != 0 {
		return 0, fmt.Errorf("memory %q is not a whole number of GiB", value)
	}

	return int(bytes / units.GiB), nil
}

func (s *SpecFile) memoryGB() (int, error) {
	switch v := s.Hardware.Memory.(type) {
	case nil:
		return 0, nil
	case int64:
		return int(v), nil
	case string:
		return ParseMemoryGB(v)
	}

	return 0, fmt.Errorf("memory must be a number of GB or a size string, got %v", s.Hardware.Memory)
}

// Overrides are values given on the command line. Zero values are ignored.
type Overrides struct {
	CPU    int
	Memory string
	Image  string
}

// BuildInput merges the spec file, which may be nil, with the overrides.
// The result is not validated; the api does that.
func BuildInput(file *SpecFile, o Overrides) (ports.StartVMInput, error) {
	var input ports.StartVMInput

	if file != nil {
		mem, err := file.memoryGB()
		if err != nil {
			return input, err
		}

		input.CPUCount = file.Hardware.Cores
		input.MemSizeGB = mem
		input.Image = file.Hardware.Image
	}

	if o.CPU != 0 {
		input.CPUCount = o.CPU
	}

	if o.Memory != "" {
		mem, err := ParseMemoryGB(o.Memory)
		if err != nil {
			return input, err
		}

		input.MemSizeGB = mem
	}

	if o.Image != "" {
		input.Image = o.Image
	}

	return input, nil
}
