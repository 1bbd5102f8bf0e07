package identifier

import (
	"encoding/hex"
	"fmt"
	"regexp"

	"github.com/google/uuid"

	"vmctl/pkg/ports"
)

// Length is the number of hex characters in a generated identifier.
const Length = 32

var idPattern = regexp.MustCompile(`^[0-9a-f]{32}$`)

type hexIDService struct{}

// New returns an IDService minting random 128-bit identifiers rendered as
// lowercase hex without hyphens.
func New() ports.IDService {
	return &hexIDService{}
}

// GenerateRandom implements ports.IDService.
func (hexIDService) GenerateRandom() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generating random uuid: %w", err)
	}

	return hex.EncodeToString(id[:]), nil
}

// IsValid reports whether id has the format produced by GenerateRandom.
func IsValid(id string) bool {
	return idPattern.MatchString(id)
}
