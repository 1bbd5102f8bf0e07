package output_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vmctl/internal/command/output"
)

type sample struct {
	ID   string `json:"id"`
	Spec struct {
		CPUCount int    `json:"cpu_count"`
		Image    string `json:"image"`
	} `json:"spec"`
}

func newSample() sample {
	s := sample{ID: "c9abe3b66fc544c78e355968119081ed"}
	s.Spec.CPUCount = 2
	s.Spec.Image = "ubuntu-24.04"

	return s
}

func TestPrint_json(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, output.Print(&buf, output.FormatJSON, newSample()))

	assert.JSONEq(t, `{"id":"c9abe3b66fc544c78e355968119081ed","spec":{"cpu_count":2,"image":"ubuntu-24.04"}}`, buf.String())
}

func TestPrint_yamlKeepsOrder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, output.Print(&buf, output.FormatYAML, newSample()))

	assert.Equal(t, "id: c9abe3b66fc544c78e355968119081ed\nspec:\n  cpu_count: 2\n  image: ubuntu-24.04\n", buf.String())
}

func TestPrint_invalidFormat(t *testing.T) {
	var buf bytes.Buffer
	assert.EqualError(t, output.Print(&buf, "xml", newSample()), "output format xml is invalid")
	assert.Empty(t, buf.String())
}
