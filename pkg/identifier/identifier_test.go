package identifier_test

import (
	"testing"

	g "github.com/onsi/gomega"

	"vmctl/pkg/identifier"
)

func TestGenerateRandom_format(t *testing.T) {
	g.RegisterTestingT(t)

	id, err := identifier.New().GenerateRandom()

	g.Expect(err).NotTo(g.HaveOccurred())
	g.Expect(id).To(g.HaveLen(identifier.Length))
	g.Expect(id).To(g.MatchRegexp("^[0-9a-f]{32}$"))
	g.Expect(identifier.IsValid(id)).To(g.BeTrue())
}

func TestGenerateRandom_unique(t *testing.T) {
	g.RegisterTestingT(t)

	svc := identifier.New()
	seen := map[string]struct{}{}

	for i := 0; i < 1000; i++ {
		id, err := svc.GenerateRandom()
		g.Expect(err).NotTo(g.HaveOccurred())
		g.Expect(seen).NotTo(g.HaveKey(id))
		seen[id] = struct{}{}
	}
}

func TestIsValid(t *testing.T) {
	g.RegisterTestingT(t)

	g.Expect(identifier.IsValid("c9abe3b66fc544c78e355968119081ed")).To(g.BeTrue())
	g.Expect(identifier.IsValid("C9ABE3B66FC544C78E355968119081ED")).To(g.BeFalse())
	g.Expect(identifier.IsValid("c9abe3b6-6fc5-44c7-8e35-5968119081ed")).To(g.BeFalse())
	g.Expect(identifier.IsValid("nonexistent-id")).To(g.BeFalse())
	g.Expect(identifier.IsValid("")).To(g.BeFalse())
}
