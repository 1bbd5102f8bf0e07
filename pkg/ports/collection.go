package ports

import "time"

type Collection struct {
	Registry          VMRegistry
	IdentifierService IDService
	Clock             func() time.Time
}
