package keygate

import (
	"context"

	keyapplication "athenaeum/contexts/identity-access/registration-key-service/application"

	"athenaeum/contexts/identity-access/identity-service/ports"
)

// Gate adapts the registration-key service to the identity module's KeyGate
// port. Key sentinel errors pass through unchanged.
type Gate struct {
	Keys keyapplication.Service
}

func New(keys keyapplication.Service) Gate {
	return Gate{Keys: keys}
}

func (g Gate) Check(ctx context.Context, token string) (ports.KeyStatus, error) {
	key, err := g.Keys.Check(ctx, token)
	if err != nil {
		return ports.KeyStatus{}, err
	}
	return ports.KeyStatus{Role: key.Role}, nil
}

var _ ports.KeyGate = Gate{}
