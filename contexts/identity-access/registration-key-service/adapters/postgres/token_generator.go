package postgresadapter

import "athenaeum/contexts/identity-access/registration-key-service/domain/services"

// AlphanumericTokenGenerator implements ports.TokenGenerator over the
// domain token generator.
type AlphanumericTokenGenerator struct{}

func (AlphanumericTokenGenerator) NewToken() (string, error) {
	return services.GenerateToken()
}
