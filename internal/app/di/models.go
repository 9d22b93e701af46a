package di

import (
	authentity "enterprise_backend/internal/feature/auth/domain/entity"
	enterpriseentity "enterprise_backend/internal/feature/enterprise/domain/entity"
)

// Models returns every persistent model, in migration order.
func Models() []any {
	return []any{
		&authentity.User{},
		&authentity.Session{},
		&enterpriseentity.Value{},
		&enterpriseentity.Enterprise{},
	}
}
