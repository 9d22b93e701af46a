// Package usecase implements the business logic for the enterprise feature.
package usecase

import "enterprise_backend/internal/shared/apperror"

const MsgEnterpriseNotFound = "Enterprise not found."

// ErrEnterpriseNotFound is returned for unknown enterprises and for
// enterprises owned by another user.
var ErrEnterpriseNotFound = apperror.New(apperror.KindNotFound, "", MsgEnterpriseNotFound)
