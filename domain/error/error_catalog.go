package error

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind is the coarse taxonomy exposed on the wire as the "error"
// field. Every AppError belongs to exactly one kind.
type ErrorKind string

const (
	KindAuthentication      ErrorKind = "authentication_error"
	KindAuthorization       ErrorKind = "authorization_error"
	KindValidation          ErrorKind = "validation_error"
	KindConflict            ErrorKind = "conflict_error"
	KindDependency          ErrorKind = "dependency_error"
	KindCompensationFailure ErrorKind = "compensation_failure"
)

// ErrorCode represents a unique error code
type ErrorCode string

const (
	// Authentication errors (1xxx)
	ErrCodeNoSession      ErrorCode = "AUTHN_1001"
	ErrCodeInvalidSession ErrorCode = "AUTHN_1002"

	// Authorization errors (2xxx)
	ErrCodeInsufficientRole ErrorCode = "AUTHZ_2001"
	ErrCodeSuperadminOnly   ErrorCode = "AUTHZ_2002"
	ErrCodeUnscopedPartner  ErrorCode = "AUTHZ_2003"

	// Validation errors (3xxx)
	ErrCodeMissingField  ErrorCode = "VALID_3001"
	ErrCodeInvalidEmail  ErrorCode = "VALID_3002"
	ErrCodeMissingTenant ErrorCode = "VALID_3003"
	ErrCodeInvalidRole   ErrorCode = "VALID_3004"

	// Conflict errors (4xxx)
	ErrCodeDuplicateEmail       ErrorCode = "CONFLICT_4001"
	ErrCodeProvisioningInFlight ErrorCode = "CONFLICT_4002"
	ErrCodeDuplicateMembership  ErrorCode = "CONFLICT_4003"

	// Dependency errors (5xxx)
	ErrCodeIdentityProviderError ErrorCode = "DEP_5001"
	ErrCodeMembershipStoreError  ErrorCode = "DEP_5002"
	ErrCodeSagaRolledBack        ErrorCode = "DEP_5003"
	ErrCodeProvisionLockError    ErrorCode = "DEP_5004"
	ErrCodeActivityLogError      ErrorCode = "DEP_5005"

	// Compensation failures (6xxx)
	ErrCodeOrphanedIdentity ErrorCode = "COMP_6001"
)

// AppError represents a structured application error
type AppError struct {
	Kind    ErrorKind `json:"error"`
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`

	// OrphanIdentityID is set only on compensation failures so manual
	// reconciliation knows which identity was left behind.
	OrphanIdentityID string `json:"orphan_identity_id,omitempty"`

	Cause error `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the cause error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError creates a new application error
func NewAppError(kind ErrorKind, code ErrorCode, message, details string, cause error) *AppError {
	return &AppError{
		Kind:    kind,
		Code:    code,
		Message: message,
		Details: details,
		Cause:   cause,
	}
}

// Authentication errors

func ErrNoSession() *AppError {
	return NewAppError(KindAuthentication, ErrCodeNoSession, "Authentication required", "", nil)
}

func ErrInvalidSession(details string) *AppError {
	return NewAppError(KindAuthentication, ErrCodeInvalidSession, "Invalid or expired session", details, nil)
}

// Authorization errors

func ErrInsufficientRole(required, actual string) *AppError {
	return NewAppError(KindAuthorization, ErrCodeInsufficientRole, "Insufficient role for this action",
		fmt.Sprintf("Required: %s, actual: %s", required, actual), nil)
}

func ErrSuperadminOnly(action string) *AppError {
	return NewAppError(KindAuthorization, ErrCodeSuperadminOnly, "Only superadmin may perform this action",
		fmt.Sprintf("Action: %s", action), nil)
}

func ErrUnscopedPartner(resource string) *AppError {
	return NewAppError(KindAuthorization, ErrCodeUnscopedPartner, "Tenant scope missing for partner access",
		fmt.Sprintf("Resource: %s", resource), nil)
}

// Validation errors

func ErrMissingField(field string) *AppError {
	return NewAppError(KindValidation, ErrCodeMissingField, "Missing required field",
		fmt.Sprintf("Field: %s", field), nil)
}

func ErrInvalidEmail(email string) *AppError {
	return NewAppError(KindValidation, ErrCodeInvalidEmail, "Invalid email format",
		fmt.Sprintf("Email: %s", email), nil)
}

func ErrMissingTenant() *AppError {
	return NewAppError(KindValidation, ErrCodeMissingTenant, "Partner accounts require a tenant", "", nil)
}

func ErrInvalidRole(role string) *AppError {
	return NewAppError(KindValidation, ErrCodeInvalidRole, "Invalid requested role",
		fmt.Sprintf("Role: %s", role), nil)
}

// Conflict errors

func ErrDuplicateEmail(email string) *AppError {
	return NewAppError(KindConflict, ErrCodeDuplicateEmail, "An identity with this email already exists",
		fmt.Sprintf("Email: %s", email), nil)
}

func ErrProvisioningInFlight(email string) *AppError {
	return NewAppError(KindConflict, ErrCodeProvisioningInFlight, "Provisioning already in progress for this email",
		fmt.Sprintf("Email: %s", email), nil)
}

func ErrDuplicateMembership(identityID string) *AppError {
	return NewAppError(KindConflict, ErrCodeDuplicateMembership, "Identity already has a membership",
		fmt.Sprintf("Identity ID: %s", identityID), nil)
}

// Dependency errors

func ErrIdentityProvider(operation string, cause error) *AppError {
	return NewAppError(KindDependency, ErrCodeIdentityProviderError, "Identity provider call failed",
		fmt.Sprintf("Operation: %s", operation), cause)
}

func ErrMembershipStore(operation string, cause error) *AppError {
	return NewAppError(KindDependency, ErrCodeMembershipStoreError, "Membership store call failed",
		fmt.Sprintf("Operation: %s", operation), cause)
}

func ErrSagaRolledBack(identityID string, cause error) *AppError {
	return NewAppError(KindDependency, ErrCodeSagaRolledBack, "Provisioning failed and was rolled back",
		fmt.Sprintf("Compensated identity ID: %s", identityID), cause)
}

func ErrActivityLog(operation string, cause error) *AppError {
	return NewAppError(KindDependency, ErrCodeActivityLogError, "Activity log call failed",
		fmt.Sprintf("Operation: %s", operation), cause)
}

func ErrProvisionLock(cause error) *AppError {
	return NewAppError(KindDependency, ErrCodeProvisionLockError, "Provisioning lock unavailable", "", cause)
}

// Compensation failure

func ErrOrphanedIdentity(identityID string, cause error) *AppError {
	e := NewAppError(KindCompensationFailure, ErrCodeOrphanedIdentity,
		"Provisioning rollback failed, identity requires manual cleanup",
		fmt.Sprintf("Orphaned identity ID: %s", identityID), cause)
	e.OrphanIdentityID = identityID
	return e
}

// GetHTTPStatusCode maps an error to the HTTP status the transport
// layer should respond with.
func GetHTTPStatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		switch appErr.Kind {
		case KindAuthentication:
			return http.StatusUnauthorized
		case KindAuthorization:
			return http.StatusForbidden
		case KindValidation:
			return http.StatusBadRequest
		case KindConflict:
			return http.StatusConflict
		case KindDependency, KindCompensationFailure:
			return http.StatusInternalServerError
		}
	}
	return http.StatusInternalServerError
}

// KindOf returns the taxonomy kind for an error, or empty when the
// error is not an AppError.
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}
