package entity

// SagaState tracks how far an account-provisioning run got. States
// advance strictly forward; the compensating states are only reachable
// from IdentityCreated when the membership insert fails.
type SagaState string

const (
	SagaPending             SagaState = "pending"
	SagaIdentityCreated     SagaState = "identity_created"
	SagaMembershipCreated   SagaState = "membership_created"
	SagaLinkGenerated       SagaState = "link_generated"
	SagaLinkSkipped         SagaState = "link_skipped"
	SagaLogged              SagaState = "logged"
	SagaCompleted           SagaState = "completed"
	SagaCompensating        SagaState = "compensating"
	SagaCompensatedOk       SagaState = "compensated_ok"
	SagaCompensationFailure SagaState = "compensation_failure"
)

// ProvisioningResult is returned on a completed saga. RecoveryLink is
// empty when link generation failed; that step is best effort and the
// created identity and membership stay valid.
type ProvisioningResult struct {
	IdentityID   string    `json:"identity_id"`
	MembershipID string    `json:"membership_id"`
	RecoveryLink string    `json:"recovery_link,omitempty"`
	State        SagaState `json:"state"`
}
