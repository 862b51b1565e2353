package outbound

// CredentialGenerator produces the one-time credential a freshly
// provisioned identity is registered with. The credential is handed to
// the identity provider and never stored by the portal.
type CredentialGenerator interface {
	GenerateTempCredential() (string, error)
}
