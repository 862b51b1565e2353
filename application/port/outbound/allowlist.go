package outbound

import (
	"strings"
)

// Allowlist is the configured set of emails granted unconditional
// superadmin. It comes from deployment configuration and outranks any
// stored membership, including disabled ones.
type Allowlist interface {
	Contains(email string) bool
}

type staticAllowlist struct {
	emails map[string]struct{}
}

// NewStaticAllowlist builds an allowlist from a configured email list.
// Matching is case-insensitive on the whole address.
func NewStaticAllowlist(emails []string) Allowlist {
	set := make(map[string]struct{}, len(emails))
	for _, e := range emails {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			set[e] = struct{}{}
		}
	}
	return &staticAllowlist{emails: set}
}

func (a *staticAllowlist) Contains(email string) bool {
	_, ok := a.emails[strings.ToLower(strings.TrimSpace(email))]
	return ok
}
