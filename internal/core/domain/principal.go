package domain

// PrincipalKind distinguishes the two recognized caller identities.
type PrincipalKind string

const (
	// UserPrincipal is an end user authenticated via a user token.
	UserPrincipal PrincipalKind = "USER"
	// ServicePrincipal is a trusted internal service authenticated via a
	// service-to-service token carrying its roles as claims.
	ServicePrincipal PrincipalKind = "SERVICE"
)

// Principal is the resolved identity of a request's caller. It is built by
// the auth middleware per request and never persisted.
type Principal struct {
	Kind    PrincipalKind `json:"kind"`
	Subject string        `json:"subject"`
	Roles   []Role        `json:"roles"`
}

// HasRole reports whether the principal holds the given role.
func (p Principal) HasRole(role Role) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}
