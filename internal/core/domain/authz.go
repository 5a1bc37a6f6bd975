package domain

// Authorized decides whether role may perform an operation gated on the given
// allowed set. The check is strict set membership, not a rank comparison:
// admin is not implicitly granted a trusted_user-gated operation unless admin
// appears in the allowed set. An empty role (unauthenticated caller) is
// always denied.
func Authorized(role string, allowed ...string) bool {
	if role == "" {
		return false
	}
	for _, a := range allowed {
		if role == a {
			return true
		}
	}
	return false
}
