package domain

// Principal is the identity resolved for a single request. It is never persisted.
type Principal struct {
	Username    string
	Authorities []Authority
}

// HasAuthority reports whether a has been granted to p.
func (p Principal) HasAuthority(a Authority) bool {
	for _, granted := range p.Authorities {
		if granted == a {
			return true
		}
	}
	return false
}
