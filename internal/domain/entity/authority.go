// Package entity contains the core business objects of the project.
package entity

import "slices"

// Authority is a named role tag granted to a user.
type Authority string

const (
	// AuthorityUser is the base role every account holds.
	AuthorityUser Authority = "ROLE_USER"
	// AuthorityAdmin marks administrative accounts. It can never be obtained
	// through self-registration.
	AuthorityAdmin Authority = "ROLE_ADMIN"
	// AuthorityProvider marks provider (practitioner) accounts.
	AuthorityProvider Authority = "ROLE_PROVIDER"
	// AuthoritySubject marks subject (patient) accounts.
	AuthoritySubject Authority = "ROLE_SUBJECT"
)

// String returns the string representation of the Authority.
func (a Authority) String() string {
	return string(a)
}

// IsValid checks if the Authority is one of the known role names.
func (a Authority) IsValid() bool {
	switch a {
	case AuthorityUser, AuthorityAdmin, AuthorityProvider, AuthoritySubject:
		return true
	default:
		return false
	}
}

// Authorities is a set of roles. Membership is what matters; order carries no
// meaning and duplicates are never stored.
type Authorities []Authority

// Contains checks if the set contains a specific authority.
func (as Authorities) Contains(authority Authority) bool {
	return slices.Contains(as, authority)
}

// Add returns the set with the authority included, preserving set semantics.
func (as Authorities) Add(authority Authority) Authorities {
	if as.Contains(authority) {
		return as
	}

	return append(as, authority)
}

// ToStrings converts the set to []string for transport and claims.
func (as Authorities) ToStrings() []string {
	result := make([]string, len(as))
	for i, a := range as {
		result[i] = a.String()
	}

	return result
}

// AuthoritiesFromStrings converts []string to Authorities, dropping unknown
// role names and duplicates.
func AuthoritiesFromStrings(ss []string) Authorities {
	result := make(Authorities, 0, len(ss))
	for _, s := range ss {
		authority := Authority(s)
		if authority.IsValid() {
			result = result.Add(authority)
		}
	}

	return result
}
