// Package identity canonicalizes email addresses so that accounts reachable
// under alias domains are never split into two unrelated identities.
package identity

import "strings"

// AliasPair declares two interchangeable domains. Canonical is the form
// identities are normalized to; Alias is rewritten to Canonical on input.
type AliasPair struct {
	Canonical string `koanf:"canonical" json:"canonical"`
	Alias     string `koanf:"alias" json:"alias"`
}

// Normalizer resolves domain aliases against an immutable table built at
// startup. All methods are side-effect-free.
type Normalizer struct {
	toCanonical map[string]string
	mirror      map[string]string
}

// NewNormalizer builds a Normalizer from configured alias pairs. Pairs with
// an empty side are skipped.
func NewNormalizer(pairs []AliasPair) *Normalizer {
	n := &Normalizer{
		toCanonical: make(map[string]string, len(pairs)),
		mirror:      make(map[string]string, 2*len(pairs)),
	}
	for _, p := range pairs {
		canonical := strings.ToLower(strings.TrimSpace(p.Canonical))
		alias := strings.ToLower(strings.TrimSpace(p.Alias))
		if canonical == "" || alias == "" || canonical == alias {
			continue
		}
		n.toCanonical[alias] = canonical
		n.mirror[alias] = canonical
		n.mirror[canonical] = alias
	}
	return n
}

// Normalize lowercases and trims raw and rewrites a known alias domain to its
// canonical form. Inputs without an @ are treated as bare domains.
func (n *Normalizer) Normalize(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	local, domain, ok := splitEmail(s)
	if !ok {
		if c, aliased := n.toCanonical[s]; aliased {
			return c
		}
		return s
	}
	if c, aliased := n.toCanonical[domain]; aliased {
		return local + "@" + c
	}
	return s
}

// Mirror returns the alternate-domain form of email when its domain belongs
// to an alias pair. Mirror(Mirror(e)) == e whenever ok is true.
func (n *Normalizer) Mirror(email string) (string, bool) {
	s := strings.ToLower(strings.TrimSpace(email))
	local, domain, ok := splitEmail(s)
	if !ok {
		return n.MirrorDomain(s)
	}
	alt, found := n.mirror[domain]
	if !found {
		return "", false
	}
	return local + "@" + alt, true
}

// MirrorDomain is Mirror for bare domain values (DOMAIN rules).
func (n *Normalizer) MirrorDomain(domain string) (string, bool) {
	d := strings.ToLower(strings.TrimSpace(domain))
	alt, found := n.mirror[d]
	if !found {
		return "", false
	}
	return alt, true
}

// Domain extracts the domain part of an email, or "" when there is none.
func Domain(email string) string {
	_, domain, ok := splitEmail(strings.ToLower(strings.TrimSpace(email)))
	if !ok {
		return ""
	}
	return domain
}

func splitEmail(s string) (local, domain string, ok bool) {
	i := strings.LastIndex(s, "@")
	if i <= 0 || i == len(s)-1 {
		return "", "", false
	}
	return s[:i], s[i+1:], true
}
