// Package domain defines the managed hostname value type.
package domain

import (
	"regexp"
	"strings"

	tuxerrors "github.com/ksyq12/dottux/internal/errors"
)

// Suffix is the fixed local top-level label every managed domain carries.
const Suffix = ".tux"

// DefaultReserved is the hostname the control panel itself is served on.
const DefaultReserved Name = "dot.tux"

var (
	prefixPattern = regexp.MustCompile(`^[a-z0-9-]+$`)
	namePattern   = regexp.MustCompile(`^[a-z0-9-]+\.tux$`)
)

// Name is a validated domain name such as "foo.tux".
type Name string

// String returns the name as a plain string.
func (n Name) String() string {
	return string(n)
}

// Prefix returns the slug before the suffix.
func (n Name) Prefix() string {
	return strings.TrimSuffix(string(n), Suffix)
}

// FromPrefix builds a Name from user input such as "My-Site ".
// Input is trimmed and lowercased before validation.
func FromPrefix(prefix string) (Name, error) {
	p := strings.ToLower(strings.TrimSpace(prefix))
	if p == "" {
		return "", tuxerrors.InvalidDomainName(prefix, "name cannot be empty")
	}
	if !prefixPattern.MatchString(p) {
		return "", tuxerrors.InvalidDomainName(prefix, "use only letters, numbers, and hyphens")
	}
	return Name(p + Suffix), nil
}

// Parse validates a full name such as "foo.tux".
func Parse(name string) (Name, error) {
	if !namePattern.MatchString(name) {
		return "", tuxerrors.InvalidDomainName(name, "must match [a-z0-9-]+"+Suffix)
	}
	return Name(name), nil
}

// IsValid reports whether name is a well-formed managed domain name.
func IsValid(name string) bool {
	return namePattern.MatchString(name)
}
