package domain

import (
	"fmt"
	"strings"
)

// Namespace partitions saved records, typically one per authenticated user.
// The zero value is the anonymous namespace.
type Namespace string

// Anonymous is the namespace used without authentication.
const Anonymous Namespace = ""

// IsAnonymous reports whether ns is the anonymous namespace.
func (ns Namespace) IsAnonymous() bool {
	return ns == Anonymous
}

// Validate rejects namespaces that cannot be used as a path or key segment.
func (ns Namespace) Validate() error {
	s := string(ns)
	if s == "." || s == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidNamespace, s)
	}
	if strings.ContainsAny(s, "/\\\x00") || strings.TrimSpace(s) != s {
		return fmt.Errorf("%w: %q", ErrInvalidNamespace, s)
	}
	return nil
}

// NamespaceFromEmail derives a namespace from the local part of an email
// address: everything before the first '@', lower-cased.
func NamespaceFromEmail(email string) (Namespace, error) {
	local, _, found := strings.Cut(email, "@")
	if !found || local == "" {
		return Anonymous, fmt.Errorf("%w: %q is not an email address", ErrInvalidNamespace, email)
	}
	ns := Namespace(strings.ToLower(local))
	if err := ns.Validate(); err != nil {
		return Anonymous, err
	}
	return ns, nil
}
