package availability

import (
	"fmt"
	"strconv"
)

// PackageKey keys the per-package entries of a window. The zero value is
// NoPackage, which holds filtered or package-less contract data and never
// collides with a real package id.
type PackageKey struct {
	id  int32
	set bool
}

// NoPackage is the key for entries without a package.
var NoPackage = PackageKey{}

const noPackageText = "none"

// Package returns the key for a real package id.
func Package(id int32) PackageKey {
	return PackageKey{id: id, set: true}
}

// ID returns the package id and whether the key refers to a real package.
func (k PackageKey) ID() (int32, bool) {
	return k.id, k.set
}

// Value returns the numeric id used for ordering; NoPackage orders as 0.
func (k PackageKey) Value() int32 {
	return k.id
}

// IsNone reports whether k is NoPackage.
func (k PackageKey) IsNone() bool {
	return !k.set
}

func (k PackageKey) String() string {
	if !k.set {
		return noPackageText
	}
	return strconv.FormatInt(int64(k.id), 10)
}

// MarshalText implements encoding.TextMarshaler so keys render as JSON object keys.
func (k PackageKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *PackageKey) UnmarshalText(b []byte) error {
	s := string(b)
	if s == noPackageText {
		*k = NoPackage
		return nil
	}
	id, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return fmt.Errorf("parse package key %q: %w", s, err)
	}
	*k = Package(int32(id))
	return nil
}
