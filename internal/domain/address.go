package domain

import (
	"regexp"
	"strings"
)

// AddressPrefix is the bech32 human-readable part of chain addresses.
const AddressPrefix = "inj"

var (
	// account addresses carry 20 bytes, contract addresses 32
	addressRe = regexp.MustCompile(`^inj1[qpzry9x8gf2tvdw0s3jn54khce6mua7l]{38}([qpzry9x8gf2tvdw0s3jn54khce6mua7l]{20})?$`)
	denomRe   = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9/:._-]{2,127}$`)
)

// ValidAddress reports whether s has the shape of a canonical lower-case
// bech32 account or contract address.
func ValidAddress(s string) bool {
	return addressRe.MatchString(s)
}

// ValidDenom reports whether s is a recognized bank denomination form
// (base denoms, factory/, ibc/, peggy).
func ValidDenom(s string) bool {
	if !denomRe.MatchString(s) {
		return false
	}
	if strings.HasPrefix(s, "factory/") {
		_, _, ok := FactoryDenom(s)
		return ok
	}
	return true
}
