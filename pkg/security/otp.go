package security

import (
	"math/rand/v2"
	"strconv"
)

// NewOTP returns a 4-digit numeric one-time code drawn uniformly from
// [1000, 9999]. The code is never stored server-side; it travels inside the
// signed challenge token, so its validity rests on the token's signature and
// expiry rather than on the code's entropy.
func NewOTP() string {
	return strconv.Itoa(1000 + rand.IntN(9000))
}

// OTPMatches compares a supplied code against the one embedded in the
// verified token claims.
func OTPMatches(expected, supplied string) bool {
	return expected == supplied
}
