package gatt

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// UUID16 returns the canonical short form of a 16-bit Bluetooth SIG UUID.
func UUID16(n uint16) string {
	return fmt.Sprintf("%04x", n)
}

// Normalize validates u and returns it in canonical lowercase form.
// GATT UUID comparison is case-insensitive, so the tree stores every
// UUID normalized. Accepted forms are the 16- and 32-bit hex shorthands
// and the full 128-bit form.
func Normalize(u string) (string, error) {
	switch len(u) {
	case 4, 8:
		if _, err := strconv.ParseUint(u, 16, 32); err != nil {
			return "", fmt.Errorf("gatt: invalid uuid %q", u)
		}
		return strings.ToLower(u), nil
	case 36:
		p, err := uuid.Parse(u)
		if err != nil {
			return "", fmt.Errorf("gatt: invalid uuid %q", u)
		}
		return p.String(), nil
	}
	return "", fmt.Errorf("gatt: invalid uuid %q", u)
}

func mustNormalize(u string) string {
	n, err := Normalize(u)
	if err != nil {
		panic(err.Error())
	}
	return n
}
