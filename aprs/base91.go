package aprs

import "fmt"

// Range of digits for base 91 representation.
const (
	base91Min = '!'
	base91Max = '{'
)

func isBase91(c byte) bool {
	return c >= base91Min && c <= base91Max
}

// decodeBase91 converts a fixed-width group of base-91 digits, most
// significant first, into its integer value.
func decodeBase91(digits []byte) (int, error) {
	value := 0
	for _, c := range digits {
		if !isBase91(c) {
			return 0, fmt.Errorf("%q is not a base 91 digit", c)
		}
		value = value*91 + int(c-base91Min)
	}
	return value, nil
}
