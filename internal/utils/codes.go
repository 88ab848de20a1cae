package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseProjectCode splits a "NNNN.AAA.slug" code into its parts.
func ParseProjectCode(code string) (number int, ticker string, slug string, err error) {
	parts := strings.SplitN(code, ".", 3)
	if len(parts) != 3 {
		return 0, "", "", fmt.Errorf("malformed project code %q", code)
	}

	number, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, "", "", fmt.Errorf("malformed project code %q: %w", code, err)
	}

	return number, parts[1], parts[2], nil
}
