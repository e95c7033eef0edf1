package cmd

import (
	"fmt"
	"strconv"
	"strings"
)

// parseID parses a positive numeric identifier argument
func parseID(name, arg string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s: %q (must be a positive number)", name, arg)
	}
	return id, nil
}

// idOrSlug reports whether arg is a numeric id, returning it if so
func idOrSlug(arg string) (int, bool) {
	id, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
