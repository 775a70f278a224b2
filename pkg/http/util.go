package http

import (
	xutil "StockPulse/pkg/util"
)

// ParseIntDefault parses string to int or returns default if empty/invalid.
func ParseIntDefault(s string, def int) int { return xutil.ParseIntDefault(s, def) }

// ParsePositiveIntDefault is ParseIntDefault that also rejects values below 1.
func ParsePositiveIntDefault(s string, def int) int {
	v := xutil.ParseIntDefault(s, def)
	if v < 1 {
		return def
	}
	return v
}
