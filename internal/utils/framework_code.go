package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const frameworkCodePrefix = "FRAM"

// FrameworkCodePrefix is the per-day part of a framework code, e.g. "FRAM-20261019-".
func FrameworkCodePrefix(day time.Time) string {
	return fmt.Sprintf("%s-%s-", frameworkCodePrefix, day.UTC().Format("20060102"))
}

// FrameworkCode formats FRAM-YYYYMMDD-XXXX for the given day and sequence number.
func FrameworkCode(day time.Time, seq int) string {
	return fmt.Sprintf("%s%04d", FrameworkCodePrefix(day), seq)
}

// FrameworkCodeSequence extracts the sequence number from a code with the given prefix.
func FrameworkCodeSequence(code, prefix string) (int, bool) {
	rest, ok := strings.CutPrefix(code, prefix)
	if !ok || rest == "" {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
