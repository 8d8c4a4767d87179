package whisper

import (
	"regexp"
	"strconv"
	"strings"
)

var precisionRegexp = regexp.MustCompile(`^(\d+)([smhdwy]?)$`)

var unitMultipliers = map[string]uint32{
	"s": 1,
	"m": 60,
	"h": 3600,
	"d": 86400,
	"w": 604800,
	"y": 31536000,
}

// ParseRetentionDef parses a "<precision>:<retention>" string such as
// "30s:7d" or "1m:6h" into (secondsPerPoint, points). Precision is a bare
// integer (seconds) or an integer followed by one of s/m/h/d/w/y.
// Retention is either a bare integer point count or an integer followed by
// a unit, in which case it is interpreted as a duration and divided by the
// parsed precision (integer truncation).
func ParseRetentionDef(def string) (secondsPerPoint, points uint32, err error) {
	parts := strings.SplitN(def, ":", 2)
	if len(parts) != 2 {
		return 0, 0, errf("ParseRetentionDef", ValueError, "malformed retention definition %q: missing ':'", def)
	}

	secondsPerPoint, err = parsePrecision(parts[0])
	if err != nil {
		return 0, 0, err
	}

	points, err = parseRetention(parts[1], secondsPerPoint)
	if err != nil {
		return 0, 0, err
	}

	return secondsPerPoint, points, nil
}

func parsePrecision(s string) (uint32, error) {
	m := precisionRegexp.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, errf("ParseRetentionDef", ValueError, "invalid precision string %q", s)
	}

	n, err := parseUint32(m[1])
	if err != nil {
		return 0, err
	}

	if m[2] == "" {
		return n, nil
	}

	return expandUnits(n, m[2])
}

func parseRetention(s string, secondsPerPoint uint32) (uint32, error) {
	m := precisionRegexp.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, errf("ParseRetentionDef", ValueError, "invalid retention string %q", s)
	}

	n, err := parseUint32(m[1])
	if err != nil {
		return 0, err
	}

	if m[2] == "" {
		return n, nil
	}

	durationSeconds, err := expandUnits(n, m[2])
	if err != nil {
		return 0, err
	}

	if secondsPerPoint == 0 {
		return 0, errf("ParseRetentionDef", ValueError, "precision must be non-zero to expand retention %q", s)
	}

	return durationSeconds / secondsPerPoint, nil
}

func expandUnits(n uint32, unit string) (uint32, error) {
	mult, ok := unitMultipliers[unit]
	if !ok {
		return 0, errf("ParseRetentionDef", ValueError, "unknown unit %q", unit)
	}

	return n * mult, nil
}

func parseUint32(s string) (uint32, error) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, newErr("ParseRetentionDef", ValueError, err)
	}

	return uint32(n), nil
}
