package models

import "regexp"

// Sri Lankan NIC formats: legacy 9 digits plus V/X suffix, or the new
// 12 digit form.
var (
	nicLegacyPattern = regexp.MustCompile(`^[0-9]{9}[VvXx]$`)
	nicModernPattern = regexp.MustCompile(`^[0-9]{12}$`)
)

// ValidNIC reports whether the value matches either NIC format.
func ValidNIC(nic string) bool {
	return nicLegacyPattern.MatchString(nic) || nicModernPattern.MatchString(nic)
}
