package booking

import "strings"

var phoneStripper = strings.NewReplacer(" ", "", "-", "")

// NormalizePhone strips spaces and dashes; the result is the cancellation credential.
func NormalizePhone(phone string) string {
	return phoneStripper.Replace(strings.TrimSpace(phone))
}

func SamePhone(a, b string) bool {
	na, nb := NormalizePhone(a), NormalizePhone(b)
	return na != "" && na == nb
}
