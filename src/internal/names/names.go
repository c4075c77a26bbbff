package names

import (
	"strings"
)

// Display formats a contributor as "Surname, Given". When only one part is
// present it is returned alone; when neither is, ok is false.
func Display(surname, given string) (s string, ok bool) {
	surname = strings.TrimSpace(surname)
	given = strings.TrimSpace(given)
	switch {
	case surname != "" && given != "":
		return surname + ", " + given, true
	case surname != "":
		return surname, true
	case given != "":
		return given, true
	}
	return "", false
}
