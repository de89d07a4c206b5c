package model

import "strings"

// ValidateSourceName checks that name can be used as a source directory and
// as the first segment of a skill key.
func ValidateSourceName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return Errorf(KindInvalid, "source name", "must not be empty")
	case name == "." || name == "..":
		return Errorf(KindInvalid, name, "not a valid source name")
	case strings.ContainsAny(name, `/\:`):
		return Errorf(KindInvalid, name, "source name must not contain path separators")
	case strings.HasPrefix(name, "."):
		return Errorf(KindInvalid, name, "source name must not start with a dot")
	case strings.EqualFold(name, LocalKeyPrefix):
		return Errorf(KindInvalid, name, "%q is reserved for unmanaged skills", LocalKeyPrefix)
	case name != strings.TrimSpace(name):
		return Errorf(KindInvalid, name, "source name must not have leading or trailing spaces")
	}
	return nil
}
