package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateModuleName validates a module name before it is joined onto a
// search path. Module names are directory names, so anything that could
// escape the addons directory is rejected:
//   - No empty names
//   - No control characters or null bytes
//   - No path separators or traversal sequences
//   - Maximum length of 256 characters
func ValidateModuleName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "module name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidInput, "module name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "module name contains invalid control characters")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"/",    // Path separator
		"\x00", // Null byte
		"\\",   // Backslash (Windows path)
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidInput, "module name contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// technicalNameRegex matches names the platform accepts for new modules.
var technicalNameRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// ValidateTechnicalName validates the name of a module that is about to be
// created. Existing modules are only checked with [ValidateModuleName].
func ValidateTechnicalName(name string) error {
	if err := ValidateModuleName(name); err != nil {
		return err
	}

	if !technicalNameRegex.MatchString(name) {
		return New(ErrCodeInvalidInput, "invalid module name %q (use lowercase letters, digits and underscores)", name)
	}

	return nil
}

// ValidatePath validates a file path relative to a module root.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}
