package runner

import "strings"

// safeChars are the characters that never need quoting in a POSIX shell word.
const safeChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789@%+=:,./-_"

// Quote escapes s for use as a single word in a POSIX shell command.
// Empty strings become ''; anything containing unsafe characters is wrapped
// in single quotes with embedded single quotes rewritten as '"'"'.
func Quote(s string) string {
	if s == "" {
		return "''"
	}
	if isSafe(s) {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}

func isSafe(s string) bool {
	for _, r := range s {
		if !strings.ContainsRune(safeChars, r) {
			return false
		}
	}
	return true
}
