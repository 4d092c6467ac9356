package domain

import (
	"fmt"
	"sort"
	"strings"
)

// Vocabulary group names. Each group is an ordered term list; the first term
// found in a text is the match.
const (
	VocabValidation          = "validation"
	VocabUserInput           = "user_input"
	VocabConcatenation       = "concatenation"
	VocabDangerousOperations = "dangerous_operations"
	VocabFileSystem          = "file_system"
	VocabDatabase            = "database"
	VocabAsync               = "async"
	VocabTimeout             = "timeout"
	VocabExpensiveOperations = "expensive_operations"
	VocabRateLimit           = "rate_limit"
	VocabExternalCalls       = "external_calls"
	VocabSecrets             = "secrets"
	VocabMutatingOperations  = "mutating_operations"
	VocabLogging             = "logging"
)

// Vocabulary maps a group name to its ordered, lower-case terms.
type Vocabulary map[string][]string

var defaultVocabulary = Vocabulary{
	VocabValidation:    {"validate", "sanitize", "check", "verify", "whitelist", "allowlist", "regex", "filter", "escape"},
	VocabUserInput:     {"user", "input", "parameter"},
	VocabConcatenation: {"concat", "+", "format"},
	VocabDangerousOperations: {
		"execute", "exec", "run", "invoke", "call", "system", "command", "shell",
		"delete", "remove", "drop", "truncate", "destroy", "kill", "terminate",
	},
	VocabFileSystem:          {"file", "directory", "path", "read", "write", "create", "open", "save", "load"},
	VocabDatabase:            {"query", "sql", "database", "db", "execute", "insert", "update", "delete", "select"},
	VocabAsync:               {"async"},
	VocabTimeout:             {"timeout", "delay"},
	VocabExpensiveOperations: {"process", "generate", "compute", "calculate", "analyze", "fetch", "download"},
	VocabRateLimit:           {"rate", "limit", "throttle"},
	VocabExternalCalls:       {"api", "http", "url"},
	VocabSecrets: {
		"aws_secret", "private_key", "client_secret", "auth_token", "api_key", "apikey", "access_key",
		"bearer", "password", "passwd", "credentials", "secret", "token",
	},
	VocabMutatingOperations: {"delete", "remove", "create", "update", "execute", "modify"},
	VocabLogging:            {"log", "audit", "track", "record", "monitor"},
}

// DefaultVocabulary returns a fresh copy of the built-in vocabulary.
func DefaultVocabulary() Vocabulary {
	v := make(Vocabulary, len(defaultVocabulary))
	for k, terms := range defaultVocabulary {
		v[k] = append([]string(nil), terms...)
	}
	return v
}

// VocabularyGroups lists the known group names in sorted order.
func VocabularyGroups() []string {
	names := make([]string, 0, len(defaultVocabulary))
	for k := range defaultVocabulary {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// IsVocabularyGroup reports whether name is a known group.
func IsVocabularyGroup(name string) bool {
	_, ok := defaultVocabulary[name]
	return ok
}

// WithOverrides returns a copy of v where each overridden group is replaced
// wholesale by the given terms (lower-cased, blanks dropped).
func (v Vocabulary) WithOverrides(overrides map[string][]string) (Vocabulary, error) {
	out := make(Vocabulary, len(v))
	for k, terms := range v {
		out[k] = append([]string(nil), terms...)
	}
	for group, terms := range overrides {
		if !IsVocabularyGroup(group) {
			return nil, fmt.Errorf("%w: unknown pattern group %q", ErrInvalidConfig, group)
		}
		var cleaned []string
		for _, t := range terms {
			if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
				cleaned = append(cleaned, t)
			}
		}
		if len(cleaned) == 0 {
			return nil, fmt.Errorf("%w: pattern group %q has no terms", ErrInvalidConfig, group)
		}
		out[group] = cleaned
	}
	return out, nil
}

// FirstMatch returns the first term of group (in list order) that occurs in
// text. text is expected to be lower-case already.
func (v Vocabulary) FirstMatch(group, text string) (string, bool) {
	for _, term := range v[group] {
		if strings.Contains(text, term) {
			return term, true
		}
	}
	return "", false
}

// Matches reports whether any term of group occurs in text.
func (v Vocabulary) Matches(group, text string) bool {
	_, ok := v.FirstMatch(group, text)
	return ok
}
