package render

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/template"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FuncMap returns the helpers available to every template.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"pascalCase": PascalCase, // my-app → MyApp
		"camelCase":  CamelCase,  // my-app → myApp
		"kebabCase":  KebabCase,  // MyApp → my-app
		"snakeCase":  SnakeCase,  // my-app → my_app
		"constCase":  ConstCase,  // my-app → MY_APP
		"title":      Title,      // my app → My App

		"quote":     Quote,
		"json":      JSON,
		"upper":     strings.ToUpper,
		"lower":     strings.ToLower,
		"trim":      strings.TrimSpace,
		"join":      strings.Join,
		"contains":  strings.Contains,
		"hasPrefix": strings.HasPrefix,
		"replace":   strings.ReplaceAll,
		"indent":    Indent,

		"dict":    Dict,
		"default": Default,
	}
}

// titleWord upper-cases the first letter of w and lower-cases the rest.
// Casers carry state, so each call gets its own.
func titleWord(w string) string {
	return cases.Title(language.English).String(w)
}

// words splits identifiers on separators and case changes.
func words(s string) []string {
	var out []string
	var cur []rune
	runes := []rune(s)

	flush := func() {
		if len(cur) > 0 {
			out = append(out, string(cur))
			cur = cur[:0]
		}
	}

	for i, r := range runes {
		switch {
		case r == '-' || r == '_' || r == ' ' || r == '.' || r == '/' || r == '@':
			flush()
		case unicode.IsUpper(r):
			prevLower := i > 0 && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1]))
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if prevLower || (nextLower && len(cur) > 0) {
				flush()
			}
			cur = append(cur, r)
		default:
			cur = append(cur, r)
		}
	}
	flush()
	return out
}

// PascalCase converts any identifier style to PascalCase.
func PascalCase(s string) string {
	var b strings.Builder
	for _, w := range words(s) {
		b.WriteString(titleWord(w))
	}
	return b.String()
}

// CamelCase converts any identifier style to camelCase.
func CamelCase(s string) string {
	p := PascalCase(s)
	if p == "" {
		return ""
	}
	r := []rune(p)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

// KebabCase converts any identifier style to kebab-case.
func KebabCase(s string) string {
	return joinLower(s, "-")
}

// SnakeCase converts any identifier style to snake_case.
func SnakeCase(s string) string {
	return joinLower(s, "_")
}

// ConstCase converts any identifier style to SCREAMING_SNAKE_CASE.
func ConstCase(s string) string {
	return strings.ToUpper(SnakeCase(s))
}

func joinLower(s, sep string) string {
	ws := words(s)
	for i, w := range ws {
		ws[i] = strings.ToLower(w)
	}
	return strings.Join(ws, sep)
}

// Title capitalizes each word, splitting identifiers as well as spaces.
func Title(s string) string {
	ws := words(s)
	for i, w := range ws {
		ws[i] = titleWord(w)
	}
	return strings.Join(ws, " ")
}

// Quote wraps a string in double quotes.
func Quote(s string) string {
	return fmt.Sprintf("%q", s)
}

// JSON encodes v on a single line.
func JSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Indent prefixes every non-empty line of s with n spaces.
func Indent(n int, s string) string {
	pad := strings.Repeat(" ", n)
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = pad + l
		}
	}
	return strings.Join(lines, "\n")
}

// Dict creates a map from alternating key-value pairs.
// Usage in template: {{ template "partial" (dict "key1" val1 "key2" val2) }}
func Dict(values ...any) (map[string]any, error) {
	if len(values)%2 != 0 {
		return nil, fmt.Errorf("dict requires an even number of arguments")
	}

	result := make(map[string]any, len(values)/2)
	for i := 0; i < len(values); i += 2 {
		key, ok := values[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict keys must be strings, got %T at position %d", values[i], i)
		}
		result[key] = values[i+1]
	}
	return result, nil
}

// Default returns def when val is nil, an empty string or an empty collection.
func Default(def, val any) any {
	switch v := val.(type) {
	case nil:
		return def
	case string:
		if v == "" {
			return def
		}
	case []any:
		if len(v) == 0 {
			return def
		}
	case []string:
		if len(v) == 0 {
			return def
		}
	case map[string]any:
		if len(v) == 0 {
			return def
		}
	}
	return val
}
