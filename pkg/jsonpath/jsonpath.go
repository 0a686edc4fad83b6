// Package jsonpath pulls single values out of JSON response bodies using a
// JSONPath subset ($.a.b, $.items[0].id, $['key']) on top of gjson.
package jsonpath

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
)

var (
	quotedKey = regexp.MustCompile(`\[\s*['"]([^'"]*)['"]\s*\]`)
	indexExpr = regexp.MustCompile(`\[\s*(\d+|\*)\s*\]`)
)

// Extract returns the value at path in body. Strings are returned unquoted,
// objects and arrays as compact JSON, null as "null".
func Extract(body, path string) (string, error) {
	if strings.TrimSpace(body) == "" {
		return "", fmt.Errorf("empty JSON body")
	}
	if path == "" {
		return "", fmt.Errorf("empty JSONPath expression")
	}
	if !gjson.Valid(body) {
		return "", fmt.Errorf("body is not valid JSON")
	}

	result := gjson.Get(body, ToGJSON(path))
	if !result.Exists() {
		return "", fmt.Errorf("path not found: %s", path)
	}

	switch result.Type {
	case gjson.Null:
		return "null", nil
	case gjson.JSON:
		return result.Raw, nil
	}
	return result.String(), nil
}

// ToGJSON converts a JSONPath expression into gjson path syntax:
//
//	$.users[0].name   -> users.0.name
//	$['first.name']   -> first\.name
//	$.items[*].id     -> items.#.id
func ToGJSON(path string) string {
	path = strings.TrimPrefix(strings.TrimSpace(path), "$")
	if path == "" || path == "." {
		return "@this"
	}

	path = quotedKey.ReplaceAllStringFunc(path, func(m string) string {
		key := quotedKey.FindStringSubmatch(m)[1]
		return "." + escapeKey(key)
	})
	path = indexExpr.ReplaceAllStringFunc(path, func(m string) string {
		idx := indexExpr.FindStringSubmatch(m)[1]
		if idx == "*" {
			return ".#"
		}
		return "." + idx
	})

	return strings.TrimPrefix(path, ".")
}

func escapeKey(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch r {
		case '.', '*', '?', '|', '#', '@':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
