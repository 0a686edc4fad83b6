package jsonpath

import (
	"testing"
)

const sample = `{
	"id": "abc",
	"count": 3,
	"ok": true,
	"missing": null,
	"first.name": "John",
	"users": [
		{"name": "Ann", "tags": ["a", "b"]},
		{"name": "Bob", "tags": []}
	],
	"meta": {"page": 1}
}`

func TestExtract(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected string
		wantErr  bool
	}{
		{name: "root string", path: "$.id", expected: "abc"},
		{name: "without dollar", path: "count", expected: "3"},
		{name: "boolean", path: "$.ok", expected: "true"},
		{name: "null", path: "$.missing", expected: "null"},
		{name: "array index", path: "$.users[1].name", expected: "Bob"},
		{name: "nested array", path: "$.users[0].tags[1]", expected: "b"},
		{name: "wildcard", path: "$.users[*].name", expected: `["Ann","Bob"]`},
		{name: "object", path: "$.meta", expected: `{"page": 1}`},
		{name: "quoted key with dot", path: "$['first.name']", expected: "John"},
		{name: "whole document length", path: "$.users.#", expected: "2"},
		{name: "not found", path: "$.nope", wantErr: true},
		{name: "empty path", path: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extract(sample, tt.path)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error for %q, got %q", tt.path, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Extract(%q) = %q, want %q", tt.path, got, tt.expected)
			}
		})
	}
}

func TestExtract_InvalidBody(t *testing.T) {
	if _, err := Extract("", "$.a"); err == nil {
		t.Error("Expected error for empty body")
	}
	if _, err := Extract("<html>", "$.a"); err == nil {
		t.Error("Expected error for non-JSON body")
	}
}

func TestToGJSON(t *testing.T) {
	tests := map[string]string{
		"$":               "@this",
		"$.":              "@this",
		"$.a.b":           "a.b",
		"$[0]":            "0",
		"$.items[2].id":   "items.2.id",
		`$["x"].y`:        "x.y",
		"$['a.b']":        `a\.b`,
		"$.items[*].id":   "items.#.id",
		"$.list[ 3 ]":     "list.3",
		"$.deep[0][1][2]": "deep.0.1.2",
	}

	for input, expected := range tests {
		if got := ToGJSON(input); got != expected {
			t.Errorf("ToGJSON(%q) = %q, want %q", input, got, expected)
		}
	}
}
