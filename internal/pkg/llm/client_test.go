package llm

import (
	"errors"
	"testing"
)

func TestStripFences(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"no fences", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"upper case", "```JSON\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "  \n```json\n{\"a\":1}\n```  ", `{"a":1}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := StripFences(tc.in); got != tc.want {
				t.Fatalf("StripFences(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestParseObject(t *testing.T) {
	obj, err := ParseObject("```json\n{\"epics\": [{\"name\": \"A\"}]}\n```")
	if err != nil {
		t.Fatalf("ParseObject error: %v", err)
	}
	if _, ok := obj["epics"]; !ok {
		t.Fatalf("expected epics key, got %v", obj)
	}
}

func TestParseObjectMalformed(t *testing.T) {
	_, err := ParseObject("not json at all")
	if !errors.Is(err, ErrMalformedJSON) {
		t.Fatalf("expected ErrMalformedJSON, got %v", err)
	}
}

func TestParseObjectEmpty(t *testing.T) {
	_, err := ParseObject("``` ```")
	if !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}
}

func TestParseList(t *testing.T) {
	list, err := ParseList(`["B", "C"]`)
	if err != nil {
		t.Fatalf("ParseList error: %v", err)
	}
	if len(list) != 2 || list[0] != "B" || list[1] != "C" {
		t.Fatalf("unexpected list: %v", list)
	}
}

func TestParseListNonArray(t *testing.T) {
	list, err := ParseList(`"only one idea"`)
	if err != nil {
		t.Fatalf("ParseList error: %v", err)
	}
	if len(list) != 1 || list[0] != "only one idea" {
		t.Fatalf("unexpected list: %v", list)
	}
}

func TestParseListMixedElements(t *testing.T) {
	list, err := ParseList(`["idea", {"k": 1}]`)
	if err != nil {
		t.Fatalf("ParseList error: %v", err)
	}
	if len(list) != 2 || list[0] != "idea" || list[1] != `{"k":1}` {
		t.Fatalf("unexpected list: %v", list)
	}
}
