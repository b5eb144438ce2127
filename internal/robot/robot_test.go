package robot

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	cases := []struct {
		input   string
		want    ID
		wantErr bool
	}{
		{input: "pr2", want: PR2},
		{input: " TIAGO ", want: Tiago},
		{input: "Hsr", want: HSR},
		{input: "pr2old", wantErr: true},
		{input: "", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := Parse(tc.input)
			if tc.wantErr {
				if !errors.Is(err, ErrUnknown) {
					t.Fatalf("expected unknown robot error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestNamesMatchesAll(t *testing.T) {
	names := Names()
	if len(names) != len(All()) {
		t.Fatalf("expected %d names, got %d", len(All()), len(names))
	}
	for i, id := range All() {
		if names[i] != string(id) || !id.Valid() {
			t.Fatalf("unexpected name %q for %q", names[i], id)
		}
	}
}

func TestNormalizeKeepsUnknown(t *testing.T) {
	if got := Normalize(" PR2old "); got != ID("pr2old") {
		t.Fatalf("expected pr2old, got %q", got)
	}
}
