package services

import (
	"errors"
	"testing"
)

func staticLookup(existing ...string) TypeLookup {
	return func(prefix, category string) ([]string, error) {
		return existing, nil
	}
}

func TestResolveUniqueName(t *testing.T) {
	tests := []struct {
		name     string
		desired  string
		existing []string
		want     string
	}{
		{
			name:    "free name returned unchanged",
			desired: "greeting",
			want:    "greeting",
		},
		{
			name:     "single collision gets -1",
			desired:  "header",
			existing: []string{"header"},
			want:     "header-1",
		},
		{
			name:     "probes past existing suffixes",
			desired:  "header",
			existing: []string{"header", "header-1"},
			want:     "header-2",
		},
		{
			name:     "gap in suffixes is not reused out of order",
			desired:  "header",
			existing: []string{"header", "header-2"},
			want:     "header-1",
		},
		{
			name:     "unrelated types do not collide",
			desired:  "header",
			existing: []string{"headers", "header_old"},
			want:     "header",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveUniqueName(tt.desired, "general", staticLookup(tt.existing...))
			if err != nil {
				t.Fatalf("ResolveUniqueName() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ResolveUniqueName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveUniqueNameLookupError(t *testing.T) {
	lookupErr := errors.New("db down")
	_, err := ResolveUniqueName("header", "general", func(prefix, category string) ([]string, error) {
		return nil, lookupErr
	})
	if err == nil {
		t.Fatal("expected error from failing lookup")
	}
	if !errors.Is(err, lookupErr) {
		t.Errorf("error %v does not wrap lookup failure", err)
	}
}
