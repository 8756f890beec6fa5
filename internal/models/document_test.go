package models

import "testing"

func TestAssembledText(t *testing.T) {
	document := &Document{
		DocumentName: "Offer_Alice",
		Content:      `{"clauses":[{"clause_type":"greeting","content":"Dear Alice,"},{"clause_type":"body","content":"Welcome."}]}`,
	}
	want := "Dear Alice,\n\nWelcome."
	if got := document.AssembledText(); got != want {
		t.Errorf("AssembledText() = %q, want %q", got, want)
	}
}

func TestAssembledTextFallsBackToName(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty content", ""},
		{"no clauses", `{"clauses":[]}`},
		{"blank clauses", `{"clauses":[{"clause_type":"a","content":"  "}]}`},
		{"invalid json", `not json`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			document := &Document{DocumentName: "Offer_Alice", Content: tt.content}
			if got := document.AssembledText(); got != "Offer_Alice" {
				t.Errorf("AssembledText() = %q, want document name", got)
			}
		})
	}
}

func TestContentClauses(t *testing.T) {
	document := &Document{Content: `{"clauses":[{"clause_type":"greeting","content":"hi","category":"general"}]}`}
	clauses, err := document.ContentClauses()
	if err != nil {
		t.Fatalf("ContentClauses() error = %v", err)
	}
	if len(clauses) != 1 || clauses[0].ClauseType != "greeting" || clauses[0].Category != "general" {
		t.Errorf("ContentClauses() = %+v", clauses)
	}
}
