package referee

import (
	"strings"
	"testing"

	"kgeval/pkg/kg"
)

func strPtr(s string) *string { return &s }

func TestParseVerdict(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Verdict
	}{
		{"correct", "CORRECT", VerdictCorrect},
		{"correct with prose", "The answer is Correct.", VerdictCorrect},
		{"incorrect", "INCORRECT", VerdictIncorrect},
		{"partially correct", "PARTIALLY_CORRECT", VerdictPartiallyCorrect},
		// "partially incorrect" contains all three markers; partial wins.
		{"partial beats incorrect", "partially incorrect", VerdictPartiallyCorrect},
		// "incorrect" contains "correct"; the longer match must win.
		{"incorrect beats correct substring", "this is incorrect", VerdictIncorrect},
		{"whitespace", "  correct\n", VerdictCorrect},
		{"unrecognized is conservative", "maybe?", VerdictIncorrect},
		{"empty", "", VerdictIncorrect},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseVerdict(tt.raw); got != tt.want {
				t.Fatalf("ParseVerdict(%q) = %s, expected %s", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParseRelevance(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want bool
	}{
		{"core", "CORE", true},
		{"core with prose", "This is a core fact.", true},
		{"important counts as core", "Very important information", true},
		{"marginal", "MARGINAL", false},
		{"unrecognized is marginal", "unsure", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseRelevance(tt.raw); got != tt.want {
				t.Fatalf("ParseRelevance(%q) = %t, expected %t", tt.raw, got, tt.want)
			}
		})
	}
}

func TestBuildFactualPrecisionPrompt(t *testing.T) {
	rel := kg.Relationship{
		SourceEntityName: "Marie Curie",
		TargetEntityName: "Polonium",
		Description:      "discovered",
	}
	source := kg.SourceText{Content: "Marie Curie discovered polonium."}

	prompt := BuildFactualPrecisionPrompt(rel, source)

	for _, fragment := range []string{
		`"Marie Curie discovered polonium."`,
		"- Source Entity: Marie Curie",
		"- Target Entity: Polonium",
		"- Relationship: discovered",
		`"PARTIALLY_CORRECT"`,
	} {
		if !strings.Contains(prompt, fragment) {
			t.Fatalf("prompt missing %q:\n%s", fragment, prompt)
		}
	}
}

func TestDescribeItem(t *testing.T) {
	tests := []struct {
		name string
		item Item
		want string
	}{
		{
			name: "entity with type",
			item: EntityItem(&kg.Entity{EntityName: "Marie Curie", EntityType: strPtr("person")}),
			want: "Entity: Marie Curie (Type: person)",
		},
		{
			name: "entity without type",
			item: EntityItem(&kg.Entity{EntityName: "Polonium"}),
			want: "Entity: Polonium",
		},
		{
			name: "missing entity",
			item: Item{Kind: ItemEntity},
			want: "Entity: <missing>",
		},
		{
			name: "missing relationship",
			item: Item{Kind: ItemRelationship},
			want: "Relationship: <missing>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := describeItem(tt.item); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestUnmarshalFlexible(t *testing.T) {
	type verdictPayload struct {
		Verdict string `json:"verdict"`
	}

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{
			name:  "plain json",
			input: `{"verdict": "correct"}`,
			want:  "correct",
		},
		{
			name:  "double encoded",
			input: `"{\"verdict\": \"correct\"}"`,
			want:  "correct",
		},
		{
			name:  "repairable json",
			input: "{'verdict': 'correct',}",
			want:  "correct",
		},
		{
			name:  "fenced json",
			input: "```json\n{\"verdict\": \"correct\"}\n```",
			want:  "correct",
		},
		{
			name:    "hopeless input",
			input:   `[1, 2`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var payload verdictPayload
			err := UnmarshalFlexible(tt.input, &payload)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", payload)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if payload.Verdict != tt.want {
				t.Fatalf("expected verdict %q, got %q", tt.want, payload.Verdict)
			}
		})
	}
}
