package notifier

import (
	"testing"

	"github.com/MacMoment/ac/internal/models"
)

func TestFormatSubstitutesAllTokens(t *testing.T) {
	v := models.Violation{
		PlayerName:  "steve",
		Category:    "combat",
		Confidence:  0.9985,
		Severity:    0.75,
		Explanation: map[string]any{"maxSnap": 80.5, "aimError": 1.2},
	}
	got := Format(DefaultFormat, v)
	want := "steve flagged for combat (confidence 0.9985, severity 0.7500) aimError=1.2, maxSnap=80.5"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestFormatEmptyExplanationIsEmptyString(t *testing.T) {
	v := models.Violation{PlayerName: "steve", Category: "combat"}
	got := Format("{explanation}", v)
	if got != "" {
		t.Fatalf("expected empty explanation fragment, got %q", got)
	}
}

func TestFormatUnknownTokenPassesThrough(t *testing.T) {
	got := Format("hello {unknown} world", models.Violation{})
	if got != "hello {unknown} world" {
		t.Fatalf("expected unknown token to pass through, got %q", got)
	}
}
