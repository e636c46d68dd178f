package mail

import (
	"strings"
	"testing"
)

func TestRenderActivation(t *testing.T) {
	body, err := renderActivation(activationData{
		FirstName: "Ada",
		URL:       "https://guidio.app/v1/auth/verify-email?token=abc123",
		ExpireAt:  "2026-01-02 15:04:05",
	})
	if err != nil {
		t.Fatalf("renderActivation: %v", err)
	}
	for _, want := range []string{
		"Hi Ada",
		`href="https://guidio.app/v1/auth/verify-email?token=abc123"`,
		"2026-01-02 15:04:05",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("body missing %q:\n%s", want, body)
		}
	}
}

func TestRenderActivationEscapesName(t *testing.T) {
	body, err := renderActivation(activationData{
		FirstName: "<script>alert(1)</script>",
		URL:       "https://guidio.app/v1/auth/verify-email?token=abc",
		ExpireAt:  "2026-01-02 15:04:05",
	})
	if err != nil {
		t.Fatalf("renderActivation: %v", err)
	}
	if strings.Contains(body, "<script>") {
		t.Fatal("template must HTML-escape user-supplied names")
	}
}
