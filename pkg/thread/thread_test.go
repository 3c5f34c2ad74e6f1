package thread

import (
	"strings"
	"testing"
	"time"
)

var ref = time.Date(2025, time.December, 5, 0, 0, 0, 0, time.UTC)

func TestParseSingleQuoteLevel(t *testing.T) {
	body := strings.Join([]string{
		"Sounds good, see you Thursday.",
		"",
		"On Thu, 4 Dec 2025 at 10:30, Guy Halford <guy@example.com> wrote:",
		"> Hi Agnes,",
		"> Would Thursday work for a quick call?",
	}, "\n")

	frags := Parse(body, Options{OuterSender: "Agnes Caruso", ReferenceDate: ref, OuterTime: "9:05 AM"})
	if len(frags) != 2 {
		t.Fatalf("fragments = %+v", frags)
	}

	outer := frags[0]
	if outer.Sender != "Agnes Caruso" || outer.Date != "05-12-25" || outer.Time != "9:05 AM" {
		t.Errorf("outer fragment = %+v", outer)
	}
	if outer.Message != "Sounds good, see you Thursday." {
		t.Errorf("outer message = %q", outer.Message)
	}

	quoted := frags[1]
	if quoted.Sender != "Guy Halford" || quoted.Date != "04-12-25" || quoted.Time != "10:30 AM" {
		t.Errorf("quoted fragment = %+v", quoted)
	}
	if quoted.Email != "guy@example.com" {
		t.Errorf("quoted email = %q", quoted.Email)
	}
	if strings.Contains(quoted.Message, ">") {
		t.Errorf("quote markers not stripped: %q", quoted.Message)
	}
	if !strings.Contains(quoted.Message, "Thursday work") {
		t.Errorf("quoted body lost: %q", quoted.Message)
	}
}

func TestParseNestedThread(t *testing.T) {
	body := strings.Join([]string{
		"Final answer: yes.",
		"",
		"On Thu, 4 Dec 2025 at 15:00, Agnes Caruso <agnes@acme.io> wrote:",
		"> Any update?",
		">",
		"> On Wed, 3 Dec 2025 at 9:00, Guy Halford <guy@example.com> wrote:",
		">> Following up on pricing.",
	}, "\n")

	frags := Parse(body, Options{OuterSender: "Guy Halford", ReferenceDate: ref})
	if len(frags) != 3 {
		t.Fatalf("want 3 fragments, got %+v", frags)
	}
	if frags[1].Sender != "Agnes Caruso" || frags[2].Sender != "Guy Halford" {
		t.Errorf("senders = %q, %q", frags[1].Sender, frags[2].Sender)
	}
	if frags[2].Message != "Following up on pricing." {
		t.Errorf("innermost message = %q", frags[2].Message)
	}
}

func TestParseWrappedHeader(t *testing.T) {
	body := strings.Join([]string{
		"Works for me.",
		"",
		"On Thu, 4 Dec 2025 at 10:30, Agnes",
		"Caruso <agnes@acme.io> wrote:",
		"> Shall we meet?",
	}, "\n")

	frags := Parse(body, Options{OuterSender: "Guy", ReferenceDate: ref})
	if len(frags) != 2 {
		t.Fatalf("fragments = %+v", frags)
	}
	if frags[1].Sender != "Agnes Caruso" {
		t.Errorf("wrapped header sender = %q", frags[1].Sender)
	}
}

func TestParseStripsSignature(t *testing.T) {
	body := strings.Join([]string{
		"Happy to help.",
		"",
		"Best regards,",
		"Agnes",
		"",
		"On Thu, 4 Dec 2025 at 10:30, Guy Halford <guy@example.com> wrote:",
		"> Question about the proposal.",
		"> --",
		"> Guy Halford",
		"> Example Corp",
	}, "\n")

	frags := Parse(body, Options{OuterSender: "Agnes", ReferenceDate: ref})
	if len(frags) != 2 {
		t.Fatalf("fragments = %+v", frags)
	}
	if strings.Contains(frags[0].Message, "Best regards") || strings.Contains(frags[0].Message, "Agnes\n") {
		t.Errorf("sign-off not stripped: %q", frags[0].Message)
	}
	if strings.Contains(frags[1].Message, "Example Corp") {
		t.Errorf("signature block not stripped: %q", frags[1].Message)
	}
}

func TestParseNoHeadersFallsBack(t *testing.T) {
	body := "Just a plain reply with no quoting."
	frags := Parse(body, Options{OuterSender: "Agnes", ReferenceDate: ref})
	if len(frags) != 1 {
		t.Fatalf("fragments = %+v", frags)
	}
	if frags[0].Sender != "Agnes" || frags[0].Message != body {
		t.Errorf("fragment = %+v", frags[0])
	}
	if frags[0].Date != "05-12-25" || frags[0].Time != "12:00 PM" {
		t.Errorf("default timestamp = %s %s", frags[0].Date, frags[0].Time)
	}
}

func TestParsePMHeaderClock(t *testing.T) {
	body := "Reply.\n\nOn Mon, 1 Dec 2025 at 3:45 PM, Guy Halford <guy@example.com> wrote:\n> ping"
	frags := Parse(body, Options{OuterSender: "Agnes", ReferenceDate: ref})
	if len(frags) != 2 {
		t.Fatalf("fragments = %+v", frags)
	}
	if frags[1].Time != "3:45 PM" || frags[1].Date != "01-12-25" {
		t.Errorf("timestamp = %s %s", frags[1].Date, frags[1].Time)
	}
}

func TestSenderName(t *testing.T) {
	body := strings.Join([]string{
		"Sounds good.",
		"",
		"On Thu, 4 Dec 2025 at 10:30, Agnes",
		"Caruso <agnes@caruso.com> wrote:",
		"> Shall we meet?",
	}, "\n")

	if got := SenderName(body, "Agnes@Caruso.com"); got != "Agnes Caruso" {
		t.Errorf("SenderName = %q, want Agnes Caruso", got)
	}
	if got := SenderName(body, "other@caruso.com"); got != "" {
		t.Errorf("SenderName for absent address = %q, want empty", got)
	}
}

func TestParse24hHeaderClock(t *testing.T) {
	body := "Reply.\n\nOn Thu, 4 Dec 2025 at 15:00, Guy Halford <guy@example.com> wrote:\n> ping"
	frags := Parse(body, Options{OuterSender: "Agnes", ReferenceDate: ref})
	if frags[1].Time != "3:00 PM" {
		t.Errorf("24h clock = %q, want 3:00 PM", frags[1].Time)
	}
}
