package convo

import (
	"strings"
	"testing"
	"time"
)

var ref = time.Date(2025, time.December, 5, 12, 0, 0, 0, time.UTC) // a Friday

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Format
	}{
		{
			name: "preformatted canonical line",
			text: "04-12-25 10:30 AM - Guy - hello there",
			want: FormatPreformatted,
		},
		{
			name: "linkedin marker",
			text: "Agnes Caruso sent the following message at 10:30 AM\nHi Guy",
			want: FormatLinkedIn,
		},
		{
			name: "salesnav you line",
			text: "Today\nYou 10:30 AM\nHi Agnes",
			want: FormatSalesNav,
		},
		{
			name: "salesnav invite",
			text: "Invited Agnes Caruso to connect",
			want: FormatSalesNav,
		},
		{
			name: "fallback manual",
			text: "spoke on phone, wants pricing deck",
			want: FormatManual,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectFormat(tt.text); got != tt.want {
				t.Errorf("DetectFormat = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseLinkedInConversation(t *testing.T) {
	text := strings.Join([]string{
		"Agnes Caruso sent the following messages at 9:15 AM",
		"View Agnes Caruso's profile",
		"(She/Her)",
		"Dec 4, 2025",
		"Agnes Caruso 9:15 AM",
		"Hi Guy, thanks for reaching out.",
		"Happy to chat next week.",
		"You 10:02 AM",
		"Great, sending over a calendar link.",
		"Today",
		"Agnes Caruso 8:45 AM",
		"👍",
	}, "\n")

	res := Parse(text, Options{TenantDisplayName: "Guy", ReferenceDate: ref})
	if res.Format != FormatLinkedIn {
		t.Fatalf("format = %q", res.Format)
	}
	if res.MessageCount != 2 {
		t.Fatalf("MessageCount = %d, want 2 (emoji-only dropped): %+v", res.MessageCount, res.Messages)
	}

	first := res.Messages[0]
	if first.Sender != "Agnes Caruso" || first.Date != "04-12-25" || first.Time != "9:15 AM" {
		t.Errorf("first message = %+v", first)
	}
	if !strings.Contains(first.Text, "next week") {
		t.Errorf("body lines not accumulated: %q", first.Text)
	}

	second := res.Messages[1]
	if second.Sender != "Guy" {
		t.Errorf("You not replaced with tenant name: %+v", second)
	}
	if second.Date != "04-12-25" {
		t.Errorf("day cursor wrong on second message: %+v", second)
	}
}

func TestParseWeekdayResolvesToPast(t *testing.T) {
	text := strings.Join([]string{
		"Agnes sent the following message at 9:00 AM",
		"Wednesday",
		"Agnes Caruso 9:00 AM",
		"Checking in.",
	}, "\n")

	res := Parse(text, Options{ReferenceDate: ref})
	if len(res.Messages) != 1 {
		t.Fatalf("messages = %+v", res.Messages)
	}
	// Ref is Friday 05-12-25; most recent past Wednesday is 03-12-25.
	if res.Messages[0].Date != "03-12-25" {
		t.Errorf("weekday resolved to %s, want 03-12-25", res.Messages[0].Date)
	}
}

func TestParseSalesNavInvite(t *testing.T) {
	text := strings.Join([]string{
		"Yesterday",
		"Invited Agnes Caruso to connect",
		"You 2:10 PM",
		"Hi Agnes, keen to connect.",
	}, "\n")

	res := Parse(text, Options{TenantDisplayName: "Guy", ReferenceDate: ref})
	if res.Format != FormatSalesNav {
		t.Fatalf("format = %q", res.Format)
	}
	if len(res.Messages) != 2 {
		t.Fatalf("messages = %+v", res.Messages)
	}
	if res.Messages[0].Text != "Invited Agnes Caruso to connect" || res.Messages[0].Date != "04-12-25" {
		t.Errorf("invite message = %+v", res.Messages[0])
	}
	if res.Messages[1].Sender != "Guy" || res.Messages[1].Time != "2:10 PM" {
		t.Errorf("you message = %+v", res.Messages[1])
	}
}

func TestParseManualPassthrough(t *testing.T) {
	text := "called agnes, she asked for the deck"
	res := Parse(text, Options{ReferenceDate: ref})
	if res.Format != FormatManual {
		t.Fatalf("format = %q", res.Format)
	}
	if res.Formatted != text || res.MessageCount != 0 {
		t.Errorf("manual content not verbatim: %+v", res)
	}
}

func TestParseNewestFirstFormatted(t *testing.T) {
	text := strings.Join([]string{
		"Agnes sent the following message at 9:00 AM",
		"Dec 3, 2025",
		"Agnes Caruso 9:00 AM",
		"older",
		"Dec 4, 2025",
		"Agnes Caruso 9:00 AM",
		"newer",
	}, "\n")

	res := Parse(text, Options{ReferenceDate: ref, NewestFirst: true})
	lines := strings.Split(res.Formatted, "\n")
	if len(lines) != 2 || !strings.HasSuffix(lines[0], "newer") {
		t.Errorf("formatted order wrong: %q", res.Formatted)
	}
	if lines[0] != "04-12-25 9:00 AM - Agnes Caruso - newer" {
		t.Errorf("canonical line = %q", lines[0])
	}
}
