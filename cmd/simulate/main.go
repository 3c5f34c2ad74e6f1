package main

import (
	"flag"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"lead-inbox-be/pkg/convo"
	"lead-inbox-be/pkg/mailaddr"
	"lead-inbox-be/pkg/meeting"
	"lead-inbox-be/pkg/thread"

	"github.com/fatih/color"
)

// Payload inspector: runs the parsing pipeline on a raw email body from a
// file and prints what the service would extract, without touching any
// lead. With -post it also submits the payload to a running instance.
func main() {
	var (
		bodyFile = flag.String("body", "", "path to a file with the raw email body")
		sender   = flag.String("sender", "operator@example.com", "envelope sender")
		subject  = flag.String("subject", "", "email subject")
		to       = flag.String("to", "", "To header value")
		postURL  = flag.String("post", "", "base URL of a running instance to POST the payload to")
	)
	flag.Parse()

	if *bodyFile == "" {
		color.Red("usage: simulate -body payload.txt [-sender a@b.c] [-subject s] [-to leads] [-post http://localhost:3000]")
		os.Exit(1)
	}
	raw, err := os.ReadFile(*bodyFile)
	if err != nil {
		color.Red("read body: %v", err)
		os.Exit(1)
	}
	body := string(raw)

	color.Cyan("🔍 Payload inspection\n")
	color.Yellow("[1] Format detection")
	format := convo.DetectFormat(body)
	color.Green("format: %s", format)

	color.Yellow("\n[2] Meeting detection")
	if provider, ok := meeting.Detect(*sender, *subject, body); ok {
		color.Green("note-taker recap detected: %s", provider)
		d := meeting.Extract(provider, *subject, body, "")
		fmt.Printf("  contact:   %q (alternates %v)\n", d.ContactName, d.AlternateNames)
		fmt.Printf("  email:     %q  company: %q  domain: %q\n", d.ContactEmail, d.Company, d.Domain)
		fmt.Printf("  link:      %s\n", d.MeetingLink)
		fmt.Printf("  duration:  %s  date: %s\n", d.Duration, d.Date)
		if d.ActionItems != "" {
			fmt.Printf("  action items:\n%s\n", indent(d.ActionItems))
		}
	} else {
		fmt.Println("  not a note-taker recap")
	}

	color.Yellow("\n[3] Thread fragments")
	name, _ := mailaddr.Parse(*sender)
	if name == "" {
		name = *sender
	}
	for i, f := range thread.Parse(body, thread.Options{OuterSender: name, ReferenceDate: time.Now()}) {
		firstLine := strings.SplitN(strings.TrimSpace(f.Message), "\n", 2)[0]
		fmt.Printf("  #%d %s %s - %s - %s\n", i+1, f.Date, f.Time, f.Sender, firstLine)
	}

	if *postURL != "" {
		color.Yellow("\n[4] Posting to %s", *postURL)
		form := url.Values{}
		form.Set("sender", *sender)
		form.Set("subject", *subject)
		form.Set("body-plain", body)
		form.Set("To", *to)
		form.Set("timestamp", fmt.Sprint(time.Now().Unix()))
		resp, err := http.PostForm(strings.TrimRight(*postURL, "/")+"/api/webhook/v1/inbound", form)
		if err != nil {
			color.Red("post failed: %v", err)
			os.Exit(1)
		}
		defer resp.Body.Close()
		color.Green("status: %s", resp.Status)
	}
}

func indent(s string) string {
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = "    " + lines[i]
	}
	return strings.Join(lines, "\n")
}
