package bridge

import "testing"

func TestClassifyGuildLine(t *testing.T) {
	cases := []struct {
		line    string
		author  string
		content string
		ok      bool
	}{
		{"Guild > [MVP+] Alice: hello world", "Alice", "hello world", true},
		{"Guild > Alice: hello", "Alice", "hello", true},
		{"Guild > [MVP+] Alice [GM]: promoted!", "Alice", "promoted!", true},
		{"Guild > Alice [Member]: hi", "Alice", "hi", true},
		{"[System] Server restarting", "", "", false},
		{"Officer > [MVP+] Alice: secret", "", "", false},
		{"Guild > Alice joined.", "", "", false},
		{"", "", "", false},
	}
	for _, c := range cases {
		author, content, ok := ClassifyGuildLine(c.line)
		if ok != c.ok || author != c.author || content != c.content {
			t.Fatalf("ClassifyGuildLine(%q) = (%q, %q, %v), want (%q, %q, %v)",
				c.line, author, content, ok, c.author, c.content, c.ok)
		}
	}
}

func TestStripMentions(t *testing.T) {
	cases := []struct{ in, want string }{
		{"hey @everyone look", "hey  look"},
		{"ping @here", "ping "},
		{"hi <@123456> and <@!789>", "hi  and "},
		{"plain text", "plain text"},
	}
	for _, c := range cases {
		if got := StripMentions(c.in); got != c.want {
			t.Fatalf("StripMentions(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
