package bot

import "testing"

func TestEscapeMarkdown(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"oddiy matn", "oddiy matn"},
		{"snake_case va *bold*", `snake\_case va \*bold\*`},
		{"inline `code` bor", "inline \\`code\\` bor"},
		{"[link](https://x)", `\[link](https://x)`},
	}
	for _, c := range cases {
		if got := escapeMarkdown(c.in); got != c.want {
			t.Errorf("escapeMarkdown(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestEscapeMarkdownPreservesCodeBlocks(t *testing.T) {
	in := "tushuntirish_bilan\n```go\na_b := x * y\n```\nyana_matn"
	want := "tushuntirish\\_bilan\n```go\na_b := x * y\n```\nyana\\_matn"
	if got := escapeMarkdown(in); got != want {
		t.Fatalf("escapeMarkdown:\n got %q\nwant %q", got, want)
	}
}
