package extract

import (
	"strings"
	"testing"
)

func TestStripReplyTag(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "leading tag removed",
			html: `<div dir="auto" id="t"><a href="/alice">Alice Smith</a> thanks for this</div>`,
			want: "thanks for this",
		},
		{
			name: "first child is not a link",
			html: `<div dir="auto" id="t"><span>Alice Smith</span> thanks for this</div>`,
			want: "Alice Smith thanks for this",
		},
		{
			name: "text precedes the link",
			html: `<div dir="auto" id="t">hi <a href="/alice">Alice</a> thanks</div>`,
			want: "hi Alice thanks",
		},
		{
			name: "no children",
			html: `<div dir="auto" id="t">plain reply</div>`,
			want: "plain reply",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := find(t, tt.html, "#t")
			text := strings.TrimSpace(node.Text())
			if got := stripReplyTag(text, node); got != tt.want {
				t.Errorf("stripReplyTag = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStripReplyTagIdempotent(t *testing.T) {
	node := find(t, `<div dir="auto" id="t"><a href="/alice">Alice</a> see you at noon</div>`, "#t")
	once := stripReplyTag(strings.TrimSpace(node.Text()), node)
	twice := stripReplyTag(once, node)
	if once != "see you at noon" {
		t.Fatalf("first strip = %q", once)
	}
	if twice != once {
		t.Errorf("second strip changed text: %q -> %q", once, twice)
	}
}

func TestStripReplyTagNilNode(t *testing.T) {
	if got := stripReplyTag("hello", nil); got != "hello" {
		t.Errorf("got %q", got)
	}
}
