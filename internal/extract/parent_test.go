package extract

import (
	"testing"

	"github.com/IshaanNene/CommentGoat/internal/config"
)

func TestResolveParent(t *testing.T) {
	tests := []struct {
		name       string
		html       string
		wantID     string
		wantSource parentSource
	}{
		{
			name: "author match on previous sibling",
			html: `<div id="feed">
				<div role="article" aria-label="Comment by Alice 2h"><a href="/p?comment_id=1">2h</a></div>
				<div role="article" id="r" aria-label="Reply by Bob to Alice's comment 1h"><a href="/p?reply_comment_id=2">1h</a></div>
			</div>`,
			wantID:     "1",
			wantSource: parentByAuthor,
		},
		{
			name: "nearest candidate when no author matches",
			html: `<div id="feed">
				<div role="article" aria-label="Comment by Alice 2h"><a href="/p?comment_id=1">2h</a></div>
				<div role="article" id="r" aria-label="Reply by Bob to Carol's comment 1h"><a href="/p?reply_comment_id=2">1h</a></div>
			</div>`,
			wantID:     "1",
			wantSource: parentByNearest,
		},
		{
			name: "reply with no preceding candidates",
			html: `<div id="feed">
				<div role="article" id="r" aria-label="Reply by Bob to Alice's comment 1h"><a href="/p?reply_comment_id=2">1h</a></div>
			</div>`,
			wantSource: parentNotFound,
		},
		{
			name: "author match found further up the tree",
			html: `<ul id="feed"><li>
				<div role="article" aria-label="Comment by Alice 3h"><a href="/p?comment_id=1">3h</a></div>
				<div class="replies">
					<div role="article" aria-label="Comment by Carol 2h"><a href="/p?comment_id=3">2h</a></div>
					<div role="article" id="r" aria-label="Reply by Bob to Alice's comment 1h"><a href="/p?reply_comment_id=4">1h</a></div>
				</div>
			</li></ul>`,
			wantID:     "1",
			wantSource: parentByAuthor,
		},
		{
			name: "deepest candidate is the nearest",
			html: `<div id="feed">
				<div role="article" aria-label="Comment by Alice 3h">
					<a href="/p?comment_id=10">3h</a>
					<div role="article" aria-label="Reply by Dan to Alice 2h"><a href="/p?reply_comment_id=11">2h</a></div>
				</div>
				<div role="article" id="r" aria-label="Reply by Bob to Zed's comment 1h"><a href="/p?reply_comment_id=12">1h</a></div>
			</div>`,
			wantID:     "11",
			wantSource: parentByNearest,
		},
		{
			name: "target name compared without case",
			html: `<div id="feed">
				<div role="article" aria-label="Comment by Alice Smith 2h"><a href="/p?comment_id=1">2h</a></div>
				<div role="article" id="r" aria-label="Reply by Bob to alice smith's comment 1h"><a href="/p?reply_comment_id=2">1h</a></div>
			</div>`,
			wantID:     "1",
			wantSource: parentByAuthor,
		},
		{
			name: "only the immediate previous sibling is scanned",
			html: `<div id="feed">
				<div role="article" aria-label="Comment by Alice 2h"><a href="/p?comment_id=1">2h</a></div>
				<div class="spacer"></div>
				<div role="article" id="r" aria-label="Reply by Bob to Alice's comment 1h"><a href="/p?reply_comment_id=2">1h</a></div>
			</div>`,
			wantSource: parentNotFound,
		},
		{
			name: "candidates without an id are skipped",
			html: `<div id="feed">
				<div role="article" aria-label="Comment by Alice 2h"><span>no link here</span></div>
				<div role="article" id="r" aria-label="Reply by Bob to Alice's comment 1h"><a href="/p?reply_comment_id=2">1h</a></div>
			</div>`,
			wantSource: parentNotFound,
		},
		{
			name: "sibling wrapper holding candidates",
			html: `<div id="feed">
				<div class="thread">
					<div role="article" aria-label="Comment by Alice 3h"><a href="/p?comment_id=1">3h</a></div>
					<div role="article" aria-label="Comment by Erin 2h"><a href="/p?comment_id=5">2h</a></div>
				</div>
				<div role="article" id="r" aria-label="Reply by Bob to Alice's comment 1h"><a href="/p?reply_comment_id=2">1h</a></div>
			</div>`,
			wantID:     "1",
			wantSource: parentByAuthor,
		},
	}

	x := newTestExtractor(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply := find(t, tt.html, "#r")
			got := x.resolveParent(reply)
			if got.id != tt.wantID || got.source != tt.wantSource {
				t.Errorf("resolveParent = (%q, %s), want (%q, %s)", got.id, got.source, tt.wantID, tt.wantSource)
			}
		})
	}
}

func TestResolveParentDepthCap(t *testing.T) {
	body := `<div id="feed">
		<div role="article" aria-label="Comment by Carol 2h"><a href="/p?comment_id=3">2h</a></div>
		<div class="wrap">
			<div role="article" id="r" aria-label="Reply by Bob to Alice's comment 1h"><a href="/p?reply_comment_id=4">1h</a></div>
		</div>
	</div>`

	tests := []struct {
		depth      int
		wantID     string
		wantSource parentSource
	}{
		{0, "3", parentByNearest},
		{1, "", parentNotFound},
		{2, "3", parentByNearest},
	}

	for _, tt := range tests {
		cfg := config.DefaultConfig().Extract
		cfg.MaxParentDepth = tt.depth
		x, err := New(cfg, testLogger)
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		got := x.resolveParent(find(t, body, "#r"))
		if got.id != tt.wantID || got.source != tt.wantSource {
			t.Errorf("depth %d: resolveParent = (%q, %s), want (%q, %s)",
				tt.depth, got.id, got.source, tt.wantID, tt.wantSource)
		}
	}
}

func TestParentSourceString(t *testing.T) {
	for src, want := range map[parentSource]string{
		parentNotFound:  "not_found",
		parentByAuthor:  "author_match",
		parentByNearest: "nearest",
	} {
		if got := src.String(); got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
	}
}
