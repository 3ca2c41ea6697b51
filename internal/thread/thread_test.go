package thread

import (
	"testing"

	"github.com/IshaanNene/CommentGoat/internal/types"
)

func rec(id string, parent string) types.CommentRecord {
	r := types.CommentRecord{ID: id, Text: "t", CommentType: types.CommentInitial}
	if parent != "" {
		p := parent
		r.ParentID = &p
		r.CommentType = types.CommentReply
	}
	return r
}

func TestAnnotateTree(t *testing.T) {
	records := []types.CommentRecord{
		rec("1", ""),
		rec("2", "1"),
		rec("3", "1"),
		rec("4", "2"),
		rec("5", ""),
	}
	res := Annotate(records)

	want := []Features{
		{RootID: "1", Depth: 0, SiblingCount: 1},
		{RootID: "1", Depth: 1, SiblingCount: 1},
		{RootID: "1", Depth: 1, SiblingCount: 1},
		{RootID: "1", Depth: 2, SiblingCount: 0},
		{RootID: "5", Depth: 0, SiblingCount: 1},
	}
	for i, w := range want {
		if res.Features[i] != w {
			t.Errorf("record %s: got %+v, want %+v", records[i].ID, res.Features[i], w)
		}
	}
	if res.Roots != 2 || res.Detached != 0 {
		t.Errorf("roots/detached = %d/%d", res.Roots, res.Detached)
	}
}

func TestAnnotateOrphanAndSelfParent(t *testing.T) {
	records := []types.CommentRecord{
		rec("1", ""),
		rec("2", "99"), // parent not captured
		rec("3", "3"),
	}
	res := Annotate(records)

	for i, r := range records {
		f := res.Features[i]
		if f.RootID != r.ID || f.Depth != 0 || f.SiblingCount != 2 {
			t.Errorf("record %s: got %+v", r.ID, f)
		}
	}
}

func TestAnnotateCycle(t *testing.T) {
	records := []types.CommentRecord{
		rec("1", ""),
		rec("2", "3"),
		rec("3", "2"),
		rec("4", "3"),
	}
	res := Annotate(records)

	if res.Roots != 1 || res.Detached != 3 {
		t.Fatalf("roots/detached = %d/%d, want 1/3", res.Roots, res.Detached)
	}
	if res.Features[0] != (Features{RootID: "1", Depth: 0, SiblingCount: 0}) {
		t.Errorf("root features = %+v", res.Features[0])
	}
	for _, i := range []int{1, 2, 3} {
		f := res.Features[i]
		if f.RootID != records[i].ID || f.Depth != 0 || f.SiblingCount != 2 {
			t.Errorf("detached record %s: got %+v", records[i].ID, f)
		}
	}
}

func TestAnnotateDuplicateIDs(t *testing.T) {
	records := []types.CommentRecord{
		rec("1", ""),
		rec("1", ""),
		rec("2", "1"),
	}
	res := Annotate(records)

	if got := res.Features[2]; got != (Features{RootID: "1", Depth: 1, SiblingCount: 0}) {
		t.Errorf("reply features = %+v", got)
	}
	if res.Roots != 2 {
		t.Errorf("roots = %d, want 2", res.Roots)
	}
}

func TestAnnotateEmpty(t *testing.T) {
	res := Annotate(nil)
	if len(res.Features) != 0 || res.Roots != 0 {
		t.Errorf("unexpected result: %+v", res)
	}
}
