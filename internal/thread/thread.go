// Package thread computes conversation structure over the records of one
// pass: which top-level comment each record hangs from, how deep it sits,
// and how many siblings share its parent.
package thread

import (
	"github.com/IshaanNene/CommentGoat/internal/types"
)

// Features are the thread position of one record.
type Features struct {
	RootID       string `json:"root_id"`
	Depth        int    `json:"depth"`
	SiblingCount int    `json:"sibling_count"`
}

// Result holds the features of every record, aligned with the input slice.
type Result struct {
	Features []Features

	// Roots is the number of records without a resolvable parent.
	Roots int

	// Detached counts records that no root reaches, i.e. members of a
	// parent cycle and their descendants. Each is treated as its own root.
	Detached int
}

// Annotate builds the parent graph of records and computes their features.
//
// A record is a root when its parent id is absent, names itself, or names
// no record in the set. When ids repeat, edges attach to the first record
// with that id. Roots count every other root as a sibling.
func Annotate(records []types.CommentRecord) *Result {
	n := len(records)
	res := &Result{Features: make([]Features, n)}
	if n == 0 {
		return res
	}

	index := make(map[string]int, n)
	for i := range records {
		if _, ok := index[records[i].ID]; !ok {
			index[records[i].ID] = i
		}
	}

	parent := make([]int, n)
	children := make([][]int, n)
	var roots []int
	for i := range records {
		parent[i] = -1
		pid := records[i].Parent()
		if pid != "" && pid != records[i].ID {
			if p, ok := index[pid]; ok && p != i {
				parent[i] = p
				children[p] = append(children[p], i)
				continue
			}
		}
		roots = append(roots, i)
	}
	res.Roots = len(roots)

	visited := make([]bool, n)
	for _, r := range roots {
		visited[r] = true
		res.Features[r] = Features{
			RootID:       records[r].ID,
			Depth:        0,
			SiblingCount: len(roots) - 1,
		}

		queue := []int{r}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, c := range children[cur] {
				if visited[c] {
					continue
				}
				visited[c] = true
				res.Features[c] = Features{
					RootID:       records[r].ID,
					Depth:        res.Features[cur].Depth + 1,
					SiblingCount: len(children[cur]) - 1,
				}
				queue = append(queue, c)
			}
		}
	}

	for i := range records {
		if !visited[i] {
			res.Detached++
		}
	}
	for i := range records {
		if visited[i] {
			continue
		}
		res.Features[i] = Features{
			RootID:       records[i].ID,
			Depth:        0,
			SiblingCount: len(roots) + res.Detached - 2,
		}
	}

	return res
}
