package tui

import (
	"sort"
	"strings"
	"sync"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"
)

var initAlgo sync.Once

// match is one ranked picker entry
type match struct {
	index     int
	score     int
	positions []int
}

// newSlab returns scratch space reused across matcher calls
func newSlab() *util.Slab {
	return util.MakeSlab(100*1024, 2048)
}

// rank orders items by fuzzy score against query. An empty query keeps
// every item in its original order; otherwise non-matching items are
// dropped and ties keep the original order.
func rank(items []string, query string, slab *util.Slab) []match {
	initAlgo.Do(func() { algo.Init("default") })

	query = strings.TrimSpace(query)
	if query == "" {
		all := make([]match, len(items))
		for i := range items {
			all[i] = match{index: i}
		}
		return all
	}

	pattern := []rune(strings.ToLower(query))
	var matches []match
	for i, item := range items {
		chars := util.ToChars([]byte(item))
		res, pos := algo.FuzzyMatchV2(false, true, true, &chars, pattern, true, slab)
		if res.Score <= 0 {
			continue
		}
		m := match{index: i, score: res.Score}
		if pos != nil {
			m.positions = append([]int(nil), (*pos)...)
		}
		matches = append(matches, m)
	}
	sort.SliceStable(matches, func(a, b int) bool {
		return matches[a].score > matches[b].score
	})
	return matches
}
