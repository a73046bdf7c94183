package feature

import (
	"math"
	"sort"

	"github.com/happyhackingspace/arcfilter/sentence"
)

// betweenWidth bounds how far from each end of an arc the interposed tags
// and words are collected.
const betweenWidth = 5

// LogTableSize is the number of entries in a LogTable.
const LogTableSize = 101

// LogTable holds log(i+1) rounded to three decimals for i in [1,100];
// entry 0 is 0.
type LogTable [LogTableSize]float32

// NewLogTable computes the table.
func NewLogTable() *LogTable {
	var t LogTable
	for i := 1; i < LogTableSize; i++ {
		t[i] = float32(math.Floor(math.Log(float64(i+1))*1000+0.5) / 1000)
	}
	return &t
}

// At returns entry i, saturating at the last entry.
func (t *LogTable) At(i int) float32 {
	if i >= LogTableSize {
		i = LogTableSize - 1
	}
	return t[i]
}

// Real is a feature with a real-valued multiplier.
type Real struct {
	Name  string
	Value float32
}

// Pair builds the features of the candidate arc head→mod. Binary features
// contribute their weight once; real features contribute weight × Value.
func Pair(head, mod int, s *sentence.Sentence, logs *LogTable) (bin []string, reals []Real) {
	headWord, modWord := s.Words[head], s.Words[mod]
	headTag, modTag := s.Tags[head], s.Tags[mod]
	_, headLeft := neighbor(s, head-1)
	_, headRight := neighbor(s, head+1)
	_, modLeft := neighbor(s, mod-1)
	_, modRight := neighbor(s, mod+1)

	dir := ">"
	dist := mod - head
	if mod < head {
		dir = "<"
		dist = head - mod
	}
	logDist := logs.At(dist)

	bin = make([]string, 0, 10)
	reals = make([]Real, 0, 2+4*betweenWidth)

	bin = append(bin, dir)
	reals = append(reals,
		Real{Name: "D" + dir, Value: logDist},
		Real{Name: headTag + modTag, Value: logDist},
	)
	key := headTag + modTag + dir
	bin = append(bin,
		headTag+"~"+modWord+dir,
		headWord+"*"+modTag+dir,
		key,
		"l"+modLeft+"."+key,
		"n"+modRight+"."+key,
	)

	if head != 0 {
		bin = append(bin,
			"g"+headLeft+"."+key,
			"i"+headRight+"."+key,
		)
		tags, words := between(head, mod, s)
		for _, t := range sortedCounts(tags) {
			reals = append(reals, Real{Name: key + t.name, Value: logs.At(t.count)})
		}
		for _, w := range sortedCounts(words) {
			reals = append(reals, Real{Name: key + "!" + w.name, Value: logs.At(w.count)})
		}
	}

	bin = append(bin, Bias)
	return bin, reals
}

// between counts the tags and words strictly inside the arc span that lie
// within betweenWidth of either end. A position is counted once even when
// it is near both ends.
func between(head, mod int, s *sentence.Sentence) (tags, words map[string]int) {
	start, end := head, mod
	if mod < head {
		start, end = mod, head
	}
	tags = make(map[string]int)
	words = make(map[string]int)
	for i := start + 1; i < end && i <= start+betweenWidth; i++ {
		tags[s.Tags[i]]++
		words[s.Words[i]]++
	}
	for i := end - 1; i > start && i >= end-betweenWidth && i > start+betweenWidth; i-- {
		tags[s.Tags[i]]++
		words[s.Words[i]]++
	}
	return tags, words
}

type nameCount struct {
	name  string
	count int
}

func sortedCounts(m map[string]int) []nameCount {
	out := make([]nameCount, 0, len(m))
	for k, v := range m {
		out = append(out, nameCount{name: k, count: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}
