package model

import "sort"

// Model is the in-memory frequency model: every word seen in the corpus
// together with the words that immediately followed it.
type Model struct {
	unigrams map[string]*Unigram
	tokens   int64 // total tokens observed
	max      int64 // highest unigram count so far
}

// Unigram is a word, its occurrence count and its successor map.
// The successor map is owned by the unigram and never shared.
type Unigram struct {
	Word    string
	Count   int64
	bigrams map[string]*Bigram
}

// Bigram is a successor word and the number of times it followed its owner.
type Bigram struct {
	Word  string
	Count int64
}

// Stats summarizes the model
type Stats struct {
	Unigrams    int
	Bigrams     int
	TotalTokens int64
	MaxCount    int64
}

// New creates an empty model
func New() *Model {
	return &Model{
		unigrams: make(map[string]*Unigram),
	}
}

// GetOrInsert returns the unigram for word, creating it with a zero count
// and an empty successor map when it does not exist yet.
func (m *Model) GetOrInsert(word string) (*Unigram, bool) {
	if u, ok := m.unigrams[word]; ok {
		return u, false
	}
	u := &Unigram{Word: word, bigrams: make(map[string]*Bigram)}
	m.unigrams[word] = u
	return u, true
}

// Observe records one occurrence of word and reports whether the word was new.
// Empty words are ignored.
func (m *Model) Observe(word string) (*Unigram, bool) {
	if word == "" {
		return nil, false
	}
	u, created := m.GetOrInsert(word)
	u.Count++
	m.tokens++
	if u.Count > m.max {
		m.max = u.Count
	}
	return u, created
}

// Get returns the unigram for word
func (m *Model) Get(word string) (*Unigram, bool) {
	u, ok := m.unigrams[word]
	return u, ok
}

// Count returns the occurrence count for word, zero when unseen
func (m *Model) Count(word string) int64 {
	if u, ok := m.unigrams[word]; ok {
		return u.Count
	}
	return 0
}

// Len returns the number of distinct words
func (m *Model) Len() int {
	return len(m.unigrams)
}

// MaxCount returns the highest unigram count in the model
func (m *Model) MaxCount() int64 {
	return m.max
}

// TotalTokens returns the number of tokens observed across all sources
func (m *Model) TotalTokens() int64 {
	return m.tokens
}

// Ranked returns all unigrams ordered by descending count.
// Ties are ordered by ascending word so the order is reproducible.
func (m *Model) Ranked() []*Unigram {
	ranked := make([]*Unigram, 0, len(m.unigrams))
	for _, u := range m.unigrams {
		ranked = append(ranked, u)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Word < ranked[j].Word
	})
	return ranked
}

// Stats returns a summary of the model
func (m *Model) Stats() Stats {
	s := Stats{
		Unigrams:    len(m.unigrams),
		TotalTokens: m.tokens,
		MaxCount:    m.max,
	}
	for _, u := range m.unigrams {
		s.Bigrams += len(u.bigrams)
	}
	return s
}

// GetOrInsert returns the bigram towards next, creating it with a zero count.
func (u *Unigram) GetOrInsert(next string) (*Bigram, bool) {
	if b, ok := u.bigrams[next]; ok {
		return b, false
	}
	b := &Bigram{Word: next}
	u.bigrams[next] = b
	return b, true
}

// Follow records one observation of next immediately after this word.
// Empty words are ignored.
func (u *Unigram) Follow(next string) *Bigram {
	if next == "" {
		return nil
	}
	b, _ := u.GetOrInsert(next)
	b.Count++
	return b
}

// Bigram returns the successor entry for next
func (u *Unigram) Bigram(next string) (*Bigram, bool) {
	b, ok := u.bigrams[next]
	return b, ok
}

// NumBigrams returns the number of distinct successors
func (u *Unigram) NumBigrams() int {
	return len(u.bigrams)
}

// TopBigrams returns up to k successors ordered by descending count,
// ties by ascending word. k <= 0 returns all of them.
func (u *Unigram) TopBigrams(k int) []*Bigram {
	top := make([]*Bigram, 0, len(u.bigrams))
	for _, b := range u.bigrams {
		top = append(top, b)
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Count != top[j].Count {
			return top[i].Count > top[j].Count
		}
		return top[i].Word < top[j].Word
	})
	if k > 0 && len(top) > k {
		top = top[:k]
	}
	return top
}
