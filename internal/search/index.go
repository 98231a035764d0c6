// Package search provides a small, deterministic, concurrency-safe in-memory
// index over a user's documents. Each document is split into paragraphs and
// every paragraph keeps a reference to the document it came from, so callers
// can rank documents by their best-matching passage.
//
//   - No logging in the library (callers decide how/what to log)
//   - Functional options for paragraph filtering, stop words and caps
//   - Unicode-aware tokenization
//   - Immutable after construction (safe for concurrent use)
//   - Deterministic scoring and sorting (stable order for ties)
//
// Scoring uses Jaccard similarity between the query token set and each
// paragraph's token set: score = |Q ∩ P| / |Q ∪ P|.
package search

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// Document is one indexable source: an ID, a title and its body text.
type Document struct {
	ID    uint
	Title string
	Text  string
}

// Result is a ranked passage with its similarity score and origin.
type Result struct {
	DocID   uint
	Title   string
	Snippet string
	Score   float64
}

// Index is the minimal interface implemented by all search indices.
type Index interface {
	TopK(query string, k int) []Result
}

// ----------------------------------------------------------------------------
// Options

type Option func(*config)

type config struct {
	minParagraphRunes int
	stopwords         map[string]struct{}
	maxDocs           int
}

func defaultConfig() config {
	return config{
		minParagraphRunes: 12,
		stopwords:         nil,
		maxDocs:           0,
	}
}

// WithMinParagraphRunes drops paragraphs shorter than n runes.
func WithMinParagraphRunes(n int) Option {
	return func(c *config) {
		if n >= 0 {
			c.minParagraphRunes = n
		}
	}
}

// WithStopwords ignores the given words during tokenization.
func WithStopwords(words []string) Option {
	return func(c *config) {
		m := make(map[string]struct{}, len(words))
		for _, w := range words {
			w = strings.ToLower(strings.TrimSpace(w))
			if w != "" {
				m[w] = struct{}{}
			}
		}
		if len(m) > 0 {
			c.stopwords = m
		}
	}
}

// WithMaxDocs caps the number of indexed paragraphs.
func WithMaxDocs(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxDocs = n
		}
	}
}

// EnglishStopwords is a short list of function words that carry no signal
// for document lookup.
var EnglishStopwords = []string{
	"a", "an", "and", "are", "as", "at", "be", "by", "for", "from", "in",
	"is", "it", "of", "on", "or", "that", "the", "to", "was", "with",
}

// ----------------------------------------------------------------------------
// Implementation

type passage struct {
	docID  uint
	title  string
	text   string
	tokens map[string]struct{}
	tLen   int
}

type index struct {
	cfg      config
	passages []passage
}

// NewIndexFromDocuments builds an Index over docs. Document bodies are
// flattened (Markdown tables become one fact per row) and split on blank
// lines; the title is indexed as its own passage.
func NewIndexFromDocuments(docs []Document, opts ...Option) Index {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	idx := &index{cfg: cfg}
	for _, d := range docs {
		if idx.full() {
			break
		}
		idx.add(d.ID, d.Title, d.Title)
		for _, p := range splitParas(FlattenMarkdown(d.Text)) {
			if idx.full() {
				break
			}
			idx.add(d.ID, d.Title, p)
		}
	}
	return idx
}

// NewIndexFromStrings builds an Index directly from a slice of paragraphs
// that share no document reference.
func NewIndexFromStrings(paragraphs []string, opts ...Option) Index {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	idx := &index{cfg: cfg}
	for _, p := range paragraphs {
		if idx.full() {
			break
		}
		idx.add(0, "", p)
	}
	return idx
}

func (i *index) full() bool {
	return i.cfg.maxDocs > 0 && len(i.passages) >= i.cfg.maxDocs
}

func (i *index) add(docID uint, title, raw string) {
	t := strings.TrimSpace(normalizeWhitespace(raw))
	if t == "" {
		return
	}
	if i.cfg.minParagraphRunes > 0 && utf8.RuneCountInString(t) < i.cfg.minParagraphRunes && t != title {
		return
	}
	toks := tokenize(t, i.cfg.stopwords)
	if len(toks) == 0 {
		return
	}
	i.passages = append(i.passages, passage{docID: docID, title: title, text: t, tokens: toks, tLen: len(toks)})
}

// TopK returns up to k best-matching passages by Jaccard similarity.
func (i *index) TopK(q string, k int) []Result {
	if len(i.passages) == 0 {
		return nil
	}
	if strings.TrimSpace(q) == "" {
		return nil
	}
	if k <= 0 {
		k = 3
	}
	qTokens := tokenize(q, i.cfg.stopwords)
	if len(qTokens) == 0 {
		return nil
	}
	qLen := len(qTokens)

	type scored struct {
		p        *passage
		score    float64
		lenRunes int
	}

	buf := make([]scored, 0, min(k*4, len(i.passages)))
	for n := range i.passages {
		p := &i.passages[n]
		over := overlap(qTokens, p.tokens)
		if over == 0 {
			continue
		}
		union := float64(qLen + p.tLen - over)
		if union <= 0 {
			continue
		}
		buf = append(buf, scored{
			p:        p,
			score:    float64(over) / union,
			lenRunes: utf8.RuneCountInString(p.text),
		})
	}
	if len(buf) == 0 {
		return nil
	}

	sort.SliceStable(buf, func(a, b int) bool {
		if buf[a].score != buf[b].score {
			return buf[a].score > buf[b].score
		}
		if buf[a].lenRunes != buf[b].lenRunes {
			return buf[a].lenRunes < buf[b].lenRunes
		}
		return buf[a].p.text < buf[b].p.text
	})

	if k > len(buf) {
		k = len(buf)
	}
	out := make([]Result, k)
	for n := 0; n < k; n++ {
		p := buf[n].p
		out[n] = Result{DocID: p.docID, Title: p.title, Snippet: p.text, Score: buf[n].score}
	}
	return out
}

// BestPerDocument keeps only the highest-scoring result of each document,
// preserving rank order.
func BestPerDocument(results []Result) []Result {
	seen := make(map[uint]struct{}, len(results))
	out := make([]Result, 0, len(results))
	for _, r := range results {
		if _, dup := seen[r.DocID]; dup {
			continue
		}
		seen[r.DocID] = struct{}{}
		out = append(out, r)
	}
	return out
}

// ----------------------------------------------------------------------------
// Helpers

var wordRE = regexp.MustCompile(`\p{L}+\p{N}*|\p{N}+`)

func tokenize(s string, stop map[string]struct{}) map[string]struct{} {
	s = strings.ToLower(s)
	words := wordRE.FindAllString(s, -1)
	if len(words) == 0 {
		return nil
	}
	out := make(map[string]struct{}, len(words))
	for _, w := range words {
		if w == "" {
			continue
		}
		if stop != nil {
			if _, skip := stop[w]; skip {
				continue
			}
		}
		out[w] = struct{}{}
	}
	return out
}

func overlap(a, b map[string]struct{}) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	n := 0
	if len(a) > len(b) {
		a, b = b, a
	}
	for k := range a {
		if _, ok := b[k]; ok {
			n++
		}
	}
	return n
}

func normalizeWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevSpace := false
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\r' {
			if !prevSpace {
				b.WriteByte(' ')
				prevSpace = true
			}
			continue
		}
		prevSpace = false
		b.WriteRune(r)
	}
	return b.String()
}

var paraSplitRE = regexp.MustCompile(`\n\s*\n`)

func splitParas(raw string) []string {
	chunks := paraSplitRE.Split(raw, -1)
	out := make([]string, 0, len(chunks))
	for _, c := range chunks {
		if t := strings.TrimSpace(c); t != "" {
			out = append(out, t)
		}
	}
	return out
}
