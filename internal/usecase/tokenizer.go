package usecase

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"airtalk-service/internal/domain/entity"
)

// Special tokens emitted alongside the bracket tags.
const (
	TokenCustomer = "<t1>"
	TokenAgent    = "<t2>"
	TokenEOD      = "<eod>"
	TokenUnknown  = "<unk>"
)

// FormatTag renders a category/value pair as a bracket tag, e.g. <a1_DTW>.
func FormatTag(category string, value interface{}) string {
	return fmt.Sprintf("<%s_%v>", category, value)
}

// Tokenizer splits an utterance into word tokens. The simulator's template
// output only needs whitespace splitting with punctuation peeled off, but
// externally produced dialogues may want a smarter implementation.
type Tokenizer interface {
	Tokenize(utterance string) []string
}

// SimpleTokenizer splits on whitespace and separates leading and trailing
// punctuation into their own tokens.
type SimpleTokenizer struct{}

// Tokenize implements Tokenizer.
func (SimpleTokenizer) Tokenize(utterance string) []string {
	var out []string
	for _, field := range strings.Fields(utterance) {
		out = append(out, splitPunct(field)...)
	}
	return out
}

func splitPunct(word string) []string {
	runes := []rune(word)
	start, end := 0, len(runes)
	for start < end && unicode.IsPunct(runes[start]) && runes[start] != '<' {
		start++
	}
	for end > start && unicode.IsPunct(runes[end-1]) && runes[end-1] != '>' {
		end--
	}
	var out []string
	for _, r := range runes[:start] {
		out = append(out, string(r))
	}
	if start < end {
		out = append(out, string(runes[start:end]))
	}
	for _, r := range runes[end:] {
		out = append(out, string(r))
	}
	return out
}

// VocabAccumulator collects token frequencies and tag categories across a
// corpus shard. Shards merge by addition, so counting can be split across
// workers without changing the final vocabulary.
type VocabAccumulator struct {
	WordFreq   map[string]int
	FirstNames map[string]struct{}
	LastNames  map[string]struct{}
	FlightTags map[string]struct{}
	StatusTags map[string]struct{}
}

// NewVocabAccumulator creates an empty accumulator.
func NewVocabAccumulator() *VocabAccumulator {
	return &VocabAccumulator{
		WordFreq:   map[string]int{},
		FirstNames: map[string]struct{}{},
		LastNames:  map[string]struct{}{},
		FlightTags: map[string]struct{}{},
		StatusTags: map[string]struct{}{},
	}
}

// AddSentence counts every token of a tokenized sentence.
func (v *VocabAccumulator) AddSentence(tokens []string) {
	for _, tok := range tokens {
		v.WordFreq[tok]++
	}
}

// Merge folds another shard into this one. Frequencies add, tag sets union.
func (v *VocabAccumulator) Merge(other *VocabAccumulator) {
	for tok, n := range other.WordFreq {
		v.WordFreq[tok] += n
	}
	for t := range other.FirstNames {
		v.FirstNames[t] = struct{}{}
	}
	for t := range other.LastNames {
		v.LastNames[t] = struct{}{}
	}
	for t := range other.FlightTags {
		v.FlightTags[t] = struct{}{}
	}
	for t := range other.StatusTags {
		v.StatusTags[t] = struct{}{}
	}
}

// Vocabulary returns the final token list: special tokens first, then the
// collected tag categories, then corpus words at or above the frequency
// cutoff. Words are ordered by descending frequency with ties broken
// alphabetically so the output is stable.
func (v *VocabAccumulator) Vocabulary(cutoff int, keepNonASCII bool) []string {
	vocab := []string{TokenUnknown, TokenCustomer, TokenAgent, TokenEOD}
	seen := map[string]struct{}{}
	for _, tok := range vocab {
		seen[tok] = struct{}{}
	}
	for _, set := range []map[string]struct{}{v.FirstNames, v.LastNames, v.FlightTags, v.StatusTags} {
		for _, tok := range sortedKeys(set) {
			if _, dup := seen[tok]; dup {
				continue
			}
			seen[tok] = struct{}{}
			vocab = append(vocab, tok)
		}
	}
	words := make([]string, 0, len(v.WordFreq))
	for tok, n := range v.WordFreq {
		if n < cutoff {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		if !keepNonASCII && !isASCII(tok) {
			continue
		}
		words = append(words, tok)
	}
	sort.Slice(words, func(i, j int) bool {
		if v.WordFreq[words[i]] != v.WordFreq[words[j]] {
			return v.WordFreq[words[i]] > v.WordFreq[words[j]]
		}
		return words[i] < words[j]
	})
	return append(vocab, words...)
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func isASCII(s string) bool {
	for _, r := range s {
		if r > unicode.MaxASCII {
			return false
		}
	}
	return true
}

// TokenizeIntent renders an intent as a fixed-width tag sequence. The intent
// is widened back to its sentinel form first so every position is present.
func (v *VocabAccumulator) TokenizeIntent(intent entity.Intent) []string {
	full := intent.Full()
	first, last := splitName(full.Name)
	v.FirstNames[FormatTag("fn", first)] = struct{}{}
	v.LastNames[FormatTag("ln", last)] = struct{}{}
	return []string{
		FormatTag("a1", full.DepartureAirport),
		FormatTag("a2", full.ReturnAirport),
		FormatTag("m1", full.DepartureMonth),
		FormatTag("m2", full.ReturnMonth),
		FormatTag("d1", full.DepartureDay),
		FormatTag("d2", full.ReturnDay),
		FormatTag("t1", full.DepartureTime),
		FormatTag("t2", full.ReturnTime),
		FormatTag("fn", first),
		FormatTag("ln", last),
		FormatTag("cl", full.Class),
		FormatTag("pr", full.MaxPrice),
		FormatTag("cn", *full.MaxConnections),
		FormatTag("al", full.AirlinePreference),
		FormatTag("gl", full.Goal),
	}
}

// TokenizeAction renders an action as name, flight and status tags. An empty
// flight commitment produces the <fl_empty> tag; a tied set joins the numbers
// with underscores inside one tag.
func (v *VocabAccumulator) TokenizeAction(action entity.Action) []string {
	first, last := splitName(action.Name)
	flightTag := FormatTag("fl", "empty")
	if len(action.Flights) > 0 {
		nums := make([]string, len(action.Flights))
		for i, n := range action.Flights {
			nums[i] = strconv.Itoa(n)
		}
		flightTag = FormatTag("fl", strings.Join(nums, "_"))
	}
	statusTag := FormatTag("st", action.Status)
	v.FirstNames[FormatTag("fn", first)] = struct{}{}
	v.LastNames[FormatTag("ln", last)] = struct{}{}
	v.FlightTags[flightTag] = struct{}{}
	v.StatusTags[statusTag] = struct{}{}
	return []string{
		FormatTag("fn", first),
		FormatTag("ln", last),
		flightTag,
		statusTag,
	}
}

// TokenizeKB renders a knowledge base as a reservation tag followed by
// thirteen tags per flight.
func (v *VocabAccumulator) TokenizeKB(kb entity.KnowledgeBase) []string {
	resTag := FormatTag("res", "no_res")
	if kb.HasReservation() {
		resTag = FormatTag("res", "has_res")
	}
	out := []string{resTag}
	for _, f := range kb.Flights {
		flightTag := FormatTag("fl", f.FlightNumber)
		v.FlightTags[flightTag] = struct{}{}
		out = append(out,
			FormatTag("a1", f.DepartureAirport),
			FormatTag("a2", f.ReturnAirport),
			FormatTag("m1", f.DepartureMonth),
			FormatTag("m2", f.ReturnMonth),
			FormatTag("d1", f.DepartureDay),
			FormatTag("d2", f.ReturnDay),
			FormatTag("tn1", f.DepartureTimeNum),
			FormatTag("tn2", f.ReturnTimeNum),
			FormatTag("cl", f.Class),
			FormatTag("pr", f.Price),
			FormatTag("cn", f.NumConnections),
			FormatTag("al", f.Airline),
			flightTag,
		)
	}
	return out
}

func splitName(name string) (first, last string) {
	parts := strings.Fields(strings.ReplaceAll(name, "_", " "))
	if len(parts) > 0 {
		first = parts[0]
	}
	if len(parts) > 1 {
		last = parts[len(parts)-1]
	}
	return first, last
}

// StandardizeDialogue merges adjacent turns of the same speaker and makes
// sure each merged turn ends with a sentence terminator.
func StandardizeDialogue(dialogue entity.Dialogue) entity.Dialogue {
	var out entity.Dialogue
	var speaker, content string
	flush := func() {
		if speaker == "" {
			return
		}
		content = strings.TrimSpace(content)
		if content != "" && !strings.ContainsRune(".!?", rune(content[len(content)-1])) {
			content += "."
		}
		out = append(out, speaker+": "+content)
	}
	for _, turn := range dialogue {
		s, c := entity.SplitTurn(turn)
		if s == speaker {
			content += " " + c
			continue
		}
		flush()
		speaker, content = s, c
	}
	flush()
	return out
}

// ProcessDialogue flattens a dialogue into one token stream. Every turn
// starts with its speaker token, the last turn additionally ends with <eod>
// followed by the speaker token of whoever would talk next.
func ProcessDialogue(dialogue entity.Dialogue, tok Tokenizer, acc *VocabAccumulator) []string {
	var flat []string
	lastSpeaker := ""
	for _, turn := range StandardizeDialogue(dialogue) {
		speaker, content := entity.SplitTurn(turn)
		start := TokenCustomer
		if speaker == "agent" {
			start = TokenAgent
		}
		flat = append(flat, start)
		words := tok.Tokenize(content)
		if acc != nil {
			acc.AddSentence(words)
		}
		flat = append(flat, words...)
		lastSpeaker = speaker
	}
	if len(flat) > 0 {
		next := TokenCustomer
		if lastSpeaker == "customer" {
			next = TokenAgent
		}
		flat = append(flat, TokenEOD, next)
	}
	return flat
}

// DialogueBoundaries locates the turns a speaker token opens within a
// flattened dialogue. Each occurrence of startToken before the final position
// contributes its own index and the index of the next speaker token of either
// role; the result lists all starts followed by all ends.
func DialogueBoundaries(startToken string, flat []string) []int {
	var starts, ends []int
	for i := 0; i < len(flat)-1; i++ {
		if flat[i] != startToken {
			continue
		}
		for j := i + 1; j < len(flat); j++ {
			if flat[j] == TokenCustomer || flat[j] == TokenAgent {
				starts = append(starts, i)
				ends = append(ends, j)
				break
			}
		}
	}
	return append(starts, ends...)
}

// FormatPipeLine renders one preprocessed sample as the pipe-delimited line
// format: intent|action|dialogue|boundaries.
func FormatPipeLine(intent, action, dialogue []string, boundaries []int) string {
	nums := make([]string, len(boundaries))
	for i, b := range boundaries {
		nums[i] = strconv.Itoa(b)
	}
	return strings.Join([]string{
		strings.Join(intent, " "),
		strings.Join(action, " "),
		strings.Join(dialogue, " "),
		strings.Join(nums, " "),
	}, "|")
}
