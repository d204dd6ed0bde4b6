package usecase

import (
	"reflect"
	"strings"
	"testing"

	"airtalk-service/internal/domain/entity"
)

func TestSimpleTokenizerPeelsPunctuation(t *testing.T) {
	tok := SimpleTokenizer{}
	got := tok.Tokenize("Hello, how are you?")
	want := []string{"Hello", ",", "how", "are", "you", "?"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("tokens = %v", got)
	}
}

func TestSimpleTokenizerKeepsBracketTags(t *testing.T) {
	tok := SimpleTokenizer{}
	got := tok.Tokenize("<t1> flight <fl_1000>.")
	want := []string{"<t1>", "flight", "<fl_1000>", "."}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("tokens = %v", got)
	}
}

func TestTokenizeIntentFixedWidth(t *testing.T) {
	acc := NewVocabAccumulator()
	toks := acc.TokenizeIntent(bookIntent().Standardize())
	if len(toks) != 15 {
		t.Fatalf("intent token count = %d: %v", len(toks), toks)
	}
	if toks[0] != "<a1_DTW>" || toks[1] != "<a2_MSP>" {
		t.Fatalf("airport tags = %v", toks[:2])
	}
	if toks[6] != "<t1_all>" {
		t.Fatalf("unconstrained time tag = %q", toks[6])
	}
	if toks[14] != "<gl_book>" {
		t.Fatalf("goal tag = %q", toks[14])
	}
}

func TestTokenizeActionEmptyFlights(t *testing.T) {
	acc := NewVocabAccumulator()
	toks := acc.TokenizeAction(entity.Action{Status: entity.StatusNoFlight, Name: "Mary Johnson"})
	want := []string{"<fn_Mary>", "<ln_Johnson>", "<fl_empty>", "<st_no_flight>"}
	if !reflect.DeepEqual(toks, want) {
		t.Fatalf("tokens = %v", toks)
	}
}

func TestTokenizeActionTiedFlights(t *testing.T) {
	acc := NewVocabAccumulator()
	toks := acc.TokenizeAction(entity.Action{
		Status: entity.StatusBook, Flights: []int{1000, 1003}, Name: "Mary Johnson",
	})
	if toks[2] != "<fl_1000_1003>" {
		t.Fatalf("flight tag = %q", toks[2])
	}
	if _, ok := acc.FlightTags["<fl_1000_1003>"]; !ok {
		t.Fatalf("flight tag not collected")
	}
}

func TestTokenizeKBShape(t *testing.T) {
	acc := NewVocabAccumulator()
	kb := kbWithPrices(400, 700)
	toks := acc.TokenizeKB(kb)
	if len(toks) != 1+13*2 {
		t.Fatalf("kb token count = %d", len(toks))
	}
	if toks[0] != "<res_no_res>" {
		t.Fatalf("reservation tag = %q", toks[0])
	}
	kb.Reservation = 1000
	if toks := acc.TokenizeKB(kb); toks[0] != "<res_has_res>" {
		t.Fatalf("reservation tag = %q", toks[0])
	}
}

func TestStandardizeDialogueMergesAdjacentTurns(t *testing.T) {
	d := entity.Dialogue{
		entity.CustomerTurn("Hello."),
		entity.CustomerTurn("I need a flight"),
		entity.AgentTurn("Sure."),
	}
	got := StandardizeDialogue(d)
	want := entity.Dialogue{
		"customer: Hello. I need a flight.",
		"agent: Sure.",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("dialogue = %v", got)
	}
}

func TestProcessDialogueSpeakerTokensAndEOD(t *testing.T) {
	d := entity.Dialogue{
		entity.CustomerTurn("Hello."),
		entity.AgentTurn("Hi."),
	}
	acc := NewVocabAccumulator()
	flat := ProcessDialogue(d, SimpleTokenizer{}, acc)
	want := []string{TokenCustomer, "Hello", ".", TokenAgent, "Hi", ".", TokenEOD, TokenCustomer}
	if !reflect.DeepEqual(flat, want) {
		t.Fatalf("flat = %v", flat)
	}
	if acc.WordFreq["Hello"] != 1 {
		t.Fatalf("word frequency not counted")
	}
}

func TestDialogueBoundaries(t *testing.T) {
	flat := []string{TokenCustomer, "a", TokenAgent, "b", "c", TokenCustomer, "d", TokenEOD, TokenAgent}
	// agent turn at 2 runs until the customer token at 5; the trailing agent
	// token carries no turn of its own
	if got := DialogueBoundaries(TokenAgent, flat); !reflect.DeepEqual(got, []int{2, 5}) {
		t.Fatalf("agent boundaries = %v", got)
	}
	if got := DialogueBoundaries(TokenCustomer, flat); !reflect.DeepEqual(got, []int{0, 5, 2, 8}) {
		t.Fatalf("customer boundaries = %v", got)
	}
}

func TestVocabularyOrderingAndCutoff(t *testing.T) {
	acc := NewVocabAccumulator()
	acc.AddSentence([]string{"common", "common", "common", "rare", "mid", "mid"})
	acc.FirstNames["<fn_Mary>"] = struct{}{}
	acc.StatusTags["<st_book>"] = struct{}{}

	vocab := acc.Vocabulary(2, false)
	if !reflect.DeepEqual(vocab[:4], []string{TokenUnknown, TokenCustomer, TokenAgent, TokenEOD}) {
		t.Fatalf("special tokens not first: %v", vocab[:4])
	}
	joined := strings.Join(vocab, " ")
	if !strings.Contains(joined, "<fn_Mary>") || !strings.Contains(joined, "<st_book>") {
		t.Fatalf("tag categories missing: %v", vocab)
	}
	if strings.Contains(joined, "rare") {
		t.Fatalf("token below cutoff survived: %v", vocab)
	}
	// frequency order among surviving words
	if idxOf(vocab, "common") > idxOf(vocab, "mid") {
		t.Fatalf("words not ordered by frequency: %v", vocab)
	}
}

func idxOf(tokens []string, tok string) int {
	for i, t := range tokens {
		if t == tok {
			return i
		}
	}
	return -1
}

func TestVocabAccumulatorMerge(t *testing.T) {
	a := NewVocabAccumulator()
	a.AddSentence([]string{"x", "y"})
	a.FirstNames["<fn_Mary>"] = struct{}{}
	b := NewVocabAccumulator()
	b.AddSentence([]string{"y", "z"})
	b.LastNames["<ln_Johnson>"] = struct{}{}

	a.Merge(b)
	if a.WordFreq["y"] != 2 || a.WordFreq["x"] != 1 || a.WordFreq["z"] != 1 {
		t.Fatalf("merged frequencies = %v", a.WordFreq)
	}
	if _, ok := a.LastNames["<ln_Johnson>"]; !ok {
		t.Fatalf("tag sets not unioned")
	}
}

func TestFormatPipeLine(t *testing.T) {
	line := FormatPipeLine(
		[]string{"<a1_DTW>"},
		[]string{"<st_book>"},
		[]string{TokenCustomer, "hi"},
		[]int{0},
	)
	if line != "<a1_DTW>|<st_book>|<t1> hi|0" {
		t.Fatalf("line = %q", line)
	}
	if strings.Count(line, "|") != 3 {
		t.Fatalf("field count wrong: %q", line)
	}
}
