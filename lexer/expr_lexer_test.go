package lexer

import "testing"

func kinds(words []Word) []WordKind {
	out := make([]WordKind, len(words))
	for i, w := range words {
		out[i] = w.Kind
	}
	return out
}

func TestSplitWordsOperators(t *testing.T) {
	words, err := SplitWords("1 == 2 <> 3 <= 4 >= 5 < 6 > 7")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []WordKind{Number, Equal, Number, NotEqual, Number, LessEq, Number,
		GreaterEq, Number, Less, Number, Greater, Number}
	got := kinds(words)
	if len(got) != len(want) {
		t.Fatalf("got %d words, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("word[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestSplitWordsKeywords(t *testing.T) {
	words, err := SplitWords("true false and or xor in foo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []WordKind{TrueLiteral, FalseLiteral, And, Or, Xor, In, Identifier}
	got := kinds(words)
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("word[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestSplitWordsStringLiteral(t *testing.T) {
	words, err := SplitWords(`"hello \"world\""`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(words) != 1 || words[0].Kind != StringLiteral {
		t.Fatalf("got %v", words)
	}
	if got, want := words[0].Text.Go(), `"hello \"world\""`; got != want {
		t.Errorf("raw text = %q, want %q", got, want)
	}
}

func TestSplitWordsUnclosedStringError(t *testing.T) {
	_, err := SplitWords(`"unterminated`)
	lexErr, ok := err.(*Error)
	if !ok || lexErr.Kind != UnclosedStringLiteral {
		t.Fatalf("got %v, want UnclosedStringLiteral", err)
	}
}

func TestSplitWordsNumberWithUnderscoreAndDot(t *testing.T) {
	words, err := SplitWords("1_000.5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(words) != 1 || words[0].Kind != Number {
		t.Fatalf("got %v", words)
	}
	if got, want := words[0].Text.Go(), "1_000.5"; got != want {
		t.Errorf("number text = %q, want %q", got, want)
	}
}

func TestSplitWordsConsecutiveUnderscoreError(t *testing.T) {
	_, err := SplitWords("1__000")
	lexErr, ok := err.(*Error)
	if !ok || lexErr.Kind != ConsecutiveUnderscore {
		t.Fatalf("got %v, want ConsecutiveUnderscoreError", err)
	}
}

func TestSplitWordsSecondDotEndsNumber(t *testing.T) {
	words, err := SplitWords("1.2.3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(words) != 3 {
		t.Fatalf("got %d words, want 3 (Number, Period, Number): %v", len(words), words)
	}
	if words[0].Text.Go() != "1.2" || words[1].Kind != Period || words[2].Text.Go() != "3" {
		t.Fatalf("unexpected split: %+v", words)
	}
}

func TestSplitWordsNegativeNumberSign(t *testing.T) {
	words, err := SplitWords("-5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(words) != 1 || words[0].Kind != Number || words[0].Text.Go() != "-5" {
		t.Fatalf("got %v", words)
	}
}

func TestSplitWordsIdentifierStopsAtSplitter(t *testing.T) {
	words, err := SplitWords("foo.bar")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []WordKind{Identifier, Period, Identifier}
	got := kinds(words)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("word[%d] = %v, want %v (full: %v)", i, got[i], want[i], got)
		}
	}
}
