package matcher

import "testing"

func TestRegexMatcher_Multiline(t *testing.T) {
	m, err := NewRegexMatcher(`foo.*bar`, false, false, true)
	if err != nil {
		t.Fatalf("NewRegexMatcher() error: %v", err)
	}
	m.needLineNums = true

	ms := m.FindAll([]byte("start\nfoo\nbar\nend\n"))
	if len(ms.Matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(ms.Matches))
	}
	match := ms.Matches[0]
	if match.LineNum != 2 {
		t.Errorf("LineNum = %d, want 2", match.LineNum)
	}
	snippet := ms.Data[match.LineStart : match.LineStart+match.LineLen]
	if string(snippet) != "foo\nbar" {
		t.Errorf("snippet = %q, want %q", snippet, "foo\nbar")
	}
}

func TestRegexMatcher_MultilineNotClippedToOneLine(t *testing.T) {
	m, err := NewRegexMatcher(`a.b`, false, false, false)
	if err != nil {
		t.Fatal(err)
	}
	ms := m.FindAll([]byte("a\nb\n"))
	if len(ms.Matches) != 0 {
		t.Fatalf("non-multiline mode should not cross newline, got %d matches", len(ms.Matches))
	}

	mm, err := NewRegexMatcher(`a.b`, false, false, true)
	if err != nil {
		t.Fatal(err)
	}
	ms = mm.FindAll([]byte("a\nb\n"))
	if len(ms.Matches) != 1 {
		t.Fatalf("multiline mode should cross newline, got %d matches", len(ms.Matches))
	}
}

func TestPCREMatcher_Multiline(t *testing.T) {
	skipIfRace(t)
	m, err := NewPCREMatcher(`foo.*bar`, false, false, true)
	if err != nil {
		t.Fatalf("NewPCREMatcher() error: %v", err)
	}
	defer m.Close()

	ms := m.FindAll([]byte("start\nfoo\nbar\nend\n"))
	if ms.Len() != 1 {
		t.Fatalf("got %d matches, want 1", ms.Len())
	}
}

func TestNewMatcher_MultilineFixed(t *testing.T) {
	m, err := NewMatcher([]string{"foo\nbar"}, true, false, false, false, true, MatcherOpts{NeedLineNums: true})
	if err != nil {
		t.Fatal(err)
	}
	ms := m.FindAll([]byte("start\nfoo\nbar\nend\n"))
	if ms.Len() != 1 {
		t.Errorf("got %d matches, want 1", ms.Len())
	}
}

func TestNewMatcher_MultilineMultiFixed(t *testing.T) {
	m, err := NewMatcher([]string{"foo\nbar", "baz\nqux"}, true, false, false, false, true, MatcherOpts{NeedLineNums: true})
	if err != nil {
		t.Fatal(err)
	}
	ms := m.FindAll([]byte("foo\nbar\nbaz\nqux\n"))
	if ms.Len() != 2 {
		t.Errorf("got %d matches, want 2", ms.Len())
	}
}
