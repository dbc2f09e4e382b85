package goserde

import (
	"errors"
	"strings"
	"testing"

	"github.com/reoring/goserde/i18n"
)

func TestIssues_ErrorSummary(t *testing.T) {
	iss := Issues{
		{Path: "/a", Code: CodeInvalidType, Offset: -1},
		{Path: "/b", Code: CodeUnknownKey, Hint: "b", Offset: 12},
		{Path: "/c", Code: CodeMissingField, Offset: -1},
		{Path: "/d", Code: CodeOverflow, Offset: -1},
	}
	s := iss.Error()
	if !strings.Contains(s, "unknown_key at /b (b) [offset 12]") || !strings.Contains(s, "(total 4)") {
		t.Fatalf("unexpected summary: %s", s)
	}
}

func TestFailAndHasCode(t *testing.T) {
	err := FailAt(CodeUnknownKey, "/x", 3, "x")
	if !HasCode(err, CodeUnknownKey) || HasCode(err, CodeParseError) {
		t.Fatalf("HasCode broken")
	}
	iss, ok := AsIssues(err)
	if !ok || iss[0].Message != "unknown key" || iss[0].Offset != 3 {
		t.Fatalf("unexpected issue: %+v", iss)
	}
	if _, ok := AsIssues(errors.New("plain")); ok {
		t.Fatalf("plain errors are not Issues")
	}
	if Failf(CodeOverflow, "%d", 7).(Issues)[0].Hint != "7" {
		t.Fatalf("Failf hint broken")
	}
}

func TestWithCause_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := WithCause(Fail(CodeInvalidFormat, "x"), cause)
	if !errors.Is(err, cause) {
		t.Fatalf("cause should be reachable through errors.Is")
	}
	plain := errors.New("plain")
	if WithCause(plain, cause) != plain {
		t.Fatalf("non-Issues errors pass through")
	}
}

func TestMessagesFollowLanguage(t *testing.T) {
	i18n.SetLanguage("ja")
	defer i18n.SetLanguage("en")
	iss, _ := AsIssues(Fail(CodeMissingField, "name"))
	if iss[0].Message != "必須フィールドが不足しています" {
		t.Fatalf("message = %s", iss[0].Message)
	}
}

func TestAppendIssues(t *testing.T) {
	var dst Issues
	dst = AppendIssues(dst, Issue{Code: CodeParseError})
	if len(dst) != 1 {
		t.Fatalf("len = %d", len(dst))
	}
}
