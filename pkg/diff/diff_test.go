package diff

import (
	"testing"

	"github.com/navstack-dev/navstack/pkg/route"
)

type testRoute struct {
	route.Base
	name string
}

func (r *testRoute) RouteName() string   { return r.name }
func (r *testRoute) IdentityArgs() []any { return nil }

func seq(names ...string) []route.Entry {
	out := make([]route.Entry, len(names))
	for i, n := range names {
		out[i] = &testRoute{name: n}
	}
	return out
}

// describe renders a script compactly, e.g. "=a -b +c".
func describe(script []Op) string {
	var out string
	for i, op := range script {
		if i > 0 {
			out += " "
		}
		switch op.Kind {
		case Keep:
			out += "=" + op.Entry.RouteName()
		case Delete:
			out += "-" + op.Entry.RouteName()
		case Insert:
			out += "+" + op.Entry.RouteName()
		}
	}
	return out
}

func TestScriptBothEmpty(t *testing.T) {
	if got := Script(nil, nil); len(got) != 0 {
		t.Errorf("Script(nil, nil) = %v, want empty", got)
	}
}

func TestScriptIdentical(t *testing.T) {
	s := seq("a", "b", "c")

	script := Script(s, s)

	if got := describe(script); got != "=a =b =c" {
		t.Fatalf("script = %q, want \"=a =b =c\"", got)
	}
	for i, op := range script {
		if op.OldIndex != i || op.NewIndex != i {
			t.Errorf("op %d indices = (%d, %d), want (%d, %d)",
				i, op.OldIndex, op.NewIndex, i, i)
		}
	}
}

func TestScriptAllInserts(t *testing.T) {
	script := Script(nil, seq("a", "b"))

	if got := describe(script); got != "+a +b" {
		t.Errorf("script = %q, want \"+a +b\"", got)
	}
	if script[0].NewIndex != 0 || script[1].NewIndex != 1 {
		t.Errorf("insert indices = (%d, %d), want (0, 1)",
			script[0].NewIndex, script[1].NewIndex)
	}
}

func TestScriptAllDeletes(t *testing.T) {
	script := Script(seq("a", "b"), nil)

	if got := describe(script); got != "-a -b" {
		t.Errorf("script = %q, want \"-a -b\"", got)
	}
}

func TestScriptMidSequenceReplace(t *testing.T) {
	script := Script(seq("a", "b"), seq("a", "c"))

	// One changed element is one delete plus one insert, never a rebuild.
	if got := describe(script); got != "=a -b +c" {
		t.Errorf("script = %q, want \"=a -b +c\"", got)
	}
}

func TestScriptAppend(t *testing.T) {
	script := Script(seq("a"), seq("a", "b", "c"))

	if got := describe(script); got != "=a +b +c" {
		t.Errorf("script = %q, want \"=a +b +c\"", got)
	}
}

func TestScriptPopTail(t *testing.T) {
	script := Script(seq("a", "b", "c"), seq("a"))

	if got := describe(script); got != "=a -b -c" {
		t.Errorf("script = %q, want \"=a -b -c\"", got)
	}
}

func TestScriptInterleaved(t *testing.T) {
	script := Script(seq("a", "b", "c", "a", "b", "b", "a"), seq("c", "b", "a", "b", "a", "c"))

	keeps, inserts, deletes := 0, 0, 0
	for _, op := range script {
		switch op.Kind {
		case Keep:
			keeps++
		case Insert:
			inserts++
		case Delete:
			deletes++
		}
	}

	// The classic Myers example: edit distance 5 over these sequences.
	if inserts+deletes != 5 {
		t.Errorf("edit distance = %d, want 5 (script %q)", inserts+deletes, describe(script))
	}
	if keeps+deletes != 7 {
		t.Errorf("keeps+deletes = %d, want len(prev) = 7", keeps+deletes)
	}
	if keeps+inserts != 6 {
		t.Errorf("keeps+inserts = %d, want len(next) = 6", keeps+inserts)
	}
}

func TestScriptDeterministic(t *testing.T) {
	prev := seq("a", "b", "c", "d", "e")
	next := seq("b", "x", "d", "e", "y")

	first := describe(Script(prev, next))
	for i := 0; i < 10; i++ {
		if got := describe(Script(prev, next)); got != first {
			t.Fatalf("run %d produced %q, first run produced %q", i, got, first)
		}
	}
}

func TestScriptDoesNotMutateInputs(t *testing.T) {
	prev := seq("a", "b")
	next := seq("b", "c")
	prevCopy := append([]route.Entry(nil), prev...)
	nextCopy := append([]route.Entry(nil), next...)

	Script(prev, next)

	for i := range prev {
		if prev[i] != prevCopy[i] {
			t.Fatalf("prev mutated at %d", i)
		}
	}
	for i := range next {
		if next[i] != nextCopy[i] {
			t.Fatalf("next mutated at %d", i)
		}
	}
}

func TestScriptReplaysToTarget(t *testing.T) {
	cases := [][2][]string{
		{{"a", "b", "c"}, {"c", "b", "a"}},
		{{"a"}, {"b"}},
		{{"a", "b", "c", "d"}, {"a", "c", "d", "e"}},
		{{}, {"x"}},
		{{"x"}, {}},
	}

	for _, tc := range cases {
		prev := seq(tc[0]...)
		next := seq(tc[1]...)
		script := Script(prev, next)

		var rebuilt []string
		for _, op := range script {
			switch op.Kind {
			case Keep:
				rebuilt = append(rebuilt, prev[op.OldIndex].RouteName())
			case Insert:
				rebuilt = append(rebuilt, op.Entry.RouteName())
			}
		}

		if len(rebuilt) != len(tc[1]) {
			t.Errorf("%v -> %v: rebuilt %v", tc[0], tc[1], rebuilt)
			continue
		}
		for i := range rebuilt {
			if rebuilt[i] != tc[1][i] {
				t.Errorf("%v -> %v: rebuilt %v", tc[0], tc[1], rebuilt)
				break
			}
		}
	}
}
