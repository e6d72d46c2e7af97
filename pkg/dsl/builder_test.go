package dsl

import (
	"context"
	"strings"
	"testing"

	"github.com/AndreyBuyanov/ExpertSystem"
	"github.com/AndreyBuyanov/ExpertSystem/pkg/domain"
)

func TestBuilder_SimpleFlow(t *testing.T) {
	b := New("Fever")

	b.Question(1, "Do you have a temperature?").
		Yes(2).
		No(3)

	b.Question(2, "How high is it?").
		Range(37, 38, 4).
		When(domain.AtLeast(39), 5)

	b.Answer(3, "You're healthy.").
		Answer(4, "Rest.").
		Answer(5, "Call a doctor.")

	loader, err := b.Build("fever")
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	eng, err := expertsystem.Open(context.Background(), "fever", expertsystem.WithLoader(loader), expertsystem.WithStrict(true))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if eng.Name() != "Fever" {
		t.Errorf("expected name Fever, got %q", eng.Name())
	}

	steps := []struct {
		answer int
		ok     bool
		want   string
	}{
		{answer: 1, ok: true, want: "How high is it?"},
		{answer: 36, ok: false, want: "How high is it?"},
		{answer: 40, ok: true, want: "Call a doctor."},
	}
	if got := eng.CurrentData(); got != "Do you have a temperature?" {
		t.Fatalf("expected root question, got %q", got)
	}
	for _, s := range steps {
		if ok := eng.SetAnswer(s.answer); ok != s.ok {
			t.Fatalf("SetAnswer(%d) = %v, want %v", s.answer, ok, s.ok)
		}
		if got := eng.CurrentData(); got != s.want {
			t.Fatalf("after %d expected %q, got %q", s.answer, s.want, got)
		}
	}
	if !eng.IsFinished() {
		t.Error("expected consultation to be finished")
	}
}

func TestBuilder_Definition(t *testing.T) {
	b := New("Choice")
	q := b.Question(1, "Pick a number")
	q.AnyOf(2, 1, 3, 5).Is(2, 3)
	q.Builder().Answer(2, "odd").Answer(3, "two")

	def, err := b.Definition()
	if err != nil {
		t.Fatalf("Definition() failed: %v", err)
	}
	if len(def.Questions) != 1 || len(def.Answers) != 2 || len(def.Connections) != 2 {
		t.Fatalf("unexpected shape: %+v", def)
	}
	if !def.Connections[0].Predicate.Accept(5) || def.Connections[0].Predicate.Accept(2) {
		t.Error("AnyOf edge should accept 5 and reject 2")
	}
	if def.Connections[1].Target != 3 {
		t.Errorf("expected second edge to target 3, got %d", def.Connections[1].Target)
	}

	def.Answers[0].Data = "changed"
	again, _ := b.Definition()
	if again.Answers[0].Data != "odd" {
		t.Error("Definition() should return a copy")
	}
}

func TestBuilder_DuplicateIDs(t *testing.T) {
	b := New("Broken")
	b.Question(1, "first").Yes(2)
	b.Answer(2, "answer")
	b.Answer(1, "clash")

	_, err := b.Build("broken")
	if err == nil {
		t.Fatal("expected error for duplicate id")
	}
	if !strings.Contains(err.Error(), "node 1 declared twice") {
		t.Errorf("unexpected error: %v", err)
	}
}
