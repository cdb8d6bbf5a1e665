package bot

import "testing"

func TestIntentsBeginTake(t *testing.T) {
	in := NewIntents()

	if _, ok := in.Take(1); ok {
		t.Fatal("Take on empty store reported a pending intent")
	}

	in.Begin(1, "EM-A")
	num, ok := in.Take(1)
	if !ok || num != "EM-A" {
		t.Fatalf("Take = %q, %v; want EM-A, true", num, ok)
	}
	if _, ok := in.Take(1); ok {
		t.Fatal("intent survived being taken")
	}
}

func TestIntentsBeginOverwrites(t *testing.T) {
	in := NewIntents()
	in.Begin(7, "EM-OLD")
	in.Begin(7, "EM-NEW")

	num, ok := in.Take(7)
	if !ok || num != "EM-NEW" {
		t.Fatalf("Take = %q, %v; want EM-NEW, true", num, ok)
	}
}

func TestIntentsPerChatIsolation(t *testing.T) {
	in := NewIntents()
	in.Begin(1, "EM-A")
	in.Begin(2, "EM-B")

	if num, _ := in.Take(2); num != "EM-B" {
		t.Fatalf("chat 2 intent = %q, want EM-B", num)
	}
	if num, _ := in.Peek(1); num != "EM-A" {
		t.Fatalf("chat 1 intent = %q, want EM-A", num)
	}
}

func TestIntentsCancel(t *testing.T) {
	in := NewIntents()

	if _, ok := in.Cancel(5); ok {
		t.Fatal("Cancel with nothing pending reported an intent")
	}

	in.Begin(5, "EM-X")
	num, ok := in.Cancel(5)
	if !ok || num != "EM-X" {
		t.Fatalf("Cancel = %q, %v; want EM-X, true", num, ok)
	}
	if _, ok := in.Peek(5); ok {
		t.Fatal("intent survived cancel")
	}
}
