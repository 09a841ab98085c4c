package permission

import "testing"

func TestSet_Has(t *testing.T) {
	s := NewSet([]string{"view-dashboard", "edit-patent"})
	if !s.Has(ViewDashboard) {
		t.Fatal("expected view-dashboard to be granted")
	}
	if !s.Has(EditPatent) {
		t.Fatal("expected edit-patent to be granted")
	}
	if s.Has(DeletePatent) {
		t.Fatal("delete-patent must not be granted")
	}
}

func TestSet_EmptyGrantsNothing(t *testing.T) {
	var s Set
	for _, k := range AllKeys() {
		if s.Has(k) {
			t.Fatalf("empty set granted %s", k)
		}
	}
}

func TestSet_UnknownKeyNeverMatchesGate(t *testing.T) {
	s := NewSet([]string{"future-capability"})
	for _, k := range AllKeys() {
		if s.Has(k) {
			t.Fatalf("unknown key matched gate %s", k)
		}
	}
}

func TestSet_KeysSorted(t *testing.T) {
	s := NewSet([]string{"view-logs", "ai-chat", "edit-patent"})
	keys := s.Keys()
	want := []string{"ai-chat", "edit-patent", "view-logs"}
	if len(keys) != len(want) {
		t.Fatalf("expected %d keys, got %d", len(want), len(keys))
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, keys)
		}
	}
}

func TestIsValid(t *testing.T) {
	if !IsValid(ManageAccess) {
		t.Fatal("manage-access should be valid")
	}
	if IsValid(Key("made-up")) {
		t.Fatal("made-up should not be valid")
	}
}
