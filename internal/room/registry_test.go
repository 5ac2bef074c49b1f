package room

import (
	"testing"
)

func TestCreateGeneratesUniqueCodes(t *testing.T) {
	g := NewRegistry()
	seen := make(map[string]bool, 1000)
	for i := 0; i < 1000; i++ {
		r := g.Create("host", "Host")
		if !ValidCode(r.Code) {
			t.Fatalf("bad code shape: %q", r.Code)
		}
		if seen[r.Code] {
			t.Fatalf("duplicate code %q after %d rooms", r.Code, i)
		}
		seen[r.Code] = true
	}
	if g.Len() != 1000 {
		t.Fatalf("expected 1000 live rooms, got %d", g.Len())
	}
}

func TestCreateWithCode(t *testing.T) {
	g := NewRegistry()
	r, err := g.CreateWithCode("ABC123", "p1", "Ana")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if r.Code != "ABC123" || r.Phase != PhaseWaiting {
		t.Fatalf("unexpected room: %+v", r)
	}
	if _, err := g.CreateWithCode("ABC123", "p2", "Bo"); err != ErrCodeTaken {
		t.Fatalf("expected ErrCodeTaken, got %v", err)
	}
}

func TestAddSeatsAndFull(t *testing.T) {
	g := NewRegistry()
	r, _ := g.CreateWithCode("ABC123", "p1", "Ana")

	if _, _, err := g.Add("NOPE00", "p2", "Bo"); err != ErrRoomNotFound {
		t.Fatalf("expected ErrRoomNotFound, got %v", err)
	}

	got, rejoined, err := g.Add("ABC123", "p2", "Bo")
	if err != nil || rejoined {
		t.Fatalf("join failed: rejoined=%v err=%v", rejoined, err)
	}
	if len(got.Players) != 2 || got.Players[1].Name != "Bo" {
		t.Fatalf("unexpected seats: %+v", got.PlayersSnapshot())
	}

	if _, _, err := g.Add("ABC123", "p3", "Casey"); err != ErrRoomFull {
		t.Fatalf("expected ErrRoomFull, got %v", err)
	}

	// Same connection id re-joins in place, updating the name only.
	got, rejoined, err = g.Add("ABC123", "p2", "Bobby")
	if err != nil || !rejoined {
		t.Fatalf("rejoin failed: rejoined=%v err=%v", rejoined, err)
	}
	if len(got.Players) != 2 || got.Players[1].Name != "Bobby" {
		t.Fatalf("rejoin duplicated a seat: %+v", got.PlayersSnapshot())
	}
	if r.Players[1].Score != 0 {
		t.Fatalf("rejoin touched the score: %d", r.Players[1].Score)
	}
}

func TestRemoveAndRoomDeletion(t *testing.T) {
	g := NewRegistry()
	_, _ = g.CreateWithCode("ABC123", "p1", "Ana")
	_, _, _ = g.Add("ABC123", "p2", "Bo")

	r, removed, deleted, found := g.Remove("p1")
	if !found || deleted {
		t.Fatalf("first removal: found=%v deleted=%v", found, deleted)
	}
	if removed.ID != "p1" || len(r.Players) != 1 || r.Players[0].ID != "p2" {
		t.Fatalf("unexpected state after removal: %+v", r.PlayersSnapshot())
	}

	_, removed, deleted, found = g.Remove("p2")
	if !found || !deleted || removed.ID != "p2" {
		t.Fatalf("last removal should delete the room: found=%v deleted=%v", found, deleted)
	}
	if _, ok := g.Get("ABC123"); ok {
		t.Fatal("room still resolvable after deletion")
	}
	if g.Len() != 0 {
		t.Fatalf("expected empty registry, got %d", g.Len())
	}

	if _, _, _, found := g.Remove("ghost"); found {
		t.Fatal("removing an unseated connection reported found")
	}
}

func TestRemoveDropsReadyState(t *testing.T) {
	g := NewRegistry()
	r, _ := g.CreateWithCode("ABC123", "p1", "Ana")
	_, _, _ = g.Add("ABC123", "p2", "Bo")
	r.Ready["p1"] = struct{}{}

	g.Remove("p1")
	if _, ok := r.Ready["p1"]; ok {
		t.Fatal("ready flag survived removal")
	}
}

func TestFindByPlayer(t *testing.T) {
	g := NewRegistry()
	_, _ = g.CreateWithCode("ABC123", "p1", "Ana")
	if r, ok := g.FindByPlayer("p1"); !ok || r.Code != "ABC123" {
		t.Fatalf("expected ABC123, got %v ok=%v", r, ok)
	}
	if _, ok := g.FindByPlayer("nobody"); ok {
		t.Fatal("found a room for an unknown connection")
	}
}

func TestResetMatchKeepsScores(t *testing.T) {
	g := NewRegistry()
	r, _ := g.CreateWithCode("ABC123", "p1", "Ana")
	_, _, _ = g.Add("ABC123", "p2", "Bo")
	r.Phase = PhaseFinished
	r.WinnerID = "p1"
	r.Players[0].Score = 3
	r.Marked.Mark(7)
	r.Ready["p2"] = struct{}{}
	r.Turn = "p2"

	r.ResetMatch()
	if r.Phase != PhaseReady {
		t.Fatalf("two seated players should land on the ready barrier, got %s", r.Phase)
	}
	if r.WinnerID != "" || r.Turn != "" || r.Marked.Len() != 0 || len(r.Ready) != 0 {
		t.Fatalf("match state not cleared: %+v", r)
	}
	if r.Players[0].Score != 3 {
		t.Fatalf("score must survive a rematch, got %d", r.Players[0].Score)
	}
}

func TestValidCode(t *testing.T) {
	good := []string{"ABC123", "ZZZZZZ", "000000"}
	bad := []string{"", "abc123", "ABC12", "ABC1234", "ABC12!", "ABC 12"}
	for _, s := range good {
		if !ValidCode(s) {
			t.Fatalf("%q should be valid", s)
		}
	}
	for _, s := range bad {
		if ValidCode(s) {
			t.Fatalf("%q should be invalid", s)
		}
	}
	if NormalizeCode(" abc123 ") != "ABC123" {
		t.Fatal("NormalizeCode mismatch")
	}
}
