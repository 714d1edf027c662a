package world

import (
	"reflect"
	"testing"

	"gopkg.in/yaml.v3"
)

// makeLine builds A - B - C connected west to east
func makeLine(t *testing.T) *Level {
	t.Helper()
	l := NewLevel(1, "test")
	l.Connect("A", East, "B")
	l.Connect("B", East, "C")
	return l
}

func TestNextStepToward_LineGraph(t *testing.T) {
	l := makeLine(t)
	got, ok := l.NextStepToward("A", "C")
	if !ok || got != "B" {
		t.Errorf("NextStepToward(A, C) = %q, %v, want B, true", got, ok)
	}
	got, ok = l.NextStepToward("B", "C")
	if !ok || got != "C" {
		t.Errorf("NextStepToward(B, C) = %q, %v, want C, true", got, ok)
	}
}

func TestNextStepToward_SameRoom(t *testing.T) {
	l := makeLine(t)
	if got, ok := l.NextStepToward("A", "A"); ok {
		t.Errorf("NextStepToward(A, A) = %q, true, want false", got)
	}
}

func TestNextStepToward_SkipsLockedAndComplexExits(t *testing.T) {
	l := NewLevel(1, "test")
	out, _ := l.Connect("A", East, "B")
	out.Locked = true
	l.Connect("A", North, "D")
	l.Connect("D", East, "B")

	got, ok := l.NextStepToward("A", "B")
	if !ok || got != "D" {
		t.Errorf("NextStepToward(A, B) with locked direct exit = %q, %v, want D, true", got, ok)
	}

	l.Room("A").Exit(North).Complex = true
	if got, ok := l.NextStepToward("A", "B"); ok {
		t.Errorf("NextStepToward(A, B) with every route blocked = %q, true, want false", got)
	}
}

func TestNextStepToward_UnknownRooms(t *testing.T) {
	l := makeLine(t)
	if _, ok := l.NextStepToward("A", "Nowhere"); ok {
		t.Error("NextStepToward(A, Nowhere) = true, want false")
	}
}

func TestReachableFrom(t *testing.T) {
	l := makeLine(t)
	l.AddRoom("Island")
	got := l.ReachableFrom("A")
	if got.Size() != 3 {
		t.Errorf("ReachableFrom(A).Size() = %d, want 3", got.Size())
	}
	if got.Has("Island") {
		t.Error("ReachableFrom(A) contains Island, want it unreachable")
	}
}

func TestSealAndRelease(t *testing.T) {
	l := makeLine(t)
	l.Room("B").Locked = true
	l.Room("B").Seal("mri")
	l.Room("C").Seal("mri")

	if n := l.ReleaseAll("mri"); n != 2 {
		t.Errorf("ReleaseAll(mri) = %d, want 2", n)
	}
	if !l.Room("B").Locked {
		t.Error("room B unlocked after release, want original lock restored")
	}
	if l.Room("C").Locked {
		t.Error("room C locked after release, want unlocked")
	}
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		in   string
		want Direction
		ok   bool
	}{
		{"n", North, true},
		{"South", South, true},
		{" up ", Up, true},
		{"sideways", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseDirection(tt.in)
			if got != tt.want || ok != tt.ok {
				t.Errorf("ParseDirection(%q) = %v, %v, want %v, %v", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestItemMatches(t *testing.T) {
	it := &Item{Key: "iv_pole", Name: "IV Pole"}
	if !it.Matches("iv pole") || !it.Matches("IV_POLE") {
		t.Error("Item.Matches did not fold case and underscores")
	}
	if it.Matches("") {
		t.Error("Item.Matches(\"\") = true, want false")
	}
}

func TestSnapshotRestore(t *testing.T) {
	l := makeLine(t)
	l.Room("B").Exit(East).Locked = true
	l.Room("C").AddItem(&Item{Key: "scalpel", Name: "scalpel", Metallic: true})
	l.Room("A").Locked = true
	l.Room("A").Seal("mri")

	got := RestoreLevel(l.Snapshot())
	if !reflect.DeepEqual(got.Snapshot(), l.Snapshot()) {
		t.Errorf("RestoreLevel(snap).Snapshot() = %+v, want %+v", got.Snapshot(), l.Snapshot())
	}
	if got.Room("C").FindItem("scalpel") == nil {
		t.Error("restored room C lost its scalpel")
	}
	got.ReleaseAll("mri")
	if !got.Room("A").Locked {
		t.Error("released room A unlocked, want its level lock kept")
	}
}

func TestSnapshot_EncodedRoundTrip(t *testing.T) {
	l := makeLine(t)
	l.Room("C").AddItem(&Item{Key: "scalpel", Name: "scalpel"})
	want := l.Snapshot()

	data, err := yaml.Marshal(want)
	if err != nil {
		t.Fatalf("yaml.Marshal() error = %v", err)
	}
	var got LevelSnapshot
	if err := yaml.Unmarshal(data, &got); err != nil {
		t.Fatalf("yaml.Unmarshal() error = %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("decoded snapshot = %+v, want %+v", got, want)
	}
	if want.Rooms[0].Items == nil {
		t.Error("Snapshot() room without items has nil Items, want empty")
	}
}
