package scene

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"scenesync/pkg/wire"
)

func TestJoinSendsSnapshotThenNotifiesOthers(t *testing.T) {
	reg := NewRegistry()
	a := newTestMember(reg, "conn-a", "Alice")

	reg.Join(a, "demo", a.name)

	frames := drainFrames(t, a)
	if len(frames) != 1 || frames[0].Type != wire.TypeRoomState {
		t.Fatalf("first joiner must receive only room-state, got %v", frames)
	}

	var state wire.RoomStatePayload
	if err := json.Unmarshal(frames[0].Payload, &state); err != nil {
		t.Fatalf("invalid room-state payload: %v", err)
	}
	if len(state.Shapes) != 0 || len(state.Users) != 0 {
		t.Errorf("first joiner's snapshot must be empty, got %+v", state)
	}

	b := newTestMember(reg, "conn-b", "Bob")
	reg.Join(b, "demo", b.name)

	aFrames := drainFrames(t, a)
	if len(aFrames) != 1 || aFrames[0].Type != wire.TypeUserJoined {
		t.Fatalf("existing member must receive user-joined, got %v", aFrames)
	}
	var joined wire.UserEventPayload
	if err := json.Unmarshal(aFrames[0].Payload, &joined); err != nil {
		t.Fatalf("invalid user-joined payload: %v", err)
	}
	if joined.UserID != b.id || joined.UserName != "Bob" {
		t.Errorf("user-joined identity mismatch: %+v", joined)
	}

	bFrames := drainFrames(t, b)
	if len(bFrames) != 1 || bFrames[0].Type != wire.TypeRoomState {
		t.Fatalf("joiner must receive room-state, got %v", bFrames)
	}
	if err := json.Unmarshal(bFrames[0].Payload, &state); err != nil {
		t.Fatalf("invalid room-state payload: %v", err)
	}
	if len(state.Users) != 1 || state.Users[0].ID != a.id {
		t.Errorf("snapshot users must be members minus the joiner, got %+v", state.Users)
	}
}

func TestSnapshotContainsCurrentShapes(t *testing.T) {
	reg, a, _, room := joinTwo(t, "demo")

	room.AddShape(a, wire.Shape{ID: "s1", Kind: wire.KindCube, Position: wire.Vec3{0, 0.5, 0}})

	c := newTestMember(reg, "conn-c", "Cara")
	reg.Join(c, "demo", c.name)

	frames := drainFrames(t, c)
	var state wire.RoomStatePayload
	if err := json.Unmarshal(frames[0].Payload, &state); err != nil {
		t.Fatalf("invalid room-state payload: %v", err)
	}
	if len(state.Shapes) != 1 || state.Shapes[0].ID != "s1" {
		t.Errorf("late joiner must see the current shape list, got %+v", state.Shapes)
	}
	if len(state.Users) != 2 {
		t.Errorf("late joiner must see the other two members, got %+v", state.Users)
	}
}

func TestEmptyRoomIsDestroyed(t *testing.T) {
	reg, a, b, _ := joinTwo(t, "demo")

	reg.Leave(a)

	if reg.RoomCount() != 1 {
		t.Fatal("room with a remaining member must survive")
	}

	bFrames := drainFrames(t, b)
	if len(bFrames) != 1 || bFrames[0].Type != wire.TypeUserLeft {
		t.Fatalf("remaining member must receive user-left, got %v", bFrames)
	}
	var left wire.UserEventPayload
	if err := json.Unmarshal(bFrames[0].Payload, &left); err != nil {
		t.Fatalf("invalid user-left payload: %v", err)
	}
	if left.UserID != a.id {
		t.Errorf("user-left identity mismatch: %+v", left)
	}

	reg.Leave(b)

	if reg.RoomCount() != 0 {
		t.Error("room must be destroyed synchronously when the last member leaves")
	}
}

func TestLeaveWhileUnjoinedIsNoop(t *testing.T) {
	reg := NewRegistry()
	c := newTestMember(reg, "conn-a", "Alice")

	reg.Leave(c)
	reg.Leave(c)

	if reg.RoomCount() != 0 {
		t.Error("leave of an unjoined connection must not create state")
	}
}

func TestRepeatedLeaveRunsOnce(t *testing.T) {
	reg, a, b, _ := joinTwo(t, "demo")

	reg.Leave(a)
	reg.Leave(a)

	frames := drainFrames(t, b)
	if len(frames) != 1 {
		t.Errorf("a second leave must be a no-op, got %d frames", len(frames))
	}
}

func TestRoomSwitchLeavesOldRoomFirst(t *testing.T) {
	reg, a, b, _ := joinTwo(t, "demo")

	reg.Join(a, "other", a.name)

	bFrames := drainFrames(t, b)
	if len(bFrames) != 1 || bFrames[0].Type != wire.TypeUserLeft {
		t.Fatalf("old room must see user-left on switch, got %v", bFrames)
	}

	if a.room == nil || a.room.Name != "other" {
		t.Fatal("client must be in the new room after switching")
	}
	if reg.RoomCount() != 2 {
		t.Errorf("expected rooms demo and other, got %d", reg.RoomCount())
	}

	reg.Leave(b)
	if reg.RoomCount() != 1 {
		t.Error("demo must be destroyed once its last member leaves")
	}
}

func TestConcurrentFirstJoinCreatesOneRoom(t *testing.T) {
	reg := NewRegistry()

	const n = 32
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c := newTestMember(reg, fmt.Sprintf("conn-%d", i), fmt.Sprintf("User-%d", i))
			reg.Join(c, "demo", c.name)
		}(i)
	}
	wg.Wait()

	if reg.RoomCount() != 1 {
		t.Fatalf("simultaneous first-joiners must share one room, got %d rooms", reg.RoomCount())
	}

	list := reg.List()
	if len(list) != 1 || list[0].UserCount != n {
		t.Errorf("expected one room with %d users, got %+v", n, list)
	}
}

func TestListSnapshot(t *testing.T) {
	reg, _, _, _ := joinTwo(t, "demo")
	c := newTestMember(reg, "conn-c", "Cara")
	reg.Join(c, "test", c.name)

	list := reg.List()
	if len(list) != 2 {
		t.Fatalf("expected 2 rooms, got %d", len(list))
	}

	counts := make(map[string]int, len(list))
	for _, info := range list {
		counts[info.Name] = info.UserCount
	}
	if counts["demo"] != 2 || counts["test"] != 1 {
		t.Errorf("unexpected member counts: %v", counts)
	}

	// Discovery must not mutate state.
	if reg.RoomCount() != 2 {
		t.Error("List must not alter the registry")
	}
}
