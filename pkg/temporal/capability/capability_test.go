package capability

import "testing"

func TestClassificationIsPureFunctionOfCapabilities(t *testing.T) {
	entity := CreateEntity("e1", "Widget", nil, nil)
	if IsCurrentlyAgent(entity) {
		t.Fatalf("fresh entity must not be an agent")
	}

	withDecision := AddCapabilities(entity, "decision_making")
	if !IsCurrentlyAgent(withDecision) {
		t.Fatalf("adding an action capability must reclassify as agent")
	}

	withUnrelated := AddCapabilities(entity, "can_rotate")
	if IsCurrentlyAgent(withUnrelated) {
		t.Fatalf("a non-action capability must not produce an agent")
	}

	demoted := RemoveCapabilities(withDecision, "decision_making")
	if IsCurrentlyAgent(demoted) {
		t.Fatalf("removing the only action capability must demote back to entity")
	}
}

func TestCanPerformAction(t *testing.T) {
	agent := CreateAgent("a1", "Pilot", nil, []string{"flying"}, nil)
	ok, err := CanPerformAction(agent, "fly")
	if err != nil || !ok {
		t.Fatalf("CanPerformAction(fly) = %v, %v, want true, nil", ok, err)
	}

	ok, err = CanPerformAction(agent, "make_decision")
	if err != nil || ok {
		t.Fatalf("CanPerformAction(make_decision) = %v, %v, want false, nil", ok, err)
	}

	_, err = CanPerformAction(agent, "teleport")
	if err == nil {
		t.Fatalf("expected error for unknown action")
	}
	if !IsUnknownAction(err) {
		t.Fatalf("expected UNKNOWN_ACTION error, got %v", err)
	}
}

func TestTransferOwnership(t *testing.T) {
	e := CreateEntity("e2", "Box", nil, nil)
	transferred := TransferOwnership(e, "new-owner")
	if transferred.OwnerID == nil || *transferred.OwnerID != "new-owner" {
		t.Fatalf("TransferOwnership did not set OwnerID")
	}
	if e.OwnerID != nil {
		t.Fatalf("TransferOwnership must not mutate the original record")
	}
}
