package timeline

import (
	"testing"
	"time"

	"github.com/V-Sekai-fire/timeline-store/pkg/temporal/interval"
)

func at(hour, minute int) time.Time {
	return time.Date(2026, 1, 1, hour, minute, 0, 0, time.UTC)
}

func mustInterval(t *testing.T, id string, start, end time.Time) interval.Interval {
	t.Helper()
	iv, err := interval.NewFixedSchedule(id, start, end)
	if err != nil {
		t.Fatalf("NewFixedSchedule(%s): %v", id, err)
	}
	return iv
}

func TestBridgeSegmentation(t *testing.T) {
	tl := New(Options{})

	i1 := mustInterval(t, "i1", at(10, 0), at(10, 30))
	i2 := mustInterval(t, "i2", at(11, 30), at(12, 0))

	var err error
	tl, err = tl.AddInterval(i1)
	if err != nil {
		t.Fatalf("AddInterval(i1): %v", err)
	}
	tl, err = tl.AddInterval(i2)
	if err != nil {
		t.Fatalf("AddInterval(i2): %v", err)
	}

	bridgeTime := at(11, 0)
	tl, err = tl.AddBridge(Bridge{ID: "b1", Position: bridgeTime, Type: Decision})
	if err != nil {
		t.Fatalf("AddBridge: %v", err)
	}

	segments := tl.SegmentByBridges()
	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segments))
	}

	seg1 := segments[0]
	if seg1.BridgeBefore != nil {
		t.Errorf("segment 1 bridge_before = %v, want nil", seg1.BridgeBefore)
	}
	if _, ok := seg1.Intervals["i1"]; !ok {
		t.Errorf("segment 1 missing i1")
	}
	if _, ok := seg1.Intervals["i2"]; ok {
		t.Errorf("segment 1 should not contain i2")
	}

	seg2 := segments[1]
	if seg2.BridgeBefore == nil || !seg2.BridgeBefore.Equal(bridgeTime) {
		t.Errorf("segment 2 bridge_before = %v, want %v", seg2.BridgeBefore, bridgeTime)
	}
	if _, ok := seg2.Intervals["i2"]; !ok {
		t.Errorf("segment 2 missing i2")
	}
	if _, ok := seg2.Intervals["i1"]; ok {
		t.Errorf("segment 2 should not contain i1")
	}
}

func TestAddIntervalContributesTwoPoints(t *testing.T) {
	tl := New(Options{})
	iv := mustInterval(t, "i1", at(9, 0), at(9, 30))

	tl, err := tl.AddInterval(iv)
	if err != nil {
		t.Fatalf("AddInterval: %v", err)
	}

	points := tl.Network.Points()
	if len(points) != 2 {
		t.Fatalf("expected 2 STN points, got %d: %v", len(points), points)
	}
	if !tl.Consistent() {
		t.Fatalf("expected consistent network")
	}
}

func TestAddBridgeRejectsDuplicateAndBoundary(t *testing.T) {
	tl := New(Options{})
	iv := mustInterval(t, "i1", at(9, 0), at(9, 30))
	tl, err := tl.AddInterval(iv)
	if err != nil {
		t.Fatalf("AddInterval: %v", err)
	}

	tl, err = tl.AddBridge(Bridge{ID: "b1", Position: at(9, 15)})
	if err != nil {
		t.Fatalf("AddBridge: %v", err)
	}

	if _, err := tl.AddBridge(Bridge{ID: "b1", Position: at(9, 20)}); !IsDuplicateBridge(err) {
		t.Fatalf("expected DuplicateBridge, got %v", err)
	}

	if _, err := tl.AddBridge(Bridge{ID: "b2", Position: at(9, 0)}); !IsBridgeAtBoundary(err) {
		t.Fatalf("expected BridgeAtBoundary, got %v", err)
	}
}

func TestRemoveAndGetBridge(t *testing.T) {
	tl := New(Options{})
	iv := mustInterval(t, "i1", at(9, 0), at(10, 0))
	tl, err := tl.AddInterval(iv)
	if err != nil {
		t.Fatalf("AddInterval: %v", err)
	}
	tl, err = tl.AddBridge(Bridge{ID: "b1", Position: at(9, 30)})
	if err != nil {
		t.Fatalf("AddBridge: %v", err)
	}

	if _, err := tl.GetBridge("b1"); err != nil {
		t.Fatalf("GetBridge: %v", err)
	}

	tl, err = tl.RemoveBridge("b1")
	if err != nil {
		t.Fatalf("RemoveBridge: %v", err)
	}
	if _, err := tl.GetBridge("b1"); !IsBridgeNotFound(err) {
		t.Fatalf("expected BridgeNotFound after removal, got %v", err)
	}
}
