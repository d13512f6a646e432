package input

// TrackedBattle is an attack the local player launched from the FSM.
type TrackedBattle struct {
	SourceID int
	TargetID int
}

// BattleTracker remembers player-initiated battles until they resolve.
type BattleTracker struct {
	battles map[string]TrackedBattle
}

func NewBattleTracker() *BattleTracker {
	return &BattleTracker{battles: make(map[string]TrackedBattle)}
}

// Track records a launched battle.
func (bt *BattleTracker) Track(battleID string, sourceID, targetID int) {
	bt.battles[battleID] = TrackedBattle{SourceID: sourceID, TargetID: targetID}
}

// Complete removes and returns the entry for battleID. Unknown ids report false.
func (bt *BattleTracker) Complete(battleID string) (TrackedBattle, bool) {
	b, ok := bt.battles[battleID]
	if ok {
		delete(bt.battles, battleID)
	}
	return b, ok
}

func (bt *BattleTracker) Len() int { return len(bt.battles) }

// Outstanding reports whether battleID is still tracked.
func (bt *BattleTracker) Outstanding(battleID string) bool {
	_, ok := bt.battles[battleID]
	return ok
}

func (bt *BattleTracker) Clear() {
	clear(bt.battles)
}
