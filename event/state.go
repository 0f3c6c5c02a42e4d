package event

import (
	"slices"
	"time"

	"github.com/chrisuehlinger/turbo/collections"
	"github.com/chrisuehlinger/turbo/dom"
	"github.com/chrisuehlinger/turbo/geom"
)

// Default gesture tuning.
const (
	DefaultMoveThreshold     = 10.0
	DefaultLongPressDuration = 500 * time.Millisecond
	trackpadDecay            = 800 * time.Millisecond
	trackpadDeltaLimit       = 40.0
)

// Timer names. Arming a timer under a name cancels the previous one.
const (
	timerLongPress        = "long-press"
	timerRecentlyTrackpad = "recently-trackpad"
)

type pointMap = collections.Map[int, geom.Point]

// State is the mutable state shared by the controllers of one manager.
// It is only touched from the goroutine delivering native events.
type State struct {
	keys []string

	action ActionMode
	click  ClickMode

	activePointers    []int
	origins           *pointMap
	previousPositions *pointMap
	positions         *pointMap

	// Element under the gesture's origin, recomputed after invalidation.
	lastTargetOrigin *dom.Element

	device           InputDevice
	recentlyTrackpad bool

	moveThreshold     float64
	longPressDuration time.Duration

	tools        map[string]*collections.WeakSet[dom.Element]
	currentTools map[ClickMode]string
	keyToTool    map[string]string

	state     Flags
	lockState Flags
	lockOrigin *dom.Node
}

func newState() *State {
	return &State{
		origins:           collections.NewMap[int, geom.Point](),
		previousPositions: collections.NewMap[int, geom.Point](),
		positions:         collections.NewMap[int, geom.Point](),
		moveThreshold:     DefaultMoveThreshold,
		longPressDuration: DefaultLongPressDuration,
		tools:             make(map[string]*collections.WeakSet[dom.Element]),
		currentTools:      make(map[ClickMode]string),
		keyToTool:         make(map[string]string),
		state:             AllFlags(),
		lockState:         AllFlags(),
	}
}

func (s *State) effective() Flags {
	return s.state.and(s.lockState)
}

func (s *State) addKey(key string) bool {
	if slices.Contains(s.keys, key) {
		return false
	}
	s.keys = append(s.keys, key)
	return true
}

func (s *State) removeKey(key string) bool {
	i := slices.Index(s.keys, key)
	if i < 0 {
		return false
	}
	s.keys = slices.Delete(s.keys, i, i+1)
	return true
}

func (s *State) isActive(id int) bool {
	return slices.Contains(s.activePointers, id)
}

func (s *State) addPointer(id int, p geom.Point) {
	if !s.isActive(id) {
		s.activePointers = append(s.activePointers, id)
	}
	s.origins.Set(id, p)
	s.previousPositions.Set(id, p)
	s.positions.Set(id, p)
}

func (s *State) removePointer(id int) {
	if i := slices.Index(s.activePointers, id); i >= 0 {
		s.activePointers = slices.Delete(s.activePointers, i, i+1)
	}
	s.origins.Delete(id)
	s.previousPositions.Delete(id)
	s.positions.Delete(id)
}

// resetGesture returns the gesture state machine to rest.
func (s *State) resetGesture() {
	s.action = ActionNone
	s.click = ClickNone
	s.lastTargetOrigin = nil
}
