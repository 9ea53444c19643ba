package model

import "fmt"

// PlayerID identifies a stored player. NoPlayer (0) stands for a null reference.
type PlayerID int64

const NoPlayer PlayerID = 0

// Valid reports whether the ID refers to a player.
func (id PlayerID) Valid() bool { return id != NoPlayer }

const (
	GenderFemale = "F"
	GenderMale   = "M"

	PositionHandler = "Handler"
	PositionCutter  = "Cutter"

	LineOffense = "O"
	LineDefense = "D"

	EventTypeOffense   = "Offense"
	EventTypeDefense   = "Defense"
	EventTypeCessation = "Cessation"

	ActionCatch     = "Catch"
	ActionDrop      = "Drop"
	ActionGoal      = "Goal"
	ActionThrowaway = "Throwaway"
	ActionD         = "D"
	ActionPull      = "Pull"
	ActionPullOb    = "PullOb"
)

// LineupSize is the number of players on the field for one point.
const LineupSize = 7

// ---- Stored records ----

type Team struct {
	ID     int64
	Name   string
	Region string
}

type Player struct {
	ID       PlayerID
	Name     string
	Gender   string // "M" or "F"; not enforced
	Position string // "Handler", "Cutter", or anything else (no position cohort)
	OD       string // preferred line from the roster, "O" or "D"
	TeamID   int64  // 0 if none
}

// Lineup holds player_1..player_7. Slots may be NoPlayer.
type Lineup [LineupSize]PlayerID

// Complete reports whether all seven slots are populated.
func (l Lineup) Complete() bool {
	for _, id := range l {
		if !id.Valid() {
			return false
		}
	}
	return true
}

// Count returns how many slots satisfy member.
func (l Lineup) Count(member func(PlayerID) bool) int {
	n := 0
	for _, id := range l {
		if id.Valid() && member(id) {
			n++
		}
	}
	return n
}

type Event struct {
	ID    int64
	Title string // import-time dedup key; not used for grouping

	Date           string
	Tournament     string
	Opponent       string
	SecondsElapsed int
	Line           string // "O" or "D"

	// Score snapshot after this event.
	OurScore   int
	TheirScore int

	EventType string // "Offense", "Defense", "Cessation"
	Action    string

	Passer   PlayerID
	Receiver PlayerID
	Defender PlayerID

	// Only reliable on the first event of a point.
	Lineup Lineup
}

// PointKey is the identity shared by all events of one point. It is a plain
// comparable tuple of the raw field values so opponent names compare byte for byte.
type PointKey struct {
	Date       string
	Opponent   string
	OurScore   int
	TheirScore int
}

func (k PointKey) String() string {
	return fmt.Sprintf("%s vs %s %d-%d", k.Date, k.Opponent, k.OurScore, k.TheirScore)
}

func (e *Event) PointKey() PointKey {
	return PointKey{Date: e.Date, Opponent: e.Opponent, OurScore: e.OurScore, TheirScore: e.TheirScore}
}

// IsGoalForUs reports a goal caught by one of our players.
func (e *Event) IsGoalForUs() bool {
	return e.Action == ActionGoal && e.Receiver.Valid()
}

// IsGoalAgainst reports a goal scored by the opponent (no receiver by construction).
func (e *Event) IsGoalAgainst() bool {
	return e.Action == ActionGoal && !e.Receiver.Valid()
}

// IsCessation reports a stoppage row (end of quarter, halftime, game over).
// These carry the score of the point just finished but are not plays.
func (e *Event) IsCessation() bool {
	return e.EventType == EventTypeCessation
}

// IsTurnover reports a possession lost while on offense.
func (e *Event) IsTurnover() bool {
	return e.EventType == EventTypeOffense && (e.Action == ActionDrop || e.Action == ActionThrowaway)
}

// ---- Query predicates ----

// PlayerFilter narrows a player query. Zero values match everything.
type PlayerFilter struct {
	TeamID   int64
	Gender   string
	Position string
}

// EventFilter narrows an event query. Zero values match everything.
type EventFilter struct {
	Tournament string
	Opponent   string
	Date       string
	Line       string
}

// DBOverview is a lightweight summary for the summary command.
type DBOverview struct {
	Teams        int
	Players      int
	Events       int
	Games        int
	Tournaments  int
	EarliestDate string
	LatestDate   string
}
