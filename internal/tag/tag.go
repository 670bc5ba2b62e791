package tag

import (
	"encoding/json"

	"golang.org/x/text/unicode/norm"
)

// Master tag identifiers.
const (
	// KilledID marks a player that dies when consequences are applied.
	KilledID = "Killed"
)

// Killed is the master tag that causes a player's death.
var Killed = Tag{id: KilledID}

// masters is the registry of identifiers the game engine understands.
var masters = map[string]bool{
	KilledID: true,
}

// Provenance records the action that caused a tag.
//
// Actions are referenced by kind and acting player name, never by pointer,
// so provenance stays valid across state snapshots.
type Provenance struct {
	Action string `json:"action"`
	Actor  string `json:"actor,omitempty"`
}

// Tag is a single, immutable marker a player can carry during a phase.
//
// The zero Tag has an empty identifier and is not valid in any rule.
type Tag struct {
	id    string
	cause *Provenance
}

// New creates a tag without provenance.
// The identifier is normalized to NFC.
func New(identifier string) Tag {
	return Tag{id: norm.NFC.String(identifier)}
}

// NewCaused creates a tag carrying the given provenance.
func NewCaused(identifier string, cause Provenance) Tag {
	return New(identifier).WithProvenance(cause)
}

// ID returns the tag identifier.
func (t Tag) ID() string {
	return t.id
}

// Provenance returns the tag's provenance, if any.
func (t Tag) Provenance() (Provenance, bool) {
	if t.cause == nil {
		return Provenance{}, false
	}
	return *t.cause, true
}

// WithProvenance returns a copy of t carrying cause.
func (t Tag) WithProvenance(cause Provenance) Tag {
	c := cause
	t.cause = &c
	return t
}

// IsMaster reports whether t is a terminal, engine-understood tag.
func (t Tag) IsMaster() bool {
	return masters[t.id]
}

// IsZero reports whether t has no identifier.
func (t Tag) IsZero() bool {
	return t.id == ""
}

// Equal reports identifier equality. Provenance is ignored.
func (t Tag) Equal(other Tag) bool {
	return t.id == other.id
}

// String returns the quoted identifier, e.g. 'killed_by_witch'.
func (t Tag) String() string {
	return "'" + t.id + "'"
}

// MarshalJSON encodes the tag as {"id": ..., "cause": ...}.
func (t Tag) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID    string      `json:"id"`
		Cause *Provenance `json:"cause,omitempty"`
	}{ID: t.id, Cause: t.cause})
}

// Masters returns every master tag, sorted by identifier.
func Masters() []Tag {
	return NewSet(Killed).Tags()
}

// IsMasterID reports whether identifier names a master tag.
func IsMasterID(identifier string) bool {
	return masters[norm.NFC.String(identifier)]
}
