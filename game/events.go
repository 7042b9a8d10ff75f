package game

import (
	"encoding/json"
	"fmt"

	"github.com/wfunc/galaxyserver/catalog"
)

// EventType is the `type` discriminator of an encoded event.
type EventType string

const (
	TypeGameSetup             EventType = "game-setup"
	TypePlayerExploreAction   EventType = "player-explore-action"
	TypeGameTileDraw          EventType = "game-tile-draw"
	TypePlayerFoldTile        EventType = "player-fold-tile"
	TypePlayerPlaceTile       EventType = "player-place-tile"
	TypePlayerResearchAction  EventType = "player-research-action"
	TypePlayerUpgradeAction   EventType = "player-upgrade-action"
	TypePlayerBuildAction     EventType = "player-build-action"
	TypePlayerMoveAction      EventType = "player-move-action"
	TypePlayerInfluenceAction EventType = "player-influence-action"
	TypePlayerRoundPass       EventType = "player-round-pass"
	TypeGamePlayerTurn        EventType = "game-player-turn"
	TypeGameRoundAction       EventType = "game-round-action"
	TypeGameRoundUpkeep       EventType = "game-round-upkeep"
	TypeGameRoundCleanup      EventType = "game-round-cleanup"
)

// Event is one entry of the game log. The set of implementations is closed:
// only types in this package can satisfy it.
type Event interface {
	Type() EventType
	isEvent()
}

// PlayerEvent is an event submitted on behalf of a player.
type PlayerEvent interface {
	Event
	Actor() string
}

// PlayerSetup names a joining player and the species they play.
type PlayerSetup struct {
	ID      string `json:"id"`
	Species string `json:"species"`
}

type GameSetup struct {
	Players []PlayerSetup `json:"players"`
}

type PlayerExploreAction struct {
	PlayerID   string     `json:"playerId"`
	Coordinate Coordinate `json:"coordinate"`
}

type GameTileDraw struct {
	PlayerID string      `json:"playerId"`
	Tile     TileContent `json:"tile"`
}

type PlayerFoldTile struct {
	PlayerID string       `json:"playerId"`
	Tile     *TileContent `json:"tile,omitempty"`
}

type PlayerPlaceTile struct {
	PlayerID   string      `json:"playerId"`
	Coordinate Coordinate  `json:"coordinate"`
	Tile       TileContent `json:"tile"`
	Rotation   int         `json:"rotation"`
	Influence  bool        `json:"influence"`
}

type PlayerResearchAction struct {
	PlayerID string           `json:"playerId"`
	Tech     catalog.TechTile `json:"tech"`
}

type PlayerUpgradeAction struct {
	PlayerID string                 `json:"playerId"`
	Ship     catalog.ShipType       `json:"ship"`
	Parts    []catalog.ShipPartTile `json:"shipParts"`
}

// BuildObject is one item of a build action. Coordinate is the target hex
// for monoliths, orbitals and starbases.
type BuildObject struct {
	Type       ObjectType             `json:"type"`
	Ship       catalog.ShipType       `json:"ship,omitempty"`
	Coordinate *Coordinate            `json:"coordinate,omitempty"`
	Population catalog.PopulationType `json:"population,omitempty"`
}

type PlayerBuildAction struct {
	PlayerID string        `json:"playerId"`
	Objects  []BuildObject `json:"objects"`
}

type ShipMove struct {
	Ships []TileObject `json:"ships"`
	From  Coordinate   `json:"from"`
	To    Coordinate   `json:"to"`
}

type PlayerMoveAction struct {
	PlayerID string     `json:"playerId"`
	Moves    []ShipMove `json:"moves"`
}

// InfluenceMove takes a disc from From (the track when nil) to To.
type InfluenceMove struct {
	From *Coordinate `json:"from"`
	To   Coordinate  `json:"to"`
}

type PlayerInfluenceAction struct {
	PlayerID string          `json:"playerId"`
	Moves    []InfluenceMove `json:"moves"`
}

type PlayerRoundPass struct {
	PlayerID string `json:"playerId"`
}

type GamePlayerTurn struct {
	PlayerID string `json:"playerId"`
}

type GameRoundAction struct {
	StartingPlayerID string `json:"startingPlayerId"`
}

type GameRoundUpkeep struct{}

type GameRoundCleanup struct {
	Round int `json:"round"`
}

func (GameSetup) Type() EventType             { return TypeGameSetup }
func (PlayerExploreAction) Type() EventType   { return TypePlayerExploreAction }
func (GameTileDraw) Type() EventType          { return TypeGameTileDraw }
func (PlayerFoldTile) Type() EventType        { return TypePlayerFoldTile }
func (PlayerPlaceTile) Type() EventType       { return TypePlayerPlaceTile }
func (PlayerResearchAction) Type() EventType  { return TypePlayerResearchAction }
func (PlayerUpgradeAction) Type() EventType   { return TypePlayerUpgradeAction }
func (PlayerBuildAction) Type() EventType     { return TypePlayerBuildAction }
func (PlayerMoveAction) Type() EventType      { return TypePlayerMoveAction }
func (PlayerInfluenceAction) Type() EventType { return TypePlayerInfluenceAction }
func (PlayerRoundPass) Type() EventType       { return TypePlayerRoundPass }
func (GamePlayerTurn) Type() EventType        { return TypeGamePlayerTurn }
func (GameRoundAction) Type() EventType       { return TypeGameRoundAction }
func (GameRoundUpkeep) Type() EventType       { return TypeGameRoundUpkeep }
func (GameRoundCleanup) Type() EventType      { return TypeGameRoundCleanup }

func (GameSetup) isEvent()             {}
func (PlayerExploreAction) isEvent()   {}
func (GameTileDraw) isEvent()          {}
func (PlayerFoldTile) isEvent()        {}
func (PlayerPlaceTile) isEvent()       {}
func (PlayerResearchAction) isEvent()  {}
func (PlayerUpgradeAction) isEvent()   {}
func (PlayerBuildAction) isEvent()     {}
func (PlayerMoveAction) isEvent()      {}
func (PlayerInfluenceAction) isEvent() {}
func (PlayerRoundPass) isEvent()       {}
func (GamePlayerTurn) isEvent()        {}
func (GameRoundAction) isEvent()       {}
func (GameRoundUpkeep) isEvent()       {}
func (GameRoundCleanup) isEvent()      {}

func (e PlayerExploreAction) Actor() string   { return e.PlayerID }
func (e PlayerFoldTile) Actor() string        { return e.PlayerID }
func (e PlayerPlaceTile) Actor() string       { return e.PlayerID }
func (e PlayerResearchAction) Actor() string  { return e.PlayerID }
func (e PlayerUpgradeAction) Actor() string   { return e.PlayerID }
func (e PlayerBuildAction) Actor() string     { return e.PlayerID }
func (e PlayerMoveAction) Actor() string      { return e.PlayerID }
func (e PlayerInfluenceAction) Actor() string { return e.PlayerID }
func (e PlayerRoundPass) Actor() string       { return e.PlayerID }

// marshalTagged encodes v and adds the type discriminator next to its fields.
func marshalTagged(t EventType, v any) ([]byte, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, err
	}
	tag, _ := json.Marshal(t)
	fields["type"] = tag
	return json.Marshal(fields)
}

func (e GameSetup) MarshalJSON() ([]byte, error) {
	type plain GameSetup
	return marshalTagged(e.Type(), plain(e))
}

func (e PlayerExploreAction) MarshalJSON() ([]byte, error) {
	type plain PlayerExploreAction
	return marshalTagged(e.Type(), plain(e))
}

func (e GameTileDraw) MarshalJSON() ([]byte, error) {
	type plain GameTileDraw
	return marshalTagged(e.Type(), plain(e))
}

func (e PlayerFoldTile) MarshalJSON() ([]byte, error) {
	type plain PlayerFoldTile
	return marshalTagged(e.Type(), plain(e))
}

func (e PlayerPlaceTile) MarshalJSON() ([]byte, error) {
	type plain PlayerPlaceTile
	return marshalTagged(e.Type(), plain(e))
}

func (e PlayerResearchAction) MarshalJSON() ([]byte, error) {
	type plain PlayerResearchAction
	return marshalTagged(e.Type(), plain(e))
}

func (e PlayerUpgradeAction) MarshalJSON() ([]byte, error) {
	type plain PlayerUpgradeAction
	return marshalTagged(e.Type(), plain(e))
}

func (e PlayerBuildAction) MarshalJSON() ([]byte, error) {
	type plain PlayerBuildAction
	return marshalTagged(e.Type(), plain(e))
}

func (e PlayerMoveAction) MarshalJSON() ([]byte, error) {
	type plain PlayerMoveAction
	return marshalTagged(e.Type(), plain(e))
}

func (e PlayerInfluenceAction) MarshalJSON() ([]byte, error) {
	type plain PlayerInfluenceAction
	return marshalTagged(e.Type(), plain(e))
}

func (e PlayerRoundPass) MarshalJSON() ([]byte, error) {
	type plain PlayerRoundPass
	return marshalTagged(e.Type(), plain(e))
}

func (e GamePlayerTurn) MarshalJSON() ([]byte, error) {
	type plain GamePlayerTurn
	return marshalTagged(e.Type(), plain(e))
}

func (e GameRoundAction) MarshalJSON() ([]byte, error) {
	type plain GameRoundAction
	return marshalTagged(e.Type(), plain(e))
}

func (e GameRoundUpkeep) MarshalJSON() ([]byte, error) {
	type plain GameRoundUpkeep
	return marshalTagged(e.Type(), plain(e))
}

func (e GameRoundCleanup) MarshalJSON() ([]byte, error) {
	type plain GameRoundCleanup
	return marshalTagged(e.Type(), plain(e))
}

func decodeAs[T Event](data []byte) (Event, error) {
	var e T
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return e, nil
}

var decoders = map[EventType]func([]byte) (Event, error){
	TypeGameSetup:             decodeAs[GameSetup],
	TypePlayerExploreAction:   decodeAs[PlayerExploreAction],
	TypeGameTileDraw:          decodeAs[GameTileDraw],
	TypePlayerFoldTile:        decodeAs[PlayerFoldTile],
	TypePlayerPlaceTile:       decodeAs[PlayerPlaceTile],
	TypePlayerResearchAction:  decodeAs[PlayerResearchAction],
	TypePlayerUpgradeAction:   decodeAs[PlayerUpgradeAction],
	TypePlayerBuildAction:     decodeAs[PlayerBuildAction],
	TypePlayerMoveAction:      decodeAs[PlayerMoveAction],
	TypePlayerInfluenceAction: decodeAs[PlayerInfluenceAction],
	TypePlayerRoundPass:       decodeAs[PlayerRoundPass],
	TypeGamePlayerTurn:        decodeAs[GamePlayerTurn],
	TypeGameRoundAction:       decodeAs[GameRoundAction],
	TypeGameRoundUpkeep:       decodeAs[GameRoundUpkeep],
	TypeGameRoundCleanup:      decodeAs[GameRoundCleanup],
}

// EventTypes lists every known discriminator.
func EventTypes() []EventType {
	return []EventType{
		TypeGameSetup,
		TypePlayerExploreAction,
		TypeGameTileDraw,
		TypePlayerFoldTile,
		TypePlayerPlaceTile,
		TypePlayerResearchAction,
		TypePlayerUpgradeAction,
		TypePlayerBuildAction,
		TypePlayerMoveAction,
		TypePlayerInfluenceAction,
		TypePlayerRoundPass,
		TypeGamePlayerTurn,
		TypeGameRoundAction,
		TypeGameRoundUpkeep,
		TypeGameRoundCleanup,
	}
}

// DecodeEvent parses one encoded event. Anything that is not valid JSON, has
// no known `type`, or does not fit the shape of its type fails with
// ErrMalformedEvent.
func DecodeEvent(data []byte) (Event, error) {
	var head struct {
		Type EventType `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, &Error{Code: CodeMalformedEvent, Message: "malformed event", Cause: err}
	}
	decode, ok := decoders[head.Type]
	if !ok {
		return nil, newError(CodeMalformedEvent, "malformed event: unknown type %q", head.Type)
	}
	ev, err := decode(data)
	if err != nil {
		return nil, &Error{Code: CodeMalformedEvent, Message: fmt.Sprintf("malformed %s event", head.Type), Cause: err}
	}
	if pe, ok := ev.(PlayerEvent); ok && pe.Actor() == "" {
		return nil, newError(CodeMalformedEvent, "malformed %s event: missing playerId", head.Type)
	}
	return ev, nil
}
