package subscribers

import (
	"encoding/json"

	"github.com/mitchelldurbincs/genghis/internal/game/events"
	"github.com/rs/zerolog"
)

// LoggerSubscriber logs events to structured logs
type LoggerSubscriber struct {
	id              string
	logger          zerolog.Logger
	logLevel        zerolog.Level
	eventTypeFilter map[string]bool // If non-nil, only log these event types
	devMode         bool            // If true, log full event details
}

// NewLoggerSubscriber creates a new logger subscriber
func NewLoggerSubscriber(id string, logger zerolog.Logger, logLevel zerolog.Level) *LoggerSubscriber {
	return &LoggerSubscriber{
		id:       id,
		logger:   logger.With().Str("subscriber", "event_logger").Logger(),
		logLevel: logLevel,
	}
}

// ID returns the subscriber's unique identifier
func (ls *LoggerSubscriber) ID() string {
	return ls.id
}

// SetEventFilter sets which event types to log (nil means log all)
func (ls *LoggerSubscriber) SetEventFilter(eventTypes []string) {
	if len(eventTypes) == 0 {
		ls.eventTypeFilter = nil
		return
	}

	ls.eventTypeFilter = make(map[string]bool)
	for _, eventType := range eventTypes {
		ls.eventTypeFilter[eventType] = true
	}
}

// SetDevMode enables or disables development mode logging
func (ls *LoggerSubscriber) SetDevMode(enabled bool) {
	ls.devMode = enabled
}

// InterestedIn returns true if the subscriber wants to receive this event type
func (ls *LoggerSubscriber) InterestedIn(eventType string) bool {
	if ls.eventTypeFilter == nil {
		return true
	}
	return ls.eventTypeFilter[eventType]
}

// HandleEvent processes an event by logging it
func (ls *LoggerSubscriber) HandleEvent(event events.Event) {
	eventLogger := ls.logger.With().
		Str("event_type", event.Type()).
		Str("game_id", event.GameID()).
		Time("timestamp", event.Timestamp()).
		Logger()

	logEvent := eventLogger.WithLevel(ls.logLevel)
	if logEvent == nil {
		return
	}

	switch e := event.(type) {
	case *events.GameStartedEvent:
		logEvent.
			Int("num_players", e.NumPlayers).
			Int("map_width", e.MapWidth).
			Int("map_height", e.MapHeight)

	case *events.GameEndedEvent:
		logEvent.
			Int("winner", e.Winner).
			Int("final_turn", e.Turn)

	case *events.TurnEndedEvent:
		logEvent.
			Int("turn", e.Turn).
			Int("moves_applied", e.MovesApplied).
			Int("moves_rejected", e.MovesRejected).
			Int("priority", e.Priority).
			Dur("process_time", e.ProcessedTime)

	case *events.MoveExecutedEvent:
		logEvent.
			Int("turn", e.Turn).
			Int("player_id", e.PlayerID).
			Str("from", e.From.String()).
			Str("to", e.To.String()).
			Int("armies_moved", e.ArmiesMoved).
			Bool("split", e.Split)

	case *events.MoveRejectedEvent:
		logEvent.
			Int("turn", e.Turn).
			Int("player_id", e.Move.PlayerID).
			Str("from", e.Move.From.String()).
			Str("to", e.Move.To.String()).
			Str("reason", e.Reason)

	case *events.CombatResolvedEvent:
		logEvent.
			Int("turn", e.Turn).
			Int("attacker_id", e.AttackerID).
			Int("defender_id", e.DefenderID).
			Str("location", e.Location.String()).
			Int("attacker_armies", e.AttackerArmies).
			Int("defender_armies", e.DefenderArmies).
			Str("outcome", e.Outcome).
			Bool("tile_captured", e.TileCaptured)

	case *events.PlayerEliminatedEvent:
		logEvent.
			Int("turn", e.Turn).
			Int("player_id", e.PlayerID).
			Int("eliminated_by", e.EliminatedBy).
			Int("tiles_transferred", e.TilesTransferred)

	case *events.ProductionAppliedEvent:
		logEvent.
			Int("turn", e.Turn).
			Int("structures_grown", e.StructuresGrown).
			Int("land_grown", e.LandGrown).
			Int("swamps_decayed", e.SwampsDecayed).
			Int("swamps_lost", e.SwampsLost)

	case *events.ReplaySeekEvent:
		logEvent.
			Int("turn", e.Turn).
			Int("from_turn", e.FromTurn).
			Bool("cache_hit", e.CacheHit).
			Int("simulated_turns", e.SimulatedTurns)
	}

	if ls.devMode {
		if jsonData, err := json.Marshal(event); err == nil {
			logEvent.RawJSON("event_data", jsonData)
		}
	}

	logEvent.Msg("Game event")
}
