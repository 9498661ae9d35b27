package game

import (
	"context"
	"log/slog"
	"strings"

	"github.com/mcoot/dicegame-go/internal/model"
	"github.com/mcoot/dicegame-go/internal/services/registry"
	"github.com/mcoot/dicegame-go/internal/services/turn"
)

// Controller is the single entry point for reading and mutating rooms.
//
// Mutations on the same room are serialized: the room lock is held from
// loading the room until its new snapshot has been handed to the notifier,
// so every subscriber sees snapshots in commit order. Different rooms never
// contend.
type Controller struct {
	registry *registry.Registry
	machine  *turn.Machine
	notifier Notifier
	locks    *roomLocks
	logger   *slog.Logger
}

// NewController creates a new Controller. A nil notifier discards updates.
func NewController(
	registry *registry.Registry,
	machine *turn.Machine,
	notifier Notifier,
	logger *slog.Logger,
) *Controller {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Controller{
		registry: registry,
		machine:  machine,
		notifier: notifier,
		locks:    newRoomLocks(),
		logger:   logger.With(slog.String("component", "game")),
	}
}

// CreateRoom creates a room hosted by username and announces it lobby-wide
func (c *Controller) CreateRoom(ctx context.Context, username string) (*model.Room, error) {
	room, err := c.registry.Create(ctx, username)
	if err != nil {
		return nil, err
	}
	c.notifier.RoomCreated(room.Clone())
	return room, nil
}

// GetRoom returns the current snapshot of a room
func (c *Controller) GetRoom(ctx context.Context, id model.RoomID) (*model.Room, error) {
	return c.registry.FindByID(ctx, model.RoomID(strings.TrimSpace(string(id))))
}

// ListRooms returns rooms for lobby display
func (c *Controller) ListRooms(ctx context.Context, filter registry.ListFilter) ([]*model.Room, error) {
	return c.registry.List(ctx, filter)
}

// Apply validates and commits one player action against a room, fans the
// new snapshot out to subscribers and returns it
func (c *Controller) Apply(ctx context.Context, id model.RoomID, username string, action model.Action) (*model.Room, error) {
	id = model.RoomID(strings.TrimSpace(string(id)))
	if id == "" {
		return nil, model.ErrRoomIDRequired
	}
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, model.ErrUsernameRequired
	}
	if _, err := model.ParseActionKind(string(action.Kind)); err != nil {
		return nil, err
	}

	unlock := c.locks.lock(id)
	defer unlock()

	// Once the lock is held the action runs to completion even if the
	// caller goes away
	ctx = context.WithoutCancel(ctx)

	room, err := c.registry.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := c.machine.Apply(room, username, action); err != nil {
		c.logger.Debug("action rejected",
			slog.String("room_id", string(id)),
			slog.String("username", username),
			slog.String("action", string(action.Kind)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	if err := c.registry.Save(ctx, room); err != nil {
		c.logger.Error("failed to save room",
			slog.String("room_id", string(id)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	if action.Kind == model.ActionJoin {
		c.notifier.LobbyChanged(room.Clone())
	} else {
		c.notifier.RoomUpdated(room.Clone())
	}

	attrs := []any{
		slog.String("room_id", string(id)),
		slog.String("username", username),
		slog.String("action", string(action.Kind)),
	}
	if room.Turn != nil {
		attrs = append(attrs,
			slog.Int("rolls_left", room.Turn.RollsLeft),
			slog.Int("round", room.Turn.Round),
			slog.Bool("game_over", room.Turn.GameOver),
		)
	}
	c.logger.Info("action applied", attrs...)

	return room, nil
}
