package registry

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/mcoot/dicegame-go/internal/dependencies/clock"
	"github.com/mcoot/dicegame-go/internal/dependencies/random"
	"github.com/mcoot/dicegame-go/internal/model"
	"github.com/mcoot/dicegame-go/internal/storage"
)

// maxIDAttempts bounds the collision retry loop when generating room ids
const maxIDAttempts = 8

// ListFilter controls which rooms List returns
type ListFilter struct {
	// IncludeStarted also returns rooms whose game has begun
	IncludeStarted bool
}

// Registry owns the collection of rooms: creation, lookup and listing
type Registry struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
}

// New creates a new Registry
func New(
	storage storage.Storage,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Registry {
	return &Registry{
		storage: storage,
		clock:   clock,
		random:  random,
		logger:  logger.With(slog.String("component", "registry")),
	}
}

// Create stores a new room hosted by the given user, who becomes its only player
func (r *Registry) Create(ctx context.Context, host string) (*model.Room, error) {
	host = strings.TrimSpace(host)
	if host == "" {
		return nil, model.ErrUsernameRequired
	}

	id, err := r.newRoomID(ctx)
	if err != nil {
		return nil, err
	}

	now := r.clock.Now()
	room := &model.Room{
		ID:        id,
		Name:      model.RoomName(host),
		Host:      host,
		Players:   []string{host},
		Started:   false,
		Turn:      nil,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := r.storage.SaveRoom(ctx, room); err != nil {
		return nil, err
	}

	r.logger.Info("room created",
		slog.String("room_id", string(room.ID)),
		slog.String("host", host),
	)
	return room, nil
}

// newRoomID generates an id not already in use
func (r *Registry) newRoomID(ctx context.Context) (model.RoomID, error) {
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id := model.RoomID(r.random.ID())
		exists, err := r.storage.RoomExists(ctx, id)
		if err != nil {
			return "", err
		}
		if !exists {
			return id, nil
		}
		r.logger.Warn("room id collision", slog.String("room_id", string(id)))
	}
	return "", ErrIDExhausted
}

// FindByID retrieves a room by id
func (r *Registry) FindByID(ctx context.Context, id model.RoomID) (*model.Room, error) {
	if strings.TrimSpace(string(id)) == "" {
		return nil, model.ErrRoomIDRequired
	}
	return r.storage.GetRoom(ctx, id)
}

// List returns rooms oldest first, by default only those still in the lobby
func (r *Registry) List(ctx context.Context, filter ListFilter) ([]*model.Room, error) {
	rooms, err := r.storage.ListRooms(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]*model.Room, 0, len(rooms))
	for _, room := range rooms {
		if room.Started && !filter.IncludeStarted {
			continue
		}
		result = append(result, room)
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// Save persists a mutated room, stamping its update time
func (r *Registry) Save(ctx context.Context, room *model.Room) error {
	room.UpdatedAt = r.clock.Now()
	return r.storage.SaveRoom(ctx, room)
}
