// Package storetest provides in-memory store implementations with the same
// contracts as the GORM-backed ones (conditional upserts, idempotent
// association writes), for exercising services without a database.
package storetest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"boardmatch/backend/internal/models"
	"boardmatch/backend/internal/store"

	"gorm.io/gorm"
)

// Users is an in-memory UserStore.
type Users struct {
	mu     sync.Mutex
	nextID uint
	rows   map[uint]models.User
}

func NewUsers() *Users {
	return &Users{rows: make(map[uint]models.User)}
}

// Add seeds a user and returns its ID.
func (s *Users) Add(user models.User) uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user.ID == 0 {
		s.nextID++
		user.ID = s.nextID
	} else if user.ID > s.nextID {
		s.nextID = user.ID
	}
	s.rows[user.ID] = user
	return user.ID
}

func (s *Users) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

func (s *Users) GetByID(_ context.Context, id uint) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.rows[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &user, nil
}

func (s *Users) GetByDiscordID(_ context.Context, discordID string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.rows {
		if user.DiscordID == discordID {
			u := user
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Users) UpsertByDiscordID(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, existing := range s.rows {
		if existing.DiscordID == user.DiscordID {
			existing.DisplayName = user.DisplayName
			existing.AvatarURL = user.AvatarURL
			s.rows[id] = existing
			user.ID = id
			return nil
		}
	}
	s.nextID++
	user.ID = s.nextID
	s.rows[user.ID] = *user
	return nil
}

func (s *Users) Save(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[user.ID]; !ok {
		return store.ErrNotFound
	}
	s.rows[user.ID] = *user
	return nil
}

func (s *Users) ReplaceLibrary(_ context.Context, userID uint, entries []models.GameLibraryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.rows[userID]
	if !ok {
		return store.ErrNotFound
	}
	user.GameLibrary = entries
	s.rows[userID] = user
	return nil
}

func (s *Users) ReplaceAvailability(_ context.Context, userID uint, slots []models.AvailabilitySlot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.rows[userID]
	if !ok {
		return store.ErrNotFound
	}
	user.Availability = slots
	s.rows[userID] = user
	return nil
}

// Sessions is an in-memory SessionStore.
type Sessions struct {
	mu         sync.Mutex
	nextID     uint
	rows       map[uint]models.Session
	players    map[uint][]uint
	interested map[uint][]uint
}

func NewSessions() *Sessions {
	return &Sessions{
		rows:       make(map[uint]models.Session),
		players:    make(map[uint][]uint),
		interested: make(map[uint][]uint),
	}
}

func (s *Sessions) Create(_ context.Context, session *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	session.ID = s.nextID
	session.CreatedAt = time.Now()
	s.rows[session.ID] = *session
	return nil
}

func (s *Sessions) Get(_ context.Context, id uint) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.rows[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	populated := s.populate(session)
	return &populated, nil
}

func (s *Sessions) populate(session models.Session) models.Session {
	session.Host = models.User{Model: gorm.Model{ID: session.HostID}}
	session.Players = usersFromIDs(s.players[session.ID])
	session.InterestedPlayers = usersFromIDs(s.interested[session.ID])
	return session
}

func usersFromIDs(ids []uint) []models.User {
	users := make([]models.User, 0, len(ids))
	for _, id := range ids {
		users = append(users, models.User{Model: gorm.Model{ID: id}})
	}
	return users
}

func (s *Sessions) Update(_ context.Context, session *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[session.ID]; !ok {
		return store.ErrNotFound
	}
	stored := *session
	stored.Host = models.User{}
	stored.Players = nil
	stored.InterestedPlayers = nil
	s.rows[session.ID] = stored
	return nil
}

func (s *Sessions) List(_ context.Context, filter store.SessionFilter) ([]models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	excluded := make(map[uint]bool, len(filter.ExcludeIDs))
	for _, id := range filter.ExcludeIDs {
		excluded[id] = true
	}

	var out []models.Session
	for _, session := range s.rows {
		if filter.Status != "" && session.Status != filter.Status {
			continue
		}
		if filter.HostID != 0 && session.HostID != filter.HostID {
			continue
		}
		if filter.ExcludeHostID != 0 && session.HostID == filter.ExcludeHostID {
			continue
		}
		if excluded[session.ID] {
			continue
		}
		out = append(out, s.populate(session))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return nil, nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (s *Sessions) AddPlayer(_ context.Context, sessionID, userID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players[sessionID] = appendUnique(s.players[sessionID], userID)
	return nil
}

func (s *Sessions) RemovePlayer(_ context.Context, sessionID, userID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players[sessionID] = remove(s.players[sessionID], userID)
	return nil
}

func (s *Sessions) AddInterested(_ context.Context, sessionID, userID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interested[sessionID] = appendUnique(s.interested[sessionID], userID)
	return nil
}

func (s *Sessions) RemoveInterested(_ context.Context, sessionID, userID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interested[sessionID] = remove(s.interested[sessionID], userID)
	return nil
}

func appendUnique(ids []uint, id uint) []uint {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}

func remove(ids []uint, id uint) []uint {
	out := ids[:0]
	for _, existing := range ids {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}

// Swipes is an in-memory SwipeStore.
type Swipes struct {
	mu     sync.Mutex
	nextID uint
	rows   map[[2]uint]models.UserSwipe // (userID, sessionID)
}

func NewSwipes() *Swipes {
	return &Swipes{rows: make(map[[2]uint]models.UserSwipe)}
}

func (s *Swipes) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

func (s *Swipes) Put(_ context.Context, swipe *models.UserSwipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := [2]uint{swipe.UserID, swipe.SessionID}
	if existing, ok := s.rows[key]; ok {
		existing.Action = swipe.Action
		existing.UpdatedAt = time.Now()
		s.rows[key] = existing
		swipe.ID = existing.ID
		return nil
	}
	s.nextID++
	swipe.ID = s.nextID
	swipe.UpdatedAt = time.Now()
	s.rows[key] = *swipe
	return nil
}

func (s *Swipes) ListBySession(_ context.Context, sessionID uint) ([]models.UserSwipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.UserSwipe
	for key, swipe := range s.rows {
		if key[1] == sessionID {
			out = append(out, swipe)
		}
	}
	return out, nil
}

func (s *Swipes) ListByUser(_ context.Context, userID uint) ([]models.UserSwipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.UserSwipe
	for key, swipe := range s.rows {
		if key[0] == userID {
			out = append(out, swipe)
		}
	}
	return out, nil
}

// Feedback is an in-memory FeedbackStore.
type Feedback struct {
	mu     sync.Mutex
	nextID uint
	rows   map[[2]uint]models.SessionFeedback // (userID, sessionID)
}

func NewFeedback() *Feedback {
	return &Feedback{rows: make(map[[2]uint]models.SessionFeedback)}
}

func (s *Feedback) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

func (s *Feedback) Put(_ context.Context, fb *models.SessionFeedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := [2]uint{fb.UserID, fb.SessionID}
	if existing, ok := s.rows[key]; ok {
		existing.EnjoymentRating = fb.EnjoymentRating
		existing.Attended = fb.Attended
		existing.PresentPlayerIDs = fb.PresentPlayerIDs
		existing.Comment = fb.Comment
		existing.UpdatedAt = time.Now()
		s.rows[key] = existing
		fb.ID = existing.ID
		return nil
	}
	s.nextID++
	fb.ID = s.nextID
	fb.UpdatedAt = time.Now()
	s.rows[key] = *fb
	return nil
}

func (s *Feedback) ListBySession(_ context.Context, sessionID uint) ([]models.SessionFeedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.SessionFeedback
	for key, fb := range s.rows {
		if key[1] == sessionID {
			out = append(out, fb)
		}
	}
	return out, nil
}

func (s *Feedback) ListByUser(_ context.Context, userID uint) ([]models.SessionFeedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.SessionFeedback
	for key, fb := range s.rows {
		if key[0] == userID {
			out = append(out, fb)
		}
	}
	return out, nil
}

// Notifications is an in-memory NotificationStore.
type Notifications struct {
	mu     sync.Mutex
	nextID uint
	rows   map[uint]models.Notification
}

func NewNotifications() *Notifications {
	return &Notifications{rows: make(map[uint]models.Notification)}
}

// Add seeds a notification and returns its ID.
func (s *Notifications) Add(n models.Notification) uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	n.ID = s.nextID
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().Add(time.Duration(s.nextID) * time.Millisecond)
	}
	s.rows[n.ID] = n
	return n.ID
}

func (s *Notifications) CreateBatch(_ context.Context, rows []models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range rows {
		s.nextID++
		rows[i].ID = s.nextID
		rows[i].CreatedAt = time.Now().Add(time.Duration(s.nextID) * time.Millisecond)
		s.rows[rows[i].ID] = rows[i]
	}
	return nil
}

func (s *Notifications) Get(_ context.Context, id uint) (*models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.rows[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &n, nil
}

func (s *Notifications) FetchPendingBatch(_ context.Context, limit int) ([]models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Notification
	for _, n := range s.rows {
		if n.Status == models.NotificationPending {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Notifications) Update(_ context.Context, n *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[n.ID]; !ok {
		return store.ErrNotFound
	}
	s.rows[n.ID] = *n
	return nil
}

func (s *Notifications) ListByRecipient(_ context.Context, userID uint) ([]models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Notification
	for _, n := range s.rows {
		if n.RecipientID == userID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// Games is an in-memory GameStore.
type Games struct {
	mu     sync.Mutex
	nextID uint
	rows   map[uint]models.GameData
}

func NewGames() *Games {
	return &Games{rows: make(map[uint]models.GameData)}
}

func (s *Games) Upsert(_ context.Context, game *models.GameData) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, existing := range s.rows {
		if existing.BGGID == game.BGGID {
			game.ID = id
			s.rows[id] = *game
			return nil
		}
	}
	s.nextID++
	game.ID = s.nextID
	s.rows[game.ID] = *game
	return nil
}

func (s *Games) GetByBGGID(_ context.Context, bggID string) (*models.GameData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, game := range s.rows {
		if game.BGGID == bggID {
			g := game
			return &g, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Games) SearchAfter(_ context.Context, query string, afterID uint, limit int) ([]models.GameData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.GameData
	for _, game := range s.rows {
		if game.ID <= afterID {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(game.Name), strings.ToLower(query)) {
			continue
		}
		out = append(out, game)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
