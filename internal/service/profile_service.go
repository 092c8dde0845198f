package service

import (
	"context"
	"log/slog"

	"boardmatch/backend/internal/changefeed"
	"boardmatch/backend/internal/models"
)

// ProfileService owns user identity, game library, availability windows and
// push-subscription registration.
type ProfileService struct {
	users UserStore
	feed  changefeed.Publisher
	log   *slog.Logger
}

func NewProfileService(users UserStore, feed changefeed.Publisher, log *slog.Logger) *ProfileService {
	return &ProfileService{users: users, feed: feed, log: log}
}

// UpsertByIdentity creates the profile on first sign-in or refreshes the
// display name and avatar on later ones. Exactly one row per discord id.
func (s *ProfileService) UpsertByIdentity(ctx context.Context, discordID, displayName, avatarURL string) (*models.User, error) {
	user := &models.User{
		DiscordID:   discordID,
		DisplayName: displayName,
		AvatarURL:   avatarURL,
		Role:        models.RoleUser,
	}
	if err := s.users.UpsertByDiscordID(ctx, user); err != nil {
		return nil, err
	}

	// Re-read so callers get the stored row (role, subscriptions, library)
	// rather than the bare upsert payload.
	stored, err := s.users.GetByDiscordID(ctx, discordID)
	if err != nil {
		return nil, err
	}

	s.feed.Publish(ctx, changefeed.NewEvent(changefeed.TableUsers, stored.ID, changefeed.OpUpdated))
	s.log.Info("profile upserted", "user_id", stored.ID, "discord_id", discordID)
	return stored, nil
}

func (s *ProfileService) Get(ctx context.Context, userID uint) (*models.User, error) {
	return s.users.GetByID(ctx, userID)
}

// SetLibrary replaces the user's game library.
func (s *ProfileService) SetLibrary(ctx context.Context, userID uint, entries []models.GameLibraryEntry) (*models.User, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.users.ReplaceLibrary(ctx, userID, entries); err != nil {
		return nil, err
	}
	s.feed.Publish(ctx, changefeed.NewEvent(changefeed.TableUsers, userID, changefeed.OpUpdated))
	return s.users.GetByID(ctx, userID)
}

// SetAvailability replaces the user's weekly availability windows.
func (s *ProfileService) SetAvailability(ctx context.Context, userID uint, slots []models.AvailabilitySlot) (*models.User, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.users.ReplaceAvailability(ctx, userID, slots); err != nil {
		return nil, err
	}
	s.feed.Publish(ctx, changefeed.NewEvent(changefeed.TableUsers, userID, changefeed.OpUpdated))
	return s.users.GetByID(ctx, userID)
}

// SetPushSubscription registers the user's Web Push subscription.
func (s *ProfileService) SetPushSubscription(ctx context.Context, userID uint, endpoint, p256dh, auth string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	user.PushEndpoint = endpoint
	user.PushP256dh = p256dh
	user.PushAuth = auth
	if err := s.users.Save(ctx, user); err != nil {
		return err
	}
	s.feed.Publish(ctx, changefeed.NewEvent(changefeed.TableUsers, userID, changefeed.OpUpdated))
	return nil
}

// ClearPushSubscription removes the subscription. Pending notifications for
// the user will fail delivery from then on.
func (s *ProfileService) ClearPushSubscription(ctx context.Context, userID uint) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	user.PushEndpoint = ""
	user.PushP256dh = ""
	user.PushAuth = ""
	if err := s.users.Save(ctx, user); err != nil {
		return err
	}
	s.feed.Publish(ctx, changefeed.NewEvent(changefeed.TableUsers, userID, changefeed.OpUpdated))
	return nil
}
