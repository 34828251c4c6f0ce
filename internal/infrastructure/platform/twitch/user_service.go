package twitchinfra

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/nicklaw5/helix/v2"

	"teaBot/internal/domain"
)

type UserService struct {
	client *helix.Client
	mu     sync.RWMutex
}

func NewUserService(clientID, userAccessToken string) (domain.UserLookupService, error) {
	client, err := helix.NewClient(&helix.Options{
		ClientID:        clientID,
		UserAccessToken: userAccessToken,
	})
	if err != nil {
		return nil, fmt.Errorf("helix: NewClient: %w", err)
	}

	return &UserService{
		client: client,
	}, nil
}

func (s *UserService) ResolveID(ctx context.Context, username string) (string, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return "", fmt.Errorf("helix: empty username")
	}

	client := s.getClient()
	resp, err := client.GetUsers(&helix.UsersParams{
		Logins: []string{username},
	})
	if err != nil {
		return "", fmt.Errorf("helix: GetUsers: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("helix: GetUsers failed (%d: %s) %s",
			resp.StatusCode, resp.Error, resp.ErrorMessage)
	}

	if len(resp.Data.Users) == 0 {
		return "", &domain.UserFacingError{
			Reason: fmt.Sprintf("could not find user %s", username),
		}
	}

	return resp.Data.Users[0].ID, nil
}

func (s *UserService) UpdateAccessToken(token string) {
	if s == nil || s.client == nil {
		return
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.client.SetUserAccessToken(token)
}

func (s *UserService) getClient() *helix.Client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.client
}
