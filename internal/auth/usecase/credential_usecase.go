package usecase

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"

	"mailboard/internal/auth/domain"
	"mailboard/internal/auth/repository"
)

// CredentialUsecase manages per-user mail provider credentials. It doubles as
// the token/credential store the provider adapters read from.
type CredentialUsecase interface {
	SaveGmailTokens(ctx context.Context, userID, accessToken, refreshToken string) error
	SaveIMAPCredentials(ctx context.Context, userID, username, password string) error
	ConnectionStatus(ctx context.Context, userID string) (gmail, imap bool, err error)

	// Tokens and UpdateAccessToken implement the Gmail adapter's token store.
	Tokens(ctx context.Context, userID string) (accessToken, refreshToken string, err error)
	UpdateAccessToken(ctx context.Context, userID string, token *oauth2.Token) error

	// Credentials implements the IMAP adapter's credential store.
	Credentials(ctx context.Context, userID string) (username, password string, err error)
}

type credentialUsecase struct {
	repo repository.CredentialRepository
}

func NewCredentialUsecase(repo repository.CredentialRepository) CredentialUsecase {
	return &credentialUsecase{repo: repo}
}

func (u *credentialUsecase) getOrNew(userID string) (*domain.ProviderCredential, error) {
	cred, err := u.repo.GetByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load credentials: %w", err)
	}
	if cred == nil {
		cred = &domain.ProviderCredential{UserID: userID}
	}
	return cred, nil
}

func (u *credentialUsecase) SaveGmailTokens(ctx context.Context, userID, accessToken, refreshToken string) error {
	cred, err := u.getOrNew(userID)
	if err != nil {
		return err
	}
	cred.AccessToken = accessToken
	if refreshToken != "" {
		cred.RefreshToken = refreshToken
	}
	return u.repo.Save(cred)
}

func (u *credentialUsecase) SaveIMAPCredentials(ctx context.Context, userID, username, password string) error {
	cred, err := u.getOrNew(userID)
	if err != nil {
		return err
	}
	cred.IMAPUsername = username
	cred.IMAPPassword = password
	return u.repo.Save(cred)
}

func (u *credentialUsecase) ConnectionStatus(ctx context.Context, userID string) (bool, bool, error) {
	cred, err := u.repo.GetByUserID(userID)
	if err != nil {
		return false, false, fmt.Errorf("failed to load credentials: %w", err)
	}
	if cred == nil {
		return false, false, nil
	}
	gmail := cred.AccessToken != "" || cred.RefreshToken != ""
	imap := cred.IMAPUsername != "" && cred.IMAPPassword != ""
	return gmail, imap, nil
}

func (u *credentialUsecase) Tokens(ctx context.Context, userID string) (string, string, error) {
	cred, err := u.repo.GetByUserID(userID)
	if err != nil {
		return "", "", fmt.Errorf("failed to load credentials: %w", err)
	}
	if cred == nil || (cred.AccessToken == "" && cred.RefreshToken == "") {
		return "", "", fmt.Errorf("no gmail tokens stored for user %s", userID)
	}
	return cred.AccessToken, cred.RefreshToken, nil
}

func (u *credentialUsecase) UpdateAccessToken(ctx context.Context, userID string, token *oauth2.Token) error {
	cred, err := u.getOrNew(userID)
	if err != nil {
		return err
	}
	cred.AccessToken = token.AccessToken
	if token.RefreshToken != "" {
		cred.RefreshToken = token.RefreshToken
	}
	return u.repo.Save(cred)
}

func (u *credentialUsecase) Credentials(ctx context.Context, userID string) (string, string, error) {
	cred, err := u.repo.GetByUserID(userID)
	if err != nil {
		return "", "", fmt.Errorf("failed to load credentials: %w", err)
	}
	if cred == nil || cred.IMAPUsername == "" {
		return "", "", fmt.Errorf("no imap credentials stored for user %s", userID)
	}
	return cred.IMAPUsername, cred.IMAPPassword, nil
}
