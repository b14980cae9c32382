package commands

import (
	"context"
	"log/slog"
	"strings"

	application "adpilot/contexts/campaign-automation/campaign-wizard/application"
	"adpilot/contexts/campaign-automation/campaign-wizard/domain/entities"
	domainerrors "adpilot/contexts/campaign-automation/campaign-wizard/domain/errors"
	"adpilot/contexts/campaign-automation/campaign-wizard/ports"
)

type SaveCredentialCommand struct {
	UserID      string
	AccessToken string
	AdAccountID string
	PageID      string
}

// SaveCredentialUseCase verifies a platform token and stores it encrypted.
// Must not run concurrently with an in-flight launch for the same account;
// callers sequence it before the wizard flow starts.
type SaveCredentialUseCase struct {
	Credentials ports.CredentialRepository
	Platform    ports.AdPlatform
	Cipher      ports.TokenCipher
	Logger      *slog.Logger
}

func (uc SaveCredentialUseCase) Execute(ctx context.Context, cmd SaveCredentialCommand) error {
	logger := application.ResolveLogger(uc.Logger)
	userID := strings.TrimSpace(cmd.UserID)
	token := strings.TrimSpace(cmd.AccessToken)
	accountID := strings.TrimSpace(cmd.AdAccountID)
	if userID == "" || token == "" || accountID == "" {
		return domainerrors.ErrInvalidTaskInput
	}

	encrypted, err := uc.Cipher.Encrypt(token)
	if err != nil {
		return err
	}
	credential := entities.AdCredential{
		UserID:         userID,
		AccessTokenEnc: encrypted,
		AdAccountID:    accountID,
		PageID:         strings.TrimSpace(cmd.PageID),
	}

	valid, err := uc.Platform.VerifyCredential(ctx, credential)
	if err != nil {
		return err
	}
	if !valid {
		return domainerrors.ErrCredentialInvalid
	}

	if err := uc.Credentials.PutCredential(ctx, credential); err != nil {
		return err
	}
	logger.Info("ad platform credential stored",
		"event", "wizard_credential_stored",
		"module", "campaign-automation/campaign-wizard",
		"layer", "application",
		"user_id", userID,
		"ad_account_id", accountID,
	)
	return nil
}
