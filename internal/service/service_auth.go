package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Txrmarcos/offuscate-relay/internal/config"
	"github.com/Txrmarcos/offuscate-relay/internal/logger"
	"github.com/Txrmarcos/offuscate-relay/internal/utils"
	"github.com/Txrmarcos/offuscate-relay/models"
)

// authService is the concrete implementation of AuthService. Operator
// tokens gate the batch-control surface and the amount-disclosing parts of
// the status endpoints; there is no end-user authentication because donors
// are deliberately anonymous.
type authService struct {
	// tokenSignKey is the HMAC secret used to sign and verify JWT tokens.
	tokenSignKey string

	// tokenIssuer is the "iss" claim embedded in every issued JWT.
	// Tokens whose issuer does not match this value are rejected during
	// parsing.
	tokenIssuer string

	// tokenDuration controls how long a newly issued JWT remains valid.
	tokenDuration time.Duration

	logger *logger.Logger
}

// NewAuthService constructs an AuthService populated with security
// parameters from cfg.
//
// The returned service is safe for concurrent use; all state is read-only
// after construction.
func NewAuthService(cfg config.App, logger *logger.Logger) AuthService {
	return &authService{
		tokenSignKey:  cfg.TokenSignKey,
		tokenIssuer:   cfg.TokenIssuer,
		tokenDuration: cfg.TokenDuration,
		logger:        logger,
	}
}

func (a *authService) CreateToken(ctx context.Context, operatorID string) (models.Token, error) {
	log := logger.FromContext(ctx)

	token, err := utils.GenerateJWTToken(a.tokenIssuer, operatorID, a.tokenDuration, a.tokenSignKey)
	if err != nil {
		log.Err(err).
			Str("func", "authService.CreateToken").
			Str("operator_id", operatorID).
			Msg("token generation failed")
		return models.Token{}, fmt.Errorf("token generation: %w", err)
	}

	return token, nil
}

func (a *authService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	token, err := utils.ValidateAndParseJWTToken(tokenString, a.tokenSignKey, a.tokenIssuer)
	if err != nil {
		return models.Token{}, fmt.Errorf("token validation: %w", err)
	}

	return token, nil
}
