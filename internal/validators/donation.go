package validators

import (
	"context"
	"crypto/ed25519"
	"fmt"

	"github.com/mr-tron/base58"

	"github.com/Txrmarcos/offuscate-relay/internal/note"
	"github.com/Txrmarcos/offuscate-relay/models"
)

// Field name constants used to specify which fields should be validated.
// These constants are passed to Validate to restrict validation to a subset
// of fields (field-level scoping).
const (
	// FieldCommitment targets the hex-encoded commitment of the note.
	FieldCommitment = "commitment"

	// FieldNullifier targets the hex-encoded nullifier hash.
	FieldNullifier = "nullifier"

	// FieldSecretHash targets the hex-encoded secret hash.
	FieldSecretHash = "secret_hash"

	// FieldAmount targets the donation amount denomination.
	FieldAmount = "amount"

	// FieldCampaignID targets the campaign identifier.
	FieldCampaignID = "campaign_id"

	// FieldCampaignVault targets the base58 campaign vault address.
	FieldCampaignVault = "campaign_vault"

	// FieldDonorSignature targets the base58 donor authorization signature.
	FieldDonorSignature = "donor_signature"
)

// vaultAddressLen is the decoded byte length of a valid vault address.
const vaultAddressLen = 32

// AllowedAmounts is the exhaustive set of donation denominations the relay
// accepts. Fixed denominations keep individual donations indistinguishable
// by amount inside a batch.
var AllowedAmounts = []uint64{
	100_000_000,   // 0.1
	500_000_000,   // 0.5
	1_000_000_000, // 1.0
}

// AmountAllowed reports whether amount is one of the standardized
// denominations.
func AmountAllowed(amount uint64) bool {
	for _, allowed := range AllowedAmounts {
		if amount == allowed {
			return true
		}
	}
	return false
}

// DonationValidator implements the Validator interface for donation enqueue
// requests. It checks structural validity only: hex field shape, allowed
// denominations, and base58 address and signature format. Whether the
// commitment exists on-chain is the ledger program's concern, not the
// relay's.
type DonationValidator struct {
}

// NewDonationValidator constructs a new DonationValidator
// and returns it as the Validator interface.
func NewDonationValidator() Validator {
	return &DonationValidator{}
}

// Validate dispatches validation to the appropriate type-specific method.
func (v *DonationValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.EnqueueDonationRequest:
		return v.validateEnqueueRequest(ctx, value, fields...)
	case *models.EnqueueDonationRequest:
		return v.validateEnqueueRequest(ctx, *value, fields...)
	default:
		return fmt.Errorf("%w: unsupported type %T", ErrUnsupportedType, obj)
	}
}

func (v *DonationValidator) validateEnqueueRequest(_ context.Context, req models.EnqueueDonationRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{
			FieldCommitment, FieldNullifier, FieldSecretHash,
			FieldAmount, FieldCampaignID, FieldCampaignVault, FieldDonorSignature,
		}
	}

	for _, field := range fields {
		var err error
		switch field {
		case FieldCommitment:
			err = validateHexField(field, req.Commitment)
		case FieldNullifier:
			err = validateHexField(field, req.Nullifier)
		case FieldSecretHash:
			err = validateHexField(field, req.SecretHash)
		case FieldAmount:
			if !AmountAllowed(req.Amount) {
				err = fmt.Errorf("%w: %d is not a supported denomination", ErrAmountNotAllowed, req.Amount)
			}
		case FieldCampaignID:
			if req.CampaignID == "" {
				err = fmt.Errorf("%w: %s", ErrMissingField, field)
			}
		case FieldCampaignVault:
			err = validateVaultAddress(req.CampaignVault)
		case FieldDonorSignature:
			err = validateDonorSignature(req.DonorSignature)
		default:
			err = fmt.Errorf("%w: %s", ErrUnknownField, field)
		}
		if err != nil {
			return err
		}
	}

	return nil
}

func validateHexField(field, value string) error {
	if value == "" {
		return fmt.Errorf("%w: %s", ErrMissingField, field)
	}
	if _, err := note.DecodeHexField(value); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrMalformedField, field, err)
	}
	return nil
}

func validateVaultAddress(address string) error {
	if address == "" {
		return fmt.Errorf("%w: %s", ErrMissingField, FieldCampaignVault)
	}

	decoded, err := base58.Decode(address)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrMalformedField, FieldCampaignVault, err)
	}
	if len(decoded) != vaultAddressLen {
		return fmt.Errorf("%w: %s: decoded to %d bytes, want %d", ErrMalformedField, FieldCampaignVault, len(decoded), vaultAddressLen)
	}

	return nil
}

func validateDonorSignature(signature string) error {
	if signature == "" {
		return fmt.Errorf("%w: %s", ErrMissingField, FieldDonorSignature)
	}

	decoded, err := base58.Decode(signature)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrMalformedField, FieldDonorSignature, err)
	}
	if len(decoded) != ed25519.SignatureSize {
		return fmt.Errorf("%w: %s: decoded to %d bytes, want %d", ErrMalformedField, FieldDonorSignature, len(decoded), ed25519.SignatureSize)
	}

	return nil
}
