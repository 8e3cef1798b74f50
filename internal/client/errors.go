package client

import "errors"

var (
	// ErrNoCommand is returned when the donor binary is invoked without a
	// subcommand.
	ErrNoCommand = errors.New("no command provided")

	// ErrUnknownCommand is returned for an unrecognized subcommand.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrNoteNotFound is returned when a donate command references a
	// commitment that is not among the owner's unspent notes.
	ErrNoteNotFound = errors.New("no unspent note with that commitment")

	// ErrKeypairRequired is returned when donate is invoked without a
	// configured signing keypair.
	ErrKeypairRequired = errors.New("donor keypair is required to donate")

	// ErrCampaignNotActive is returned when the target campaign exists but
	// is no longer accepting donations.
	ErrCampaignNotActive = errors.New("campaign is not active")
)
