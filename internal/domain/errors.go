package domain

import "errors"

// Error message string constants - single source of truth for error messages
const (
	ErrMsgPlayerNotFound   = "player not found"
	ErrMsgItemNotFound     = "item not found"
	ErrMsgNotInInventory   = "item not in inventory"
	ErrMsgInsufficientAura = "insufficient aura"
	ErrMsgSelfTarget       = "cannot target yourself"
	ErrMsgOnCooldown       = "action on cooldown"
	ErrMsgNoActiveLootbox  = "no active lootbox"
	ErrMsgInvalidInput     = "invalid input"
	ErrMsgUnknownCommand   = "unknown command"
	ErrMsgRateLimited      = "rate limited"
)

// Common domain errors. Wrap with fmt.Errorf("%w: ...", domain.ErrXxx)
// for additional context.
var (
	ErrPlayerNotFound   = errors.New(ErrMsgPlayerNotFound)
	ErrItemNotFound     = errors.New(ErrMsgItemNotFound)
	ErrNotInInventory   = errors.New(ErrMsgNotInInventory)
	ErrInsufficientAura = errors.New(ErrMsgInsufficientAura)
	ErrSelfTarget       = errors.New(ErrMsgSelfTarget)
	ErrOnCooldown       = errors.New(ErrMsgOnCooldown)
	ErrNoActiveLootbox  = errors.New(ErrMsgNoActiveLootbox)
	ErrInvalidInput     = errors.New(ErrMsgInvalidInput)
	ErrUnknownCommand   = errors.New(ErrMsgUnknownCommand)
	ErrRateLimited      = errors.New(ErrMsgRateLimited)
)
