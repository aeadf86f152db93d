package service

import "errors"

var (
	// ErrUnauthenticated means no valid caller identity was supplied.
	ErrUnauthenticated = errors.New("caller is not authenticated")

	// ErrNotFound means the referenced record does not exist for this owner.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateChannel means the owner already registered this channel name.
	ErrDuplicateChannel = errors.New("channel already registered")

	// ErrNoChannelsRegistered means a sync was requested before any channel
	// was registered. Recoverable by the caller, not a system fault.
	ErrNoChannelsRegistered = errors.New("no channels registered")

	// ErrEmptyChannelName means the channel name was blank.
	ErrEmptyChannelName = errors.New("channel name must not be empty")
)
