package world

import "errors"

var (
	ErrActorNotFound     = errors.New("actor not found")
	ErrActorExists       = errors.New("actor already exists")
	ErrContainerNotFound = errors.New("container not found")
	ErrContainerExists   = errors.New("container already exists")
	ErrSlotOutOfRange    = errors.New("slot out of range")
)
