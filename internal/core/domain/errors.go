package domain

import "errors"

var (
	ErrCanvasNotFound      = errors.New("canvas not found")
	ErrMediaObjectNotFound = errors.New("media object not found")
	ErrGrantNotFound       = errors.New("grant not found")
	ErrModCacheMiss        = errors.New("mod cache entry not found")
	ErrCanvasLocked        = errors.New("canvas is locked")
)
