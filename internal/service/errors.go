package service

import "errors"

var (
	ErrRoomNotFound   = errors.New("room not found")
	ErrDeckNotFound   = errors.New("deck not found")
	ErrInvalidMode    = errors.New("unsupported session mode")
	ErrInternalServer = errors.New("internal server error")
)
