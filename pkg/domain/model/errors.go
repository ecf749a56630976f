package model

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for domain operations
var (
	ErrInvalidDateRange = goerr.New("invalid date range")
	ErrUnknownPreset    = goerr.New("unknown date range preset")
	ErrSessionNotFound  = goerr.New("view session not found")
)
