package apperr

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrNoFeedConfigured = errors.New("no feed source configured")
	ErrRefreshInFlight  = errors.New("refresh already in flight")
	ErrStaleRefresh     = errors.New("superseded by a newer refresh")
)
