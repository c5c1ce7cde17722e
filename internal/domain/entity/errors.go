package entity

import "errors"

var (
	// ErrTokenNotFound is returned when the collection has no token with the requested id.
	ErrTokenNotFound = errors.New("token not found")
	// ErrInvalidTokenID is returned for ids that are not unsigned 256-bit decimals.
	ErrInvalidTokenID = errors.New("invalid token id")
	// ErrCollectionMetadataUnset is returned when the contract has no contract URI.
	ErrCollectionMetadataUnset = errors.New("collection metadata not set")
	// ErrUnknownNetwork is returned when the configured network has no definition.
	ErrUnknownNetwork = errors.New("unknown network")
)
