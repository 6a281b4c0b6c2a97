package domain

import "errors"

var (
	ErrInvalidSearchParameters  = errors.New("invalid search parameters")
	ErrInvalidListingParameters = errors.New("invalid listing parameters")
	ErrGeocodingFailure         = errors.New("geocoding failed")
	ErrImageUploadFailure       = errors.New("image upload failed")
	ErrListingNotFound          = errors.New("listing not found")
	ErrDeleteNotAllowed         = errors.New("listing delete not allowed")
	ErrFavoriteNotFound         = errors.New("favorite not found")
	ErrDuplicateFavorite        = errors.New("favorite already exists")
)
