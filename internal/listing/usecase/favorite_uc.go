package usecase

import (
	"context"
	"time"

	"github.com/staybooking/listing-service/internal/listing/domain"
	"github.com/staybooking/listing-service/internal/platform/logger"
)

// FavoriteUsecase manages a guest's saved listings.
type FavoriteUsecase struct {
	favorites domain.FavoriteStore
	logger    *logger.Logger
}

func NewFavoriteUsecase(favorites domain.FavoriteStore, log *logger.Logger) *FavoriteUsecase {
	return &FavoriteUsecase{favorites: favorites, logger: log}
}

func (uc *FavoriteUsecase) AddFavorite(ctx context.Context, guestID, listingID string) error {
	uc.logger.Info("FavoriteUsecase.AddFavorite: saving listing", "guest_id", guestID, "listing_id", listingID)
	favorite := &domain.Favorite{
		GuestID:   guestID,
		ListingID: listingID,
		CreatedAt: time.Now(),
	}
	err := uc.favorites.Add(ctx, favorite)
	if err != nil {
		uc.logger.Error("FavoriteUsecase.AddFavorite: failed to save listing", "guest_id", guestID, "listing_id", listingID, "error", err.Error())
	}
	return err
}

func (uc *FavoriteUsecase) RemoveFavorite(ctx context.Context, guestID, listingID string) error {
	uc.logger.Info("FavoriteUsecase.RemoveFavorite: removing saved listing", "guest_id", guestID, "listing_id", listingID)
	err := uc.favorites.Remove(ctx, guestID, listingID)
	if err != nil {
		uc.logger.Error("FavoriteUsecase.RemoveFavorite: failed to remove saved listing", "guest_id", guestID, "listing_id", listingID, "error", err.Error())
	}
	return err
}

func (uc *FavoriteUsecase) GetFavorites(ctx context.Context, guestID string) ([]*domain.Favorite, error) {
	favorites, err := uc.favorites.FindByGuest(ctx, guestID)
	if err != nil {
		uc.logger.Error("FavoriteUsecase.GetFavorites: failed to fetch saved listings", "guest_id", guestID, "error", err.Error())
	}
	return favorites, err
}
