package rest

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/staybooking/listing-service/internal/listing/domain"
	"github.com/staybooking/listing-service/internal/listing/usecase"
	"github.com/staybooking/listing-service/internal/platform/logger"
)

const dateLayout = "2006-01-02"

type Handler struct {
	search    *usecase.SearchUsecase
	listings  *usecase.ListingUsecase
	favorites *usecase.FavoriteUsecase
	logger    *logger.Logger
}

func NewHandler(search *usecase.SearchUsecase, listings *usecase.ListingUsecase, favorites *usecase.FavoriteUsecase, log *logger.Logger) *Handler {
	return &Handler{
		search:    search,
		listings:  listings,
		favorites: favorites,
		logger:    log,
	}
}

// Register wires routes. Search and single-listing reads are public; every
// mutation and host/guest-scoped read requires a verified identity.
func (h *Handler) Register(e *echo.Echo, jwtSecret string) {
	e.GET("/listings/search", h.SearchListings)
	e.GET("/listings/:id", h.GetListing)

	auth := e.Group("", JWTAuth(jwtSecret, h.logger))
	auth.POST("/listings", h.CreateListing)
	auth.DELETE("/listings/:id", h.DeleteListing)
	auth.GET("/host/listings", h.ListMyListings)
	auth.POST("/favorites/:listingId", h.AddFavorite)
	auth.DELETE("/favorites/:listingId", h.RemoveFavorite)
	auth.GET("/favorites", h.ListFavorites)
}

type errorResponse struct {
	Error string `json:"error"`
}

// httpStatus maps domain error variants to response codes.
func httpStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidSearchParameters),
		errors.Is(err, domain.ErrInvalidListingParameters):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrListingNotFound),
		errors.Is(err, domain.ErrFavoriteNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDeleteNotAllowed):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrDuplicateFavorite):
		return http.StatusConflict
	case errors.Is(err, domain.ErrGeocodingFailure),
		errors.Is(err, domain.ErrImageUploadFailure):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func fail(c echo.Context, err error) error {
	return c.JSON(httpStatus(err), errorResponse{Error: err.Error()})
}

func (h *Handler) SearchListings(c echo.Context) error {
	lat, err := strconv.ParseFloat(c.QueryParam("lat"), 64)
	if err != nil {
		return fail(c, domain.ErrInvalidSearchParameters)
	}
	lon, err := strconv.ParseFloat(c.QueryParam("lon"), 64)
	if err != nil {
		return fail(c, domain.ErrInvalidSearchParameters)
	}
	radiusKm, err := strconv.ParseFloat(c.QueryParam("radius_km"), 64)
	if err != nil {
		return fail(c, domain.ErrInvalidSearchParameters)
	}
	checkIn, err := time.Parse(dateLayout, c.QueryParam("check_in"))
	if err != nil {
		return fail(c, domain.ErrInvalidSearchParameters)
	}
	checkOut, err := time.Parse(dateLayout, c.QueryParam("check_out"))
	if err != nil {
		return fail(c, domain.ErrInvalidSearchParameters)
	}
	guests := 0
	if raw := c.QueryParam("guests"); raw != "" {
		guests, err = strconv.Atoi(raw)
		if err != nil {
			return fail(c, domain.ErrInvalidSearchParameters)
		}
	}

	views, err := h.search.Search(c.Request().Context(), lat, lon, radiusKm, checkIn, checkOut, guests)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, views)
}

func (h *Handler) GetListing(c echo.Context) error {
	view, err := h.listings.GetListingByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *Handler) CreateListing(c echo.Context) error {
	hostID, err := callerID(c)
	if err != nil {
		return err
	}

	guestCapacity, err := strconv.Atoi(c.FormValue("guest_capacity"))
	if err != nil {
		return fail(c, domain.ErrInvalidListingParameters)
	}

	var images [][]byte
	form, err := c.MultipartForm()
	if err == nil {
		for _, fileHeader := range form.File["images"] {
			file, err := fileHeader.Open()
			if err != nil {
				return fail(c, domain.ErrInvalidListingParameters)
			}
			data, err := io.ReadAll(file)
			file.Close()
			if err != nil {
				return fail(c, domain.ErrInvalidListingParameters)
			}
			images = append(images, data)
		}
	}

	listing, err := h.listings.CreateListing(
		c.Request().Context(),
		hostID,
		c.FormValue("name"),
		c.FormValue("address"),
		c.FormValue("description"),
		guestCapacity,
		images,
	)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]string{"id": listing.ID})
}

func (h *Handler) DeleteListing(c echo.Context) error {
	hostID, err := callerID(c)
	if err != nil {
		return err
	}
	if err := h.listings.DeleteListing(c.Request().Context(), hostID, c.Param("id")); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListMyListings(c echo.Context) error {
	hostID, err := callerID(c)
	if err != nil {
		return err
	}
	views, err := h.listings.ListByHost(c.Request().Context(), hostID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, views)
}

func (h *Handler) AddFavorite(c echo.Context) error {
	guestID, err := callerID(c)
	if err != nil {
		return err
	}
	if err := h.favorites.AddFavorite(c.Request().Context(), guestID, c.Param("listingId")); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusCreated)
}

func (h *Handler) RemoveFavorite(c echo.Context) error {
	guestID, err := callerID(c)
	if err != nil {
		return err
	}
	if err := h.favorites.RemoveFavorite(c.Request().Context(), guestID, c.Param("listingId")); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListFavorites(c echo.Context) error {
	guestID, err := callerID(c)
	if err != nil {
		return err
	}
	favorites, err := h.favorites.GetFavorites(c.Request().Context(), guestID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, favorites)
}
