package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nandanugg/canvass/module/canvass/domain"
	"github.com/nandanugg/canvass/sdk/geo"
	"github.com/nandanugg/canvass/sdk/money"
)

type moneyResponse struct {
	Minor    int64  `json:"minor"`
	Currency string `json:"currency"`
	Display  string `json:"display"`
}

func toMoneyResponse(m money.Money, locale string) moneyResponse {
	return moneyResponse{
		Minor:    m.ToMinor(),
		Currency: m.Currency().String(),
		Display:  m.Format(locale),
	}
}

type geofenceResponse struct {
	IsWithinGeofence bool    `json:"is_within_geofence"`
	DistanceMeters   float64 `json:"distance_meters"`
}

func toGeofenceResponse(res *geo.GeofenceResult) *geofenceResponse {
	if res == nil {
		return nil
	}
	return &geofenceResponse{IsWithinGeofence: res.IsWithinGeofence, DistanceMeters: res.DistanceMeters}
}

// locationInput accepts either latitude/longitude or a "lat, lon" string.
type locationInput struct {
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Coordinates string   `json:"coordinates"`
}

func (in locationInput) present() bool {
	return in.Coordinates != "" || in.Latitude != nil || in.Longitude != nil
}

func (in locationInput) resolve() (geo.Coordinates, error) {
	var c geo.Coordinates
	switch {
	case in.Coordinates != "":
		var ok bool
		if c, ok = geo.ParseCoordinates(in.Coordinates); !ok {
			return geo.Coordinates{}, errors.New("coordinates: expected \"<lat>, <lon>\"")
		}
	case in.Latitude == nil || in.Longitude == nil:
		return geo.Coordinates{}, errors.New("latitude and longitude are required")
	default:
		c = geo.Coordinates{Latitude: *in.Latitude, Longitude: *in.Longitude}
	}
	if err := c.Validate(); err != nil {
		return geo.Coordinates{}, err
	}
	return c, nil
}

func parseUnixQuery(c *gin.Context, name string) (time.Time, error) {
	v, err := strconv.ParseInt(c.Query(name), 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(v, 0), nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest),
		errors.Is(err, domain.ErrInvalidLocation),
		errors.Is(err, domain.ErrInvalidInvoice),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, money.ErrUnsupportedCurrency):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateEvent),
		errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrOutsideGeofence),
		errors.Is(err, domain.ErrOverpayment),
		errors.Is(err, domain.ErrCreditLimit),
		errors.Is(err, money.ErrCurrencyMismatch):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}

	var gerr *domain.GeofenceError
	if errors.As(err, &gerr) {
		c.JSON(status, gin.H{
			"error":           err.Error(),
			"distance_meters": gerr.Result.DistanceMeters,
			"geofence_meters": gerr.GeofenceMeters,
		})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
