package locations

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/vivimart/storefront-backend/pkg/db/models"
	pkgerrors "github.com/vivimart/storefront-backend/pkg/errors"
	"github.com/vivimart/storefront-backend/pkg/logger"
	"github.com/vivimart/storefront-backend/pkg/maps"
	"github.com/vivimart/storefront-backend/pkg/redis"
)

// LocationContext is the per-customer delivery context. It is cached in
// Redis and overwritten on every change, last write wins.
type LocationContext struct {
	Pincode    string `json:"pincode"`
	City       string `json:"city"`
	LocationID int64  `json:"location_id"`
	StoreID    int64  `json:"store_id"`
}

// ResolvedAddress is what reverse geocoding hands back to the client.
type ResolvedAddress struct {
	FormattedAddress string `json:"formatted_address"`
	PostalCode       string `json:"postal_code"`
	City             string `json:"city"`
}

// Suggestion is one autocomplete candidate.
type Suggestion struct {
	PlaceID     string `json:"place_id"`
	Description string `json:"description"`
}

// Store is the key-value surface the location context needs.
type Store interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	LocationContextKey(phone string) string
}

// Geocoder is the slice of the maps client the service consumes.
type Geocoder interface {
	Autocomplete(ctx context.Context, req maps.AutocompleteRequest) ([]maps.AutocompleteSuggestion, error)
	ReverseGeocode(ctx context.Context, lat, lng float64) (*maps.GeocodeResult, error)
}

// Reader is the repository surface for serviceable locations.
type Reader interface {
	GetByPostalCode(ctx context.Context, pincode string) (*models.Location, error)
}

type Service interface {
	LookupByPostalCode(ctx context.Context, pincode string) (*models.Location, error)
	SetContext(ctx context.Context, phone string, loc LocationContext) error
	GetContext(ctx context.Context, phone string) (*LocationContext, error)
	ResolveCoordinates(ctx context.Context, lat, lng float64) (*ResolvedAddress, error)
	Autocomplete(ctx context.Context, query string) ([]Suggestion, error)
}

type service struct {
	repo     Reader
	store    Store
	geocoder Geocoder
	logg     *logger.Logger
}

// NewService wires the location lookups. The geocoder is optional so
// deployments without a Google Maps key still serve pincode lookups.
func NewService(repo Reader, store Store, geocoder Geocoder, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, errors.New("locations repository is required")
	}
	if store == nil {
		return nil, errors.New("location context store is required")
	}
	if logg == nil {
		return nil, errors.New("logger is required")
	}
	return &service{repo: repo, store: store, geocoder: geocoder, logg: logg}, nil
}

func (s *service) LookupByPostalCode(ctx context.Context, pincode string) (*models.Location, error) {
	pincode = strings.TrimSpace(pincode)
	if pincode == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pincode is required")
	}
	loc, err := s.repo.GetByPostalCode(ctx, pincode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "pincode is not serviceable")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup location")
	}
	return loc, nil
}

func (s *service) SetContext(ctx context.Context, phone string, loc LocationContext) error {
	if strings.TrimSpace(phone) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer phone is required")
	}
	if strings.TrimSpace(loc.Pincode) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "pincode is required")
	}
	if loc.LocationID <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "location id is required")
	}

	blob, err := json.Marshal(loc)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode location context")
	}
	if err := s.store.Set(ctx, s.store.LocationContextKey(phone), string(blob), 0); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store location context")
	}
	return nil
}

func (s *service) GetContext(ctx context.Context, phone string) (*LocationContext, error) {
	if strings.TrimSpace(phone) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer phone is required")
	}
	blob, err := s.store.Get(ctx, s.store.LocationContextKey(phone))
	if err != nil {
		if redis.IsNil(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "location context not set")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read location context")
	}
	var loc LocationContext
	if err := json.Unmarshal([]byte(blob), &loc); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "corrupt location context")
	}
	return &loc, nil
}

func (s *service) ResolveCoordinates(ctx context.Context, lat, lng float64) (*ResolvedAddress, error) {
	if s.geocoder == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "geocoding is not configured")
	}
	result, err := s.geocoder.ReverseGeocode(ctx, lat, lng)
	if err != nil {
		return nil, err
	}
	return &ResolvedAddress{
		FormattedAddress: result.FormattedAddress,
		PostalCode:       result.PostalCode,
		City:             result.City,
	}, nil
}

func (s *service) Autocomplete(ctx context.Context, query string) ([]Suggestion, error) {
	if s.geocoder == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "autocomplete is not configured")
	}
	if strings.TrimSpace(query) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "query is required")
	}
	results, err := s.geocoder.Autocomplete(ctx, maps.AutocompleteRequest{Input: query})
	if err != nil {
		return nil, err
	}
	suggestions := make([]Suggestion, 0, len(results))
	for _, item := range results {
		suggestions = append(suggestions, Suggestion{
			PlaceID:     item.PlaceID,
			Description: item.Description,
		})
	}
	return suggestions, nil
}
