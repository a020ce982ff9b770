package appointment

import (
	"math"
	"strings"

	"github.com/BruksfildServices01/detailing-scheduler/internal/httperr"
)

var (
	ErrInvalidServiceType  = httperr.ErrBusiness("invalid_service_type")
	ErrInvalidVehicleSize  = httperr.ErrBusiness("invalid_vehicle_size")
	ErrVehicleSizeConflict = httperr.ErrBusiness("vehicle_size_conflict")
)

// TotalPrice is the catalog price plus the wax surcharge for the size
// encoded in the service type.
func TotalPrice(st ServiceType, hasWax bool) (float64, error) {
	svc, ok := LookupService(st)
	if !ok {
		return 0, ErrInvalidServiceType
	}

	total := svc.Price
	if hasWax {
		total += WaxPrice(svc.Size)
	}
	return RoundPrice(total), nil
}

func RoundPrice(v float64) float64 {
	return math.Round(v*100) / 100
}

// InferVehicleSize guesses a size from the free-text car model.
func InferVehicleSize(carModel string) VehicleSize {
	model := strings.ToLower(carModel)
	switch {
	case strings.Contains(model, "suv"):
		return SizeSUV
	case strings.Contains(model, "caminhonete"):
		return SizePickup
	default:
		return SizeSedan
	}
}

type SizeResolution struct {
	Size     VehicleSize
	Inferred VehicleSize
	// Mismatch is set when the car-model heuristic disagrees with Size.
	Mismatch bool
}

// ResolveVehicleSize reconciles the service type, an explicitly selected
// size and the car-model heuristic. The service type wins; an explicit size
// must agree with it; the heuristic is only reported.
func ResolveVehicleSize(explicit string, st ServiceType, carModel string) (SizeResolution, error) {
	svc, ok := LookupService(st)
	if !ok {
		return SizeResolution{}, ErrInvalidServiceType
	}

	if strings.TrimSpace(explicit) != "" {
		size, ok := ParseVehicleSize(explicit)
		if !ok {
			return SizeResolution{}, ErrInvalidVehicleSize
		}
		if size != svc.Size {
			return SizeResolution{}, ErrVehicleSizeConflict
		}
	}

	inferred := InferVehicleSize(carModel)
	return SizeResolution{
		Size:     svc.Size,
		Inferred: inferred,
		Mismatch: inferred != svc.Size,
	}, nil
}
