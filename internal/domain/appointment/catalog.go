package appointment

import (
	"fmt"
	"strings"
)

type VehicleSize string

const (
	SizeSedan  VehicleSize = "seda"
	SizeSUV    VehicleSize = "suv"
	SizePickup VehicleSize = "caminhonete"
)

var vehicleSizes = []VehicleSize{SizeSedan, SizeSUV, SizePickup}

func (s VehicleSize) Label() string {
	switch s {
	case SizeSedan:
		return "Sedã"
	case SizeSUV:
		return "SUV"
	case SizePickup:
		return "Caminhonete"
	}
	return string(s)
}

func ParseVehicleSize(s string) (VehicleSize, bool) {
	size := VehicleSize(strings.ToLower(strings.TrimSpace(s)))
	for _, v := range vehicleSizes {
		if v == size {
			return v, true
		}
	}
	return "", false
}

type WashTier string

const (
	TierBasic    WashTier = "basica"
	TierPremium  WashTier = "premium"
	TierDetailed WashTier = "detalhada"
)

var washTiers = []WashTier{TierBasic, TierPremium, TierDetailed}

func (t WashTier) Label() string {
	switch t {
	case TierBasic:
		return "Lavação Básica"
	case TierPremium:
		return "Lavação Premium"
	case TierDetailed:
		return "Lavação Detalhada"
	}
	return string(t)
}

// ServiceType encodes wash tier and vehicle size, e.g. "lavacao-premium-suv".
type ServiceType string

func NewServiceType(tier WashTier, size VehicleSize) ServiceType {
	return ServiceType(fmt.Sprintf("lavacao-%s-%s", tier, size))
}

type Service struct {
	Type  ServiceType `json:"type"`
	Tier  WashTier    `json:"tier"`
	Size  VehicleSize `json:"vehicleSize"`
	Label string      `json:"label"`
	Price float64     `json:"price"`
}

var servicePrices = map[ServiceType]float64{
	"lavacao-basica-seda":           60,
	"lavacao-basica-suv":            70,
	"lavacao-basica-caminhonete":    80,
	"lavacao-premium-seda":          90,
	"lavacao-premium-suv":           110,
	"lavacao-premium-caminhonete":   140,
	"lavacao-detalhada-seda":        250,
	"lavacao-detalhada-suv":         300,
	"lavacao-detalhada-caminhonete": 350,
}

var waxPrices = map[VehicleSize]float64{
	SizeSedan:  40,
	SizeSUV:    50,
	SizePickup: 60,
}

func LookupService(st ServiceType) (Service, bool) {
	price, ok := servicePrices[st]
	if !ok {
		return Service{}, false
	}

	for _, tier := range washTiers {
		for _, size := range vehicleSizes {
			if NewServiceType(tier, size) == st {
				return Service{
					Type:  st,
					Tier:  tier,
					Size:  size,
					Label: tier.Label() + " - " + size.Label(),
					Price: price,
				}, true
			}
		}
	}
	return Service{}, false
}

// Catalog lists every service ordered by tier, then vehicle size.
func Catalog() []Service {
	out := make([]Service, 0, len(servicePrices))
	for _, tier := range washTiers {
		for _, size := range vehicleSizes {
			if svc, ok := LookupService(NewServiceType(tier, size)); ok {
				out = append(out, svc)
			}
		}
	}
	return out
}

func WaxPrice(size VehicleSize) float64 {
	return waxPrices[size]
}

func WaxPrices() map[VehicleSize]float64 {
	out := make(map[VehicleSize]float64, len(waxPrices))
	for k, v := range waxPrices {
		out[k] = v
	}
	return out
}
