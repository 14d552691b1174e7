package inventory

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// StockLevel classifies the available-unit count for a blood type
type StockLevel string

const (
	StockLevelLow    StockLevel = "LOW"
	StockLevelNormal StockLevel = "NORMAL"
	StockLevelHigh   StockLevel = "HIGH"
)

// StockThresholds holds the policy boundaries for stock level classification.
// Counts below Low are LOW; counts at or above High are HIGH.
type StockThresholds struct {
	Low  int
	High int
}

// DefaultStockThresholds returns the standard policy thresholds
func DefaultStockThresholds() StockThresholds {
	return StockThresholds{Low: 5, High: 15}
}

// Classify maps an available-unit count to a stock level
func (t StockThresholds) Classify(availableUnits int) StockLevel {
	switch {
	case availableUnits < t.Low:
		return StockLevelLow
	case availableUnits >= t.High:
		return StockLevelHigh
	default:
		return StockLevelNormal
	}
}

// BloodTypeStatistics is the per-type breakdown over Available units
type BloodTypeStatistics struct {
	BloodType       string          `json:"blood_type"`
	AvailableUnits  int             `json:"available_units"`
	AvailableVolume decimal.Decimal `json:"available_volume"`
	StockLevel      StockLevel      `json:"stock_level"`
}

// InventoryStatistics is the aggregate stock report
type InventoryStatistics struct {
	TotalUnits      int                     `json:"total_units"`
	TotalVolume     decimal.Decimal         `json:"total_volume"`
	CountsByStatus  map[BloodUnitStatus]int `json:"counts_by_status"`
	NearExpiryCount int                     `json:"near_expiry_count"`
	ByBloodType     []BloodTypeStatistics   `json:"by_blood_type"`
	GeneratedAt     time.Time               `json:"generated_at"`
}

// ComputeStatistics rolls up unit counts and volumes. Totals cover the full
// unit set regardless of status; the per-type breakdown covers Available
// units only. An empty input yields zero-valued aggregates, never an error.
func ComputeStatistics(units []BloodUnit, now time.Time, thresholds StockThresholds) InventoryStatistics {
	stats := InventoryStatistics{
		TotalVolume:    decimal.Zero,
		CountsByStatus: make(map[BloodUnitStatus]int),
		GeneratedAt:    now,
	}

	type typeAccum struct {
		count  int
		volume decimal.Decimal
	}
	byType := make(map[string]*typeAccum)

	for i := range units {
		unit := &units[i]
		stats.TotalUnits++
		stats.TotalVolume = stats.TotalVolume.Add(unit.Quantity)
		stats.CountsByStatus[unit.Status]++
		if unit.IsNearExpiry(now) {
			stats.NearExpiryCount++
		}

		if unit.Status != StatusAvailable {
			continue
		}
		name := unit.BloodTypeName()
		acc, ok := byType[name]
		if !ok {
			acc = &typeAccum{volume: decimal.Zero}
			byType[name] = acc
		}
		acc.count++
		acc.volume = acc.volume.Add(unit.Quantity)
	}

	stats.ByBloodType = make([]BloodTypeStatistics, 0, len(byType))
	for name, acc := range byType {
		stats.ByBloodType = append(stats.ByBloodType, BloodTypeStatistics{
			BloodType:       name,
			AvailableUnits:  acc.count,
			AvailableVolume: acc.volume,
			StockLevel:      thresholds.Classify(acc.count),
		})
	}
	sort.Slice(stats.ByBloodType, func(i, j int) bool {
		return stats.ByBloodType[i].BloodType < stats.ByBloodType[j].BloodType
	})

	return stats
}
