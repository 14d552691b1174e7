package inventory

// BloodUnitStatus is the lifecycle status of a collected blood unit
type BloodUnitStatus string

const (
	// StatusTesting is the initial status after collection, pending quality check
	StatusTesting BloodUnitStatus = "TESTING"
	// StatusAvailable means the unit passed testing and may be allocated
	StatusAvailable BloodUnitStatus = "AVAILABLE"
	// StatusReserved means the unit is allocated to a pending blood request
	StatusReserved BloodUnitStatus = "RESERVED"
	// StatusUsed is terminal: the unit was transfused
	StatusUsed BloodUnitStatus = "USED"
	// StatusExpired is terminal: the unit passed its expiry date.
	// Only the periodic sweep sets this status, never a direct user action.
	StatusExpired BloodUnitStatus = "EXPIRED"
	// StatusRejected is terminal: the unit failed quality testing
	StatusRejected BloodUnitStatus = "REJECTED"
)

// IsValid checks if the status is one of the known values
func (s BloodUnitStatus) IsValid() bool {
	switch s {
	case StatusTesting, StatusAvailable, StatusReserved, StatusUsed, StatusExpired, StatusRejected:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is allowed from this status
func (s BloodUnitStatus) IsTerminal() bool {
	switch s {
	case StatusUsed, StatusExpired, StatusRejected:
		return true
	}
	return false
}

// String returns the string representation
func (s BloodUnitStatus) String() string {
	return string(s)
}

// AllStatuses returns all valid blood unit statuses
func AllStatuses() []BloodUnitStatus {
	return []BloodUnitStatus{
		StatusTesting,
		StatusAvailable,
		StatusReserved,
		StatusUsed,
		StatusExpired,
		StatusRejected,
	}
}
