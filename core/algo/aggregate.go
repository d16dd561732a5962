package algo

import (
	"github.com/huangsam/mri/schema"
)

type roleDriver struct {
	role   string
	driver schema.DriverKey
}

// Aggregate computes the snapshot for a set of observations.
//
// Each role scores the weighted sum of score/4 over the drivers it was observed
// on. Drivers a role was not observed on are left out of that sum. The overall
// score is the mean of the reported (rounded) role percentages, rounded once
// more. Every driver of the set
// gets a breakdown entry, in set order, holding its mean score across roles.
// Roles appear in the order they are first observed.
func Aggregate(observations []schema.Observation, set DriverSet) (schema.Snapshot, error) {
	if !set.valid() {
		return schema.Snapshot{}, &DriverWeightsInvalidError{Sum: set.sum, Reason: "driver set was not built by NewDriverSet"}
	}

	seen := make(map[roleDriver]struct{}, len(observations))
	roleIndex := make(map[string]int)
	var roleOrder []string
	roleRaw := make([]float64, 0)
	driverSum := make([]float64, set.Len())
	driverCount := make([]int, set.Len())

	for _, o := range observations {
		if o.RoleID == "" {
			return schema.Snapshot{}, &ValidationError{RoleID: o.RoleID, Driver: o.Driver, Score: o.Score, Err: ErrEmptyRole}
		}
		pos := set.Position(o.Driver)
		if pos < 0 {
			return schema.Snapshot{}, &UnknownDriverError{RoleID: o.RoleID, Driver: o.Driver}
		}
		if o.Score < schema.MinOrdinal || o.Score > schema.MaxOrdinal {
			return schema.Snapshot{}, &ValidationError{RoleID: o.RoleID, Driver: o.Driver, Score: o.Score, Err: ErrInvalidScore}
		}
		key := roleDriver{role: o.RoleID, driver: o.Driver}
		if _, dup := seen[key]; dup {
			return schema.Snapshot{}, &ValidationError{RoleID: o.RoleID, Driver: o.Driver, Score: o.Score, Err: ErrDuplicateObservation}
		}
		seen[key] = struct{}{}

		ri, ok := roleIndex[o.RoleID]
		if !ok {
			ri = len(roleOrder)
			roleIndex[o.RoleID] = ri
			roleOrder = append(roleOrder, o.RoleID)
			roleRaw = append(roleRaw, 0)
		}
		roleRaw[ri] += set.defs[pos].Weight * float64(o.Score) / schema.MaxOrdinal
		driverSum[pos] += float64(o.Score)
		driverCount[pos]++
	}

	snap := schema.Snapshot{
		Roles:   make([]schema.RoleScore, len(roleOrder)),
		Drivers: make([]schema.DriverScore, set.Len()),
	}

	var pctTotal float64
	for i, role := range roleOrder {
		snap.Roles[i] = schema.RoleScore{
			RoleID:     role,
			Raw:        roleRaw[i],
			Percentage: Round1(roleRaw[i] * 100),
		}
		pctTotal += snap.Roles[i].Percentage
	}
	if len(roleOrder) > 0 {
		snap.Overall = Round1(pctTotal / float64(len(roleOrder)))
	}

	for i, d := range set.defs {
		var mean float64
		if driverCount[i] > 0 {
			mean = driverSum[i] / float64(driverCount[i])
		}
		snap.Drivers[i] = schema.DriverScore{
			Driver:     d.Key,
			Name:       d.Name,
			Mean:       mean,
			Percentage: toPercentage(mean / schema.MaxOrdinal),
		}
	}
	snap.TopDriver = topDriver(snap.Drivers)

	return snap, nil
}

// topDriver returns the driver with the strictly highest percentage.
// Ties keep the earlier driver. An empty breakdown has no top driver.
func topDriver(drivers []schema.DriverScore) *schema.DriverKey {
	if len(drivers) == 0 {
		return nil
	}
	best := 0
	for i := 1; i < len(drivers); i++ {
		if drivers[i].Percentage > drivers[best].Percentage {
			best = i
		}
	}
	key := drivers[best].Driver
	return &key
}
