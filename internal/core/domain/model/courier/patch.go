package courier

import "courierdispatch/internal/core/domain/model/kernel"

// Patch is a partial update of a courier. A nil field is left untouched;
// a non-nil slice replaces the stored set, so an empty slice is rejected.
type Patch struct {
	Type         *Type
	Regions      []int64
	WorkingHours []kernel.TimeInterval
}

// Changes reports which aspects of a courier a patch touched.
type Changes struct {
	Type         bool
	Regions      bool
	WorkingHours bool
}

// Changes returns the aspects set in the patch.
func (p Patch) Changes() Changes {
	return Changes{
		Type:         p.Type != nil,
		Regions:      p.Regions != nil,
		WorkingHours: p.WorkingHours != nil,
	}
}

// Any reports whether at least one aspect changed.
func (c Changes) Any() bool {
	return c.Type || c.Regions || c.WorkingHours
}
