package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHolidayAppliesTo(t *testing.T) {
	bavaria := "BY"
	berlin := "BE"

	countryWide := &Holiday{Date: time.Now(), CountryCode: "DE"}
	regional := &Holiday{Date: time.Now(), CountryCode: "DE", RegionCode: &bavaria}

	assert.True(t, countryWide.AppliesTo("DE", nil))
	assert.True(t, countryWide.AppliesTo("DE", &berlin))
	assert.False(t, countryWide.AppliesTo("GB", nil))

	assert.True(t, regional.AppliesTo("DE", &bavaria))
	assert.False(t, regional.AppliesTo("DE", &berlin))
	assert.False(t, regional.AppliesTo("DE", nil))
	assert.False(t, regional.AppliesTo("GB", &bavaria))
}

func TestShiftDefinitionMatchesLocation(t *testing.T) {
	bavaria := "BY"

	unscoped := &ShiftDefinition{Kind: ShiftKindEarly}
	country := &ShiftDefinition{Kind: ShiftKindEarly, CountryCodes: []string{"DE", "AT"}}
	region := &ShiftDefinition{Kind: ShiftKindEarly, CountryCodes: []string{"DE"}, RegionCode: &bavaria}

	// unscoped definitions sit in their own resolution tier
	assert.False(t, unscoped.MatchesLocation("DE", nil))

	assert.True(t, country.MatchesLocation("DE", nil))
	assert.True(t, country.MatchesLocation("AT", nil))
	assert.False(t, country.MatchesLocation("GB", nil))

	assert.True(t, region.MatchesLocation("DE", &bavaria))
	assert.False(t, region.MatchesLocation("DE", nil))
}

func TestShiftKindWeekdayOnly(t *testing.T) {
	assert.True(t, ShiftKindEarly.WeekdayOnly())
	assert.True(t, ShiftKindLate.WeekdayOnly())
	assert.True(t, ShiftKindNormal.WeekdayOnly())
	assert.False(t, ShiftKindWeekend.WeekdayOnly())
	assert.False(t, ShiftKindOff.WeekdayOnly())
}

func TestRosterStateEditable(t *testing.T) {
	assert.True(t, RosterStateDraft.Editable())
	assert.True(t, RosterStatePendingApproval.Editable())
	assert.False(t, RosterStateApproved.Editable())
	assert.False(t, RosterStateImplemented.Editable())
}
