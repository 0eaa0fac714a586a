package residency

import (
	"fmt"

	"fiducia/internal/rates"
)

// SA presence test names as they appear in rationale trails.
const (
	TestOrdinarilyResident = "ordinarily_resident"
	TestCurrentYearDays    = "current_year_days"
	TestEachPriorYearDays  = "each_prior_year_days"
	TestAggregatePriorDays = "aggregate_prior_days"
)

// EvaluateSAPresence runs the SA physical presence test. Ordinary residence
// is decisive on its own; otherwise all three day-count conditions must hold.
// Unlike the SRT, the day-count conditions are all evaluated and recorded
// even after one fails, so the trail always explains the full picture.
func EvaluateSAPresence(in SAPresenceInput, th rates.SAPresenceThresholds) (*Result, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	result := &Result{}

	if in.OrdinarilyResident {
		result.Verdict = VerdictResident
		result.DeterminingTest = TestOrdinarilyResident
		result.Trail = append(result.Trail, TrailEntry{
			Test:       TestOrdinarilyResident,
			Outcome:    string(VerdictResident),
			Conclusive: true,
			Detail:     "ordinarily resident in South Africa",
		})
		return result, nil
	}
	result.Trail = append(result.Trail, TrailEntry{
		Test:    TestOrdinarilyResident,
		Outcome: "not met",
		Detail:  "not ordinarily resident; physical presence conditions apply",
	})

	currentOK := in.DaysCurrentYear >= th.MinDaysCurrentYear
	result.Trail = append(result.Trail, TrailEntry{
		Test:    TestCurrentYearDays,
		Outcome: metOrNot(currentOK),
		Detail:  fmt.Sprintf("%d days in current year (need >= %d)", in.DaysCurrentYear, th.MinDaysCurrentYear),
	})

	priorYears := th.PriorYears
	if priorYears <= 0 || priorYears > len(in.DaysPriorYears) {
		priorYears = len(in.DaysPriorYears)
	}

	eachOK := true
	shortYears := 0
	total := 0
	for _, d := range in.DaysPriorYears[:priorYears] {
		total += d
		if d < th.MinDaysEachPriorYear {
			eachOK = false
			shortYears++
		}
	}
	result.Trail = append(result.Trail, TrailEntry{
		Test:    TestEachPriorYearDays,
		Outcome: metOrNot(eachOK),
		Detail: fmt.Sprintf("%d of %d prior years below %d days",
			shortYears, priorYears, th.MinDaysEachPriorYear),
	})

	totalOK := total >= th.MinTotalPriorDays
	result.Trail = append(result.Trail, TrailEntry{
		Test:    TestAggregatePriorDays,
		Outcome: metOrNot(totalOK),
		Detail:  fmt.Sprintf("%d days over prior %d years (need >= %d)", total, priorYears, th.MinTotalPriorDays),
	})

	if currentOK && eachOK && totalOK {
		result.Verdict = VerdictResident
	} else {
		result.Verdict = VerdictNotResident
	}
	result.DeterminingTest = "physical_presence"
	return result, nil
}

func metOrNot(ok bool) string {
	if ok {
		return "met"
	}
	return "not met"
}
