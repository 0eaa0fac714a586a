package residency

import (
	"fmt"

	"fiducia/internal/rates"
)

// SRT test names as they appear in rationale trails.
const (
	TestAutomaticOverseas = "automatic_overseas"
	TestAutomaticUK       = "automatic_uk"
	TestSufficientTies    = "sufficient_ties"
)

// srtTest is one stage of the statutory sequence. A conclusive result stops
// the run; the trail still records every stage that was evaluated.
type srtTest struct {
	name string
	run  func() (conclusive bool, verdict Verdict, detail string)
}

// EvaluateSRT runs the Statutory Residence Test: automatic overseas, then
// automatic UK, then sufficient ties, short-circuiting on the first
// conclusive stage. Thresholds come from the tax year's rate table.
func EvaluateSRT(in SRTInput, th rates.SRTThresholds) (*Result, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	result := &Result{}
	tests := []srtTest{
		{TestAutomaticOverseas, func() (bool, Verdict, string) { return automaticOverseas(in, th) }},
		{TestAutomaticUK, func() (bool, Verdict, string) { return automaticUK(in, th) }},
		{TestSufficientTies, func() (bool, Verdict, string) {
			conclusive, verdict, detail, ties := sufficientTies(in, th)
			result.TieCount = ties
			return conclusive, verdict, detail
		}},
	}

	for _, t := range tests {
		conclusive, verdict, detail := t.run()
		outcome := "not conclusive"
		if conclusive {
			outcome = string(verdict)
		}
		result.Trail = append(result.Trail, TrailEntry{
			Test:       t.name,
			Outcome:    outcome,
			Conclusive: conclusive,
			Detail:     detail,
		})
		if conclusive {
			result.Verdict = verdict
			result.DeterminingTest = t.name
			return result, nil
		}
	}

	// The sufficient ties test always concludes; reaching here means the
	// bracket table failed to cover the day count.
	return nil, fmt.Errorf("srt: no test concluded for %d days", in.DaysInUK)
}

// automaticOverseas concludes NOT_RESIDENT for full-time overseas workers
// within the UK-day cap, or for day counts under the absolute low threshold
// (16 for leavers, 46 for arrivers under the standard table).
func automaticOverseas(in SRTInput, th rates.SRTThresholds) (bool, Verdict, string) {
	if in.FullTimeWorkAbroad && in.DaysInUK < th.FullTimeAbroadMaxDays && in.WorkDaysInUK < th.FullTimeAbroadMaxWorkDays {
		return true, VerdictNotResident, fmt.Sprintf(
			"full-time work abroad with %d UK days (< %d) and %d UK work days (< %d)",
			in.DaysInUK, th.FullTimeAbroadMaxDays, in.WorkDaysInUK, th.FullTimeAbroadMaxWorkDays)
	}

	limit := th.ArriverMaxDays
	status := "arriver"
	if in.Leaver() {
		limit = th.LeaverMaxDays
		status = "leaver"
	}
	if in.DaysInUK < limit {
		return true, VerdictNotResident, fmt.Sprintf("%d days in UK (< %d for a %s)", in.DaysInUK, limit, status)
	}
	return false, "", fmt.Sprintf("%d days in UK (>= %d for a %s)", in.DaysInUK, limit, status)
}

// automaticUK concludes RESIDENT for high day counts, an only home in the UK,
// or full-time UK work.
func automaticUK(in SRTInput, th rates.SRTThresholds) (bool, Verdict, string) {
	if in.DaysInUK >= th.AutomaticUKMinDays {
		return true, VerdictResident, fmt.Sprintf("%d days in UK (>= %d)", in.DaysInUK, th.AutomaticUKMinDays)
	}
	if in.HasUKHome && in.DaysAtUKHome >= th.UKHomeMinDays && !in.HasOverseasHome {
		return true, VerdictResident, fmt.Sprintf(
			"UK home with %d days present (>= %d) and no overseas home", in.DaysAtUKHome, th.UKHomeMinDays)
	}
	if in.FullTimeWorkUK {
		return true, VerdictResident, "full-time work in the UK"
	}
	return false, "", "no automatic UK condition met"
}

// sufficientTies counts ties and compares against the required count for the
// day bracket and leaver/arriver status. Always conclusive.
func sufficientTies(in SRTInput, th rates.SRTThresholds) (bool, Verdict, string, int) {
	leaver := in.Leaver()

	ties := 0
	if in.FamilyTie {
		ties++
	}
	if in.AccommodationAvailable && in.AccommodationNights >= th.AccommodationMinNights {
		ties++
	}
	if in.WorkDaysInUK >= th.WorkTieMinDays {
		ties++
	}
	if in.DaysInUKPriorTwoYears[0] >= th.NinetyDayTieMinDays || in.DaysInUKPriorTwoYears[1] >= th.NinetyDayTieMinDays {
		ties++
	}
	if leaver && in.MoreDaysInUKThanAnyOtherCountry {
		ties++
	}

	required := 0
	matched := false
	for _, b := range th.TieBrackets {
		if in.DaysInUK <= b.MaxDays {
			if leaver {
				required = b.LeaverTies
			} else {
				required = b.ArriverTies
			}
			matched = true
			break
		}
	}
	if !matched {
		// Day counts beyond the last bracket sit above the automatic UK
		// threshold under any coherent table; treat as the last bracket.
		last := th.TieBrackets[len(th.TieBrackets)-1]
		if leaver {
			required = last.LeaverTies
		} else {
			required = last.ArriverTies
		}
	}

	status := "arriver"
	if leaver {
		status = "leaver"
	}
	detail := fmt.Sprintf("%d ties, %d required for a %s with %d days in UK", ties, required, status, in.DaysInUK)
	if ties >= required {
		return true, VerdictResident, detail, ties
	}
	return true, VerdictNotResident, detail, ties
}
