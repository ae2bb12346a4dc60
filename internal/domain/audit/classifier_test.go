package audit

import (
	"strings"
	"testing"
)

func TestClassify_ZeroReferenceDoseIsContraindicated(t *testing.T) {
	r := Rule{Unit: UnitMg, Guidance: "do not use below CrCl 10"}

	res, err := classify(r, 0, 1, Candidate{DoseAmount: "garbage"}, defaultIntervalSlack)
	if err != nil {
		t.Fatalf("contraindication must not depend on the candidate: %v", err)
	}
	if res.Outcome != OutcomeContraindicated {
		t.Fatalf("expected CONTRAINDICATED, got %s", res.Outcome)
	}
	if res.Guidance != "do not use below CrCl 10" {
		t.Fatalf("expected rule guidance, got %q", res.Guidance)
	}
}

func TestClassify_BSAScaledDose(t *testing.T) {
	r := Rule{Unit: UnitMgPerM2, DoseAmount: 50}
	snap := Snapshot{BSA: 1.8, WeightKg: 70}
	ref := referenceDose(r, snap) // 50 * 1.8 = 90

	res, err := classify(r, ref, 1, Candidate{RealAmount: fptr(91), DosesPerDay: 1}, defaultIntervalSlack)
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if res.Outcome != OutcomeDoseAdjust {
		t.Fatalf("91 over 90 must need dose adjustment, got %s", res.Outcome)
	}

	res, err = classify(r, ref, 1, Candidate{RealAmount: fptr(89), DosesPerDay: 1}, defaultIntervalSlack)
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if res.Outcome != OutcomeNormal {
		t.Fatalf("89 under 90 must be normal, got %s", res.Outcome)
	}
}

func TestClassify_WeightScaledDose(t *testing.T) {
	r := Rule{Unit: UnitMgPerKg, DoseAmount: 2}
	snap := Snapshot{WeightKg: 60, BSA: 1.73}
	ref := referenceDose(r, snap) // 2 * 60 = 120

	res, err := classify(r, ref, 1, Candidate{RealAmount: fptr(130), DosesPerDay: 1}, defaultIntervalSlack)
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if res.Outcome != OutcomeDoseAdjust {
		t.Fatalf("130 over 120 must need dose adjustment, got %s", res.Outcome)
	}
}

func TestClassify_DividedDosingComparesDailyTotals(t *testing.T) {
	// Referencia: 100 por toma, 2 tomas/día => 200 diarios.
	r := Rule{Unit: UnitMg, DoseAmount: 100, DividedDosing: true}

	// 60 x 3 = 180 diarios: cada toma es menor al límite diario.
	res, err := classify(r, 100, 2, Candidate{RealAmount: fptr(60), DosesPerDay: 3}, defaultIntervalSlack)
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if res.Outcome != OutcomeNormal {
		t.Fatalf("180/day under 200/day must be normal, got %s", res.Outcome)
	}

	// 110 x 2 = 220 diarios: por toma jamás dispararía, por día sí.
	res, err = classify(r, 100, 2, Candidate{RealAmount: fptr(110), DosesPerDay: 2}, defaultIntervalSlack)
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if res.Outcome != OutcomeDoseAdjust {
		t.Fatalf("220/day over 200/day must need dose adjustment, got %s", res.Outcome)
	}
}

func TestClassify_IntervalAdjustmentWithSlack(t *testing.T) {
	// Referencia: una toma por día. Umbral = 1 * 1.5.
	r := Rule{Unit: UnitMg, DoseAmount: 500}

	res, err := classify(r, 500, 1, Candidate{RealAmount: fptr(400), DosesPerDay: 2}, defaultIntervalSlack)
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if res.Outcome != OutcomeIntervalAdjust {
		t.Fatalf("2/day over 1.5/day must need interval adjustment, got %s", res.Outcome)
	}

	// Exactamente en el umbral no dispara (la comparación es estricta).
	res, err = classify(Rule{Unit: UnitMg, DoseAmount: 500}, 500, 2, Candidate{RealAmount: fptr(400), DosesPerDay: 3}, defaultIntervalSlack)
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if res.Outcome != OutcomeNormal {
		t.Fatalf("3/day at exactly 2*1.5 must be normal, got %s", res.Outcome)
	}
}

func TestClassify_TabletUsesPrescribedQuantityNotRealAmount(t *testing.T) {
	// 2 comprimidos de referencia; el real amount (miligramos del envase)
	// es irrelevante para unidades de conteo.
	r := Rule{Unit: UnitTablet, DoseAmount: 2}

	res, err := classify(r, 2, 1, Candidate{DoseAmount: "3", RealAmount: fptr(1.5), DosesPerDay: 1}, defaultIntervalSlack)
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if res.Outcome != OutcomeDoseAdjust {
		t.Fatalf("3 tablets over 2 must need dose adjustment, got %s", res.Outcome)
	}
}

func TestClassify_RealAmountZeroFallsBackToPrescribed(t *testing.T) {
	r := Rule{Unit: UnitMg, DoseAmount: 100}

	res, err := classify(r, 100, 1, Candidate{DoseAmount: "150", RealAmount: fptr(0), DosesPerDay: 1}, defaultIntervalSlack)
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if res.Outcome != OutcomeDoseAdjust {
		t.Fatalf("real amount zero must fall back to prescribed 150, got %s", res.Outcome)
	}
}

func TestClassify_NonNumericAmountIsAFault(t *testing.T) {
	r := Rule{Unit: UnitMg, DoseAmount: 100}

	_, err := classify(r, 100, 1, Candidate{DoseAmount: "1-2 ampoules"}, defaultIntervalSlack)
	if err == nil {
		t.Fatalf("expected classification fault for non-numeric amount")
	}
	if !strings.Contains(err.Error(), "not numeric") {
		t.Fatalf("unexpected fault message: %v", err)
	}
}

func TestClassify_DefaultGuidanceWhenRuleHasNone(t *testing.T) {
	r := Rule{Unit: UnitMg, DoseAmount: 100}

	res, err := classify(r, 100, 1, Candidate{RealAmount: fptr(50), DosesPerDay: 1}, defaultIntervalSlack)
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if res.Guidance != msgAdequateDose {
		t.Fatalf("expected default guidance, got %q", res.Guidance)
	}
}
