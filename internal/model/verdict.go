package model

// Verdict is one of the six fixed outcomes assigned to a fact-checked claim
type Verdict string

const (
	VerdictTrue         Verdict = "true"
	VerdictMostlyTrue   Verdict = "mostly_true"
	VerdictMixed        Verdict = "mixed"
	VerdictMostlyFalse  Verdict = "mostly_false"
	VerdictFalse        Verdict = "false"
	VerdictUnverifiable Verdict = "unverifiable"
)

// Verdicts lists every verdict in display order
var Verdicts = []Verdict{
	VerdictTrue,
	VerdictMostlyTrue,
	VerdictMixed,
	VerdictMostlyFalse,
	VerdictFalse,
	VerdictUnverifiable,
}

// ParseVerdict returns the verdict for s and whether s is one of the known literals
func ParseVerdict(s string) (Verdict, bool) {
	v := Verdict(s)
	for _, known := range Verdicts {
		if v == known {
			return v, true
		}
	}
	return VerdictUnverifiable, false
}

// Known reports whether v is one of the six enumerated verdicts
func (v Verdict) Known() bool {
	_, ok := ParseVerdict(string(v))
	return ok
}

// Normalize returns v, or VerdictUnverifiable when v is not a known verdict
func (v Verdict) Normalize() Verdict {
	if v.Known() {
		return v
	}
	return VerdictUnverifiable
}

// IsFalseLeaning reports whether the verdict says the claim is mostly or entirely false
func (v Verdict) IsFalseLeaning() bool {
	return v == VerdictFalse || v == VerdictMostlyFalse
}
