package domain

// Rule names the local rewrite applied to one active pair.
type Rule string

const (
	RuleAnnihilate Rule = "annihilate" // constructor-constructor
	RuleSwap       Rule = "swap"       // duplicator-duplicator
	RuleDuplicate  Rule = "duplicate"  // constructor-duplicator
	RuleErase      Rule = "erase"      // eraser-constructor, eraser-duplicator
	RuleVoid       Rule = "void"       // eraser-eraser, no effect
)

// Rules lists every rule in a stable order.
var Rules = []Rule{RuleAnnihilate, RuleSwap, RuleDuplicate, RuleErase, RuleVoid}

// RuleFor returns the rule selected by an unordered pair of kinds.
func RuleFor(a, b Kind) Rule {
	switch {
	case a == Eraser && b == Eraser:
		return RuleVoid
	case a == Eraser || b == Eraser:
		return RuleErase
	case a == b && a == Constructor:
		return RuleAnnihilate
	case a == b && a == Duplicator:
		return RuleSwap
	default:
		return RuleDuplicate
	}
}

// Allocates returns the number of agents the rule allocates.
func (r Rule) Allocates() int {
	switch r {
	case RuleDuplicate:
		return 2
	case RuleErase:
		return 1
	}
	return 0
}

// PassReport describes one sweep of the driver.
type PassReport struct {
	Reachable int          `json:"reachable"`
	Redexes   int          `json:"redexes"`
	Applied   map[Rule]int `json:"applied"`
	Allocated int          `json:"allocated"`
}

// Record counts one rule application.
func (r *PassReport) Record(rule Rule) {
	if r.Applied == nil {
		r.Applied = make(map[Rule]int)
	}
	r.Applied[rule]++
	r.Allocated += rule.Allocates()
}

// Rewrites counts applications that changed the net. Void is excluded.
func (r PassReport) Rewrites() int {
	n := 0
	for rule, c := range r.Applied {
		if rule != RuleVoid {
			n += c
		}
	}
	return n
}

// Report aggregates the passes of a normalisation.
type Report struct {
	Passes     int          `json:"passes"`
	Rewrites   int          `json:"rewrites"`
	Allocated  int          `json:"allocated"`
	Applied    map[Rule]int `json:"applied"`
	NormalForm bool         `json:"normal_form"`
}

// Add folds a pass into the report.
func (r *Report) Add(p PassReport) {
	if r.Applied == nil {
		r.Applied = make(map[Rule]int)
	}
	r.Passes++
	r.Rewrites += p.Rewrites()
	r.Allocated += p.Allocated
	for rule, c := range p.Applied {
		r.Applied[rule] += c
	}
}
