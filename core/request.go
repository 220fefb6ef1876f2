package optimization

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Goal is one of the optimization goals the pipeline's router knows how
// to verify. Free-form goals are not rejected by the backend but are
// rejected here, since the router falls through to "goal met" for
// anything it does not recognize.
type Goal string

const (
	GoalDecreaseLogP           Goal = "Decrease LogP"
	GoalIncreaseLogP           Goal = "Increase LogP"
	GoalDecreaseTPSA           Goal = "Decrease TPSA"
	GoalIncreaseTPSA           Goal = "Increase TPSA"
	GoalDecreaseMW             Goal = "Decrease MW"
	GoalAddAromaticRing        Goal = "Add Aromatic Ring"
	GoalRemoveAromaticRing     Goal = "Remove Aromatic Ring"
	GoalIncreaseHBD            Goal = "Increase HBD"
	GoalDecreaseHBD            Goal = "Decrease HBD"
	GoalIncreaseHBA            Goal = "Increase HBA"
	GoalDecreaseHBA            Goal = "Decrease HBA"
	GoalDecreaseRotatableBonds Goal = "Decrease Rotatable Bonds"
	GoalIncreaseRotatableBonds Goal = "Increase Rotatable Bonds"
	GoalImproveLipinski        Goal = "Improve Lipinski"
	GoalDecreaseToxicity       Goal = "Decrease Toxicity"
)

// Goals lists every supported optimization goal.
func Goals() []Goal {
	return []Goal{
		GoalDecreaseLogP, GoalIncreaseLogP,
		GoalDecreaseTPSA, GoalIncreaseTPSA,
		GoalDecreaseMW,
		GoalAddAromaticRing, GoalRemoveAromaticRing,
		GoalIncreaseHBD, GoalDecreaseHBD,
		GoalIncreaseHBA, GoalDecreaseHBA,
		GoalDecreaseRotatableBonds, GoalIncreaseRotatableBonds,
		GoalImproveLipinski, GoalDecreaseToxicity,
	}
}

// WeightRange bounds the molecular weight of accepted candidates.
type WeightRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// SynthesizabilityLimit caps the synthetic-accessibility score of
// accepted candidates.
type SynthesizabilityLimit struct {
	Max float64 `json:"max"`
}

// Constraints are the hard acceptance bounds for proposed structures.
type Constraints struct {
	// Similarity is the minimum Tanimoto similarity to the starting
	// structure, between 0 and 1.
	Similarity       float64                `json:"similarity" jsonschema:"minimum=0,maximum=1"`
	Weight           *WeightRange           `json:"weight,omitempty"`
	Synthesizability *SynthesizabilityLimit `json:"synthesizability,omitempty"`
}

// Request describes one optimization run. Its JSON encoding is the run
// submission body. Immutable once submitted.
type Request struct {
	// Structure is the starting structure as an opaque SMILES string; it
	// is never interpreted client-side.
	Structure   string      `json:"structure"`
	Goal        Goal        `json:"goal"`
	Constraints Constraints `json:"constraints"`
}

// Validate checks the request before submission.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Structure) == "" {
		return errors.New("starting structure is required")
	}
	if !slices.Contains(Goals(), r.Goal) {
		return fmt.Errorf("unsupported optimization goal %q", r.Goal)
	}
	if r.Constraints.Similarity < 0 || r.Constraints.Similarity > 1 {
		return fmt.Errorf("similarity threshold %v outside [0, 1]", r.Constraints.Similarity)
	}
	if weight := r.Constraints.Weight; weight != nil && weight.Min > weight.Max {
		return fmt.Errorf("weight range min %v above max %v", weight.Min, weight.Max)
	}
	if synth := r.Constraints.Synthesizability; synth != nil && synth.Max <= 0 {
		return fmt.Errorf("synthesizability limit %v must be positive", synth.Max)
	}
	return nil
}
