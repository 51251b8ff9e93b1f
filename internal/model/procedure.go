package model

// TestProcedure is one adulteration test: what it proves, what it needs and
// how to run it. Step order in Procedure is significant.
type TestProcedure struct {
	Aim         string   `json:"aim"`
	Materials   []string `json:"materials"`
	Procedure   []string `json:"procedure"`
	Observation string   `json:"observation"`
	Conclusion  string   `json:"conclusion"`
	Precautions []string `json:"precautions"`
}

// Clone returns a deep copy, so the result shares no slices with p.
func (p TestProcedure) Clone() TestProcedure {
	return TestProcedure{
		Aim:         p.Aim,
		Materials:   cloneStrings(p.Materials),
		Procedure:   cloneStrings(p.Procedure),
		Observation: p.Observation,
		Conclusion:  p.Conclusion,
		Precautions: cloneStrings(p.Precautions),
	}
}

// Complete reports whether the procedure has an aim and at least one step.
func (p TestProcedure) Complete() bool {
	return p.Aim != "" && len(p.Procedure) > 0
}

// CloneProcedure copies an optional procedure. nil stays nil.
func CloneProcedure(p *TestProcedure) *TestProcedure {
	if p == nil {
		return nil
	}
	c := p.Clone()
	return &c
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
