package dayplan

type TriedWell string

const (
	TriedWellYes     TriedWell = "YES"
	TriedWellNo      TriedWell = "NO"
	TriedWellNeutral TriedWell = "NEUTRAL"
)

var AllTriedWell = []TriedWell{
	TriedWellYes,
	TriedWellNo,
	TriedWellNeutral,
}

func (t TriedWell) IsValid() bool {
	for _, v := range AllTriedWell {
		if t == v {
			return true
		}
	}
	return false
}
