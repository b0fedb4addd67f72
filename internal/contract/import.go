package contract

// ImportResult maps every ref of an imported outline to the id it was
// stored under.
type ImportResult struct {
	Projects map[string]int64 `json:"projects"`
	Tasks    map[string]int64 `json:"tasks"`
}
