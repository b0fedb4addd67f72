package domain

// MaxTextLen is the storage limit for codes, names and descriptions.
const MaxTextLen = 255

// Project is a node in the project forest. Its State is derived from every
// task beneath it and is never written by clients.
type Project struct {
	ID       int64
	ParentID *int64
	Code     string
	Name     string
	Period
	State State
}

// IsRoot reports whether the project has no parent.
func (p *Project) IsRoot() bool {
	return p.ParentID == nil
}
