package accounting

// Level is the fixed depth of a group in the chart-of-accounts tree
type Level string

const (
	LevelMain       Level = "main"
	LevelElement    Level = "element"
	LevelSubElement Level = "sub_element"
	LevelDetailed   Level = "detailed"
)

// GroupLevels lists the group levels from coarsest to finest
func GroupLevels() []Level {
	return []Level{LevelMain, LevelElement, LevelSubElement, LevelDetailed}
}

// IsValid reports whether the level is one of the four group levels
func (l Level) IsValid() bool {
	switch l {
	case LevelMain, LevelElement, LevelSubElement, LevelDetailed:
		return true
	}
	return false
}

// Parent returns the level directly above, or false for the main level
func (l Level) Parent() (Level, bool) {
	switch l {
	case LevelElement:
		return LevelMain, true
	case LevelSubElement:
		return LevelElement, true
	case LevelDetailed:
		return LevelSubElement, true
	}
	return "", false
}

// Child returns the group level directly below, or false for detailed
// groups whose children are accounts.
func (l Level) Child() (Level, bool) {
	switch l {
	case LevelMain:
		return LevelElement, true
	case LevelElement:
		return LevelSubElement, true
	case LevelSubElement:
		return LevelDetailed, true
	}
	return "", false
}

// DisplayName is the human label used in messages and CSV headers
func (l Level) DisplayName() string {
	switch l {
	case LevelMain:
		return "main group"
	case LevelElement:
		return "element group"
	case LevelSubElement:
		return "sub element group"
	case LevelDetailed:
		return "detailed group"
	}
	return string(l)
}

// String returns the string representation
func (l Level) String() string {
	return string(l)
}
