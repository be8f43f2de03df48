package log

// LevelChangeEntry represents a single dynamic log level adjustment rule
// targeting one code location.
type LevelChangeEntry struct {
	// FileName specifies the target source file path for the adjustment.
	// Both absolute and relative paths work, e.g. "sink/retry.go".
	FileName string `mapstructure:"fileName"`

	// LineNum indicates the specific line number within the file. Use 0
	// to apply the level change to all lines within the file.
	LineNum int `mapstructure:"lineNum"`

	// LogLevel defines the new log level for the specified location.
	LogLevel int `mapstructure:"logLevel"`
}

// levelChange manages dynamic log level adjustments for specific code
// locations with a two-level file/line lookup.
type levelChange struct {
	changes map[string]map[int]Level
}

// newLevelChange creates a new level change manager from configuration
// entries.
func newLevelChange(entrys []LevelChangeEntry) *levelChange {
	c := &levelChange{
		changes: make(map[string]map[int]Level),
	}

	for _, entry := range entrys {
		c.AddChange(entry)
	}

	return c
}

func (lc *levelChange) Empty() bool {
	return len(lc.changes) == 0
}

// AddChange adds a new level change rule, overwriting any existing rule for
// the same file and line combination.
func (lc *levelChange) AddChange(entry LevelChangeEntry) {
	if _, ok := lc.changes[entry.FileName]; !ok {
		lc.changes[entry.FileName] = make(map[int]Level)
	}
	lc.changes[entry.FileName][entry.LineNum] = Level(entry.LogLevel)
}

// GetLevel determines the effective log level for a code location: the
// adjusted level if a rule exists, the original level otherwise.
func (lc *levelChange) GetLevel(fileName string, lineNum int, level Level) Level {
	if _, ok := lc.changes[fileName]; !ok {
		return level
	}
	if lv, ok := lc.changes[fileName][lineNum]; ok {
		return lv
	}
	// Line 0 rules apply to the whole file.
	if lv, ok := lc.changes[fileName][0]; ok {
		return lv
	}
	return level
}
