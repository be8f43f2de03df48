package log

import "strconv"

// callerInfo is a resolved call site. The rendered form is precomputed so a
// cached entry costs nothing to format on the hot path.
type callerInfo struct {
	file     string
	function string
	line     int
	rendered string
}

var _unknownCallerInfo = &callerInfo{
	file:     "unknown",
	function: "unknown",
	rendered: "unknown:0 unknown",
}

func newCallerInfo(file, function string, line int) *callerInfo {
	return &callerInfo{
		file:     file,
		function: function,
		line:     line,
		rendered: file + ":" + strconv.Itoa(line) + " " + function,
	}
}

func (c *callerInfo) String() string {
	return c.rendered
}
