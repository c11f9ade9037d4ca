package linden

import (
	"fmt"
	"io"
	"os"
)

// warnOutput is the sink for warning diagnostics. Tests swap it to capture
// or silence output.
var warnOutput io.Writer = os.Stderr

// warnf prints a warning to the diagnostic sink. Used for degraded-but-
// continuing conditions on the gesture hot path (failed pointer capture,
// discarded strokes); never for control flow.
func warnf(format string, args ...any) {
	_, _ = fmt.Fprintf(warnOutput, "[linden] warning: "+format+"\n", args...)
}
