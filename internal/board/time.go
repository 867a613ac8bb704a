package board

import "time"

// timeNow allows tests to stub the clock.
var timeNow = time.Now
