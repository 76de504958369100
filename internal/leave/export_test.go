package leave

import "time"

// SetClock pins the service's notion of today.
func SetClock(s Service, now func() time.Time) {
	s.(*service).now = now
}
