package presence

// Publisher pushes presence changes onto the live feed. Publishing is
// fire-and-forget: it runs after the owning transaction commits and its
// failure never fails the clock action.
type Publisher interface {
	Publish(tenantID string, ev Event)
}
