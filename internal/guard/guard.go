package guard

import (
	"github.com/prohmpiriya/canteen-storefront/internal/domain"
	"github.com/prohmpiriya/canteen-storefront/internal/session"
)

// Decision is the state of a guarded view
type Decision int

const (
	// Pending means the session is not hydrated yet; nothing may be decided
	Pending Decision = iota
	Authorized
	Denied
)

func (d Decision) String() string {
	switch d {
	case Pending:
		return "pending"
	case Authorized:
		return "authorized"
	case Denied:
		return "denied"
	}
	return "unknown"
}

// Snapshotter exposes the session fields a guard reads
type Snapshotter interface {
	Snapshot() session.Snapshot
}

// Evaluate decides a view requiring role from the hydration flag and the
// session role alone
func Evaluate(snap session.Snapshot, required domain.Role) Decision {
	if !snap.HasHydrated {
		return Pending
	}
	if required != domain.RoleNone && snap.Role == required {
		return Authorized
	}
	return Denied
}

// EvaluateLogin decides a view open to any signed-in shopper
func EvaluateLogin(snap session.Snapshot) Decision {
	if !snap.HasHydrated {
		return Pending
	}
	if snap.IsLoggedIn {
		return Authorized
	}
	return Denied
}
