package models

import "time"

type User struct {
	ID               string             `db:"id" json:"id"`
	Name             string             `db:"name" json:"name"`
	Email            string             `db:"email" json:"email"`
	Avatar           string             `db:"avatar" json:"avatar,omitempty"`
	ConnectedTargets []*ConnectedTarget `json:"connectedPlatforms"`
	CreatedAt        time.Time          `db:"created_at" json:"-"`
	UpdatedAt        time.Time          `db:"updated_at" json:"-"`
}

// Target returns the connected target for platform, or nil when the user has
// not connected it.
func (u *User) Target(p Platform) *ConnectedTarget {
	if u == nil {
		return nil
	}
	for _, t := range u.ConnectedTargets {
		if t.Platform == p && t.Connected {
			return t
		}
	}
	return nil
}

// SetTarget replaces any existing target for the same platform.
func (u *User) SetTarget(target *ConnectedTarget) {
	for i, t := range u.ConnectedTargets {
		if t.Platform == target.Platform {
			u.ConnectedTargets[i] = target
			return
		}
	}
	u.ConnectedTargets = append(u.ConnectedTargets, target)
}

// RemoveTarget drops the target for platform. It reports whether anything was removed.
func (u *User) RemoveTarget(p Platform) bool {
	for i, t := range u.ConnectedTargets {
		if t.Platform == p {
			u.ConnectedTargets = append(u.ConnectedTargets[:i], u.ConnectedTargets[i+1:]...)
			return true
		}
	}
	return false
}
