// Package ownership decides which records a view mode can see.
package ownership

import "meudinheiro/internal/core"

// Owned is implemented by every financial entity carrying an owner tag.
type Owned interface {
	OwnerTag() core.Owner
}

// Visible reports whether a record tagged owner is shown under view.
//
// The joint view sees everything. A single-user view sees that user's records
// plus joint ones. Unknown view modes see nothing.
func Visible(view core.ViewMode, owner core.Owner) bool {
	switch view {
	case core.Joint:
		return true
	case core.User1, core.User2:
		return owner == view || owner == core.Joint
	default:
		return false
	}
}

// Filter returns the items visible under view, preserving order.
func Filter[T Owned](view core.ViewMode, items []T) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if Visible(view, it.OwnerTag()) {
			out = append(out, it)
		}
	}
	return out
}

// Selectable reports whether view can be chosen under profile.
// USER2 is only offered in couple mode.
func Selectable(profile core.UserProfile, view core.ViewMode) bool {
	switch view {
	case core.Joint, core.User1:
		return true
	case core.User2:
		return profile.Mode == core.Couple
	default:
		return false
	}
}

// Views lists the selectable views for a profile, joint first.
func Views(profile core.UserProfile) []core.ViewMode {
	views := []core.ViewMode{core.Joint, core.User1}
	if profile.Mode == core.Couple {
		views = append(views, core.User2)
	}
	return views
}
