package reconcile

import "time"

// Access describes what the requesting role may do on one business date.
type Access struct {
	ReadOnly  bool `json:"read_only"`  // editing blocked entirely
	CanSubmit bool `json:"can_submit"` // the confirm action is allowed
}

// AccessPolicy evaluates the edit window and role bypass.
type AccessPolicy struct {
	editWindowDays int
	privileged     map[string]bool
}

// NewAccessPolicy creates a policy. Dates more than editWindowDays calendar
// days before today are read-only for everyone except the privileged roles.
func NewAccessPolicy(editWindowDays int, privilegedRoles []string) *AccessPolicy {
	priv := make(map[string]bool, len(privilegedRoles))
	for _, role := range privilegedRoles {
		priv[role] = true
	}
	return &AccessPolicy{editWindowDays: editWindowDays, privileged: priv}
}

// DayAccess evaluates access for one date. Future dates may be staged but
// never submitted, regardless of role.
func (p *AccessPolicy) DayAccess(assignDate, today, role string) Access {
	if assignDate > today {
		return Access{ReadOnly: false, CanSubmit: false}
	}

	if p.privileged[role] {
		return Access{ReadOnly: false, CanSubmit: true}
	}

	cutoff := addDays(today, -p.editWindowDays)
	if assignDate < cutoff {
		return Access{ReadOnly: true, CanSubmit: false}
	}
	return Access{ReadOnly: false, CanSubmit: true}
}

func addDays(date string, days int) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return t.AddDate(0, 0, days).Format("2006-01-02")
}
