package domain

import "encoding/json"

// AccessDecision is the outcome of resolving a (canvas, user) pair. Denied
// decisions carry no role; the zero value is the fully denied decision.
type AccessDecision struct {
	Allowed bool
	Role    Role
	CanEdit bool
}

// Denied is the conservative decision every failure collapses to.
func Denied() AccessDecision {
	return AccessDecision{}
}

func (d AccessDecision) MarshalJSON() ([]byte, error) {
	out := struct {
		Allowed bool    `json:"allowed"`
		Role    *string `json:"role"`
		CanEdit bool    `json:"canEdit"`
	}{
		Allowed: d.Allowed,
		CanEdit: d.CanEdit,
	}
	if d.Role != RoleNone {
		role := string(d.Role)
		out.Role = &role
	}
	return json.Marshal(out)
}

func (d *AccessDecision) UnmarshalJSON(data []byte) error {
	var in struct {
		Allowed bool    `json:"allowed"`
		Role    *string `json:"role"`
		CanEdit bool    `json:"canEdit"`
	}
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	d.Allowed = in.Allowed
	d.CanEdit = in.CanEdit
	d.Role = RoleNone
	if in.Role != nil {
		d.Role = Role(*in.Role)
	}
	return nil
}
