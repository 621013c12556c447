package rules

import (
	"fmt"

	"github.com/taurushq-io/taurus-protect-sdk-sub004/crypto"
	"github.com/taurushq-io/taurus-protect-sdk-sub004/errors"
)

// Validate checks that the container is structurally sound: ids present and
// unique, thresholds usable. References across sections are intentionally
// not checked here because historical containers keep retired ids around.
func (m *Container) Validate() error {
	var errs error

	seenUsers := make(map[string]struct{}, len(m.Users))
	for i, u := range m.Users {
		field := fmt.Sprintf("Users.%d", i)
		if u == nil {
			errs = errors.Append(errs, errors.Field(field, errors.ErrEmpty, "nil user"))
			continue
		}
		errs = errors.AppendField(errs, field, u.Validate())
		if u.Id == "" {
			continue
		}
		if _, dup := seenUsers[u.Id]; dup {
			errs = errors.Append(errs,
				errors.Field(field+".Id", errors.ErrInput, "duplicate user id %q", u.Id))
		}
		seenUsers[u.Id] = struct{}{}
	}

	seenGroups := make(map[string]struct{}, len(m.Groups))
	for i, g := range m.Groups {
		field := fmt.Sprintf("Groups.%d", i)
		if g == nil {
			errs = errors.Append(errs, errors.Field(field, errors.ErrEmpty, "nil group"))
			continue
		}
		errs = errors.AppendField(errs, field, g.Validate())
		if g.Id == "" {
			continue
		}
		if _, dup := seenGroups[g.Id]; dup {
			errs = errors.Append(errs,
				errors.Field(field+".Id", errors.ErrInput, "duplicate group id %q", g.Id))
		}
		seenGroups[g.Id] = struct{}{}
	}

	errs = errors.AppendField(errs, "TransactionRules", m.TransactionRules.Validate())
	errs = errors.AppendField(errs, "AddressWhitelistingRules", m.AddressWhitelistingRules.Validate())
	errs = errors.AppendField(errs, "ContractWhitelistingRules", m.ContractWhitelistingRules.Validate())

	for i, e := range m.EngineIdentities {
		field := fmt.Sprintf("EngineIdentities.%d", i)
		if e == nil {
			errs = errors.Append(errs, errors.Field(field, errors.ErrEmpty, "nil engine identity"))
			continue
		}
		if e.Id == "" {
			errs = errors.Append(errs, errors.Field(field+".Id", errors.ErrEmpty, "missing id"))
		}
	}

	return errs
}

func (m *User) Validate() error {
	var errs error
	if m.Id == "" {
		errs = errors.Append(errs, errors.Field("Id", errors.ErrEmpty, "missing id"))
	}
	return errs
}

func (m *Group) Validate() error {
	var errs error
	if m.Id == "" {
		errs = errors.Append(errs, errors.Field("Id", errors.ErrEmpty, "missing id"))
	}
	for i, uid := range m.UserIds {
		if uid == "" {
			errs = errors.Append(errs,
				errors.Field(fmt.Sprintf("UserIds.%d", i), errors.ErrEmpty, "missing user id"))
		}
	}
	return errs
}

// Validate on a nil matrix is a no-op so that absent sections stay legal.
func (m *Matrix) Validate() error {
	if m == nil {
		return nil
	}
	var errs error
	for i, line := range m.Lines {
		field := fmt.Sprintf("Lines.%d", i)
		if line == nil {
			errs = errors.Append(errs, errors.Field(field, errors.ErrEmpty, "nil line"))
			continue
		}
		for j, seq := range line.ParallelThresholds {
			seqField := fmt.Sprintf("%s.ParallelThresholds.%d", field, j)
			if seq == nil {
				errs = errors.Append(errs, errors.Field(seqField, errors.ErrEmpty, "nil sequence"))
				continue
			}
			for k, th := range seq.Thresholds {
				thField := fmt.Sprintf("%s.Thresholds.%d", seqField, k)
				switch {
				case th == nil:
					errs = errors.Append(errs, errors.Field(thField, errors.ErrEmpty, "nil threshold"))
				case th.GroupId == "":
					errs = errors.Append(errs,
						errors.Field(thField+".GroupId", errors.ErrEmpty, "missing group id"))
				case th.MinSignatures < 1:
					errs = errors.Append(errs,
						errors.Field(thField+".MinSignatures", errors.ErrInput, "must be at least 1"))
				}
			}
		}
	}
	return errs
}

// User returns the user with the given id.
func (m *Container) User(id string) (*User, bool) {
	for _, u := range m.Users {
		if u != nil && u.Id == id {
			return u, true
		}
	}
	return nil, false
}

// Group returns the group with the given id.
func (m *Container) Group(id string) (*Group, bool) {
	for _, g := range m.Groups {
		if g != nil && g.Id == id {
			return g, true
		}
	}
	return nil, false
}

// UsersWithRole returns every user carrying the given role.
func (m *Container) UsersWithRole(role string) []*User {
	var res []*User
	for _, u := range m.Users {
		if u == nil {
			continue
		}
		for _, r := range u.Roles {
			if r == role {
				res = append(res, u)
				break
			}
		}
	}
	return res
}

// PublicKeys returns the parseable public keys of all users. Unparseable
// keys are skipped, the decoder reported them already.
func (m *Container) PublicKeys() []crypto.PubKey {
	keys := make([]crypto.PubKey, 0, len(m.Users))
	for _, u := range m.Users {
		if u == nil {
			continue
		}
		key, err := u.Key()
		if err != nil {
			continue
		}
		keys = append(keys, key)
	}
	return keys
}

// Key parses the user's PEM encoded public key.
func (m *User) Key() (crypto.PubKey, error) {
	if len(m.PublicKey) == 0 {
		return nil, errors.Wrap(errors.ErrKey, "user carries no public key")
	}
	return crypto.ParsePublicKey(m.PublicKey)
}

// HasMember returns true when the user belongs to this group.
func (m *Group) HasMember(userID string) bool {
	for _, uid := range m.UserIds {
		if uid == userID {
			return true
		}
	}
	return false
}
