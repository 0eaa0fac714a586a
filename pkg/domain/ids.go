package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// Typed identifiers for the planning domain. Wrapping uuid.UUID keeps IDs from
// being mixed across aggregates at compile time.
//
// Usage: construct via the Parse* helpers at trust boundaries; direct casting
// bypasses validation.
type (
	// UserID identifies the plan owner.
	UserID uuid.UUID
	// GoalID identifies a savings goal record.
	GoalID uuid.UUID
	// GiftID identifies a recorded lifetime gift.
	GiftID uuid.UUID
	// EstateID identifies an estate snapshot.
	EstateID uuid.UUID
)

// ParseUserID parses a string into a UserID.
func ParseUserID(s string) (UserID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return UserID{}, fmt.Errorf("invalid user id: %w", err)
	}
	return UserID(u), nil
}

// ParseGoalID parses a string into a GoalID.
func ParseGoalID(s string) (GoalID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return GoalID{}, fmt.Errorf("invalid goal id: %w", err)
	}
	return GoalID(u), nil
}

// ParseGiftID parses a string into a GiftID.
func ParseGiftID(s string) (GiftID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return GiftID{}, fmt.Errorf("invalid gift id: %w", err)
	}
	return GiftID(u), nil
}

// NewGoalID returns a random GoalID.
func NewGoalID() GoalID { return GoalID(uuid.New()) }

// NewGiftID returns a random GiftID.
func NewGiftID() GiftID { return GiftID(uuid.New()) }

func (id UserID) String() string   { return uuid.UUID(id).String() }
func (id GoalID) String() string   { return uuid.UUID(id).String() }
func (id GiftID) String() string   { return uuid.UUID(id).String() }
func (id EstateID) String() string { return uuid.UUID(id).String() }

func (id UserID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id GoalID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id GiftID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id EstateID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// Text marshalling so the typed IDs render as canonical UUID strings in JSON
// bodies and database drivers.

func (id UserID) MarshalText() ([]byte, error)   { return []byte(id.String()), nil }
func (id GoalID) MarshalText() ([]byte, error)   { return []byte(id.String()), nil }
func (id GiftID) MarshalText() ([]byte, error)   { return []byte(id.String()), nil }
func (id EstateID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *UserID) UnmarshalText(b []byte) error {
	parsed, err := ParseUserID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *GoalID) UnmarshalText(b []byte) error {
	parsed, err := ParseGoalID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *GiftID) UnmarshalText(b []byte) error {
	parsed, err := ParseGiftID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *EstateID) UnmarshalText(b []byte) error {
	u, err := uuid.Parse(string(b))
	if err != nil {
		return fmt.Errorf("invalid estate id: %w", err)
	}
	*id = EstateID(u)
	return nil
}
