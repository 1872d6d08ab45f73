package enums

import "fmt"

// EditionID identifies a sellable edition of the book.
type EditionID string

const (
	EditionBlack EditionID = "temb-black-edition"
	EditionWhite EditionID = "temb-white-edition"
)

var validEditionIDs = []EditionID{
	EditionBlack,
	EditionWhite,
}

// String implements fmt.Stringer.
func (e EditionID) String() string {
	return string(e)
}

// IsValid reports whether the value is a known EditionID.
func (e EditionID) IsValid() bool {
	for _, candidate := range validEditionIDs {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseEditionID converts raw input into an EditionID.
func ParseEditionID(value string) (EditionID, error) {
	for _, candidate := range validEditionIDs {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid edition id %q", value)
}
