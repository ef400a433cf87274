package enums

import "fmt"

// Channel identifies which list price applies to a sale: direct end
// customers or resellers (sub-dealers).
type Channel string

const (
	ChannelCustomer Channel = "customer"
	ChannelReseller Channel = "reseller"
)

var validChannels = []Channel{
	ChannelCustomer,
	ChannelReseller,
}

// String implements fmt.Stringer.
func (c Channel) String() string {
	return string(c)
}

// IsValid reports whether the value is a known Channel.
func (c Channel) IsValid() bool {
	for _, candidate := range validChannels {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseChannel converts raw input into a Channel.
func ParseChannel(value string) (Channel, error) {
	for _, candidate := range validChannels {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid channel %q", value)
}
