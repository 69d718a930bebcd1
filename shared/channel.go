package shared

import (
	"fmt"
	"strings"
)

// Channel identifies a single color channel of a pixel.
type Channel byte

const (
	Red   Channel = 'R'
	Green Channel = 'G'
	Blue  Channel = 'B'
	Alpha Channel = 'A'
)

var (
	RGB  = []Channel{Red, Green, Blue}
	RGBA = []Channel{Red, Green, Blue, Alpha}
)

func (ch Channel) String() string {
	return string(rune(ch))
}

// Valid reports whether ch is one of R, G, B or A.
func (ch Channel) Valid() bool {
	switch ch {
	case Red, Green, Blue, Alpha:
		return true
	}
	return false
}

// ParseChannels parses a channel selector such as "B" or "GRB".
// Selectors are case-insensitive; order and repetitions are kept as given.
func ParseChannels(selector string) ([]Channel, error) {
	if selector == "" {
		return nil, fmt.Errorf("%w: empty channel selector", ErrInvalidChannel)
	}

	channels := make([]Channel, 0, len(selector))
	for _, r := range strings.ToUpper(selector) {
		ch := Channel(r)
		if r > 0x7f || !ch.Valid() {
			return nil, fmt.Errorf("%w: unknown channel %q in selector %q", ErrInvalidChannel, r, selector)
		}
		channels = append(channels, ch)
	}
	return channels, nil
}

// ContainsChannels returns a ChannelError for the first entry of selector
// missing from available.
func ContainsChannels(available, selector []Channel) error {
	for _, ch := range selector {
		if IndexOf(available, ch) < 0 {
			return ChannelError{Channel: ch, Available: available}
		}
	}
	return nil
}

// IndexOf returns the position of ch in channels, or -1.
func IndexOf(channels []Channel, ch Channel) int {
	for i, c := range channels {
		if c == ch {
			return i
		}
	}
	return -1
}
