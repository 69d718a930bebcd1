package shared

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidParameter  = errors.New("invalid parameter")
	ErrInvalidChannel    = errors.New("invalid channel")
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrInvalidGreed      = errors.New("invalid greed value")
)

// ChannelError reports a channel selector entry that the raster doesn't carry.
type ChannelError struct {
	Channel   Channel
	Available []Channel
}

func (err ChannelError) Error() string {
	names := make([]string, len(err.Available))
	for i, ch := range err.Available {
		names[i] = ch.String()
	}
	return fmt.Sprintf("invalid channel `%v`; expected one of: %v", err.Channel, strings.Join(names, ""))
}

func (err ChannelError) Is(target error) bool {
	return target == ErrInvalidChannel
}

// GreedError reports a greed value outside of [0, BitDepth].
type GreedError struct {
	Greed    int
	BitDepth int
}

func (err GreedError) Error() string {
	return fmt.Sprintf("invalid `Greed`; expected: 0..%d, given: %d", err.BitDepth, err.Greed)
}

func (err GreedError) Is(target error) bool {
	return target == ErrInvalidGreed
}
