package youtube

import (
	"fmt"
	"regexp"
)

var (
	idRe  = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)
	urlRe = regexp.MustCompile(`(?:https?://)?(?:www\.)?(?:youtube\.com/watch\?v=|youtu\.be/)([a-zA-Z0-9_-]{11})`)
)

// ResolveID returns the 11-character video identifier contained in input.
// A bare identifier is returned unchanged; otherwise input must contain a
// youtube.com/watch?v= or youtu.be/ link. Anything after the identifier is ignored.
// Failures wrap ErrInvalidID in a *StepError for the resolve-id step.
func ResolveID(input string) (string, error) {
	if idRe.MatchString(input) {
		return input, nil
	}
	m := urlRe.FindStringSubmatch(input)
	if len(m) != 2 {
		return "", stepErr(StepResolveID, fmt.Errorf("%w in %q", ErrInvalidID, input))
	}
	return m[1], nil
}
