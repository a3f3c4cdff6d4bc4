package users

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

var nameAdjectives = []string{
	"amber", "bright", "crimson", "dusky", "electric", "frosted",
	"gilded", "hollow", "iridescent", "jade", "keen", "luminous",
	"midnight", "neon", "opal", "pale", "quiet", "radiant",
	"silver", "twilight", "umbral", "violet", "wandering",
}

var nameNouns = []string{
	"aurora", "beacon", "comet", "drift", "ember", "flare",
	"glow", "horizon", "lantern", "meteor", "nova", "orbit",
	"prism", "quasar", "ray", "spark", "tide", "vesper", "zenith",
}

func randIndex(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		// crypto/rand failing is unrecoverable for this process anyway.
		panic(err)
	}
	return int(v.Int64())
}

// NewAnonymousName produces a pseudonymous display name such as
// "luminous-comet-42". Names are not guaranteed unique; they only need to be
// plausible and unlinkable to the username.
func NewAnonymousName() string {
	adj := nameAdjectives[randIndex(len(nameAdjectives))]
	noun := nameNouns[randIndex(len(nameNouns))]
	return fmt.Sprintf("%s-%s-%d", adj, noun, randIndex(100))
}
