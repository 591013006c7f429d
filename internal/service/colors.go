package service

import "math/rand"

// userColors is the display palette assigned per join. The class names are
// rendered verbatim by clients, so the list must not change.
var userColors = []string{
	"text-red-400",
	"text-orange-400",
	"text-amber-400",
	"text-yellow-400",
	"text-green-400",
	"text-emerald-400",
	"text-teal-400",
	"text-cyan-400",
	"text-sky-400",
	"text-blue-400",
	"text-indigo-400",
	"text-violet-400",
	"text-purple-400",
	"text-fuchsia-400",
	"text-pink-400",
	"text-rose-400",
}

func randomUserColor(rng *rand.Rand) string {
	return userColors[rng.Intn(len(userColors))]
}
