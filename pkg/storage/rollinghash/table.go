package rollinghash

// Window is the buzhash window size in bytes.
const Window = 48

// Table is a 256-entry permutation of 32-bit words, one per possible byte
// value, used by the rolling hash's rotate-XOR combine step.
//
// The reference desync/casync table is a fixed binary constant not present
// anywhere in this workspace's reference material. Rather than fabricate a
// plausible-looking copy of an external binary constant, the table here is
// generated deterministically from a fixed splitmix64 seed at init time: a
// Fisher-Yates shuffle of 0..255 run through splitmix64, then each shuffled
// byte value's bit pattern is mixed once more to spread it across 32 bits.
// This keeps the table a genuine permutation-derived constant rather than a
// guess, at the cost of not being bit-exact with the real upstream table;
// see the open question recorded in the repository's design notes.
var Table [256]uint32

// tableSeed fixes the splitmix64 stream so Table is identical across builds
// and machines.
const tableSeed uint64 = 0x9e3779b97f4a7c15

func splitmix64(state *uint64) uint64 {
	*state += 0x9e3779b97f4a7c15
	z := *state
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

func init() {
	state := tableSeed
	perm := make([]byte, 256)
	for i := range perm {
		perm[i] = byte(i)
	}
	for i := 255; i > 0; i-- {
		r := splitmix64(&state)
		j := int(r % uint64(i+1))
		perm[i], perm[j] = perm[j], perm[i]
	}
	for i := range Table {
		mixed := splitmix64(&state) ^ (uint64(perm[i]) * 0x100000001b3)
		Table[i] = uint32(mixed) ^ uint32(mixed>>32)
	}
}
