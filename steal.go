package flock

// computeCoprimes returns, in increasing order, every k in [1, n] with
// gcd(k, n) == 1. Used as the set of candidate strides for the per-worker
// steal permutation: iterating victim, victim+stride, victim+2*stride, ...
// modulo n with any such stride visits every residue exactly once before
// repeating, which is what guarantees a steal scan covers all n workers.
//
// Recomputed whenever the worker count changes (spawn), never on the hot
// path.
func computeCoprimes(n int) []int {
	if n <= 0 {
		return nil
	}
	coprimes := make([]int, 0, n)
	for k := 1; k <= n; k++ {
		if gcd(k, n) == 1 {
			coprimes = append(coprimes, k)
		}
	}
	return coprimes
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// xorshift32 advances the per-worker PRNG state in place. x must never be
// zero (the worker loop seeds it to i+1, which is safe for the values of i
// in play here). Marsaglia's "xor" algorithm, p.4 of "Xorshift RNGs".
func xorshift32(x *uint32) {
	v := *x
	v ^= v << 13
	v ^= v >> 17
	v ^= v << 5
	*x = v
}

// steal attempts to take a task from a peer's run-queue on behalf of worker
// i, advancing that worker's private seed. It probes victim, victim+stride,
// victim+2*stride, ... for exactly len(workers) attempts — a full, coprime-
// stride permutation of every worker, starting point included, so the
// caller's own queue may be revisited via PopBack without that being
// special-cased: a self-steal is just another back-side pop and is
// harmless, since the owner only ever touches the front side.
func (p *Pool) steal(i int) (Task, bool) {
	w := p.workers[i]
	n := len(p.workers)
	if n == 0 {
		return nil, false
	}

	xorshift32(&w.seed)
	stride := p.coprimes[int(w.seed)%len(p.coprimes)]
	victim := int(w.seed) % n

	for attempt := 0; attempt < n; attempt++ {
		if t, ok := p.workers[victim].queue.PopBack(); ok {
			return t, true
		}
		victim += stride
		if victim >= n {
			victim -= n
		}
	}
	return nil, false
}
