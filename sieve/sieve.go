// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package sieve counts and enumerates primes with a bit-packed
// Sieve of Eratosthenes.
//
// Only odd candidates are stored, one bit each, so a bound of 100,000,000
// needs about 6.25 MB of scratch. A Sieve keeps its scratch buffer between
// calls to avoid re-allocating, but every call recomputes from scratch;
// results are never cached.
//
// With Workers > 1, large bounds are marked in word-aligned segments on a
// worker pool. Segments never share a word, so the result is identical to
// the serial run.
//
// A Sieve is NOT safe for concurrent use.
package sieve

import (
	"errors"
	"fmt"
	"math"
	"math/bits"

	"github.com/gogpu/primegl/internal/parallel"
)

// MinBound is the smallest bound accepted by the sieve.
const MinBound = 2

// DefaultLimit is the default maximum scratch size in bytes (16 MiB).
const DefaultLimit = 16 << 20

// parallelMinBits is the smallest candidate count sieved in segments.
const parallelMinBits = 1 << 16

var (
	// ErrBoundTooSmall is returned for bounds below MinBound.
	ErrBoundTooSmall = errors.New("sieve: bound must be at least 2")

	// ErrResourceExhausted is returned when the scratch buffer for a bound
	// cannot be allocated within the configured limit.
	ErrResourceExhausted = errors.New("sieve: resource exhausted")
)

// Result is the outcome of a single sieve run.
type Result struct {
	Bound int
	Count int
}

// Sieve owns the scratch buffer used by Count and Primes.
type Sieve struct {
	// Limit caps the scratch size in bytes. Zero means DefaultLimit.
	Limit int

	// Workers is the number of goroutines marking composites. Values <= 1
	// sieve on the calling goroutine.
	Workers int

	words []uint64
	pool  *parallel.WorkerPool
}

// New creates a sieve with the given scratch limit in bytes.
func New(limit int) *Sieve {
	return &Sieve{Limit: limit}
}

// ScratchBytes returns the scratch size in bytes needed for bound.
func ScratchBytes(bound int) int {
	return wordsFor(bound) * 8
}

// Cap returns the current scratch capacity in bytes.
func (s *Sieve) Cap() int {
	return cap(s.words) * 8
}

// Release frees the scratch buffer and stops the worker pool.
func (s *Sieve) Release() {
	s.words = nil
	if s.pool != nil {
		s.pool.Close()
		s.pool = nil
	}
}

// Count returns the number of primes <= bound.
func (s *Sieve) Count(bound int) (Result, error) {
	if err := s.run(bound); err != nil {
		return Result{}, err
	}
	n := 1 // 2
	nw := wordsFor(bound)
	for _, w := range s.words[:nw] {
		n += bits.OnesCount64(^w)
	}
	// Bits past the last odd candidate are unset and would be counted as
	// primes; subtract them.
	n -= nw*64 - oddCandidates(bound)
	return Result{Bound: bound, Count: n}, nil
}

// Primes returns all primes <= bound in ascending order.
//
// The returned slice is not counted against Limit: a bound of 100,000,000
// yields about 46 MB of output. A failed allocation is reported as
// ErrResourceExhausted.
func (s *Sieve) Primes(bound int) ([]int, error) {
	r, err := s.Count(bound)
	if err != nil {
		return nil, err
	}
	primes, err := makeInts(r.Count)
	if err != nil {
		return nil, err
	}
	primes = append(primes, 2)
	for k, n := 1, oddCandidates(bound); k < n; k++ {
		if s.words[k>>6]&(1<<(k&63)) == 0 {
			primes = append(primes, 2*k+1)
		}
	}
	return primes, nil
}

// run fills the scratch buffer: bit k set means 2k+1 is composite.
func (s *Sieve) run(bound int) error {
	if bound < MinBound {
		return fmt.Errorf("%w: got %d", ErrBoundTooSmall, bound)
	}
	if err := s.reserve(bound); err != nil {
		return err
	}

	s.words[0] = 1 // 1 is not prime
	n := oddCandidates(bound)
	if s.Workers <= 1 || n < parallelMinBits {
		markSerial(s.words, isqrt(bound), n)
		return nil
	}
	s.markParallel(isqrt(bound), n)
	return nil
}

// markSerial sets the bit of every odd composite below bit n, using the
// odd primes up to root.
func markSerial(w []uint64, root, n int) {
	for i := 3; i <= root; i += 2 {
		if w[i>>7]&(1<<((i>>1)&63)) != 0 {
			continue
		}
		for k := (i * i) >> 1; k < n; k += i {
			w[k>>6] |= 1 << (k & 63)
		}
	}
}

// markParallel finds the base primes up to root serially, then marks the
// rest of the buffer in segments on the worker pool.
func (s *Sieve) markParallel(root, n int) {
	w := s.words
	rootBits := oddCandidates(root)
	markSerial(w, isqrt(root), rootBits)

	base := make([]int, 0, estimate(root))
	for k := 1; k < rootBits; k++ {
		if w[k>>6]&(1<<(k&63)) == 0 {
			base = append(base, 2*k+1)
		}
	}

	segments := s.Workers * 4
	chunk := (len(w) + segments - 1) / segments
	tasks := make([]func(), 0, segments)
	for lo := 0; lo < len(w); lo += chunk {
		hi := min(lo+chunk, len(w))
		tasks = append(tasks, func() {
			markSegment(w, base, lo*64, min(hi*64, n))
		})
	}
	s.workerPool().ExecuteAll(tasks)
}

// markSegment marks odd multiples of the base primes in bits [lo, hi).
// Multiples of p sit at bits k = p*p/2 + j*p.
func markSegment(w []uint64, base []int, lo, hi int) {
	for _, p := range base {
		k := (p * p) >> 1
		if k >= hi {
			break
		}
		if k < lo {
			k += (lo - k + p - 1) / p * p
		}
		for ; k < hi; k += p {
			w[k>>6] |= 1 << (k & 63)
		}
	}
}

func (s *Sieve) workerPool() *parallel.WorkerPool {
	if s.pool != nil && s.pool.Workers() != s.Workers {
		s.pool.Close()
		s.pool = nil
	}
	if s.pool == nil {
		s.pool = parallel.NewWorkerPool(s.Workers)
	}
	return s.pool
}

// reserve makes sure the scratch buffer covers bound and is zeroed.
func (s *Sieve) reserve(bound int) (err error) {
	limit := s.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	need := wordsFor(bound)
	if need*8 > limit {
		return fmt.Errorf("%w: bound %d needs %d bytes, limit is %d",
			ErrResourceExhausted, bound, need*8, limit)
	}
	if cap(s.words) >= need {
		s.words = s.words[:need]
		clear(s.words)
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: allocating %d bytes: %v", ErrResourceExhausted, need*8, r)
		}
	}()
	s.words = make([]uint64, need)
	return nil
}

func isqrt(n int) int {
	r := int(math.Sqrt(float64(n)))
	for r*r > n {
		r--
	}
	for (r+1)*(r+1) <= n {
		r++
	}
	return r
}

// makeInts allocates an empty slice with capacity n.
func makeInts(n int) (out []int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: allocating %d primes: %v", ErrResourceExhausted, n, r)
		}
	}()
	return make([]int, 0, n), nil
}

// oddCandidates returns how many odd numbers lie in [1, bound].
func oddCandidates(bound int) int {
	return bound/2 + bound&1
}

func wordsFor(bound int) int {
	return (oddCandidates(bound) + 63) / 64
}

// estimate returns an upper estimate of pi(bound) for slice preallocation.
func estimate(bound int) int {
	if bound < 17 {
		return 8
	}
	x := float64(bound)
	return int(1.26*x/math.Log(x)) + 1
}

// Count returns the number of primes <= bound using a throwaway Sieve.
func Count(bound int) (int, error) {
	var s Sieve
	r, err := s.Count(bound)
	return r.Count, err
}

// Primes returns the primes <= bound using a throwaway Sieve.
func Primes(bound int) ([]int, error) {
	var s Sieve
	return s.Primes(bound)
}
