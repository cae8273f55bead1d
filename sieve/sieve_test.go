// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package sieve

import (
	"errors"
	"math"
	"testing"
)

func TestCountKnownValues(t *testing.T) {
	tests := []struct {
		bound int
		want  int
	}{
		{2, 1},
		{3, 2},
		{4, 2},
		{10, 4},
		{63, 18},
		{64, 18},
		{127, 31},
		{128, 31},
		{129, 31},
		{100, 25},
		{1000, 168},
		{10_000, 1229},
		{100_000, 9592},
		{1_000_000, 78498},
	}

	for _, tt := range tests {
		got, err := Count(tt.bound)
		if err != nil {
			t.Fatalf("Count(%d) error: %v", tt.bound, err)
		}
		if got != tt.want {
			t.Errorf("Count(%d) = %d, want %d", tt.bound, got, tt.want)
		}
	}
}

func isPrime(n int) bool {
	if n < 2 {
		return false
	}
	for d := 2; d*d <= n; d++ {
		if n%d == 0 {
			return false
		}
	}
	return true
}

func TestCountMatchesTrialDivision(t *testing.T) {
	s := New(0)
	want := 0
	for b := 2; b <= 3000; b++ {
		if isPrime(b) {
			want++
		}
		r, err := s.Count(b)
		if err != nil {
			t.Fatalf("Count(%d) error: %v", b, err)
		}
		if r.Count != want {
			t.Fatalf("Count(%d) = %d, want %d", b, r.Count, want)
		}
	}
}

func TestPrimesEnumeration(t *testing.T) {
	got, err := Primes(30)
	if err != nil {
		t.Fatalf("Primes(30) error: %v", err)
	}
	want := []int{2, 3, 5, 7, 11, 13, 17, 19, 23, 29}
	if len(got) != len(want) {
		t.Fatalf("Primes(30) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Primes(30)[%d] = %d, want %d", i, got[i], want[i])
		}
	}

	got, _ = Primes(2)
	if len(got) != 1 || got[0] != 2 {
		t.Errorf("Primes(2) = %v, want [2]", got)
	}
}

func TestPrimesLengthMatchesCount(t *testing.T) {
	for _, b := range []int{97, 1000, 65_537} {
		p, err := Primes(b)
		if err != nil {
			t.Fatalf("Primes(%d) error: %v", b, err)
		}
		n, _ := Count(b)
		if len(p) != n {
			t.Errorf("len(Primes(%d)) = %d, Count = %d", b, len(p), n)
		}
	}
}

func TestCountDeterministic(t *testing.T) {
	s := New(0)
	first, err := s.Count(500_000)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		r, err := s.Count(500_000)
		if err != nil {
			t.Fatal(err)
		}
		if r != first {
			t.Errorf("run %d: %+v, want %+v", i, r, first)
		}
	}
}

func TestScratchReuseAfterLargerBound(t *testing.T) {
	s := New(0)
	if _, err := s.Count(100_000); err != nil {
		t.Fatal(err)
	}
	capBefore := s.Cap()

	// A smaller bound must reuse and fully reset the buffer.
	r, err := s.Count(100)
	if err != nil {
		t.Fatal(err)
	}
	if r.Count != 25 {
		t.Errorf("Count(100) after Count(100000) = %d, want 25", r.Count)
	}
	if s.Cap() != capBefore {
		t.Errorf("scratch reallocated: cap %d -> %d", capBefore, s.Cap())
	}
}

func TestBoundTooSmall(t *testing.T) {
	for _, b := range []int{1, 0, -5} {
		_, err := Count(b)
		if !errors.Is(err, ErrBoundTooSmall) {
			t.Errorf("Count(%d) error = %v, want ErrBoundTooSmall", b, err)
		}
	}
}

func TestResourceExhausted(t *testing.T) {
	s := New(1024)
	if _, err := s.Count(1000); err != nil {
		t.Fatalf("Count(1000) within limit: %v", err)
	}
	capBefore := s.Cap()

	_, err := s.Count(1_000_000)
	if !errors.Is(err, ErrResourceExhausted) {
		t.Fatalf("Count(1000000) error = %v, want ErrResourceExhausted", err)
	}
	if s.Cap() != capBefore {
		t.Errorf("failed reserve changed scratch: cap %d -> %d", capBefore, s.Cap())
	}

	// The sieve stays usable.
	r, err := s.Count(100)
	if err != nil || r.Count != 25 {
		t.Errorf("Count(100) after failure = %d, %v", r.Count, err)
	}
}

func TestHugeBoundExhausted(t *testing.T) {
	tests := []struct {
		name  string
		limit int
	}{
		{"default limit", 0},
		{"unlimited", math.MaxInt},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(tt.limit)
			if _, err := s.Count(math.MaxInt); !errors.Is(err, ErrResourceExhausted) {
				t.Errorf("Count(MaxInt) error = %v, want ErrResourceExhausted", err)
			}
			if _, err := s.Primes(math.MaxInt); !errors.Is(err, ErrResourceExhausted) {
				t.Errorf("Primes(MaxInt) error = %v, want ErrResourceExhausted", err)
			}
			if r, err := s.Count(100); err != nil || r.Count != 25 {
				t.Errorf("Count(100) after failure = %d, %v", r.Count, err)
			}
		})
	}

	if _, err := Count(math.MaxInt); !errors.Is(err, ErrResourceExhausted) {
		t.Errorf("package Count(MaxInt) error = %v, want ErrResourceExhausted", err)
	}
}

func TestOddCandidatesNoOverflow(t *testing.T) {
	tests := []struct {
		bound int
		want  int
	}{
		{1, 1},
		{2, 1},
		{3, 2},
		{10, 5},
		{math.MaxInt, math.MaxInt/2 + 1},
		{math.MaxInt - 1, math.MaxInt / 2},
	}
	for _, tt := range tests {
		if got := oddCandidates(tt.bound); got != tt.want {
			t.Errorf("oddCandidates(%d) = %d, want %d", tt.bound, got, tt.want)
		}
	}
	if ScratchBytes(math.MaxInt) <= 0 {
		t.Errorf("ScratchBytes(MaxInt) = %d, want positive", ScratchBytes(math.MaxInt))
	}
}

func TestMakeIntsExhausted(t *testing.T) {
	if _, err := makeInts(math.MaxInt); !errors.Is(err, ErrResourceExhausted) {
		t.Errorf("makeInts(MaxInt) error = %v, want ErrResourceExhausted", err)
	}
	out, err := makeInts(10)
	if err != nil || len(out) != 0 || cap(out) != 10 {
		t.Errorf("makeInts(10) = len %d cap %d, %v", len(out), cap(out), err)
	}
}

func TestScratchBytesMaxBound(t *testing.T) {
	got := ScratchBytes(100_000_000)
	if got > 12_500_000 {
		t.Errorf("ScratchBytes(1e8) = %d, want <= 12.5MB", got)
	}
	if got > DefaultLimit {
		t.Errorf("ScratchBytes(1e8) = %d exceeds DefaultLimit %d", got, DefaultLimit)
	}
}

func TestRelease(t *testing.T) {
	s := New(0)
	if _, err := s.Count(10_000); err != nil {
		t.Fatal(err)
	}
	if s.Cap() == 0 {
		t.Fatal("expected scratch after Count")
	}
	s.Release()
	if s.Cap() != 0 {
		t.Errorf("Cap() after Release = %d, want 0", s.Cap())
	}
	if n, _ := s.Count(10); n.Count != 4 {
		t.Errorf("Count(10) after Release = %d, want 4", n.Count)
	}
}

func TestParallelMatchesSerial(t *testing.T) {
	serial := New(0)
	for _, workers := range []int{2, 3, 8} {
		par := &Sieve{Workers: workers}
		for _, bound := range []int{131_071, 131_072, 999_999, 2_000_003} {
			want, err := serial.Count(bound)
			if err != nil {
				t.Fatal(err)
			}
			got, err := par.Count(bound)
			if err != nil {
				t.Fatal(err)
			}
			if got != want {
				t.Errorf("workers=%d Count(%d) = %d, want %d", workers, bound, got.Count, want.Count)
			}
		}
		par.Release()
	}
}

func TestParallelPrimes(t *testing.T) {
	s := &Sieve{Workers: 4}
	defer s.Release()

	got, err := s.Primes(300_000)
	if err != nil {
		t.Fatal(err)
	}
	want, err := Primes(300_000)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("primes[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestParallelKnownCount(t *testing.T) {
	if testing.Short() {
		t.Skip("large sieve")
	}
	s := &Sieve{Workers: 4}
	defer s.Release()

	r, err := s.Count(10_000_000)
	if err != nil {
		t.Fatal(err)
	}
	if r.Count != 664_579 {
		t.Errorf("Count(10,000,000) = %d, want 664579", r.Count)
	}
}

func TestReleaseStopsPool(t *testing.T) {
	s := &Sieve{Workers: 2}
	if _, err := s.Count(1_000_000); err != nil {
		t.Fatal(err)
	}
	if s.pool == nil {
		t.Fatal("expected a worker pool after a parallel run")
	}
	p := s.pool
	s.Release()
	if p.IsRunning() {
		t.Error("pool still running after Release")
	}
	if s.pool != nil {
		t.Error("pool not cleared by Release")
	}
}

func TestIsqrt(t *testing.T) {
	for _, n := range []int{0, 1, 2, 3, 4, 15, 16, 17, 99_999_999, 100_000_000} {
		r := isqrt(n)
		if r*r > n || (r+1)*(r+1) <= n {
			t.Errorf("isqrt(%d) = %d", n, r)
		}
	}
}

func TestSummary(t *testing.T) {
	tests := []struct {
		r    Result
		want string
	}{
		{Result{Bound: 2, Count: 1}, "Found 1 prime up to 2"},
		{Result{Bound: 100, Count: 25}, "Found 25 primes up to 100"},
		{Result{Bound: 100_000_000, Count: 5_761_455}, "Found 5,761,455 primes up to 100,000,000"},
	}
	for _, tt := range tests {
		if got := Summary(tt.r); got != tt.want {
			t.Errorf("Summary(%+v) = %q, want %q", tt.r, got, tt.want)
		}
	}
}

func BenchmarkCount1e6(b *testing.B) {
	s := New(0)
	for i := 0; i < b.N; i++ {
		_, _ = s.Count(1_000_000)
	}
}

func BenchmarkCount1e6Parallel(b *testing.B) {
	s := &Sieve{Workers: 4}
	defer s.Release()
	for i := 0; i < b.N; i++ {
		_, _ = s.Count(1_000_000)
	}
}

func BenchmarkCount1e8(b *testing.B) {
	if testing.Short() {
		b.Skip("large sieve")
	}
	s := New(0)
	for i := 0; i < b.N; i++ {
		_, _ = s.Count(100_000_000)
	}
}
