// Package primegl is a small native engine with two capabilities:
// presenting solid-color frames through a GPU graphics context, and
// counting primes with a bit-packed Sieve of Eratosthenes.
//
// # Quick Start
//
//	l := primegl.Load(ctx, primegl.DefaultConfig())
//
//	// Poll l.State(), receive from l.Changes(), or block:
//	if _, err := l.Wait(ctx); err != nil {
//	    return err
//	}
//	e, err := l.Engine()
//	if err != nil {
//	    return err // primegl.ErrLoadFailure
//	}
//	defer e.Close()
//
//	if e.InitWebGL(primegl.DefaultSurfaceID) {
//	    _ = e.RenderFrame(0.39, 0.39, 1.0)
//	}
//	msg, err := e.ComputePrimes(1_000_000) // "Found 78,498 primes up to 1,000,000"
//
// # Lifecycle
//
// Loading is asynchronous and split from capability use. A Loader starts
// in "loading" and moves once to "ready" or "error"; neither reverts. Only
// a ready Loader hands out an Engine. To retry after an error, call Load
// again.
//
// # Concurrency
//
// An Engine serves one caller at a time and has no internal locking. The
// graphics context belongs to the Engine and must not be shared.
//
// # Graphics
//
// Graphics contexts are provided by package gfx. The wgpu backend uses
// gogpu/wgpu HAL devices; the software backend is the fallback. Build
// with -tags nogpu to leave out the GPU backend.
package primegl
