// Package processor ties the command line to the notebook walker. It builds
// the provider chain (cache, rate limiter, circuit breaker) from flags, runs
// single notebooks or batch files through it and writes each translated
// notebook atomically, leaving no output behind when a notebook fails.
package processor
