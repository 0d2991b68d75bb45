package model

// Package model defines domain data structures shared by the resolver, the
// orchestrator and both front-ends: stream descriptors, download requests,
// engine options, progress events and the finished file result.
