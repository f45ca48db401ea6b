package dto

import "time"

type SnapshotOutput struct {
	Active           bool
	UseExternalClock bool
	AutoStartEnabled bool
	WallElapsed      time.Duration
	ExternalElapsed  time.Duration
	ExternalSynced   bool
}

// Authoritative is the elapsed value of the clock selected for recording.
func (s SnapshotOutput) Authoritative() time.Duration {
	if s.UseExternalClock {
		return s.ExternalElapsed
	}
	return s.WallElapsed
}

type LogEntryOutput struct {
	At      time.Time
	Kind    string
	Message string
	Zone    int
	Elapsed time.Duration
}

type StopOutput struct {
	Stopped bool
	Elapsed time.Duration
}
