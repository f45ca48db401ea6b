package domain

import (
	"fmt"
	"time"
)

// Session is the controller's configuration and activity flags.
type Session struct {
	Active           bool
	UseExternalClock bool
	AutoStartEnabled bool
}

// Authoritative picks the elapsed value the session records.
func (s Session) Authoritative(wall, external time.Duration) time.Duration {
	if s.UseExternalClock {
		return external
	}
	return wall
}

type EntryKind int

const (
	EntryNotice EntryKind = iota
	EntryStarted
	EntryStopped
	EntryParked
	EntryCommandFailed
)

func (k EntryKind) String() string {
	switch k {
	case EntryStarted:
		return "started"
	case EntryStopped:
		return "stopped"
	case EntryParked:
		return "parked"
	case EntryCommandFailed:
		return "command_failed"
	default:
		return "notice"
	}
}

// LogEntry is one line of the session log. Zone and Elapsed are set for
// stop and parked entries only.
type LogEntry struct {
	At      time.Time
	Kind    EntryKind
	Message string
	Zone    int
	Elapsed time.Duration
}

// Trigger names what ended an interval.
type Trigger string

const (
	TriggerManual Trigger = "manual"
	TriggerParked Trigger = "parked"
)

func StartedEntry(at time.Time, acknowledged bool) LogEntry {
	msg := "timer started"
	if acknowledged {
		msg = "nav start acknowledged, timer started"
	}
	return LogEntry{At: at, Kind: EntryStarted, Message: msg}
}

func CommandFailedEntry(at time.Time, reason string) LogEntry {
	return LogEntry{At: at, Kind: EntryCommandFailed, Message: "commander start failed: " + reason}
}

func StoppedEntry(at time.Time, elapsed time.Duration) LogEntry {
	return LogEntry{
		At:      at,
		Kind:    EntryStopped,
		Message: fmt.Sprintf("manually stopped, elapsed=%.3fs", elapsed.Seconds()),
		Elapsed: elapsed,
	}
}

func ParkedEntry(at time.Time, zone int, elapsed time.Duration) LogEntry {
	return LogEntry{
		At:      at,
		Kind:    EntryParked,
		Message: fmt.Sprintf("parked at zone %d, elapsed=%.3fs", zone, elapsed.Seconds()),
		Zone:    zone,
		Elapsed: elapsed,
	}
}

func NoticeEntry(at time.Time, msg string) LogEntry {
	return LogEntry{At: at, Kind: EntryNotice, Message: msg}
}
