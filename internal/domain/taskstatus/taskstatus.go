// internal/domain/taskstatus/taskstatus.go
//
// Package taskstatus defines the closed set of task statuses, the triggers
// that move a task between them, and the transition table that decides
// which moves are legal.
package taskstatus

import "strings"

// Status is the completion state of a single member's task.
type Status string

const (
	NotSubmitted   Status = "not_submitted"
	WorkingOnIt    Status = "working_on_it"
	NeedHelp       Status = "need_help"
	ReadyToMark    Status = "ready_to_mark"
	Discuss        Status = "discuss"
	Demonstrate    Status = "demonstrate"
	Complete       Status = "complete"
	FixAndResubmit Status = "fix_and_resubmit"
	DoNotResubmit  Status = "do_not_resubmit"
	Redo           Status = "redo"
	Fail           Status = "fail"
	TimeExceeded   Status = "time_exceeded"
)

// All lists every status in display order.
var All = []Status{
	NotSubmitted, WorkingOnIt, NeedHelp, ReadyToMark, Discuss, Demonstrate,
	Complete, FixAndResubmit, DoNotResubmit, Redo, Fail, TimeExceeded,
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	for _, v := range All {
		if v == s {
			return true
		}
	}
	return false
}

// Trigger names an event that moves a task to a new status.
type Trigger string

const (
	TriggerReadyToMark    Trigger = "ready_to_mark"
	TriggerNotReadyToMark Trigger = "not_ready_to_mark"
	TriggerWorkingOnIt    Trigger = "working_on_it"
	TriggerNeedHelp       Trigger = "need_help"
	TriggerDiscuss        Trigger = "discuss"
	TriggerDemonstrate    Trigger = "demonstrate"
	TriggerComplete       Trigger = "complete"
	TriggerFixAndResubmit Trigger = "fix_and_resubmit"
	TriggerDoNotResubmit  Trigger = "do_not_resubmit"
	TriggerRedo           Trigger = "redo"
	TriggerFail           Trigger = "fail"
	TriggerTimeExceeded   Trigger = "time_exceeded"
)

// TriggerSubmit is the trigger fired across a group when a group submission
// is recorded.
const TriggerSubmit = TriggerReadyToMark

// aliases maps the short names accepted from callers onto triggers.
var aliases = map[string]Trigger{
	"rtm": TriggerReadyToMark,
	"nrm": TriggerNotReadyToMark,
	"fix": TriggerFixAndResubmit,
	"dnr": TriggerDoNotResubmit,
	"d":   TriggerDiscuss,
}

// ParseTrigger resolves a trigger name or alias. Matching is case-insensitive.
func ParseTrigger(name string) (Trigger, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	if t, ok := aliases[key]; ok {
		return t, true
	}
	t := Trigger(key)
	if _, ok := table[t]; ok {
		return t, true
	}
	return "", false
}

// rule is one row of the transition table.
type rule struct {
	to          Status
	from        []Status
	student     bool // the task owner may fire it
	memberLocal bool // never fans out to groupmates
}

// Statuses a student can move out of on their own.
var open = []Status{NotSubmitted, WorkingOnIt, NeedHelp, FixAndResubmit, Redo}

// Open statuses plus a pending submission.
var unassessed = append([]Status{ReadyToMark}, open...)

// Statuses staff can assess from; assessed statuses stay re-assessable.
var assessable = []Status{
	ReadyToMark, Discuss, Demonstrate, Complete, FixAndResubmit,
	DoNotResubmit, Redo, Fail, TimeExceeded,
}

var table = map[Trigger]rule{
	TriggerReadyToMark:    {to: ReadyToMark, from: unassessed, student: true},
	TriggerNotReadyToMark: {to: WorkingOnIt, from: []Status{ReadyToMark}, student: true},
	TriggerWorkingOnIt:    {to: WorkingOnIt, from: unassessed, student: true, memberLocal: true},
	TriggerNeedHelp:       {to: NeedHelp, from: unassessed, student: true, memberLocal: true},
	TriggerDiscuss:        {to: Discuss, from: assessable},
	TriggerDemonstrate:    {to: Demonstrate, from: assessable},
	TriggerComplete:       {to: Complete, from: assessable},
	TriggerFixAndResubmit: {to: FixAndResubmit, from: assessable},
	TriggerDoNotResubmit:  {to: DoNotResubmit, from: assessable},
	TriggerRedo:           {to: Redo, from: assessable},
	TriggerFail:           {to: Fail, from: assessable},
	TriggerTimeExceeded:   {to: TimeExceeded, from: unassessed},
}

// Next returns the status reached by firing t on a task currently in from.
// ok is false when the table has no entry for the pair.
func Next(from Status, t Trigger) (to Status, ok bool) {
	r, found := table[t]
	if !found {
		return "", false
	}
	for _, s := range r.from {
		if s == from {
			return r.to, true
		}
	}
	return "", false
}

// StudentAllowed reports whether the task's own student may fire t.
// Staff may fire every trigger.
func (t Trigger) StudentAllowed() bool {
	return table[t].student
}

// GroupWide reports whether firing t on one member's group task also fires
// it on the matching tasks of the other current group members.
func (t Trigger) GroupWide() bool {
	r, ok := table[t]
	return ok && !r.memberLocal
}

// Valid reports whether t is a known trigger.
func (t Trigger) Valid() bool {
	_, ok := table[t]
	return ok
}
