package taskstatus_test

import (
	"testing"

	"github.com/dalemusser/groupwork/internal/domain/taskstatus"
)

func TestNext(t *testing.T) {
	tests := []struct {
		name    string
		from    taskstatus.Status
		trigger taskstatus.Trigger
		want    taskstatus.Status
		wantOK  bool
	}{
		{"submit from not submitted", taskstatus.NotSubmitted, taskstatus.TriggerReadyToMark, taskstatus.ReadyToMark, true},
		{"resubmit while ready", taskstatus.ReadyToMark, taskstatus.TriggerReadyToMark, taskstatus.ReadyToMark, true},
		{"submit after fix", taskstatus.FixAndResubmit, taskstatus.TriggerReadyToMark, taskstatus.ReadyToMark, true},
		{"submit when complete", taskstatus.Complete, taskstatus.TriggerReadyToMark, "", false},
		{"withdraw submission", taskstatus.ReadyToMark, taskstatus.TriggerNotReadyToMark, taskstatus.WorkingOnIt, true},
		{"withdraw without submission", taskstatus.NotSubmitted, taskstatus.TriggerNotReadyToMark, "", false},
		{"start working", taskstatus.NotSubmitted, taskstatus.TriggerWorkingOnIt, taskstatus.WorkingOnIt, true},
		{"working after submit", taskstatus.ReadyToMark, taskstatus.TriggerWorkingOnIt, taskstatus.WorkingOnIt, true},
		{"help after submit", taskstatus.ReadyToMark, taskstatus.TriggerNeedHelp, taskstatus.NeedHelp, true},
		{"working after complete", taskstatus.Complete, taskstatus.TriggerWorkingOnIt, "", false},
		{"ask for help", taskstatus.WorkingOnIt, taskstatus.TriggerNeedHelp, taskstatus.NeedHelp, true},
		{"complete ready task", taskstatus.ReadyToMark, taskstatus.TriggerComplete, taskstatus.Complete, true},
		{"complete unsubmitted task", taskstatus.NotSubmitted, taskstatus.TriggerComplete, "", false},
		{"regrade completed task", taskstatus.Complete, taskstatus.TriggerFixAndResubmit, taskstatus.FixAndResubmit, true},
		{"discuss after demonstrate", taskstatus.Demonstrate, taskstatus.TriggerDiscuss, taskstatus.Discuss, true},
		{"time exceeded while working", taskstatus.WorkingOnIt, taskstatus.TriggerTimeExceeded, taskstatus.TimeExceeded, true},
		{"time exceeded after complete", taskstatus.Complete, taskstatus.TriggerTimeExceeded, "", false},
		{"unknown trigger", taskstatus.NotSubmitted, taskstatus.Trigger("bogus"), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := taskstatus.Next(tt.from, tt.trigger)
			if ok != tt.wantOK {
				t.Fatalf("Next(%q, %q) ok = %v, want %v", tt.from, tt.trigger, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("Next(%q, %q) = %q, want %q", tt.from, tt.trigger, got, tt.want)
			}
		})
	}
}

func TestParseTrigger(t *testing.T) {
	tests := []struct {
		in     string
		want   taskstatus.Trigger
		wantOK bool
	}{
		{"rtm", taskstatus.TriggerReadyToMark, true},
		{"RTM", taskstatus.TriggerReadyToMark, true},
		{" ready_to_mark ", taskstatus.TriggerReadyToMark, true},
		{"nrm", taskstatus.TriggerNotReadyToMark, true},
		{"fix", taskstatus.TriggerFixAndResubmit, true},
		{"dnr", taskstatus.TriggerDoNotResubmit, true},
		{"working_on_it", taskstatus.TriggerWorkingOnIt, true},
		{"complete", taskstatus.TriggerComplete, true},
		{"", "", false},
		{"marked", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := taskstatus.ParseTrigger(tt.in)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ParseTrigger(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestTrigger_GroupWide(t *testing.T) {
	local := map[taskstatus.Trigger]bool{
		taskstatus.TriggerWorkingOnIt: true,
		taskstatus.TriggerNeedHelp:    true,
	}
	all := []taskstatus.Trigger{
		taskstatus.TriggerReadyToMark, taskstatus.TriggerNotReadyToMark, taskstatus.TriggerWorkingOnIt,
		taskstatus.TriggerNeedHelp, taskstatus.TriggerDiscuss, taskstatus.TriggerDemonstrate,
		taskstatus.TriggerComplete, taskstatus.TriggerFixAndResubmit, taskstatus.TriggerDoNotResubmit,
		taskstatus.TriggerRedo, taskstatus.TriggerFail, taskstatus.TriggerTimeExceeded,
	}
	for _, tr := range all {
		if got, want := tr.GroupWide(), !local[tr]; got != want {
			t.Errorf("%q.GroupWide() = %v, want %v", tr, got, want)
		}
	}
	if taskstatus.Trigger("bogus").GroupWide() {
		t.Error("unknown trigger should not be group-wide")
	}
}

func TestTrigger_StudentAllowed(t *testing.T) {
	student := []taskstatus.Trigger{
		taskstatus.TriggerReadyToMark, taskstatus.TriggerNotReadyToMark,
		taskstatus.TriggerWorkingOnIt, taskstatus.TriggerNeedHelp,
	}
	for _, tr := range student {
		if !tr.StudentAllowed() {
			t.Errorf("%q should be allowed for students", tr)
		}
	}
	staff := []taskstatus.Trigger{
		taskstatus.TriggerComplete, taskstatus.TriggerDiscuss, taskstatus.TriggerFail,
		taskstatus.TriggerRedo, taskstatus.TriggerTimeExceeded,
	}
	for _, tr := range staff {
		if tr.StudentAllowed() {
			t.Errorf("%q should be staff only", tr)
		}
	}
}

func TestStatus_Valid(t *testing.T) {
	for _, s := range taskstatus.All {
		if !s.Valid() {
			t.Errorf("%q should be valid", s)
		}
	}
	if taskstatus.Status("marked").Valid() {
		t.Error("unknown status reported valid")
	}
}
