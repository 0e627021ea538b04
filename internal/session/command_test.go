package session

import "testing"

func TestParseCommand(t *testing.T) {
	tests := []struct {
		in      string
		want    Command
		wantErr bool
	}{
		{"start", CommandStart, false},
		{"PAUSE", CommandPause, false},
		{" resume\n", CommandResume, false},
		{"toggle", CommandToggle, false},
		{"stop", CommandStop, false},
		{"record", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCommand(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCommand(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseCommand(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestCommandString(t *testing.T) {
	for _, cmd := range []Command{CommandStart, CommandPause, CommandResume, CommandToggle, CommandStop} {
		parsed, err := ParseCommand(cmd.String())
		if err != nil || parsed != cmd {
			t.Errorf("%s did not parse back: %v %v", cmd, parsed, err)
		}
	}
	if got := Command(42).String(); got != "command(42)" {
		t.Errorf("unexpected name for unknown command %q", got)
	}
}
