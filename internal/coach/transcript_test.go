package coach

import "testing"

func TestTranscript_ReplaceLast(t *testing.T) {
	var tr Transcript
	tr.ReplaceLast(Turn{Speaker: SpeakerCoach, Text: "first"})
	if tr.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", tr.Len())
	}
	tr.Append(Turn{Speaker: SpeakerCoach, Text: PlaceholderText})
	tr.ReplaceLast(Turn{Speaker: SpeakerCoach, Text: "reply"})

	turns := tr.Turns()
	if len(turns) != 2 || turns[1].Text != "reply" {
		t.Errorf("Turns() = %v", turns)
	}

	// Turns returns a copy.
	turns[0].Text = "mutated"
	if tr.Turns()[0].Text != "first" {
		t.Error("Turns() exposed internal storage")
	}
}

func TestFormatTranscript(t *testing.T) {
	turns := []Turn{
		{Speaker: SpeakerUser, Text: "Is this phishing?"},
		{Speaker: SpeakerCoach, Text: "Check the sender domain carefully before clicking"},
	}

	tests := []struct {
		name  string
		width int
		want  string
	}{
		{
			name:  "no wrap",
			width: 0,
			want:  "User: Is this phishing?\n\nCoach: Check the sender domain carefully before clicking",
		},
		{
			name:  "wrapped",
			width: 24,
			want:  "User: Is this phishing?\n\nCoach: Check the sender\ndomain carefully before\nclicking",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatTranscript(turns, tt.width)
			if got != tt.want {
				t.Errorf("FormatTranscript() =\n%q\nwant\n%q", got, tt.want)
			}
			if again := FormatTranscript(turns, tt.width); again != got {
				t.Error("second render differs from first")
			}
		})
	}

	if got := FormatTranscript(nil, 80); got != "" {
		t.Errorf("FormatTranscript(nil) = %q, want empty", got)
	}
}
