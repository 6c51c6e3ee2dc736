package alpha

import (
	"strings"
	"testing"
	"time"
)

const sampleCSV = `
"Legs · Day 2 · Week 4 · Push-Pull-Legs";"2026-02-19 4:54 h";"1:02 hr"
"1. Hack Squats · Machine · 8 reps";"WU1 · 37,5 kg · 9 reps<br>WU2 · 72,5 kg · 7 reps"
#;KG;REPS;RIR
1;115;8;1
2;115;10;1
3;115;10;1
"2. Sumo Squats · Smith machine · 10 reps";"WU1 · 35 kg · 8 reps"
#;KG;REPS;RIR
1;70;8;1
2;70;12;1
"3. Hyperextensions on Roman Chair · Bodyweight · 10 reps";"WU1 · +0 kg · 8 reps"
#;KG;REPS;RIR
1;+35;10;0
2;+35;9;1
3;+35;10;0
"4. Reverse Lunges · Dumbbells · 10 reps"
#;KG;REPS;RIR
1;10;10;1
2;10;10;1
3;10;10;0
"5. Standing Calf Raises · Machine · 12 reps";"WU1 · 47,5 kg · 8 reps"
#;KG;REPS;RIR
1;157,5;11;1
2;157,5;11;0
3;157,5;10;0
"6. Hanging Leg Raises · Bodyweight · 12 reps · 2 dropsets"
#;KG;REPS;RIR
1;+0;12;1
2;+0;12;1
3;+0;12;0

"Push · Day 1 · Week 4 · Push-Pull-Legs";"2026-02-17 5:04 h";"1:12 hr"
"1. Bench Press · Barbell · 6 reps";"WU1 · 22,5 kg · 10 reps<br>WU2 · 47,5 kg · 8 reps<br>WU3 · 77,5 kg · 6 reps"
#;KG;REPS;RIR
1;102,5;6;0
2;102,5;6;0
3;100;6;0
`

// TestParseCompleteSessions verifies parsing a multi-session CSV with exercises and sets.
func TestParseCompleteSessions(t *testing.T) {
	sessions, err := Parse(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("sessions = %d, want 2", len(sessions))
	}

	// First session, all 6 exercises
	s1 := sessions[0]
	if s1.Name != "Legs · Day 2 · Week 4 · Push-Pull-Legs" {
		t.Errorf("s1.Name = %q", s1.Name)
	}
	if s1.Duration != "1:02 hr" {
		t.Errorf("s1.Duration = %q", s1.Duration)
	}
	if len(s1.Exercises) != 6 {
		t.Fatalf("s1 exercises = %d, want 6", len(s1.Exercises))
	}

	// Exercise 1: Hack Squats, 2 warm-ups then 3 working sets
	ex1 := s1.Exercises[0]
	if ex1.Name != "Hack Squats" {
		t.Errorf("ex1.Name = %q, want Hack Squats", ex1.Name)
	}
	if ex1.Equipment != "Machine" {
		t.Errorf("ex1.Equipment = %q, want Machine", ex1.Equipment)
	}
	if ex1.TargetReps != 8 {
		t.Errorf("ex1.TargetReps = %d, want 8", ex1.TargetReps)
	}
	if len(ex1.Sets) != 5 {
		t.Fatalf("ex1 sets = %d, want 5", len(ex1.Sets))
	}
	if !ex1.Sets[0].Warmup || ex1.Sets[0].Weight.String() != "37.50" || ex1.Sets[0].Reps != 9 {
		t.Errorf("ex1 first warm-up = %+v, want 37.50 x 9", ex1.Sets[0])
	}
	if ex1.Sets[2].Warmup || ex1.Sets[2].Weight.String() != "115.00" || ex1.Sets[2].RIR != "1" {
		t.Errorf("ex1 first working set = %+v, want 115.00 RIR 1", ex1.Sets[2])
	}

	// Exercise 2: multi-word equipment
	ex2 := s1.Exercises[1]
	if ex2.Name != "Sumo Squats" {
		t.Errorf("ex2.Name = %q, want Sumo Squats", ex2.Name)
	}
	if ex2.Equipment != "Smith machine" {
		t.Errorf("ex2.Equipment = %q, want Smith machine", ex2.Equipment)
	}
	if len(ex2.Sets) != 3 {
		t.Errorf("ex2 sets = %d, want 3", len(ex2.Sets))
	}

	// Exercise 3: multi-word name, bodyweight equipment
	ex3 := s1.Exercises[2]
	if ex3.Name != "Hyperextensions on Roman Chair" {
		t.Errorf("ex3.Name = %q, want Hyperextensions on Roman Chair", ex3.Name)
	}
	if ex3.Equipment != "Bodyweight" {
		t.Errorf("ex3.Equipment = %q, want Bodyweight", ex3.Equipment)
	}
	if got := ex3.Sets[1]; !got.BodyweightPlus || got.Weight.String() != "35.00" {
		t.Errorf("ex3 working set = %+v, want bodyweight +35", got)
	}

	// Exercise 4: no warm-ups
	ex4 := s1.Exercises[3]
	if ex4.Name != "Reverse Lunges" {
		t.Errorf("ex4.Name = %q, want Reverse Lunges", ex4.Name)
	}
	if ex4.Equipment != "Dumbbells" {
		t.Errorf("ex4.Equipment = %q, want Dumbbells", ex4.Equipment)
	}
	if len(ex4.Sets) != 3 {
		t.Errorf("ex4 sets = %d, want 3", len(ex4.Sets))
	}

	// Exercise 5: warm-up with a European decimal weight
	ex5 := s1.Exercises[4]
	if ex5.Name != "Standing Calf Raises" {
		t.Errorf("ex5.Name = %q, want Standing Calf Raises", ex5.Name)
	}
	if ex5.Equipment != "Machine" {
		t.Errorf("ex5.Equipment = %q, want Machine", ex5.Equipment)
	}
	if len(ex5.Sets) != 4 {
		t.Errorf("ex5 sets = %d, want 4", len(ex5.Sets))
	}

	// Exercise 6: trailing modifier "· 2 dropsets"
	ex6 := s1.Exercises[5]
	if ex6.Name != "Hanging Leg Raises" {
		t.Errorf("ex6.Name = %q, want Hanging Leg Raises", ex6.Name)
	}
	if ex6.Equipment != "Bodyweight" {
		t.Errorf("ex6.Equipment = %q, want Bodyweight", ex6.Equipment)
	}
	if ex6.TargetReps != 12 {
		t.Errorf("ex6.TargetReps = %d, want 12", ex6.TargetReps)
	}
	if len(ex6.Sets) != 3 {
		t.Errorf("ex6 sets = %d, want 3", len(ex6.Sets))
	}

	// Second session
	s2 := sessions[1]
	if s2.Name != "Push · Day 1 · Week 4 · Push-Pull-Legs" {
		t.Errorf("s2.Name = %q", s2.Name)
	}
	if want := time.Date(2026, 2, 17, 5, 4, 0, 0, time.UTC); !s2.Date.Equal(want) {
		t.Errorf("s2.Date = %v, want %v", s2.Date, want)
	}
	if got := s2.Exercises[0].Sets[5]; got.Weight.String() != "100.00" || got.RIR != "0" {
		t.Errorf("s2 last set = %+v, want 100.00 RIR 0", got)
	}
}

// TestParseWeight verifies European decimals and the +N bodyweight notation.
func TestParseWeight(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantBW bool
	}{
		{"102,5", "102.50", false},
		{"115", "115.00", false},
		{"+35", "35.00", true},
		{"+0", "0.00", true},
		{" 37,5 ", "37.50", false},
	}
	for _, tt := range tests {
		w, bw, err := parseWeight(tt.in)
		if err != nil {
			t.Errorf("parseWeight(%q) error: %v", tt.in, err)
			continue
		}
		if w.String() != tt.want || bw != tt.wantBW {
			t.Errorf("parseWeight(%q) = (%s, %v), want (%s, %v)", tt.in, w, bw, tt.want, tt.wantBW)
		}
	}
}

// TestParseWeightInvalid verifies that loads the set ledger cannot hold are
// rejected instead of silently rounded.
func TestParseWeightInvalid(t *testing.T) {
	for _, in := range []string{"12,345", "1000", "abc"} {
		if _, _, err := parseWeight(in); err == nil {
			t.Errorf("parseWeight(%q) succeeded, want error", in)
		}
	}
}

// TestFractionalRIR verifies that half-RIR values like "0,5" survive parsing.
func TestFractionalRIR(t *testing.T) {
	csv := "\"S\";\"2026-01-05 18:30 h\";\"0:45 hr\"\n" +
		"\"1. Row · Cable · 10 reps\"\n" +
		"#;KG;REPS;RIR\n" +
		"1;50;10;0,5\n"
	sessions, err := Parse(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if got := sessions[0].Exercises[0].Sets[0].RIR; got != "0.5" {
		t.Errorf("RIR = %q, want 0.5", got)
	}
}

// TestWarmupParsing verifies warm-up extraction from the exercise header's second field.
func TestWarmupParsing(t *testing.T) {
	sets, err := parseWarmups("WU1 · 37,5 kg · 9 reps<br>WU2 · 72,5 kg · 7 reps")
	if err != nil {
		t.Fatal(err)
	}
	if len(sets) != 2 {
		t.Fatalf("warmup sets = %d, want 2", len(sets))
	}
	if sets[0].Weight.String() != "37.50" {
		t.Errorf("wu1 weight = %s, want 37.50", sets[0].Weight)
	}
	if sets[0].Reps != 9 {
		t.Errorf("wu1 reps = %d, want 9", sets[0].Reps)
	}
	if !sets[0].Warmup {
		t.Error("wu1 should be warmup")
	}
	if sets[1].Weight.String() != "72.50" {
		t.Errorf("wu2 weight = %s, want 72.50", sets[1].Weight)
	}
}

// TestWarmupBodyweightPlus verifies warm-up sets with bodyweight-plus notation.
func TestWarmupBodyweightPlus(t *testing.T) {
	sets, err := parseWarmups("WU1 · +0 kg · 8 reps")
	if err != nil {
		t.Fatal(err)
	}
	if len(sets) != 1 {
		t.Fatalf("warmup sets = %d, want 1", len(sets))
	}
	if !sets[0].BodyweightPlus {
		t.Error("expected BodyweightPlus=true")
	}
	if sets[0].Weight != 0 {
		t.Errorf("weight = %s, want 0.00", sets[0].Weight)
	}
}

// TestEmptyInput verifies that empty input returns no sessions without error.
func TestEmptyInput(t *testing.T) {
	sessions, err := Parse(strings.NewReader(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sessions) != 0 {
		t.Errorf("sessions = %d, want 0", len(sessions))
	}
}

// TestSetWithoutExercise verifies that orphan set rows are reported with their line.
func TestSetWithoutExercise(t *testing.T) {
	csv := "\"S\";\"2026-01-05 18:30 h\";\"0:45 hr\"\n1;50;10;1\n"
	_, err := Parse(strings.NewReader(csv))
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Errorf("err = %v, want line 2 error", err)
	}
}
