// Package alpha imports Alpha Progression CSV exports as workout sessions.
package alpha

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/claude/gymbuddy/internal/workout"
)

// Session is one workout of an export.
type Session struct {
	Name      string
	Date      time.Time
	Duration  string
	Exercises []Exercise
}

// Exercise is one exercise of an exported session. Sets holds warm-ups
// first, then working sets, in file order.
type Exercise struct {
	Number     int
	Name       string
	Equipment  string
	TargetReps int
	Sets       []Set
}

// Set is a working or warm-up set. BodyweightPlus marks "+N" loads, where
// Weight is the extra load on top of bodyweight.
type Set struct {
	Number         int
	Weight         workout.Weight
	BodyweightPlus bool
	Reps           int
	RIR            string
	Warmup         bool
}

var (
	// "Session Name";"2026-02-19 4:54 h";"1:02 hr"
	sessionHeaderRe = regexp.MustCompile(`^"(.+)";"(\d{4}-\d{2}-\d{2}\s+\d+:\d+)\s+h";"(.+)"$`)

	// "1. Exercise Name · Equipment · 8 reps[· modifiers]"[;"warm-up info"]
	exerciseHeaderRe = regexp.MustCompile(`^"(\d+)\.\s+(.+?)(?:\s+·\s+(\S.*?))?\s+·\s+(\d+)\s+reps(.*?)"(?:;"(.+)")?$`)

	// 1;115;8;1
	setDataRe = regexp.MustCompile(`^(\d+);(.+);(\d+);(.+)$`)

	// WU1 · 37,5 kg · 9 reps
	warmupRe = regexp.MustCompile(`WU(\d+)\s+·\s+(.+?)\s+kg\s+·\s+(\d+)\s+reps`)

	columnHeaderRe = regexp.MustCompile(`^#;KG;REPS;RIR$`)
)

type parser struct {
	sessions []Session
	session  *Session
	exercise *Exercise
}

func (p *parser) closeExercise() {
	if p.exercise != nil {
		p.session.Exercises = append(p.session.Exercises, *p.exercise)
		p.exercise = nil
	}
}

func (p *parser) closeSession() {
	if p.session != nil {
		p.closeExercise()
		p.sessions = append(p.sessions, *p.session)
		p.session = nil
	}
}

// Parse reads an Alpha Progression CSV export. Sessions are returned in file
// order, which is newest first in exports. Unknown lines are ignored.
func Parse(r io.Reader) ([]Session, error) {
	scanner := bufio.NewScanner(r)
	var p parser

	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "":
			p.closeSession()

		case columnHeaderRe.MatchString(line):
			// column header

		case sessionHeaderRe.MatchString(line):
			m := sessionHeaderRe.FindStringSubmatch(line)
			p.closeSession()
			date, err := parseSessionDate(m[2])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			p.session = &Session{Name: m[1], Date: date, Duration: m[3]}

		case exerciseHeaderRe.MatchString(line):
			m := exerciseHeaderRe.FindStringSubmatch(line)
			if p.session == nil {
				return nil, fmt.Errorf("line %d: exercise without session: %q", lineNo, line)
			}
			p.closeExercise()
			num, _ := strconv.Atoi(m[1])
			targetReps, _ := strconv.Atoi(m[4])
			p.exercise = &Exercise{
				Number:     num,
				Name:       strings.TrimSpace(m[2]),
				Equipment:  strings.TrimSpace(m[3]),
				TargetReps: targetReps,
			}
			if m[6] != "" {
				warmups, err := parseWarmups(m[6])
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNo, err)
				}
				p.exercise.Sets = append(p.exercise.Sets, warmups...)
			}

		case setDataRe.MatchString(line):
			m := setDataRe.FindStringSubmatch(line)
			if p.exercise == nil {
				return nil, fmt.Errorf("line %d: set data without exercise: %q", lineNo, line)
			}
			num, _ := strconv.Atoi(m[1])
			w, bw, err := parseWeight(m[2])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			reps, _ := strconv.Atoi(m[3])
			p.exercise.Sets = append(p.exercise.Sets, Set{
				Number:         num,
				Weight:         w,
				BodyweightPlus: bw,
				Reps:           reps,
				RIR:            europeanDecimal(m[4]),
			})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	p.closeSession()
	return p.sessions, nil
}

// parseSessionDate parses "2026-02-19 4:54" and "2026-02-19 16:54".
func parseSessionDate(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02 3:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse date %q", s)
}

// parseWarmups extracts warm-up sets from the exercise header's second field,
// e.g. "WU1 · 37,5 kg · 9 reps<br>WU2 · 72,5 kg · 7 reps".
func parseWarmups(s string) ([]Set, error) {
	var sets []Set
	for _, part := range strings.Split(s, "<br>") {
		m := warmupRe.FindStringSubmatch(part)
		if m == nil {
			continue
		}
		num, _ := strconv.Atoi(m[1])
		w, bw, err := parseWeight(m[2])
		if err != nil {
			return nil, fmt.Errorf("warm-up %d: %w", num, err)
		}
		reps, _ := strconv.Atoi(m[3])
		sets = append(sets, Set{
			Number:         num,
			Weight:         w,
			BodyweightPlus: bw,
			Reps:           reps,
			Warmup:         true,
		})
	}
	return sets, nil
}

// parseWeight handles European decimals and bodyweight-plus notation:
// "+35" is (35, true), "102,5" is (102.5, false), "+0" is (0, true).
func parseWeight(s string) (workout.Weight, bool, error) {
	s = strings.TrimSpace(s)
	bw := strings.HasPrefix(s, "+")
	w, err := workout.ParseWeight(europeanDecimal(strings.TrimPrefix(s, "+")))
	if err != nil {
		return 0, false, err
	}
	return w, bw, nil
}

// europeanDecimal rewrites "102,5" as "102.5".
func europeanDecimal(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
}
