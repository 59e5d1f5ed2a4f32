package adventure

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	roomIDRe      = regexp.MustCompile(`R_[A-Z0-9_]+`)
	roomIDExactRe = regexp.MustCompile(`^R_[A-Z0-9_]+$`)
	todoIDRe      = regexp.MustCompile("^##\\s+\\d+\\)\\s+`([^`]+)`\\s*$")
)

// exitRef is one "dir -> R_TARGET" reference parsed from an exits bullet.
type exitRef struct {
	Src string
	Dir string
	Dst string
}

// LintResult carries the findings for one protoadventure file. Errors block;
// warnings are advisory.
type LintResult struct {
	Errors   []string
	Warnings []string
}

// ParseAdventureIDs extracts the ordered adventure ids from a todo document.
// Ids appear as numbered headings of the form "## 01) `q1-first-day`".
func ParseAdventureIDs(todoText string) []string {
	var ids []string
	for _, line := range strings.Split(todoText, "\n") {
		if m := todoIDRe.FindStringSubmatch(line); m != nil {
			ids = append(ids, m[1])
		}
	}
	return ids
}

// roomIDFromHeading scans a heading for an all-caps R_* token. Lowercase
// "r_" prose and partial matches are rejected.
func roomIDFromHeading(h string) string {
	for i := 0; i+2 <= len(h); i++ {
		if h[i:i+2] != "R_" {
			continue
		}
		j := i + 2
		for j < len(h) && isIDByte(h[j]) {
			j++
		}
		if j > i+2 && roomIDExactRe.MatchString(h[i:j]) {
			return h[i:j]
		}
	}
	return ""
}

func isIDByte(c byte) bool {
	return c == '_' || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
}

// parseExitTokens parses "east -> `R_FOO`, west -> R_BAR" style fragments.
func parseExitTokens(rest string) [][2]string {
	var out [][2]string
	for _, part := range strings.Split(rest, ",") {
		p := strings.TrimSpace(part)
		if p == "" {
			continue
		}
		lhs, rhs, found := strings.Cut(p, "->")
		if !found {
			continue
		}
		dst := roomIDRe.FindString(rhs)
		if dst == "" {
			continue
		}
		out = append(out, [2]string{strings.TrimSpace(lhs), dst})
	}
	return out
}

// Lint checks one protoadventure document: every "### R_*" heading declares a
// room, exits bullets under a room must point at declared rooms, and every
// room should be reachable from the first one. Room headings may be separated
// by other subheadings without ending the current room.
func Lint(name, text string) LintResult {
	var res LintResult

	rooms := make(map[string]int)
	var roomOrder []string
	roomHasExits := make(map[string]bool)
	var exits []exitRef

	curRoom := ""
	inExitsBlock := false

	for idx, raw := range strings.Split(text, "\n") {
		line := strings.TrimRight(raw, "\r\n")
		lineNo := idx + 1

		if strings.HasPrefix(line, "### ") {
			rid := roomIDFromHeading(line[4:])
			inExitsBlock = false
			if rid == "" {
				continue
			}
			curRoom = rid
			if first, dup := rooms[rid]; dup {
				res.Errors = append(res.Errors, fmt.Sprintf("%s: duplicate room id %s (first at line %d)", name, rid, first))
			} else {
				rooms[rid] = lineNo
				roomOrder = append(roomOrder, rid)
			}
			continue
		}

		if curRoom == "" {
			continue
		}

		t := strings.TrimSpace(line)
		if strings.HasPrefix(strings.ToLower(t), "- exits:") {
			_, rest, _ := strings.Cut(t, ":")
			toks := parseExitTokens(strings.TrimSpace(rest))
			for _, tok := range toks {
				exits = append(exits, exitRef{Src: curRoom, Dir: tok[0], Dst: tok[1]})
			}
			if len(toks) > 0 {
				roomHasExits[curRoom] = true
			}
			inExitsBlock = true
			continue
		}

		if inExitsBlock {
			// Multi-line form: an indented "- north -> R_FOO" bullet list.
			if strings.HasPrefix(t, "- ") {
				toks := parseExitTokens(strings.TrimSpace(t[2:]))
				if len(toks) > 0 {
					for _, tok := range toks {
						exits = append(exits, exitRef{Src: curRoom, Dir: tok[0], Dst: tok[1]})
					}
					roomHasExits[curRoom] = true
					continue
				}
				inExitsBlock = false
			} else if strings.HasPrefix(t, "-") {
				inExitsBlock = false
			}
		}
	}

	if len(roomOrder) == 0 {
		res.Errors = append(res.Errors, fmt.Sprintf("%s: no room headings found (need '### R_*' headings)", name))
		return res
	}

	for _, ex := range exits {
		if _, known := rooms[ex.Dst]; !known {
			res.Errors = append(res.Errors, fmt.Sprintf("%s:%d: %s exit %q -> %s (unknown)", name, rooms[ex.Src], ex.Src, ex.Dir, ex.Dst))
		}
	}

	adj := make(map[string][]string, len(roomOrder))
	for _, ex := range exits {
		if _, known := rooms[ex.Dst]; known {
			adj[ex.Src] = append(adj[ex.Src], ex.Dst)
		}
	}

	start := roomOrder[0]
	seen := map[string]bool{}
	stack := []string{start}
	for len(stack) > 0 {
		rid := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[rid] {
			continue
		}
		seen[rid] = true
		stack = append(stack, adj[rid]...)
	}

	var unreachable []string
	for _, rid := range roomOrder {
		if !seen[rid] {
			unreachable = append(unreachable, rid)
		}
	}
	if len(unreachable) > 0 {
		res.Warnings = append(res.Warnings, fmt.Sprintf("%s: unreachable rooms from %s: %s", name, start, shortList(unreachable)))
	}

	var noExits []string
	for _, rid := range roomOrder {
		if !roomHasExits[rid] {
			noExits = append(noExits, rid)
		}
	}
	if len(noExits) > 0 {
		// Often fine for a terminal room.
		res.Warnings = append(res.Warnings, fmt.Sprintf("%s: rooms without exits: %s", name, shortList(noExits)))
	}

	return res
}

func shortList(ids []string) string {
	if len(ids) <= 8 {
		return strings.Join(ids, ", ")
	}
	return strings.Join(ids[:8], ", ") + " ..."
}

// LintAll lints the protoadventures named by the todo document, in todo
// order. A missing file is an error against that file's path.
func LintAll(todoPath, protoDir string) (LintResult, int, error) {
	todoText, err := os.ReadFile(todoPath)
	if err != nil {
		return LintResult{}, 0, fmt.Errorf("reading todo doc: %w", err)
	}
	ids := ParseAdventureIDs(string(todoText))
	if len(ids) == 0 {
		return LintResult{}, 0, fmt.Errorf("no adventure ids found in %s", todoPath)
	}

	var all LintResult
	for _, id := range ids {
		path := filepath.Join(protoDir, id+".md")
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				all.Errors = append(all.Errors, fmt.Sprintf("%s: missing protoadventure file", path))
				continue
			}
			return all, len(ids), err
		}
		res := Lint(path, string(data))
		all.Errors = append(all.Errors, res.Errors...)
		all.Warnings = append(all.Warnings, res.Warnings...)
	}
	return all, len(ids), nil
}
