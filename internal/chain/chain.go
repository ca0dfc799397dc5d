// Package chain merges scored candidate-correction pairs into chains
// headed by a canonical word. A variant is recorded under its
// candidate's head when the candidate already has one, otherwise under
// the candidate itself. Chains are not flattened afterwards: a variant
// registered before its candidate joined another chain stays recorded
// under that candidate.
package chain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"anacorrect/internal/textnorm"
	"anacorrect/pkg/levenshtein"
)

// ErrInvariant marks a logic error: a variant word was recorded as
// having a head, but that head has no table entry for it, or vice
// versa. This should be unreachable for well-formed input and signals a
// bug in the chain-building logic itself, not a bad input line.
var ErrInvariant = fmt.Errorf("chain: invariant violated")

// Chainer accumulates word/candidate pairs and resolves them into head
// chains.
type Chainer struct {
	caseless bool
	heads    map[string]string
	table    map[string]map[string]bool
	varFreq  map[string]uint64
	calc     *levenshtein.Calculator
}

// New builds an empty Chainer. When caseless is true, the edit distance
// reported in Output folds case before comparing.
func New(caseless bool) *Chainer {
	return &Chainer{
		caseless: caseless,
		heads:    make(map[string]string),
		table:    make(map[string]map[string]bool),
		varFreq:  make(map[string]uint64),
		calc:     levenshtein.NewCalculator(levenshtein.WithCache(1 << 16)),
	}
}

// Fill consumes one `word#freq#candidate#freq#ld#class` line, folding
// word into the chain headed by candidate (or by candidate's own head,
// if it already has one). It reports ok=false for a line that doesn't
// split into exactly 6 '#'-delimited fields or whose frequencies aren't
// valid integers; such a line is skipped by the caller, not fatal.
func (c *Chainer) Fill(line string) (ok bool, err error) {
	parts := strings.Split(line, "#")
	if len(parts) != 6 {
		return false, nil
	}
	aWord := parts[0]
	freq1, err1 := strconv.ParseUint(parts[1], 10, 64)
	if err1 != nil {
		return false, nil
	}
	candidate := parts[2]
	freq2, err2 := strconv.ParseUint(parts[3], 10, 64)
	if err2 != nil {
		return false, nil
	}
	c.varFreq[aWord] = freq1
	c.varFreq[candidate] = freq2

	head := c.heads[aWord]
	if head == "" {
		head2 := c.heads[candidate]
		if head2 == "" {
			c.heads[aWord] = candidate
			c.addMember(candidate, aWord)
		} else {
			c.heads[aWord] = head2
			c.addMember(head2, aWord)
		}
		return true, nil
	}

	members, ok := c.table[head]
	if !ok {
		return false, fmt.Errorf("%w: %s has a heads entry but no table entry", ErrInvariant, head)
	}
	if !members[aWord] {
		return false, fmt.Errorf("%w: %s has a heads entry, but its own head has no table entry for it", ErrInvariant, aWord)
	}
	return true, nil
}

func (c *Chainer) addMember(head, member string) {
	if c.table[head] == nil {
		c.table[head] = make(map[string]bool)
	}
	c.table[head][member] = true
}

func (c *Chainer) ld(head, member string) int {
	if c.caseless {
		return levenshtein.DistanceString(textnorm.Lower(head), textnorm.Lower(member))
	}
	return c.calc.Distance(head, member)
}

// record is one resolved (member, head) pair pending output ordering.
type record struct {
	member     string
	memberFreq uint64
	head       string
	headFreq   uint64
	ld         int
}

// sortedHeads and sortedMembers give the deterministic ascending
// iteration order a chain is built and emitted in, standing in for
// map/set's own ascending ordering.
func (c *Chainer) sortedHeads() []string {
	heads := make([]string, 0, len(c.table))
	for h := range c.table {
		heads = append(heads, h)
	}
	sort.Strings(heads)
	return heads
}

func (c *Chainer) records() []record {
	var out []record
	for _, h := range c.sortedHeads() {
		members := make([]string, 0, len(c.table[h]))
		for m := range c.table[h] {
			members = append(members, m)
		}
		sort.Strings(members)
		for _, m := range members {
			out = append(out, record{
				member:     m,
				memberFreq: c.varFreq[m],
				head:       h,
				headFreq:   c.varFreq[h],
				ld:         c.ld(h, m),
			})
		}
	}
	return out
}

// Output returns one `member#freq#head#freq#ld#C` line per chained
// variant, ordered by descending head frequency. Heads that tie on
// frequency keep the ascending-head/ascending-member order records were
// built in, the same stability a sorted multimap with equal keys
// provides.
func (c *Chainer) Output() []string {
	recs := c.records()
	sort.SliceStable(recs, func(i, j int) bool { return recs[i].headFreq > recs[j].headFreq })
	lines := make([]string, len(recs))
	for i, r := range recs {
		lines[i] = fmt.Sprintf("%s#%d#%s#%d#%d#C", r.member, r.memberFreq, r.head, r.headFreq, r.ld)
	}
	return lines
}

// DebugInfo returns one `freq head members...` line per head, in
// ascending head order, for the --debug dump.
func (c *Chainer) DebugInfo() []string {
	var lines []string
	for _, h := range c.sortedHeads() {
		members := make([]string, 0, len(c.table[h]))
		for m := range c.table[h] {
			members = append(members, m)
		}
		sort.Strings(members)
		lines = append(lines, fmt.Sprintf("%d %s %s", c.varFreq[h], h, strings.Join(members, " ")))
	}
	return lines
}
